package appsync

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	wetwire "github.com/lex00/wetwire-appsync-go"
	cfn "github.com/lex00/wetwire-appsync-go/resources/appsync"
)

// ResolverKind is UNIT for a single data source and PIPELINE for a chain of
// functions.
type ResolverKind string

const (
	ResolverKindUnit     ResolverKind = "UNIT"
	ResolverKindPipeline ResolverKind = "PIPELINE"
)

var cachingKeyPrefixes = []string{"$context.arguments", "$context.source", "$context.identity"}

// CachingConfig enables per-resolver caching.
type CachingConfig struct {
	// TTL must be between 1 and 3600 seconds.
	TTL time.Duration
	// CachingKeys must start with $context.arguments, $context.source or
	// $context.identity.
	CachingKeys []string
}

func (c *CachingConfig) validate() error {
	if c.TTL < time.Second || c.TTL > time.Hour {
		return fmt.Errorf("%w: caching TTL must be between 1 and 3600 seconds, got %s", ErrInvalidResolver, c.TTL)
	}
	for _, key := range c.CachingKeys {
		if !hasAnyPrefix(key, cachingKeyPrefixes) {
			return fmt.Errorf("%w: caching key %q must start with one of %s", ErrInvalidResolver, key, strings.Join(cachingKeyPrefixes, ", "))
		}
	}
	return nil
}

// ResolverProps configures a resolver.
type ResolverProps struct {
	TypeName  string
	FieldName string

	// DataSource backs a unit resolver. Pipeline resolvers cannot have one.
	DataSource     IDataSource
	PipelineConfig []IAppsyncFunction

	RequestMappingTemplate  MappingTemplate
	ResponseMappingTemplate MappingTemplate
	CachingConfig           *CachingConfig
	// MaxBatchSize enables batch invocation of Lambda data sources (0-2000).
	MaxBatchSize int
}

// Resolver connects a field to a data source or a pipeline.
type Resolver struct {
	logicalID  string
	typeName   string
	fieldName  string
	kind       ResolverKind
	dataSource IDataSource
}

func newResolver(api *GraphqlApiBase, props ResolverProps) (*Resolver, error) {
	if props.TypeName == "" {
		return nil, missingField("resolver", "TypeName")
	}
	if props.FieldName == "" {
		return nil, missingField("resolver "+props.TypeName, "FieldName")
	}
	hasDataSource := !isNilDataSource(props.DataSource)
	if hasDataSource && len(props.PipelineConfig) > 0 {
		return nil, fmt.Errorf("%w: pipeline resolver %s.%s cannot have a data source", ErrInvalidResolver, props.TypeName, props.FieldName)
	}
	if hasDataSource && props.DataSource.base().api != api {
		return nil, fmt.Errorf("%w: data source %s belongs to another API", ErrInvalidResolver, props.DataSource.Name())
	}
	for i, fn := range props.PipelineConfig {
		if fn == nil {
			return nil, fmt.Errorf("%w: pipeline function %d of %s.%s is nil", ErrInvalidResolver, i, props.TypeName, props.FieldName)
		}
	}
	if props.CachingConfig != nil {
		if err := props.CachingConfig.validate(); err != nil {
			return nil, err
		}
	}
	if props.MaxBatchSize < 0 || props.MaxBatchSize > 2000 {
		return nil, fmt.Errorf("%w: max batch size must be between 0 and 2000, got %d", ErrInvalidResolver, props.MaxBatchSize)
	}

	r := &Resolver{
		logicalID: api.stack.uniqueID(api.logicalID, props.TypeName, props.FieldName, "Resolver"),
		typeName:  props.TypeName,
		fieldName: props.FieldName,
		kind:      ResolverKindUnit,
	}
	if len(props.PipelineConfig) > 0 {
		r.kind = ResolverKindPipeline
	}
	if hasDataSource {
		r.dataSource = props.DataSource
	}

	api.stack.declare(r.logicalID, func() (wetwire.Resource, []string, error) {
		res := cfn.Resolver{
			ApiId:                   api.apiID,
			TypeName:                r.typeName,
			FieldName:               r.fieldName,
			Kind:                    string(r.kind),
			RequestMappingTemplate:  renderTemplate(props.RequestMappingTemplate),
			ResponseMappingTemplate: renderTemplate(props.ResponseMappingTemplate),
		}
		var deps []string
		if api.schemaID != "" {
			deps = append(deps, api.schemaID)
		}
		if r.dataSource != nil {
			res.DataSourceName = r.dataSource.Name()
			deps = append(deps, r.dataSource.LogicalID())
		}
		if len(props.PipelineConfig) > 0 {
			functions := make([]any, len(props.PipelineConfig))
			for i, fn := range props.PipelineConfig {
				functions[i] = fn.FunctionID()
			}
			res.PipelineConfig = &cfn.Resolver_PipelineConfig{Functions: functions}
		}
		if c := props.CachingConfig; c != nil {
			res.CachingConfig = &cfn.Resolver_CachingConfig{Ttl: int64(c.TTL / time.Second)}
			for _, key := range c.CachingKeys {
				res.CachingConfig.CachingKeys = append(res.CachingConfig.CachingKeys, key)
			}
		}
		if props.MaxBatchSize > 0 {
			res.MaxBatchSize = props.MaxBatchSize
		}
		return res, deps, nil
	})
	api.stack.logger.Debug("created resolver",
		zap.String("logicalId", r.logicalID),
		zap.String("field", r.typeName+"."+r.fieldName),
		zap.String("kind", string(r.kind)))
	return r, nil
}

func (r *Resolver) LogicalID() string  { return r.logicalID }
func (r *Resolver) TypeName() string   { return r.typeName }
func (r *Resolver) FieldName() string  { return r.fieldName }
func (r *Resolver) Kind() ResolverKind { return r.kind }

// DataSource is nil for pipeline resolvers.
func (r *Resolver) DataSource() IDataSource { return r.dataSource }

// Arn references the resolver's ARN.
func (r *Resolver) Arn() wetwire.AttrRef {
	return wetwire.AttrRef{Resource: r.logicalID, Attribute: "ResolverArn"}
}

func renderTemplate(t MappingTemplate) any {
	if t == nil {
		return nil
	}
	return optional(t.RenderTemplate())
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
