// Package config loads a wetwire-appsync project file.
//
// A project file describes one GraphQL API declaratively: its schema file,
// authorization modes, data sources, pipeline functions, resolvers and
// outputs. Build turns it into an appsync.Stack ready to synthesize.
//
//	stack:
//	  name: Demo
//	api:
//	  name: demo
//	  schemaFile: schema.graphql
//	dataSources:
//	  - id: Demos
//	    type: dynamodb
//	    tableName: demos
//	resolvers:
//	  - type: Query
//	    field: getDemos
//	    dataSource: Demos
//	    request: {builtin: dynamoDbScanTable}
//	    response: {builtin: dynamoDbResultList}
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the project file looked up in the working directory.
const DefaultFile = "wetwire-appsync.yaml"

// Project is the root of a project file.
type Project struct {
	Stack       StackConfig        `yaml:"stack"`
	API         APIConfig          `yaml:"api"`
	DataSources []DataSourceConfig `yaml:"dataSources,omitempty"`
	Functions   []FunctionConfig   `yaml:"functions,omitempty"`
	Resolvers   []ResolverConfig   `yaml:"resolvers,omitempty"`
	Outputs     []OutputConfig     `yaml:"outputs,omitempty"`

	// dir resolves relative paths in the file.
	dir string
}

// StackConfig names the synthesized stack.
type StackConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// APIConfig declares the GraphQL API, or imports an existing one when
// ImportID is set.
type APIConfig struct {
	ID          string        `yaml:"id,omitempty"`
	Name        string        `yaml:"name,omitempty"`
	SchemaFile  string        `yaml:"schemaFile,omitempty"`
	XrayEnabled bool          `yaml:"xrayEnabled,omitempty"`
	Auth        *AuthConfig   `yaml:"authorization,omitempty"`
	Log         *LogConfig    `yaml:"logConfig,omitempty"`
	Cache       *CacheConfig  `yaml:"cache,omitempty"`
	Domain      *DomainConfig `yaml:"domain,omitempty"`
	ImportID    string        `yaml:"importId,omitempty"`
	ImportArn   string        `yaml:"importArn,omitempty"`
}

// AuthConfig lists the authorization modes.
type AuthConfig struct {
	Default    *ModeConfig  `yaml:"default,omitempty"`
	Additional []ModeConfig `yaml:"additional,omitempty"`
}

// ModeConfig is one authorization mode. Type takes the AppSync names:
// API_KEY, AWS_IAM, AMAZON_COGNITO_USER_POOLS, OPENID_CONNECT, AWS_LAMBDA.
type ModeConfig struct {
	Type     string          `yaml:"type"`
	APIKey   *APIKeyConfig   `yaml:"apiKey,omitempty"`
	UserPool *UserPoolConfig `yaml:"userPool,omitempty"`
	OIDC     *OIDCConfig     `yaml:"oidc,omitempty"`
	Lambda   *LambdaConfig   `yaml:"lambda,omitempty"`
}

type APIKeyConfig struct {
	Name        string    `yaml:"name,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Expires     time.Time `yaml:"expires,omitempty"`
}

type UserPoolConfig struct {
	UserPoolID       string `yaml:"userPoolId"`
	Region           string `yaml:"region,omitempty"`
	AppIDClientRegex string `yaml:"appIdClientRegex,omitempty"`
	DefaultAction    string `yaml:"defaultAction,omitempty"`
}

type OIDCConfig struct {
	Provider             string `yaml:"provider"`
	ClientID             string `yaml:"clientId,omitempty"`
	TokenExpiryFromAuth  int64  `yaml:"tokenExpiryFromAuth,omitempty"`
	TokenExpiryFromIssue int64  `yaml:"tokenExpiryFromIssue,omitempty"`
}

type LambdaConfig struct {
	FunctionArn     string        `yaml:"functionArn"`
	ResultsCacheTTL time.Duration `yaml:"resultsCacheTtl,omitempty"`
	ValidationRegex string        `yaml:"validationRegex,omitempty"`
}

// LogConfig enables CloudWatch logging. RoleName uses an existing role
// instead of the generated one.
type LogConfig struct {
	FieldLogLevel         string `yaml:"fieldLogLevel,omitempty"`
	ExcludeVerboseContent bool   `yaml:"excludeVerboseContent,omitempty"`
	RoleName              string `yaml:"roleName,omitempty"`
}

type CacheConfig struct {
	Type                     string        `yaml:"type"`
	Behavior                 string        `yaml:"behavior"`
	TTL                      time.Duration `yaml:"ttl"`
	AtRestEncryptionEnabled  bool          `yaml:"atRestEncryption,omitempty"`
	TransitEncryptionEnabled bool          `yaml:"transitEncryption,omitempty"`
}

type DomainConfig struct {
	Name           string `yaml:"name"`
	CertificateArn string `yaml:"certificateArn"`
}

// DataSourceConfig declares one data source. Which fields apply depends on
// Type: none, dynamodb, lambda, http, rds, opensearch or elasticsearch.
type DataSourceConfig struct {
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	// ServiceRole names an existing role to use instead of a generated one.
	ServiceRole string `yaml:"serviceRole,omitempty"`

	TableName            string `yaml:"tableName,omitempty"`
	TableArn             string `yaml:"tableArn,omitempty"`
	ReadOnly             bool   `yaml:"readOnly,omitempty"`
	UseCallerCredentials bool   `yaml:"useCallerCredentials,omitempty"`

	FunctionArn string `yaml:"functionArn,omitempty"`

	Endpoint           string `yaml:"endpoint,omitempty"`
	SigningRegion      string `yaml:"signingRegion,omitempty"`
	SigningServiceName string `yaml:"signingServiceName,omitempty"`

	ClusterArn   string `yaml:"clusterArn,omitempty"`
	SecretArn    string `yaml:"secretArn,omitempty"`
	DatabaseName string `yaml:"databaseName,omitempty"`

	DomainArn      string `yaml:"domainArn,omitempty"`
	DomainEndpoint string `yaml:"domainEndpoint,omitempty"`
}

// FunctionConfig declares a pipeline function on a data source.
type FunctionConfig struct {
	Name         string          `yaml:"name"`
	DataSource   string          `yaml:"dataSource"`
	Description  string          `yaml:"description,omitempty"`
	Request      *TemplateConfig `yaml:"request,omitempty"`
	Response     *TemplateConfig `yaml:"response,omitempty"`
	MaxBatchSize int             `yaml:"maxBatchSize,omitempty"`
}

// ResolverConfig attaches a unit resolver (DataSource) or a pipeline
// resolver (Pipeline, by function name) to a field.
type ResolverConfig struct {
	Type         string          `yaml:"type"`
	Field        string          `yaml:"field"`
	DataSource   string          `yaml:"dataSource,omitempty"`
	Pipeline     []string        `yaml:"pipeline,omitempty"`
	Request      *TemplateConfig `yaml:"request,omitempty"`
	Response     *TemplateConfig `yaml:"response,omitempty"`
	Caching      *CachingConfig  `yaml:"caching,omitempty"`
	MaxBatchSize int             `yaml:"maxBatchSize,omitempty"`
}

type CachingConfig struct {
	TTL  time.Duration `yaml:"ttl"`
	Keys []string      `yaml:"keys,omitempty"`
}

// TemplateConfig selects a mapping template. Exactly one of Inline, File
// and Builtin is set. Key and Arg parameterize the item builtins.
type TemplateConfig struct {
	Inline         string `yaml:"inline,omitempty"`
	File           string `yaml:"file,omitempty"`
	Builtin        string `yaml:"builtin,omitempty"`
	Key            string `yaml:"key,omitempty"`
	Arg            string `yaml:"arg,omitempty"`
	Index          string `yaml:"index,omitempty"`
	ConsistentRead bool   `yaml:"consistentRead,omitempty"`
}

// OutputConfig exports an attribute of the API. Value is one of apiId,
// arn, graphqlUrl or apiKey.
type OutputConfig struct {
	Name        string `yaml:"name"`
	Value       string `yaml:"value"`
	Description string `yaml:"description,omitempty"`
}

// Load reads and decodes a project file. Unknown keys are errors.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	p, err := Parse(data, dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a project file whose relative paths resolve against dir.
func Parse(data []byte, dir string) (*Project, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Project
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("project file is empty")
		}
		return nil, err
	}
	p.dir = dir
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the cross references a YAML decoder cannot.
func (p *Project) Validate() error {
	var errs []error
	if p.Stack.Name == "" {
		errs = append(errs, errors.New("stack.name is required"))
	}
	if p.API.ImportID == "" && p.API.Name == "" {
		errs = append(errs, errors.New("api.name is required"))
	}

	dataSources := make(map[string]bool, len(p.DataSources))
	for i, ds := range p.DataSources {
		switch {
		case ds.ID == "":
			errs = append(errs, fmt.Errorf("dataSources[%d]: id is required", i))
		case dataSources[ds.ID]:
			errs = append(errs, fmt.Errorf("dataSources[%d]: duplicate id %q", i, ds.ID))
		}
		dataSources[ds.ID] = true
	}

	functions := make(map[string]bool, len(p.Functions))
	for i, fn := range p.Functions {
		if fn.Name == "" {
			errs = append(errs, fmt.Errorf("functions[%d]: name is required", i))
		}
		if !dataSources[fn.DataSource] {
			errs = append(errs, fmt.Errorf("functions[%d]: unknown data source %q", i, fn.DataSource))
		}
		functions[fn.Name] = true
	}

	for i, r := range p.Resolvers {
		if r.DataSource != "" && !dataSources[r.DataSource] {
			errs = append(errs, fmt.Errorf("resolvers[%d]: unknown data source %q", i, r.DataSource))
		}
		for _, name := range r.Pipeline {
			if !functions[name] {
				errs = append(errs, fmt.Errorf("resolvers[%d]: unknown function %q", i, name))
			}
		}
	}
	return errors.Join(errs...)
}

// Path resolves a path relative to the project file.
func (p *Project) Path(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.dir, rel)
}
