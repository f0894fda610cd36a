package appsync

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	wetwire "github.com/lex00/wetwire-appsync-go"
	cfn "github.com/lex00/wetwire-appsync-go/resources/appsync"
)

const functionVersion = "2018-05-29"

// IAppsyncFunction is a step of a pipeline resolver.
type IAppsyncFunction interface {
	FunctionID() any
	FunctionArn() any
}

// AppsyncFunctionProps configures a pipeline function.
type AppsyncFunctionProps struct {
	Name        string
	Description string

	RequestMappingTemplate  MappingTemplate
	ResponseMappingTemplate MappingTemplate
	MaxBatchSize            int
}

// AppsyncFunction is a reusable pipeline step backed by a data source.
type AppsyncFunction struct {
	logicalID  string
	name       string
	dataSource IDataSource
}

func newAppsyncFunction(api *GraphqlApiBase, ds *BaseDataSource, props AppsyncFunctionProps) (*AppsyncFunction, error) {
	if props.Name == "" {
		return nil, missingField("appsync function", "Name")
	}
	if !graphqlName.MatchString(props.Name) {
		return nil, fmt.Errorf("%w: function name %q must match %s", ErrInvalidResolver, props.Name, graphqlName)
	}
	if props.MaxBatchSize < 0 || props.MaxBatchSize > 2000 {
		return nil, fmt.Errorf("%w: max batch size must be between 0 and 2000, got %d", ErrInvalidResolver, props.MaxBatchSize)
	}
	lid, err := api.stack.allocateID(ds.logicalID, props.Name, "Function")
	if err != nil {
		return nil, err
	}
	fn := &AppsyncFunction{logicalID: lid, name: props.Name, dataSource: ds}

	api.stack.declare(lid, func() (wetwire.Resource, []string, error) {
		res := cfn.FunctionConfiguration{
			ApiId:                   api.apiID,
			Name:                    props.Name,
			DataSourceName:          ds.name,
			Description:             optional(props.Description),
			FunctionVersion:         functionVersion,
			RequestMappingTemplate:  renderTemplate(props.RequestMappingTemplate),
			ResponseMappingTemplate: renderTemplate(props.ResponseMappingTemplate),
		}
		if props.MaxBatchSize > 0 {
			res.MaxBatchSize = props.MaxBatchSize
		}
		deps := []string{ds.logicalID}
		if api.schemaID != "" {
			deps = append(deps, api.schemaID)
		}
		return res, deps, nil
	})
	api.stack.logger.Debug("created function",
		zap.String("logicalId", lid),
		zap.String("dataSource", ds.name))
	return fn, nil
}

func (f *AppsyncFunction) LogicalID() string { return f.logicalID }
func (f *AppsyncFunction) Name() string      { return f.name }

// DataSource is the data source the function runs against.
func (f *AppsyncFunction) DataSource() IDataSource { return f.dataSource }

// FunctionID references the function ID used in pipeline configurations.
func (f *AppsyncFunction) FunctionID() any {
	return wetwire.AttrRef{Resource: f.logicalID, Attribute: "FunctionId"}
}

// FunctionArn references the function ARN.
func (f *AppsyncFunction) FunctionArn() any {
	return wetwire.AttrRef{Resource: f.logicalID, Attribute: "FunctionArn"}
}

type importedFunction struct {
	arn string
	id  string
}

func (f importedFunction) FunctionID() any  { return f.id }
func (f importedFunction) FunctionArn() any { return f.arn }

// ImportAppsyncFunction references an existing function by ARN, of the form
// arn:aws:appsync:<region>:<account>:apis/<apiId>/functions/<functionId>.
func ImportAppsyncFunction(arn string) (IAppsyncFunction, error) {
	_, id, ok := strings.Cut(arn, "/functions/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("%w: %q is not an AppSync function ARN", ErrInvalidResolver, arn)
	}
	return importedFunction{arn: arn, id: id}, nil
}
