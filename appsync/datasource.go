package appsync

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	wetwire "github.com/lex00/wetwire-appsync-go"
	"github.com/lex00/wetwire-appsync-go/intrinsics"
	cfn "github.com/lex00/wetwire-appsync-go/resources/appsync"
)

// DataSourceType is the backend kind of a data source.
type DataSourceType string

const (
	DataSourceTypeNone          DataSourceType = "NONE"
	DataSourceTypeDynamoDB      DataSourceType = "AMAZON_DYNAMODB"
	DataSourceTypeLambda        DataSourceType = "AWS_LAMBDA"
	DataSourceTypeHTTP          DataSourceType = "HTTP"
	DataSourceTypeRelationalDB  DataSourceType = "RELATIONAL_DATABASE"
	DataSourceTypeOpenSearch    DataSourceType = "AMAZON_OPENSEARCH_SERVICE"
	DataSourceTypeElasticsearch DataSourceType = "AMAZON_ELASTICSEARCH"
)

var nonWord = regexp.MustCompile(`\W+`)

// IDataSource is a backend attached to one API.
type IDataSource interface {
	Name() string
	LogicalID() string
	Type() DataSourceType
	// ServiceRole is nil for NONE data sources.
	ServiceRole() *Role
	CreateResolver(props ResolverProps) (*Resolver, error)
	CreateFunction(props AppsyncFunctionProps) (*AppsyncFunction, error)

	base() *BaseDataSource
}

// DataSourceOptions are the options shared by every data source.
type DataSourceOptions struct {
	// Name defaults to the construct id. Non-word characters are removed.
	Name        string
	Description string
}

// BackedDataSourceOptions are the options of data sources that AppSync
// reaches through a service role.
type BackedDataSourceOptions struct {
	DataSourceOptions
	// ServiceRole replaces the generated role.
	ServiceRole *Role
}

// BaseDataSource carries what every data source variant has in common.
type BaseDataSource struct {
	api         *GraphqlApiBase
	logicalID   string
	name        string
	description string
	typ         DataSourceType
	serviceRole *Role
}

func (d *BaseDataSource) Name() string          { return d.name }
func (d *BaseDataSource) LogicalID() string     { return d.logicalID }
func (d *BaseDataSource) Description() string   { return d.description }
func (d *BaseDataSource) Type() DataSourceType  { return d.typ }
func (d *BaseDataSource) ServiceRole() *Role    { return d.serviceRole }
func (d *BaseDataSource) base() *BaseDataSource { return d }

// CreateResolver attaches a unit resolver backed by this data source.
func (d *BaseDataSource) CreateResolver(props ResolverProps) (*Resolver, error) {
	props.DataSource = d
	return newResolver(d.api, props)
}

// CreateFunction declares a pipeline function backed by this data source.
func (d *BaseDataSource) CreateFunction(props AppsyncFunctionProps) (*AppsyncFunction, error) {
	return newAppsyncFunction(d.api, d, props)
}

func (d *BaseDataSource) grant(actions []string, resources ...any) *Grant {
	return addToPrincipal(d.api.stack.logger, d.serviceRole, actions, resources)
}

func isNilDataSource(ds IDataSource) bool {
	switch v := ds.(type) {
	case nil:
		return true
	case *BaseDataSource:
		return v == nil
	case *NoneDataSource:
		return v == nil || v.BaseDataSource == nil
	case *DynamoDbDataSource:
		return v == nil || v.BaseDataSource == nil
	case *LambdaDataSource:
		return v == nil || v.BaseDataSource == nil
	case *HttpDataSource:
		return v == nil || v.BaseDataSource == nil
	case *RdsDataSource:
		return v == nil || v.BaseDataSource == nil
	case *OpenSearchDataSource:
		return v == nil || v.BaseDataSource == nil
	case *ElasticsearchDataSource:
		return v == nil || v.BaseDataSource == nil
	}
	return false
}

// addDataSource registers a data source and declares its resource.
// Backed data sources get a service role unless role is set.
func (b *GraphqlApiBase) addDataSource(id string, typ DataSourceType, opts DataSourceOptions, backed bool, role *Role, configure func(*cfn.DataSource)) (*BaseDataSource, error) {
	name := opts.Name
	if name == "" {
		name = id
	}
	name = nonWord.ReplaceAllString(name, "")
	if name == "" {
		return nil, fmt.Errorf("data source %q: %w: name", id, ErrMissingRequiredField)
	}
	if b.dataSourceNames[name] {
		return nil, fmt.Errorf("%w: data source name %s", ErrDuplicateID, name)
	}
	lid, err := b.stack.allocateID(b.logicalID, id)
	if err != nil {
		return nil, err
	}
	b.dataSourceNames[name] = true

	ds := &BaseDataSource{
		api:         b,
		logicalID:   lid,
		name:        name,
		description: opts.Description,
		typ:         typ,
	}
	if backed {
		ds.serviceRole = role
		if ds.serviceRole == nil {
			ds.serviceRole = newRole(b.stack, b.stack.uniqueID(lid, "ServiceRole"), RoleProps{AssumedBy: appsyncServicePrincipal})
		}
	}

	b.stack.declare(lid, func() (wetwire.Resource, []string, error) {
		res := cfn.DataSource{
			ApiId:       b.apiID,
			Name:        ds.name,
			Type:        string(ds.typ),
			Description: optional(ds.description),
		}
		if ds.serviceRole != nil {
			res.ServiceRoleArn = ds.serviceRole.Arn()
		}
		if configure != nil {
			configure(&res)
		}
		return res, nil, nil
	})
	b.stack.logger.Debug("added data source",
		zap.String("logicalId", lid),
		zap.String("name", name),
		zap.String("type", string(typ)))
	return ds, nil
}

// NoneDataSource resolves locally without a backend.
type NoneDataSource struct {
	*BaseDataSource
}

// AddNoneDataSource adds a data source that invokes nothing.
func (b *GraphqlApiBase) AddNoneDataSource(id string, opts DataSourceOptions) (*NoneDataSource, error) {
	ds, err := b.addDataSource(id, DataSourceTypeNone, opts, false, nil, nil)
	if err != nil {
		return nil, err
	}
	return &NoneDataSource{BaseDataSource: ds}, nil
}

// DynamoDbDataSourceOptions configures AddDynamoDbDataSource.
type DynamoDbDataSourceOptions struct {
	BackedDataSourceOptions
	// ReadOnlyAccess grants only read actions on the table.
	ReadOnlyAccess bool
	// UseCallerCredentials signs requests with the caller's IAM credentials.
	UseCallerCredentials bool
}

var (
	dynamoReadActions = []string{
		"dynamodb:BatchGetItem",
		"dynamodb:GetRecords",
		"dynamodb:GetShardIterator",
		"dynamodb:Query",
		"dynamodb:GetItem",
		"dynamodb:Scan",
		"dynamodb:ConditionCheckItem",
		"dynamodb:DescribeTable",
	}
	dynamoWriteActions = []string{
		"dynamodb:BatchWriteItem",
		"dynamodb:PutItem",
		"dynamodb:UpdateItem",
		"dynamodb:DeleteItem",
	}
)

// DynamoDbDataSource reads and writes a DynamoDB table.
type DynamoDbDataSource struct {
	*BaseDataSource
	Table Table
}

// AddDynamoDbDataSource adds a table-backed data source. The service role may
// read the table and its indexes, and write unless ReadOnlyAccess is set.
func (b *GraphqlApiBase) AddDynamoDbDataSource(id string, table Table, opts DynamoDbDataSourceOptions) (*DynamoDbDataSource, error) {
	if table.TableName == nil {
		return nil, missingField("dynamodb data source "+id, "TableName")
	}
	if table.TableArn == nil {
		return nil, missingField("dynamodb data source "+id, "TableArn")
	}
	ds, err := b.addDataSource(id, DataSourceTypeDynamoDB, opts.DataSourceOptions, true, opts.ServiceRole, func(res *cfn.DataSource) {
		res.DynamoDBConfig = &cfn.DataSource_DynamoDBConfig{
			AwsRegion:            intrinsics.AWS_REGION,
			TableName:            table.TableName,
			UseCallerCredentials: optionalBool(opts.UseCallerCredentials),
		}
	})
	if err != nil {
		return nil, err
	}
	actions := dynamoReadActions
	if !opts.ReadOnlyAccess {
		actions = append(append([]string(nil), dynamoReadActions...), dynamoWriteActions...)
	}
	ds.grant(actions, table.TableArn, joinSuffix(table.TableArn, "/index/*"))
	return &DynamoDbDataSource{BaseDataSource: ds, Table: table}, nil
}

// LambdaDataSource invokes a Lambda function.
type LambdaDataSource struct {
	*BaseDataSource
	Function Function
}

// AddLambdaDataSource adds a function-backed data source whose role may
// invoke the function.
func (b *GraphqlApiBase) AddLambdaDataSource(id string, fn Function, opts BackedDataSourceOptions) (*LambdaDataSource, error) {
	if fn.FunctionArn == nil {
		return nil, missingField("lambda data source "+id, "FunctionArn")
	}
	ds, err := b.addDataSource(id, DataSourceTypeLambda, opts.DataSourceOptions, true, opts.ServiceRole, func(res *cfn.DataSource) {
		res.LambdaConfig = &cfn.DataSource_LambdaConfig{LambdaFunctionArn: fn.FunctionArn}
	})
	if err != nil {
		return nil, err
	}
	ds.grant([]string{"lambda:InvokeFunction"}, fn.FunctionArn, joinSuffix(fn.FunctionArn, ":*"))
	return &LambdaDataSource{BaseDataSource: ds, Function: fn}, nil
}

// AwsIamConfig signs HTTP data source requests with SigV4.
type AwsIamConfig struct {
	SigningRegion      string
	SigningServiceName string
}

// HttpDataSourceOptions configures AddHttpDataSource.
type HttpDataSourceOptions struct {
	BackedDataSourceOptions
	// AuthorizationConfig enables IAM request signing.
	AuthorizationConfig *AwsIamConfig
}

// HttpDataSource calls an HTTP endpoint.
type HttpDataSource struct {
	*BaseDataSource
	Endpoint string
}

// AddHttpDataSource adds an HTTP data source.
func (b *GraphqlApiBase) AddHttpDataSource(id, endpoint string, opts HttpDataSourceOptions) (*HttpDataSource, error) {
	if endpoint == "" {
		return nil, missingField("http data source "+id, "endpoint")
	}
	auth := opts.AuthorizationConfig
	if auth != nil && (auth.SigningRegion == "" || auth.SigningServiceName == "") {
		return nil, missingField("http data source "+id, "SigningRegion and SigningServiceName")
	}
	ds, err := b.addDataSource(id, DataSourceTypeHTTP, opts.DataSourceOptions, true, opts.ServiceRole, func(res *cfn.DataSource) {
		res.HttpConfig = &cfn.DataSource_HttpConfig{Endpoint: endpoint}
		if auth != nil {
			res.HttpConfig.AuthorizationConfig = &cfn.DataSource_AuthorizationConfig{
				AuthorizationType: "AWS_IAM",
				AwsIamConfig: &cfn.DataSource_AwsIamConfig{
					SigningRegion:      auth.SigningRegion,
					SigningServiceName: auth.SigningServiceName,
				},
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return &HttpDataSource{BaseDataSource: ds, Endpoint: endpoint}, nil
}

// RdsDataSourceOptions configures AddRdsDataSource.
type RdsDataSourceOptions struct {
	BackedDataSourceOptions
	DatabaseName string
}

// RdsDataSource runs SQL through the Aurora Data API.
type RdsDataSource struct {
	*BaseDataSource
	Cluster ServerlessCluster
	Secret  Secret
}

// AddRdsDataSource adds an Aurora Serverless data source. The role may read
// the credentials secret and call the Data API on the cluster.
func (b *GraphqlApiBase) AddRdsDataSource(id string, cluster ServerlessCluster, secret Secret, opts RdsDataSourceOptions) (*RdsDataSource, error) {
	if cluster.ClusterArn == nil {
		return nil, missingField("rds data source "+id, "ClusterArn")
	}
	if secret.SecretArn == nil {
		return nil, missingField("rds data source "+id, "SecretArn")
	}
	ds, err := b.addDataSource(id, DataSourceTypeRelationalDB, opts.DataSourceOptions, true, opts.ServiceRole, func(res *cfn.DataSource) {
		res.RelationalDatabaseConfig = &cfn.DataSource_RelationalDatabaseConfig{
			RelationalDatabaseSourceType: "RDS_HTTP_ENDPOINT",
			RdsHttpEndpointConfig: &cfn.DataSource_RdsHttpEndpointConfig{
				AwsRegion:           intrinsics.AWS_REGION,
				AwsSecretStoreArn:   secret.SecretArn,
				DatabaseName:        optional(opts.DatabaseName),
				DbClusterIdentifier: cluster.ClusterArn,
			},
		}
	})
	if err != nil {
		return nil, err
	}
	ds.grant([]string{"secretsmanager:GetSecretValue", "secretsmanager:DescribeSecret"}, secret.SecretArn)
	ds.grant([]string{
		"rds-data:BatchExecuteStatement",
		"rds-data:BeginTransaction",
		"rds-data:CommitTransaction",
		"rds-data:ExecuteStatement",
		"rds-data:RollbackTransaction",
	}, cluster.ClusterArn)
	ds.grant([]string{
		"rds-data:DeleteItems",
		"rds-data:ExecuteSql",
		"rds-data:GetItems",
		"rds-data:InsertItems",
		"rds-data:UpdateItems",
	}, cluster.ClusterArn, joinSuffix(cluster.ClusterArn, ":*"))
	return &RdsDataSource{BaseDataSource: ds, Cluster: cluster, Secret: secret}, nil
}

var searchActions = []string{
	"es:ESHttpGet",
	"es:ESHttpHead",
	"es:ESHttpDelete",
	"es:ESHttpPost",
	"es:ESHttpPut",
	"es:ESHttpPatch",
}

// OpenSearchDataSource queries an OpenSearch domain.
type OpenSearchDataSource struct {
	*BaseDataSource
	Domain OpenSearchDomain
}

// AddOpenSearchDataSource adds an OpenSearch data source whose role may read
// and write the domain.
func (b *GraphqlApiBase) AddOpenSearchDataSource(id string, domain OpenSearchDomain, opts BackedDataSourceOptions) (*OpenSearchDataSource, error) {
	ds, err := b.addSearchDataSource(id, DataSourceTypeOpenSearch, domain, opts, func(res *cfn.DataSource) {
		res.OpenSearchServiceConfig = &cfn.DataSource_OpenSearchServiceConfig{
			AwsRegion: intrinsics.AWS_REGION,
			Endpoint:  joinPrefix("https://", domain.DomainEndpoint),
		}
	})
	if err != nil {
		return nil, err
	}
	return &OpenSearchDataSource{BaseDataSource: ds, Domain: domain}, nil
}

// ElasticsearchDataSource queries an Elasticsearch domain.
//
// Deprecated: use OpenSearchDataSource.
type ElasticsearchDataSource struct {
	*BaseDataSource
	Domain OpenSearchDomain
}

// AddElasticsearchDataSource adds an Elasticsearch data source.
//
// Deprecated: use AddOpenSearchDataSource.
func (b *GraphqlApiBase) AddElasticsearchDataSource(id string, domain OpenSearchDomain, opts BackedDataSourceOptions) (*ElasticsearchDataSource, error) {
	ds, err := b.addSearchDataSource(id, DataSourceTypeElasticsearch, domain, opts, func(res *cfn.DataSource) {
		res.ElasticsearchConfig = &cfn.DataSource_ElasticsearchConfig{
			AwsRegion: intrinsics.AWS_REGION,
			Endpoint:  joinPrefix("https://", domain.DomainEndpoint),
		}
	})
	if err != nil {
		return nil, err
	}
	return &ElasticsearchDataSource{BaseDataSource: ds, Domain: domain}, nil
}

func (b *GraphqlApiBase) addSearchDataSource(id string, typ DataSourceType, domain OpenSearchDomain, opts BackedDataSourceOptions, configure func(*cfn.DataSource)) (*BaseDataSource, error) {
	if domain.DomainArn == nil {
		return nil, missingField("search data source "+id, "DomainArn")
	}
	if domain.DomainEndpoint == nil {
		return nil, missingField("search data source "+id, "DomainEndpoint")
	}
	ds, err := b.addDataSource(id, typ, opts.DataSourceOptions, true, opts.ServiceRole, configure)
	if err != nil {
		return nil, err
	}
	ds.grant(searchActions, domain.DomainArn, joinSuffix(domain.DomainArn, "/*"))
	return ds, nil
}

// joinSuffix appends suffix to a literal string or an intrinsic value.
func joinSuffix(v any, suffix string) any {
	if s, ok := v.(string); ok {
		return s + suffix
	}
	return intrinsics.Join{Delimiter: "", Values: []any{v, suffix}}
}

func joinPrefix(prefix string, v any) any {
	if s, ok := v.(string); ok {
		return prefix + s
	}
	return intrinsics.Join{Delimiter: "", Values: []any{prefix, v}}
}

// optional maps "" to nil so the property is omitted.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optionalBool(b bool) any {
	if !b {
		return nil
	}
	return true
}
