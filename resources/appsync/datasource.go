package appsync

// DataSource represents AWS::AppSync::DataSource.
type DataSource struct {
	ApiId                    any                                  `json:"ApiId,omitempty"`
	Name                     any                                  `json:"Name,omitempty"`
	Type                     any                                  `json:"Type,omitempty"`
	Description              any                                  `json:"Description,omitempty"`
	ServiceRoleArn           any                                  `json:"ServiceRoleArn,omitempty"`
	DynamoDBConfig           *DataSource_DynamoDBConfig           `json:"DynamoDBConfig,omitempty"`
	ElasticsearchConfig      *DataSource_ElasticsearchConfig      `json:"ElasticsearchConfig,omitempty"`
	HttpConfig               *DataSource_HttpConfig               `json:"HttpConfig,omitempty"`
	LambdaConfig             *DataSource_LambdaConfig             `json:"LambdaConfig,omitempty"`
	OpenSearchServiceConfig  *DataSource_OpenSearchServiceConfig  `json:"OpenSearchServiceConfig,omitempty"`
	RelationalDatabaseConfig *DataSource_RelationalDatabaseConfig `json:"RelationalDatabaseConfig,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r DataSource) ResourceType() string {
	return "AWS::AppSync::DataSource"
}

// DataSource_DynamoDBConfig points a data source at a DynamoDB table.
type DataSource_DynamoDBConfig struct {
	AwsRegion            any `json:"AwsRegion,omitempty"`
	TableName            any `json:"TableName,omitempty"`
	UseCallerCredentials any `json:"UseCallerCredentials,omitempty"`
	Versioned            any `json:"Versioned,omitempty"`
}

// DataSource_LambdaConfig points a data source at a Lambda function.
type DataSource_LambdaConfig struct {
	LambdaFunctionArn any `json:"LambdaFunctionArn,omitempty"`
}

// DataSource_HttpConfig points a data source at an HTTP endpoint.
type DataSource_HttpConfig struct {
	Endpoint            any                             `json:"Endpoint,omitempty"`
	AuthorizationConfig *DataSource_AuthorizationConfig `json:"AuthorizationConfig,omitempty"`
}

// DataSource_AuthorizationConfig configures request signing for HTTP data sources.
type DataSource_AuthorizationConfig struct {
	AuthorizationType any                      `json:"AuthorizationType,omitempty"`
	AwsIamConfig      *DataSource_AwsIamConfig `json:"AwsIamConfig,omitempty"`
}

// DataSource_AwsIamConfig names the SigV4 region and service.
type DataSource_AwsIamConfig struct {
	SigningRegion      any `json:"SigningRegion,omitempty"`
	SigningServiceName any `json:"SigningServiceName,omitempty"`
}

// DataSource_RelationalDatabaseConfig points a data source at an Aurora Serverless cluster.
type DataSource_RelationalDatabaseConfig struct {
	RelationalDatabaseSourceType any                               `json:"RelationalDatabaseSourceType,omitempty"`
	RdsHttpEndpointConfig        *DataSource_RdsHttpEndpointConfig `json:"RdsHttpEndpointConfig,omitempty"`
}

// DataSource_RdsHttpEndpointConfig is the Data API endpoint of an Aurora cluster.
type DataSource_RdsHttpEndpointConfig struct {
	AwsRegion           any `json:"AwsRegion,omitempty"`
	AwsSecretStoreArn   any `json:"AwsSecretStoreArn,omitempty"`
	DatabaseName        any `json:"DatabaseName,omitempty"`
	DbClusterIdentifier any `json:"DbClusterIdentifier,omitempty"`
	Schema              any `json:"Schema,omitempty"`
}

// DataSource_OpenSearchServiceConfig points a data source at an OpenSearch domain.
type DataSource_OpenSearchServiceConfig struct {
	AwsRegion any `json:"AwsRegion,omitempty"`
	Endpoint  any `json:"Endpoint,omitempty"`
}

// DataSource_ElasticsearchConfig points a data source at an Elasticsearch domain.
type DataSource_ElasticsearchConfig struct {
	AwsRegion any `json:"AwsRegion,omitempty"`
	Endpoint  any `json:"Endpoint,omitempty"`
}
