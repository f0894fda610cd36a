package appsync

// Handles identify resources defined outside this library. Attribute values
// may be literal strings or intrinsics such as intrinsics.ImportValue.

// Table is a DynamoDB table.
type Table struct {
	TableName any
	TableArn  any
}

// Function is a Lambda function.
type Function struct {
	FunctionArn any
}

// ServerlessCluster is an Aurora Serverless cluster with the Data API enabled.
type ServerlessCluster struct {
	ClusterArn any
}

// Secret is a Secrets Manager secret holding database credentials.
type Secret struct {
	SecretArn any
}

// OpenSearchDomain is an OpenSearch or Elasticsearch domain.
type OpenSearchDomain struct {
	DomainArn      any
	DomainEndpoint any
}

// Certificate is an ACM certificate.
type Certificate struct {
	CertificateArn any
}

// UserPool is a Cognito user pool.
type UserPool struct {
	UserPoolID any
	// Region defaults to the stack region.
	Region any
}
