package schema

var authenticationTypes = []string{
	"API_KEY",
	"AWS_IAM",
	"AMAZON_COGNITO_USER_POOLS",
	"OPENID_CONNECT",
	"AWS_LAMBDA",
}

var resourceSchemas = map[string]ResourceSchema{
	"AWS::AppSync::GraphQLApi": {
		Type:     "AWS::AppSync::GraphQLApi",
		Required: []string{"AuthenticationType", "Name"},
		Properties: map[string]PropertySchema{
			"Name":                              {Type: "String"},
			"AuthenticationType":                {Type: "String", AllowedValues: authenticationTypes},
			"AdditionalAuthenticationProviders": {Type: "List"},
			"ApiType":                           {Type: "String", AllowedValues: []string{"GRAPHQL", "MERGED"}},
			"IntrospectionConfig":               {Type: "String", AllowedValues: []string{"ENABLED", "DISABLED"}},
			"LambdaAuthorizerConfig":            {Type: "Map"},
			"LogConfig":                         {Type: "Map"},
			"OpenIDConnectConfig":               {Type: "Map"},
			"QueryDepthLimit":                   {Type: "Integer"},
			"ResolverCountLimit":                {Type: "Integer"},
			"UserPoolConfig":                    {Type: "Map"},
			"Visibility":                        {Type: "String", AllowedValues: []string{"GLOBAL", "PRIVATE"}},
			"XrayEnabled":                       {Type: "Boolean"},
			"Tags":                              {Type: "List"},
		},
	},
	"AWS::AppSync::GraphQLSchema": {
		Type:     "AWS::AppSync::GraphQLSchema",
		Required: []string{"ApiId"},
		Properties: map[string]PropertySchema{
			"ApiId":                {Type: "String"},
			"Definition":           {Type: "String"},
			"DefinitionS3Location": {Type: "String"},
		},
	},
	"AWS::AppSync::DataSource": {
		Type:     "AWS::AppSync::DataSource",
		Required: []string{"ApiId", "Name", "Type"},
		Properties: map[string]PropertySchema{
			"ApiId":       {Type: "String"},
			"Name":        {Type: "String"},
			"Description": {Type: "String"},
			"Type": {Type: "String", AllowedValues: []string{
				"AWS_LAMBDA",
				"AMAZON_DYNAMODB",
				"AMAZON_ELASTICSEARCH",
				"AMAZON_OPENSEARCH_SERVICE",
				"AMAZON_EVENTBRIDGE",
				"HTTP",
				"NONE",
				"RELATIONAL_DATABASE",
			}},
			"ServiceRoleArn":           {Type: "String"},
			"DynamoDBConfig":           {Type: "Map"},
			"ElasticsearchConfig":      {Type: "Map"},
			"HttpConfig":               {Type: "Map"},
			"LambdaConfig":             {Type: "Map"},
			"OpenSearchServiceConfig":  {Type: "Map"},
			"RelationalDatabaseConfig": {Type: "Map"},
		},
	},
	"AWS::AppSync::Resolver": {
		Type:     "AWS::AppSync::Resolver",
		Required: []string{"ApiId", "FieldName", "TypeName"},
		Properties: map[string]PropertySchema{
			"ApiId":                   {Type: "String"},
			"TypeName":                {Type: "String"},
			"FieldName":               {Type: "String"},
			"DataSourceName":          {Type: "String"},
			"Kind":                    {Type: "String", AllowedValues: []string{"UNIT", "PIPELINE"}},
			"PipelineConfig":          {Type: "Map"},
			"RequestMappingTemplate":  {Type: "String"},
			"ResponseMappingTemplate": {Type: "String"},
			"CachingConfig":           {Type: "Map"},
			"MaxBatchSize":            {Type: "Integer"},
		},
	},
	"AWS::AppSync::FunctionConfiguration": {
		Type:     "AWS::AppSync::FunctionConfiguration",
		Required: []string{"ApiId", "DataSourceName", "Name"},
		Properties: map[string]PropertySchema{
			"ApiId":                   {Type: "String"},
			"Name":                    {Type: "String"},
			"DataSourceName":          {Type: "String"},
			"Description":             {Type: "String"},
			"FunctionVersion":         {Type: "String", AllowedValues: []string{"2018-05-29"}},
			"RequestMappingTemplate":  {Type: "String"},
			"ResponseMappingTemplate": {Type: "String"},
			"MaxBatchSize":            {Type: "Integer"},
		},
	},
	"AWS::AppSync::ApiKey": {
		Type:     "AWS::AppSync::ApiKey",
		Required: []string{"ApiId"},
		Properties: map[string]PropertySchema{
			"ApiId":       {Type: "String"},
			"Description": {Type: "String"},
			"Expires":     {Type: "Integer"},
		},
	},
	"AWS::AppSync::ApiCache": {
		Type:     "AWS::AppSync::ApiCache",
		Required: []string{"ApiCachingBehavior", "ApiId", "Ttl", "Type"},
		Properties: map[string]PropertySchema{
			"ApiId":                    {Type: "String"},
			"ApiCachingBehavior":       {Type: "String", AllowedValues: []string{"FULL_REQUEST_CACHING", "PER_RESOLVER_CACHING"}},
			"AtRestEncryptionEnabled":  {Type: "Boolean"},
			"TransitEncryptionEnabled": {Type: "Boolean"},
			"Ttl":                      {Type: "Integer"},
			"Type": {Type: "String", AllowedValues: []string{
				"SMALL", "MEDIUM", "LARGE", "XLARGE",
				"LARGE_2X", "LARGE_4X", "LARGE_8X", "LARGE_12X",
			}},
		},
	},
	"AWS::AppSync::DomainName": {
		Type:     "AWS::AppSync::DomainName",
		Required: []string{"CertificateArn", "DomainName"},
		Properties: map[string]PropertySchema{
			"CertificateArn": {Type: "String"},
			"Description":    {Type: "String"},
			"DomainName":     {Type: "String"},
		},
	},
	"AWS::AppSync::DomainNameApiAssociation": {
		Type:     "AWS::AppSync::DomainNameApiAssociation",
		Required: []string{"ApiId", "DomainName"},
		Properties: map[string]PropertySchema{
			"ApiId":      {Type: "String"},
			"DomainName": {Type: "String"},
		},
	},
	"AWS::IAM::Role": {
		Type:     "AWS::IAM::Role",
		Required: []string{"AssumeRolePolicyDocument"},
		Properties: map[string]PropertySchema{
			"AssumeRolePolicyDocument": {Type: "Map"},
			"Description":              {Type: "String"},
			"ManagedPolicyArns":        {Type: "List"},
			"Path":                     {Type: "String"},
			"Policies":                 {Type: "List"},
			"RoleName":                 {Type: "String"},
		},
	},
	"AWS::IAM::Policy": {
		Type:     "AWS::IAM::Policy",
		Required: []string{"PolicyDocument", "PolicyName"},
		Properties: map[string]PropertySchema{
			"PolicyDocument": {Type: "Map"},
			"PolicyName":     {Type: "String"},
			"Roles":          {Type: "List"},
		},
	},
	"AWS::Lambda::Permission": {
		Type:     "AWS::Lambda::Permission",
		Required: []string{"Action", "FunctionName", "Principal"},
		Properties: map[string]PropertySchema{
			"Action":        {Type: "String"},
			"FunctionName":  {Type: "String"},
			"Principal":     {Type: "String"},
			"SourceAccount": {Type: "String"},
			"SourceArn":     {Type: "String"},
		},
	},
}
