package appsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/wetwire-appsync-go/intrinsics"
)

const (
	tableArn    = "arn:aws:dynamodb:us-east-1:123456789012:table/demos"
	functionArn = "arn:aws:lambda:us-east-1:123456789012:function:demo"
)

func policyStatements(t *testing.T, props map[string]any) []any {
	t.Helper()
	doc, ok := props["PolicyDocument"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2012-10-17", doc["Version"])
	statements, ok := doc["Statement"].([]any)
	require.True(t, ok)
	return statements
}

func toAny(items ...string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

func TestAddNoneDataSource(t *testing.T) {
	stack, api := newTestAPI(t, GraphqlApiProps{})
	ds, err := api.AddNoneDataSource("Local", DataSourceOptions{Description: "local resolvers"})
	require.NoError(t, err)

	assert.Equal(t, "Local", ds.Name())
	assert.Equal(t, "ApiLocal", ds.LogicalID())
	assert.Equal(t, DataSourceTypeNone, ds.Type())
	assert.Nil(t, ds.ServiceRole())

	tmpl := synth(t, stack)
	assert.Equal(t, map[string]any{
		"ApiId":       getAtt("Api", "ApiId"),
		"Name":        "Local",
		"Type":        "NONE",
		"Description": "local resolvers",
	}, resource(t, tmpl, "ApiLocal").Properties)
}

func TestAddDataSource_Names(t *testing.T) {
	_, api := newTestAPI(t, GraphqlApiProps{})

	ds, err := api.AddNoneDataSource("Local", DataSourceOptions{Name: "my-local source"})
	require.NoError(t, err)
	assert.Equal(t, "mylocalsource", ds.Name())

	_, err = api.AddNoneDataSource("Other", DataSourceOptions{Name: "mylocalsource"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = api.AddNoneDataSource("Local", DataSourceOptions{Name: "renamed"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = api.AddNoneDataSource("Empty", DataSourceOptions{Name: "---"})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestAddDynamoDbDataSource(t *testing.T) {
	stack, api := newTestAPI(t, GraphqlApiProps{})
	ds, err := api.AddDynamoDbDataSource("DemoTable", Table{TableName: "demos", TableArn: tableArn}, DynamoDbDataSourceOptions{})
	require.NoError(t, err)
	require.NotNil(t, ds.ServiceRole())
	assert.Equal(t, "ApiDemoTableServiceRole", ds.ServiceRole().LogicalID())

	tmpl := synth(t, stack)

	res := resource(t, tmpl, "ApiDemoTable")
	assert.Equal(t, "AWS::AppSync::DataSource", res.Type)
	assert.Equal(t, map[string]any{
		"ApiId":          getAtt("Api", "ApiId"),
		"Name":           "DemoTable",
		"Type":           "AMAZON_DYNAMODB",
		"ServiceRoleArn": getAtt("ApiDemoTableServiceRole", "Arn"),
		"DynamoDBConfig": map[string]any{
			"AwsRegion": ref("AWS::Region"),
			"TableName": "demos",
		},
	}, res.Properties)

	role := resource(t, tmpl, "ApiDemoTableServiceRole")
	assert.Equal(t, map[string]any{
		"Version": "2012-10-17",
		"Statement": []any{map[string]any{
			"Effect":    "Allow",
			"Principal": map[string]any{"Service": "appsync.amazonaws.com"},
			"Action":    "sts:AssumeRole",
		}},
	}, role.Properties["AssumeRolePolicyDocument"])

	policy := resource(t, tmpl, "ApiDemoTableServiceRoleDefaultPolicy")
	assert.Equal(t, "AWS::IAM::Policy", policy.Type)
	assert.Equal(t, "ApiDemoTableServiceRoleDefaultPolicy", policy.Properties["PolicyName"])
	assert.Equal(t, []any{ref("ApiDemoTableServiceRole")}, policy.Properties["Roles"])

	statements := policyStatements(t, policy.Properties)
	require.Len(t, statements, 1)
	assert.Equal(t, map[string]any{
		"Effect":   "Allow",
		"Action":   toAny(append(append([]string(nil), dynamoReadActions...), dynamoWriteActions...)...),
		"Resource": []any{tableArn, tableArn + "/index/*"},
	}, statements[0])
}

func TestAddDynamoDbDataSource_Options(t *testing.T) {
	stack := NewStack("Test", StackProps{})
	api, err := NewGraphqlApi(stack, "Api", GraphqlApiProps{Name: "demo"})
	require.NoError(t, err)
	shared, err := NewRole(stack, "Shared", RoleProps{AssumedBy: "appsync.amazonaws.com"})
	require.NoError(t, err)

	_, err = api.AddDynamoDbDataSource("Reader", Table{TableName: "demos", TableArn: tableArn}, DynamoDbDataSourceOptions{
		BackedDataSourceOptions: BackedDataSourceOptions{ServiceRole: shared},
		ReadOnlyAccess:          true,
		UseCallerCredentials:    true,
	})
	require.NoError(t, err)
	tmpl := synth(t, stack)

	res := resource(t, tmpl, "ApiReader")
	assert.Equal(t, getAtt("Shared", "Arn"), res.Properties["ServiceRoleArn"])
	assert.Equal(t, true, res.Properties["DynamoDBConfig"].(map[string]any)["UseCallerCredentials"])
	assert.NotContains(t, tmpl.Resources, "ApiReaderServiceRole")

	statements := policyStatements(t, resource(t, tmpl, "SharedDefaultPolicy").Properties)
	require.Len(t, statements, 1)
	assert.Equal(t, toAny(dynamoReadActions...), statements[0].(map[string]any)["Action"])
}

func TestAddDynamoDbDataSource_MissingTable(t *testing.T) {
	_, api := newTestAPI(t, GraphqlApiProps{})

	_, err := api.AddDynamoDbDataSource("NoName", Table{TableArn: tableArn}, DynamoDbDataSourceOptions{})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	_, err = api.AddDynamoDbDataSource("NoArn", Table{TableName: "demos"}, DynamoDbDataSourceOptions{})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestAddLambdaDataSource(t *testing.T) {
	stack, api := newTestAPI(t, GraphqlApiProps{})
	ds, err := api.AddLambdaDataSource("Handler", Function{FunctionArn: functionArn}, BackedDataSourceOptions{})
	require.NoError(t, err)
	assert.Equal(t, DataSourceTypeLambda, ds.Type())

	tmpl := synth(t, stack)
	res := resource(t, tmpl, "ApiHandler")
	assert.Equal(t, "AWS_LAMBDA", res.Properties["Type"])
	assert.Equal(t, map[string]any{"LambdaFunctionArn": functionArn}, res.Properties["LambdaConfig"])

	statements := policyStatements(t, resource(t, tmpl, "ApiHandlerServiceRoleDefaultPolicy").Properties)
	require.Len(t, statements, 1)
	assert.Equal(t, map[string]any{
		"Effect":   "Allow",
		"Action":   "lambda:InvokeFunction",
		"Resource": []any{functionArn, functionArn + ":*"},
	}, statements[0])

	_, err = api.AddLambdaDataSource("Missing", Function{}, BackedDataSourceOptions{})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestAddHttpDataSource(t *testing.T) {
	stack, api := newTestAPI(t, GraphqlApiProps{})
	_, err := api.AddHttpDataSource("Plain", "https://api.example.com", HttpDataSourceOptions{})
	require.NoError(t, err)
	_, err = api.AddHttpDataSource("States", "https://states.us-east-1.amazonaws.com", HttpDataSourceOptions{
		AuthorizationConfig: &AwsIamConfig{SigningRegion: "us-east-1", SigningServiceName: "states"},
	})
	require.NoError(t, err)

	tmpl := synth(t, stack)
	assert.Equal(t, map[string]any{"Endpoint": "https://api.example.com"}, resource(t, tmpl, "ApiPlain").Properties["HttpConfig"])
	assert.Equal(t, map[string]any{
		"Endpoint": "https://states.us-east-1.amazonaws.com",
		"AuthorizationConfig": map[string]any{
			"AuthorizationType": "AWS_IAM",
			"AwsIamConfig": map[string]any{
				"SigningRegion":      "us-east-1",
				"SigningServiceName": "states",
			},
		},
	}, resource(t, tmpl, "ApiStates").Properties["HttpConfig"])

	// HTTP roles get no grants of their own.
	assert.Contains(t, tmpl.Resources, "ApiStatesServiceRole")
	assert.NotContains(t, tmpl.Resources, "ApiStatesServiceRoleDefaultPolicy")

	_, err = api.AddHttpDataSource("NoEndpoint", "", HttpDataSourceOptions{})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	_, err = api.AddHttpDataSource("HalfSigned", "https://x", HttpDataSourceOptions{
		AuthorizationConfig: &AwsIamConfig{SigningRegion: "us-east-1"},
	})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestAddRdsDataSource(t *testing.T) {
	clusterArn := "arn:aws:rds:us-east-1:123456789012:cluster:demo"
	secretArn := "arn:aws:secretsmanager:us-east-1:123456789012:secret:demo"

	stack, api := newTestAPI(t, GraphqlApiProps{})
	_, err := api.AddRdsDataSource("Aurora", ServerlessCluster{ClusterArn: clusterArn}, Secret{SecretArn: secretArn},
		RdsDataSourceOptions{DatabaseName: "demos"})
	require.NoError(t, err)
	tmpl := synth(t, stack)

	assert.Equal(t, map[string]any{
		"RelationalDatabaseSourceType": "RDS_HTTP_ENDPOINT",
		"RdsHttpEndpointConfig": map[string]any{
			"AwsRegion":           ref("AWS::Region"),
			"AwsSecretStoreArn":   secretArn,
			"DatabaseName":        "demos",
			"DbClusterIdentifier": clusterArn,
		},
	}, resource(t, tmpl, "ApiAurora").Properties["RelationalDatabaseConfig"])

	statements := policyStatements(t, resource(t, tmpl, "ApiAuroraServiceRoleDefaultPolicy").Properties)
	require.Len(t, statements, 3)
	assert.Equal(t, secretArn, statements[0].(map[string]any)["Resource"])
	assert.Equal(t, clusterArn, statements[1].(map[string]any)["Resource"])
	assert.Equal(t, []any{clusterArn, clusterArn + ":*"}, statements[2].(map[string]any)["Resource"])

	_, err = api.AddRdsDataSource("NoSecret", ServerlessCluster{ClusterArn: clusterArn}, Secret{}, RdsDataSourceOptions{})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestAddSearchDataSources(t *testing.T) {
	domainArn := "arn:aws:es:us-east-1:123456789012:domain/demo"
	domain := OpenSearchDomain{DomainArn: domainArn, DomainEndpoint: "search-demo.us-east-1.es.amazonaws.com"}

	stack, api := newTestAPI(t, GraphqlApiProps{})
	search, err := api.AddOpenSearchDataSource("Search", domain, BackedDataSourceOptions{})
	require.NoError(t, err)
	assert.Equal(t, DataSourceTypeOpenSearch, search.Type())
	es, err := api.AddElasticsearchDataSource("Legacy", domain, BackedDataSourceOptions{})
	require.NoError(t, err)
	assert.Equal(t, DataSourceTypeElasticsearch, es.Type())

	tmpl := synth(t, stack)
	expected := map[string]any{
		"AwsRegion": ref("AWS::Region"),
		"Endpoint":  "https://search-demo.us-east-1.es.amazonaws.com",
	}
	assert.Equal(t, expected, resource(t, tmpl, "ApiSearch").Properties["OpenSearchServiceConfig"])
	assert.Equal(t, expected, resource(t, tmpl, "ApiLegacy").Properties["ElasticsearchConfig"])

	statements := policyStatements(t, resource(t, tmpl, "ApiSearchServiceRoleDefaultPolicy").Properties)
	require.Len(t, statements, 1)
	assert.Equal(t, map[string]any{
		"Effect":   "Allow",
		"Action":   toAny(searchActions...),
		"Resource": []any{domainArn, domainArn + "/*"},
	}, statements[0])

	_, err = api.AddOpenSearchDataSource("NoEndpoint", OpenSearchDomain{DomainArn: domainArn}, BackedDataSourceOptions{})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestJoinHelpers(t *testing.T) {
	arn := intrinsics.Sub{String: "arn:${AWS::Partition}:dynamodb:${AWS::Region}:${AWS::AccountId}:table/demos"}

	assert.Equal(t, "arn/index/*", joinSuffix("arn", "/index/*"))
	assert.Equal(t, intrinsics.Join{Delimiter: "", Values: []any{arn, "/index/*"}}, joinSuffix(arn, "/index/*"))
	assert.Equal(t, "https://host", joinPrefix("https://", "host"))
	assert.Equal(t, intrinsics.Join{Delimiter: "", Values: []any{"https://", arn}}, joinPrefix("https://", arn))
	assert.Nil(t, optional(""))
	assert.Nil(t, optionalBool(false))
}
