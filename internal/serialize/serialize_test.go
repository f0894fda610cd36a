package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-appsync-go"
	"github.com/lex00/wetwire-appsync-go/intrinsics"
	"github.com/lex00/wetwire-appsync-go/resources/appsync"
)

func TestResource_SimpleStruct(t *testing.T) {
	props, err := Resource(appsync.GraphQLApi{
		Name:               "demo",
		AuthenticationType: "API_KEY",
	})
	require.NoError(t, err)

	assert.Equal(t, "demo", props["Name"])
	assert.Equal(t, "API_KEY", props["AuthenticationType"])
	assert.NotContains(t, props, "LogConfig")
	assert.NotContains(t, props, "AdditionalAuthenticationProviders")
}

func TestResource_WithNestedStruct(t *testing.T) {
	props, err := Resource(appsync.DataSource{
		Name: "table",
		Type: "AMAZON_DYNAMODB",
		DynamoDBConfig: &appsync.DataSource_DynamoDBConfig{
			TableName: "demo-table",
			AwsRegion: intrinsics.AWS_REGION,
		},
	})
	require.NoError(t, err)

	cfg := props["DynamoDBConfig"].(map[string]any)
	assert.Equal(t, "demo-table", cfg["TableName"])
	assert.Equal(t, map[string]any{"Ref": "AWS::Region"}, cfg["AwsRegion"])
}

func TestResource_WithSlice(t *testing.T) {
	props, err := Resource(appsync.GraphQLApi{
		Name: "demo",
		AdditionalAuthenticationProviders: []appsync.GraphQLApi_AdditionalAuthenticationProvider{
			{AuthenticationType: "AWS_IAM"},
			{AuthenticationType: "API_KEY"},
		},
	})
	require.NoError(t, err)

	providers := props["AdditionalAuthenticationProviders"].([]any)
	require.Len(t, providers, 2)
	assert.Equal(t, "AWS_IAM", providers[0].(map[string]any)["AuthenticationType"])
}

func TestResource_AttrRef(t *testing.T) {
	props, err := Resource(appsync.GraphQLSchema{
		ApiId:      wetwire.AttrRef{Resource: "DemoApi", Attribute: "ApiId"},
		Definition: "type Query {\n}\n",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"DemoApi", "ApiId"}}, props["ApiId"])
}

func TestResource_ExplicitFalseInterface(t *testing.T) {
	props, err := Resource(appsync.DataSource_DynamoDBConfig{
		TableName:            "t",
		UseCallerCredentials: false,
	})
	require.NoError(t, err)

	// A bool stored in an interface field is kept even when false.
	assert.Equal(t, false, props["UseCallerCredentials"])
}

func TestResource_OmitsZeroValues(t *testing.T) {
	props, err := Resource(appsync.Resolver{})
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestResource_WithPointer(t *testing.T) {
	props, err := Resource(&appsync.ApiKey{Description: "key"})
	require.NoError(t, err)
	assert.Equal(t, "key", props["Description"])
}

func TestResource_NonStruct(t *testing.T) {
	props, err := Resource("not a struct")
	require.NoError(t, err)
	assert.Nil(t, props)
}

func TestReferences(t *testing.T) {
	props := map[string]any{
		"ApiId":  map[string]any{"Fn::GetAtt": []any{"DemoApi", "ApiId"}},
		"Region": map[string]any{"Ref": "AWS::Region"},
		"Table":  map[string]any{"Ref": "Table"},
		"Policy": map[string]any{
			"Statement": []any{
				map[string]any{
					"Resource": map[string]any{"Fn::Sub": "${DemoApi.Arn}/types/Query/*"},
				},
				map[string]any{
					"Resource": map[string]any{"Fn::Sub": []any{
						"${Local}/${Role.Arn}",
						map[string]any{"Local": map[string]any{"Ref": "Bucket"}},
					}},
				},
			},
		},
		"Literal": "${NotInSub}",
	}

	refs := References(props)
	assert.Equal(t, []Reference{
		{Resource: "Bucket"},
		{Resource: "DemoApi", Attribute: "ApiId"},
		{Resource: "DemoApi", Attribute: "Arn"},
		{Resource: "Role", Attribute: "Arn"},
		{Resource: "Table"},
	}, refs)
}

func TestReferences_Empty(t *testing.T) {
	assert.Empty(t, References(nil))
	assert.Empty(t, References(map[string]any{"Name": "demo"}))
}
