package appsync

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-appsync-go"
)

func TestResourceTypes(t *testing.T) {
	tests := []struct {
		name     string
		resource wetwire.Resource
		expected string
	}{
		{"GraphQLApi", GraphQLApi{}, "AWS::AppSync::GraphQLApi"},
		{"GraphQLSchema", GraphQLSchema{}, "AWS::AppSync::GraphQLSchema"},
		{"DataSource", DataSource{}, "AWS::AppSync::DataSource"},
		{"Resolver", Resolver{}, "AWS::AppSync::Resolver"},
		{"FunctionConfiguration", FunctionConfiguration{}, "AWS::AppSync::FunctionConfiguration"},
		{"ApiKey", ApiKey{}, "AWS::AppSync::ApiKey"},
		{"ApiCache", ApiCache{}, "AWS::AppSync::ApiCache"},
		{"DomainName", DomainName{}, "AWS::AppSync::DomainName"},
		{"DomainNameApiAssociation", DomainNameApiAssociation{}, "AWS::AppSync::DomainNameApiAssociation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resource.ResourceType())
		})
	}
}

func TestDataSourceSerialization(t *testing.T) {
	ds := DataSource{
		ApiId: wetwire.AttrRef{Resource: "DemoApi", Attribute: "ApiId"},
		Name:  "table",
		Type:  "AMAZON_DYNAMODB",
		DynamoDBConfig: &DataSource_DynamoDBConfig{
			TableName: "demo-table",
		},
	}

	data, err := json.Marshal(ds)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "AMAZON_DYNAMODB", parsed["Type"])
	assert.NotContains(t, parsed, "LambdaConfig")
	cfg := parsed["DynamoDBConfig"].(map[string]any)
	assert.Equal(t, "demo-table", cfg["TableName"])
	apiID := parsed["ApiId"].(map[string]any)
	assert.Equal(t, []any{"DemoApi", "ApiId"}, apiID["Fn::GetAtt"])
}

func TestResolverSerialization(t *testing.T) {
	r := Resolver{
		TypeName:  "Query",
		FieldName: "getDemos",
		Kind:      "PIPELINE",
		PipelineConfig: &Resolver_PipelineConfig{
			Functions: []any{"fn-1", "fn-2"},
		},
		CachingConfig: &Resolver_CachingConfig{Ttl: 60},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"TypeName":       "Query",
		"FieldName":      "getDemos",
		"Kind":           "PIPELINE",
		"PipelineConfig": {"Functions": ["fn-1", "fn-2"]},
		"CachingConfig":  {"Ttl": 60}
	}`, string(data))
}
