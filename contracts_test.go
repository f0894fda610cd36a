package wetwire_appsync

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAttrRef_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		ref      AttrRef
		expected string
	}{
		{
			name:     "api id",
			ref:      AttrRef{Resource: "DemoApi", Attribute: "ApiId"},
			expected: `{"Fn::GetAtt":["DemoApi","ApiId"]}`,
		},
		{
			name:     "graphql url",
			ref:      AttrRef{Resource: "DemoApi", Attribute: "GraphQLUrl"},
			expected: `{"Fn::GetAtt":["DemoApi","GraphQLUrl"]}`,
		},
		{
			name:     "role arn",
			ref:      AttrRef{Resource: "DemoApiTableServiceRole", Attribute: "Arn"},
			expected: `{"Fn::GetAtt":["DemoApiTableServiceRole","Arn"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ref)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestAttrRef_IsZero(t *testing.T) {
	assert.True(t, AttrRef{}.IsZero())
	assert.False(t, AttrRef{Resource: "DemoApi"}.IsZero())
	assert.False(t, AttrRef{Attribute: "Arn"}.IsZero())
	assert.False(t, AttrRef{Resource: "DemoApi", Attribute: "Arn"}.IsZero())
}

func TestSchemaError_Error(t *testing.T) {
	err := SchemaError{Resource: "DemoApi", Property: "Name", Message: "missing required property: Name"}
	assert.Equal(t, "DemoApi.Name: missing required property: Name", err.Error())

	err = SchemaError{Resource: "DemoApi", Message: "unknown resource type"}
	assert.Equal(t, "DemoApi: unknown resource type", err.Error())
}

func TestTemplate_YAMLRoundTrip(t *testing.T) {
	tmpl := Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Resources: map[string]ResourceDef{
			"DemoApi": {
				Type:       "AWS::AppSync::GraphQLApi",
				Properties: map[string]any{"Name": "demo", "AuthenticationType": "API_KEY"},
			},
			"DemoApiSchema": {
				Type:       "AWS::AppSync::GraphQLSchema",
				Properties: map[string]any{"Definition": "type Query {\n}\n"},
				DependsOn:  []string{"DemoApi"},
			},
		},
	}

	data, err := yaml.Marshal(tmpl)
	require.NoError(t, err)

	var back Template
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "AWS::AppSync::GraphQLSchema", back.Resources["DemoApiSchema"].Type)
	assert.Equal(t, []string{"DemoApi"}, back.Resources["DemoApiSchema"].DependsOn)
	assert.Equal(t, "type Query {\n}\n", back.Resources["DemoApiSchema"].Properties["Definition"])
}
