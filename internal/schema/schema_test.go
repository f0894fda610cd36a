package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-appsync-go"
)

func getAtt(name, attr string) map[string]any {
	return map[string]any{"Fn::GetAtt": []any{name, attr}}
}

func TestValidateTemplate_Valid(t *testing.T) {
	tmpl := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"DemoApi": {
				Type: "AWS::AppSync::GraphQLApi",
				Properties: map[string]any{
					"Name":               "demo",
					"AuthenticationType": "API_KEY",
					"XrayEnabled":        true,
				},
			},
			"DemoApiSchema": {
				Type: "AWS::AppSync::GraphQLSchema",
				Properties: map[string]any{
					"ApiId":      getAtt("DemoApi", "ApiId"),
					"Definition": "type Query {\n}\n",
				},
			},
			"DemoApiDefaultApiKey": {
				Type:       "AWS::AppSync::ApiKey",
				Properties: map[string]any{"ApiId": getAtt("DemoApi", "ApiId"), "Expires": int64(1700000000)},
			},
		},
	}

	result, err := ValidateTemplate(tmpl, Options{})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.NoError(t, result.Err())
}

func TestValidateTemplate_MissingRequired(t *testing.T) {
	tmpl := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"Resolver": {
				Type:       "AWS::AppSync::Resolver",
				Properties: map[string]any{"TypeName": "Query"},
			},
		},
	}

	result, err := ValidateTemplate(tmpl, Options{})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "ApiId", result.Errors[0].Property)
	assert.Equal(t, "FieldName", result.Errors[1].Property)

	err = result.Err()
	require.Error(t, err)
	var schemaErr wetwire.SchemaError
	assert.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, err.Error(), "missing required property: FieldName")
}

func TestValidateTemplate_TypeMismatch(t *testing.T) {
	tmpl := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"DemoApi": {
				Type: "AWS::AppSync::GraphQLApi",
				Properties: map[string]any{
					"Name":               "demo",
					"AuthenticationType": "API_KEY",
					"XrayEnabled":        "yes",
				},
			},
		},
	}

	result, err := ValidateTemplate(tmpl, Options{})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "XrayEnabled", result.Errors[0].Property)
	assert.Contains(t, result.Errors[0].Message, "expected type Boolean")
}

func TestValidateTemplate_AllowedValues(t *testing.T) {
	tmpl := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"DemoApi": {
				Type: "AWS::AppSync::GraphQLApi",
				Properties: map[string]any{
					"Name":               "demo",
					"AuthenticationType": "PASSWORD",
				},
			},
		},
	}

	result, err := ValidateTemplate(tmpl, Options{})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, `value "PASSWORD" not in allowed values`)
}

func TestValidateTemplate_UnknownType(t *testing.T) {
	tmpl := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"Table": {Type: "AWS::DynamoDB::Table"},
			"Bad":   {Type: "NotAType"},
		},
	}

	result, err := ValidateTemplate(tmpl, Options{})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Bad", result.Errors[0].Resource)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Table", result.Warnings[0].Resource)
}

func TestValidateTemplate_Strict(t *testing.T) {
	tmpl := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"DemoApiKey": {
				Type:       "AWS::AppSync::ApiKey",
				Properties: map[string]any{"ApiId": "abc", "Colour": "blue"},
			},
		},
	}

	result, err := ValidateTemplate(tmpl, Options{Strict: true})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Colour", result.Warnings[0].Property)
}

func TestValidateTemplate_Nil(t *testing.T) {
	_, err := ValidateTemplate(nil, Options{})
	assert.Error(t, err)
}

func TestIsValidType(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		typ      string
		expected bool
	}{
		{"string", "x", "String", true},
		{"int64 integer", int64(3), "Integer", true},
		{"float integer", float64(3), "Integer", true},
		{"string integer", "3", "Integer", false},
		{"bool", true, "Boolean", true},
		{"list", []any{"a"}, "List", true},
		{"map", map[string]any{"a": 1}, "Map", true},
		{"ref as string", map[string]any{"Ref": "X"}, "String", true},
		{"sub as string", map[string]any{"Fn::Sub": "${X.Arn}"}, "String", true},
		{"unknown type", 1, "Json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isValidType(tt.value, tt.typ))
		})
	}
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("AWS::AppSync::DataSource")
	require.True(t, ok)
	assert.Equal(t, []string{"ApiId", "Name", "Type"}, s.Required)

	_, ok = Lookup("AWS::S3::Bucket")
	assert.False(t, ok)
}
