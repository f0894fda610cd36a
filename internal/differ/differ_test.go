package differ

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-appsync-go"
)

const demoSDL = `schema {
  query: Query
}
type Demo {
  id: String!
  version: String!
}
type Query {
  getDemos: [Demo!]
}
enum Status {
  ACTIVE
  INACTIVE
}
`

func schemaResource(sdl string) wetwire.ResourceDef {
	return wetwire.ResourceDef{
		Type: "AWS::AppSync::GraphQLSchema",
		Properties: map[string]any{
			"ApiId":      map[string]any{"Fn::GetAtt": []any{"Api", "ApiId"}},
			"Definition": sdl,
		},
	}
}

func TestCompare(t *testing.T) {
	t1 := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"Api":       {Type: "AWS::AppSync::GraphQLApi", Properties: map[string]any{"Name": "demo", "AuthenticationType": "API_KEY"}},
			"ApiKey":    {Type: "AWS::AppSync::ApiKey", Properties: map[string]any{"ApiId": map[string]any{"Fn::GetAtt": []any{"Api", "ApiId"}}}},
			"ApiSchema": schemaResource(demoSDL),
		},
	}
	t2 := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"Api":        {Type: "AWS::AppSync::GraphQLApi", Properties: map[string]any{"Name": "demo-v2", "AuthenticationType": "API_KEY"}},
			"ApiSchema":  schemaResource(demoSDL),
			"ApiNoneDS":  {Type: "AWS::AppSync::DataSource", Properties: map[string]any{"Name": "none", "Type": "NONE"}},
			"ApiNoneDS2": {Type: "AWS::AppSync::DataSource", Properties: map[string]any{"Name": "none2", "Type": "NONE"}},
		},
	}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)

	require.Len(t, result.Diff.Added, 2)
	assert.Equal(t, "ApiNoneDS", result.Diff.Added[0].Resource)
	assert.Equal(t, "ApiNoneDS2", result.Diff.Added[1].Resource)

	require.Len(t, result.Diff.Removed, 1)
	assert.Equal(t, wetwire.DiffEntry{Resource: "ApiKey", Type: "AWS::AppSync::ApiKey"}, result.Diff.Removed[0])

	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, "Api", result.Diff.Modified[0].Resource)
	assert.Equal(t, []string{"Name modified"}, result.Diff.Modified[0].Changes)

	assert.Equal(t, wetwire.DiffSummary{Added: 2, Removed: 1, Modified: 1, Total: 4}, result.Summary)
}

func TestCompareIdentical(t *testing.T) {
	tmpl := &wetwire.Template{
		Resources: map[string]wetwire.ResourceDef{
			"ApiSchema": schemaResource(demoSDL),
		},
	}

	result, err := Compare(tmpl, tmpl, Options{})
	require.NoError(t, err)
	assert.Zero(t, result.Summary.Total)
	assert.Empty(t, result.Diff.Modified)
}

func TestCompareNil(t *testing.T) {
	_, err := Compare(nil, &wetwire.Template{}, Options{})
	assert.Error(t, err)
}

func TestCompareTypeChange(t *testing.T) {
	t1 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"ApiTable": {Type: "AWS::AppSync::DataSource"},
	}}
	t2 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"ApiTable": {Type: "AWS::AppSync::FunctionConfiguration"},
	}}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)
	require.Len(t, result.Diff.Modified, 1)
	assert.Contains(t, result.Diff.Modified[0].Changes[0], "Type changed")
}

func TestCompareNormalizesSynthesizedValues(t *testing.T) {
	synthesized := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"ApiQueryGetDemosResolver": {
			Type: "AWS::AppSync::Resolver",
			Properties: map[string]any{
				"MaxBatchSize": int64(10),
				"ApiId":        wetwire.AttrRef{Resource: "Api", Attribute: "ApiId"},
			},
		},
	}}
	loaded := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{
		"ApiQueryGetDemosResolver": {
			Type: "AWS::AppSync::Resolver",
			Properties: map[string]any{
				"MaxBatchSize": float64(10),
				"ApiId":        map[string]any{"Fn::GetAtt": []any{"Api", "ApiId"}},
			},
		},
	}}

	result, err := Compare(synthesized, loaded, Options{})
	require.NoError(t, err)
	assert.Zero(t, result.Summary.Total)
}

func TestCompareProperties(t *testing.T) {
	tests := []struct {
		name   string
		props1 map[string]any
		props2 map[string]any
		opts   Options
		want   []string
	}{
		{
			name:   "added",
			props1: map[string]any{"Name": "demo"},
			props2: map[string]any{"Name": "demo", "XrayEnabled": true},
			want:   []string{"XrayEnabled added"},
		},
		{
			name:   "removed",
			props1: map[string]any{"Name": "demo", "XrayEnabled": true},
			props2: map[string]any{"Name": "demo"},
			want:   []string{"XrayEnabled removed"},
		},
		{
			name:   "nested",
			props1: map[string]any{"LogConfig": map[string]any{"FieldLogLevel": "ERROR", "ExcludeVerboseContent": false}},
			props2: map[string]any{"LogConfig": map[string]any{"FieldLogLevel": "ALL", "ExcludeVerboseContent": false}},
			want:   []string{"LogConfig.FieldLogLevel modified"},
		},
		{
			name:   "intrinsic compares whole",
			props1: map[string]any{"ServiceRoleArn": map[string]any{"Fn::GetAtt": []any{"RoleA", "Arn"}}},
			props2: map[string]any{"ServiceRoleArn": map[string]any{"Fn::GetAtt": []any{"RoleB", "Arn"}}},
			want:   []string{"ServiceRoleArn modified"},
		},
		{
			name:   "order matters by default",
			props1: map[string]any{"Functions": []any{"a", "b"}},
			props2: map[string]any{"Functions": []any{"b", "a"}},
			want:   []string{"Functions modified"},
		},
		{
			name:   "ignore order",
			props1: map[string]any{"Functions": []any{"a", "b"}},
			props2: map[string]any{"Functions": []any{"b", "a"}},
			opts:   Options{IgnoreOrder: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compareProperties("", tt.props1, tt.props2, tt.opts)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareSchemaDefinition(t *testing.T) {
	reordered := `enum Status { INACTIVE ACTIVE }
type Query { getDemos: [Demo!] }
type Demo { version: String! id: String! }
schema { query: Query }
`
	changed := `schema {
  query: Query
}
type Demo {
  id: String!
  version: Int
  name: String
}
type Query {
  getDemos(limit: Int): [Demo!]
}
input DemoInput {
  version: String!
}
`
	t1 := &wetwire.Template{Resources: map[string]wetwire.ResourceDef{"ApiSchema": schemaResource(demoSDL)}}

	result, err := Compare(t1, &wetwire.Template{Resources: map[string]wetwire.ResourceDef{"ApiSchema": schemaResource(reordered)}}, Options{})
	require.NoError(t, err)
	assert.Zero(t, result.Summary.Total, "formatting and order are ignored")

	result, err = Compare(t1, &wetwire.Template{Resources: map[string]wetwire.ResourceDef{"ApiSchema": schemaResource(changed)}}, Options{})
	require.NoError(t, err)
	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, []string{
		"Definition: input DemoInput added",
		"Definition: field Demo.name added",
		"Definition: field Demo.version modified (String! → Int)",
		"Definition: field Query.getDemos modified ([Demo!] → (limit: Int)[Demo!])",
		"Definition: enum Status removed",
	}, result.Diff.Modified[0].Changes)
}

func TestCompareSDL(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want []string
	}{
		{
			name: "enum values",
			old:  "enum Status { ACTIVE INACTIVE }",
			new:  "enum Status { ACTIVE ARCHIVED }",
			want: []string{"value Status.ARCHIVED added", "value Status.INACTIVE removed"},
		},
		{
			name: "union members",
			old:  "type A { id: ID } type B { id: ID } union Search = A",
			new:  "type A { id: ID } type B { id: ID } union Search = A | B",
			want: []string{"union Search members changed"},
		},
		{
			name: "directives",
			old:  "type Demo { id: ID }",
			new:  "type Demo @aws_iam { id: ID }",
			want: []string{"type Demo directives changed"},
		},
		{
			name: "field directive",
			old:  "type Demo { id: ID }",
			new:  "type Demo { id: ID @aws_api_key }",
			want: []string{"field Demo.id modified (ID → ID @aws_api_key)"},
		},
		{
			name: "kind change",
			old:  "type Demo { id: ID }",
			new:  "interface Demo { id: ID }",
			want: []string{"type Demo changed to interface"},
		},
		{
			name: "interfaces",
			old:  "interface Node { id: ID } type Demo { id: ID }",
			new:  "interface Node { id: ID } type Demo implements Node { id: ID }",
			want: []string{"type Demo interfaces changed"},
		},
		{
			name: "extension folded",
			old:  "type Query { a: Int }",
			new:  "type Query { a: Int } extend type Query { b: Int }",
			want: []string{"field Query.b added"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompareSDL(tt.old, tt.new)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareSDLInvalid(t *testing.T) {
	_, err := CompareSDL("type Demo {", "type Demo { id: ID }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing old schema")
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "old.json")
	yamlPath := filepath.Join(dir, "new.yaml")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
  "AWSTemplateFormatVersion": "2010-09-09",
  "Resources": {
    "Api": {"Type": "AWS::AppSync::GraphQLApi", "Properties": {"Name": "demo", "AuthenticationType": "API_KEY"}}
  }
}`), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(`AWSTemplateFormatVersion: "2010-09-09"
Resources:
  Api:
    Type: AWS::AppSync::GraphQLApi
    Properties:
      Name: demo
      AuthenticationType: AWS_IAM
`), 0o644))

	result, err := CompareFiles(jsonPath, yamlPath, Options{})
	require.NoError(t, err)
	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, []string{"AuthenticationType modified"}, result.Diff.Modified[0].Changes)

	_, err = CompareFiles(filepath.Join(dir, "missing.json"), yamlPath, Options{})
	assert.Error(t, err)
}

func TestLoadTemplateInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not: [valid"), 0o644))

	_, err := LoadTemplate(path)
	assert.Error(t, err)
}
