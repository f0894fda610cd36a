package template

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	wetwire "github.com/lex00/wetwire-appsync-go"
	"github.com/lex00/wetwire-appsync-go/resources/appsync"
	"github.com/lex00/wetwire-appsync-go/resources/iam"
)

func apiID(name string) wetwire.AttrRef {
	return wetwire.AttrRef{Resource: name, Attribute: "ApiId"}
}

func TestBuilder_Build_SimpleResource(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("DemoApi", appsync.GraphQLApi{Name: "demo", AuthenticationType: "API_KEY"}))

	tmpl, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "2010-09-09", tmpl.AWSTemplateFormatVersion)
	require.Len(t, tmpl.Resources, 1)

	api := tmpl.Resources["DemoApi"]
	assert.Equal(t, "AWS::AppSync::GraphQLApi", api.Type)
	assert.Equal(t, "demo", api.Properties["Name"])
	assert.Empty(t, api.DependsOn)
}

func TestBuilder_Build_WithDependencies(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("DemoApiQueryGetDemosResolver", appsync.Resolver{
		ApiId:          apiID("DemoApi"),
		TypeName:       "Query",
		FieldName:      "getDemos",
		DataSourceName: wetwire.AttrRef{Resource: "DemoApiTable", Attribute: "Name"},
	}, "DemoApiSchema", "DemoApiTable"))
	require.NoError(t, b.Add("DemoApiTable", appsync.DataSource{ApiId: apiID("DemoApi"), Name: "table", Type: "NONE"}))
	require.NoError(t, b.Add("DemoApiSchema", appsync.GraphQLSchema{ApiId: apiID("DemoApi"), Definition: "type Query {\n}\n"}))
	require.NoError(t, b.Add("DemoApi", appsync.GraphQLApi{Name: "demo", AuthenticationType: "API_KEY"}))

	tmpl, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, tmpl.Resources, 4)

	resolver := tmpl.Resources["DemoApiQueryGetDemosResolver"]
	assert.Equal(t, []string{"DemoApiSchema", "DemoApiTable"}, resolver.DependsOn)

	order := b.Sorted()
	pos := make(map[string]int)
	for i, name := range order {
		pos[name] = i
	}
	assert.Less(t, pos["DemoApi"], pos["DemoApiSchema"])
	assert.Less(t, pos["DemoApi"], pos["DemoApiTable"])
	assert.Less(t, pos["DemoApiSchema"], pos["DemoApiQueryGetDemosResolver"])
	assert.Less(t, pos["DemoApiTable"], pos["DemoApiQueryGetDemosResolver"])
}

func TestBuilder_TopologicalSort_Deterministic(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("Zeta", appsync.GraphQLApi{Name: "z"}))
	require.NoError(t, b.Add("Alpha", appsync.GraphQLApi{Name: "a"}))
	require.NoError(t, b.Add("Mid", appsync.ApiKey{ApiId: apiID("Zeta")}))

	_, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Zeta", "Mid"}, b.Sorted())
}

func TestBuilder_DetectCycle(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("RoleA", iam.Role{RoleName: "a"}, "RoleB"))
	require.NoError(t, b.Add("RoleB", iam.Role{RoleName: "b"}, "RoleA"))

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
	assert.Contains(t, err.Error(), "RoleA")
	assert.Contains(t, err.Error(), "RoleB")
}

func TestBuilder_UnknownDependency(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("DemoApiKey", appsync.ApiKey{ApiId: apiID("DemoApi")}, "Missing"))
	require.NoError(t, b.Add("DemoApi", appsync.GraphQLApi{Name: "demo"}))

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depends on unknown resource Missing")
}

func TestBuilder_UnknownReference(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("DemoApiKey", appsync.ApiKey{ApiId: apiID("Ghost")}))

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "references unknown resource Ghost")
}

func TestBuilder_Add_Errors(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("DemoApi", appsync.GraphQLApi{}))

	assert.ErrorContains(t, b.Add("DemoApi", appsync.GraphQLApi{}), "duplicate resource name")
	assert.Error(t, b.Add("", appsync.GraphQLApi{}))
	assert.Error(t, b.Add("Nil", nil))
}

func TestBuilder_Declarations(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("B", appsync.GraphQLApi{}))
	require.NoError(t, b.Add("A", appsync.GraphQLApi{}, "B", "B"))

	decls := b.Declarations()
	require.Len(t, decls, 2)
	assert.Equal(t, "B", decls[0].Name)
	assert.Equal(t, []string{"B"}, decls[1].DependsOn)
}

func TestBuilder_Outputs(t *testing.T) {
	b := NewBuilder()
	b.SetDescription("demo stack")
	require.NoError(t, b.Add("DemoApi", appsync.GraphQLApi{Name: "demo"}))
	b.AddOutput("GraphQLUrl", wetwire.Output{Value: wetwire.AttrRef{Resource: "DemoApi", Attribute: "GraphQLUrl"}})

	tmpl, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "demo stack", tmpl.Description)
	require.Contains(t, tmpl.Outputs, "GraphQLUrl")
}

func TestToJSON(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("DemoApi", appsync.GraphQLApi{Name: "demo", AuthenticationType: "API_KEY"}))
	tmpl, err := b.Build()
	require.NoError(t, err)

	data, err := ToJSON(tmpl)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "2010-09-09", parsed["AWSTemplateFormatVersion"])
	assert.Contains(t, string(data), "\n  \"Resources\"")
}

func TestToYAML(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("DemoApiSchema", appsync.GraphQLSchema{Definition: "type Query {\n  a: String\n}\n"}))
	tmpl, err := b.Build()
	require.NoError(t, err)

	data, err := ToYAML(tmpl)
	require.NoError(t, err)

	var parsed wetwire.Template
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, "type Query {\n  a: String\n}\n", parsed.Resources["DemoApiSchema"].Properties["Definition"])
}
