package appsync

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingTemplates(t *testing.T) {
	tests := []struct {
		name     string
		template MappingTemplate
		expected string
	}{
		{"from string", MappingTemplateFromString("{}"), "{}"},
		{"result list", DynamoDbResultList(), "$util.toJson($ctx.result.items)"},
		{"result item", DynamoDbResultItem(), "$util.toJson($ctx.result)"},
		{"scan", DynamoDbScanTable(false), `{"version" : "2017-02-28", "operation" : "Scan", "consistentRead": false}`},
		{"consistent scan", DynamoDbScanTable(true), `{"version" : "2017-02-28", "operation" : "Scan", "consistentRead": true}`},
		{
			"get item",
			DynamoDbGetItem("id", "id", false),
			`{"version": "2017-02-28", "operation": "GetItem", "consistentRead": false, "key": {"id": $util.dynamodb.toDynamoDBJson($ctx.args.id)}}`,
		},
		{
			"delete item",
			DynamoDbDeleteItem("pk", "demoId"),
			`{"version": "2017-02-28", "operation": "DeleteItem", "key": {"pk": $util.dynamodb.toDynamoDBJson($ctx.args.demoId)}}`,
		},
		{"lambda request", LambdaRequest("", ""), `{"version": "2017-02-28", "operation": "Invoke", "payload": $util.toJson($ctx)}`},
		{
			"lambda batch request",
			LambdaRequest("$util.toJson($ctx.args)", "BatchInvoke"),
			`{"version": "2017-02-28", "operation": "BatchInvoke", "payload": $util.toJson($ctx.args)}`,
		},
		{"lambda result", LambdaResult(), "$util.toJson($ctx.result)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.template.RenderTemplate())
		})
	}
}

func TestMappingTemplateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.vtl")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "2018-05-29"}`), 0o644))

	tmpl, err := MappingTemplateFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"version": "2018-05-29"}`, tmpl.RenderTemplate())

	_, err = MappingTemplateFromFile(filepath.Join(t.TempDir(), "missing.vtl"))
	assert.Error(t, err)
}

func TestKeyCondition(t *testing.T) {
	tests := []struct {
		name       string
		cond       KeyCondition
		expression string
		names      string
		values     string
	}{
		{"eq", KeyConditionEq("id", "id"), "#id = :id", `"#id" : "id"`, `":id" : $util.dynamodb.toDynamoDBJson($ctx.args.id)`},
		{"lt", KeyConditionLt("order", "max"), "#order < :max", `"#order" : "order"`, `":max" : $util.dynamodb.toDynamoDBJson($ctx.args.max)`},
		{"le", KeyConditionLe("order", "max"), "#order <= :max", `"#order" : "order"`, `":max" : $util.dynamodb.toDynamoDBJson($ctx.args.max)`},
		{"gt", KeyConditionGt("order", "min"), "#order > :min", `"#order" : "order"`, `":min" : $util.dynamodb.toDynamoDBJson($ctx.args.min)`},
		{"ge", KeyConditionGe("order", "min"), "#order >= :min", `"#order" : "order"`, `":min" : $util.dynamodb.toDynamoDBJson($ctx.args.min)`},
		{
			"begins with",
			KeyConditionBeginsWith("name", "prefix"),
			"begins_with(#name, :prefix)",
			`"#name" : "name"`,
			`":prefix" : $util.dynamodb.toDynamoDBJson($ctx.args.prefix)`,
		},
		{
			"between",
			KeyConditionBetween("order", "lo", "hi"),
			"#order BETWEEN :lo AND :hi",
			`"#order" : "order"`,
			`":lo" : $util.dynamodb.toDynamoDBJson($ctx.args.lo), ":hi" : $util.dynamodb.toDynamoDBJson($ctx.args.hi)`,
		},
		{
			"and",
			KeyConditionEq("id", "id").And(KeyConditionBeginsWith("sk", "prefix")),
			"#id = :id AND begins_with(#sk, :prefix)",
			`"#id" : "id", "#sk" : "sk"`,
			`":id" : $util.dynamodb.toDynamoDBJson($ctx.args.id), ":prefix" : $util.dynamodb.toDynamoDBJson($ctx.args.prefix)`,
		},
		{
			"and dedupes names and args",
			KeyConditionGe("order", "x").And(KeyConditionLe("order", "x")),
			"#order >= :x AND #order <= :x",
			`"#order" : "order"`,
			`":x" : $util.dynamodb.toDynamoDBJson($ctx.args.x)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := "\"query\" : {\n" +
				"    \"expression\" : \"" + tt.expression + "\",\n" +
				"    \"expressionNames\" : {\n" +
				"      " + tt.names + "\n" +
				"    },\n" +
				"    \"expressionValues\" : {\n" +
				"      " + tt.values + "\n" +
				"    }\n" +
				"  }"
			assert.Equal(t, expected, tt.cond.RenderTemplate())
		})
	}
}

func TestDynamoDbQuery(t *testing.T) {
	cond := KeyConditionEq("id", "id")

	plain := DynamoDbQuery(cond, "", false).RenderTemplate()
	assert.Equal(t, `{"version" : "2017-02-28", "operation" : "Query", "consistentRead": false, `+cond.RenderTemplate()+`}`, plain)

	indexed := DynamoDbQuery(cond, "byId", true).RenderTemplate()
	assert.Equal(t, `{"version" : "2017-02-28", "operation" : "Query", "consistentRead": true, "index" : "byId", `+cond.RenderTemplate()+`}`, indexed)
}

func TestDynamoDbQuery_ZeroCondition(t *testing.T) {
	plain := DynamoDbQuery(KeyCondition{}, "", false).RenderTemplate()
	assert.Equal(t, `{"version" : "2017-02-28", "operation" : "Query", "consistentRead": false}`, plain)
	assert.True(t, json.Valid([]byte(plain)))

	indexed := DynamoDbQuery(KeyCondition{}, "byId", true).RenderTemplate()
	assert.Equal(t, `{"version" : "2017-02-28", "operation" : "Query", "consistentRead": true, "index" : "byId"}`, indexed)
	assert.True(t, json.Valid([]byte(indexed)))

	cond := KeyConditionEq("id", "id")
	assert.Equal(t, cond.RenderTemplate(), KeyCondition{}.And(cond).RenderTemplate())
	assert.Equal(t, cond.RenderTemplate(), cond.And(KeyCondition{}).RenderTemplate())
}

func TestPrimaryKey(t *testing.T) {
	tests := []struct {
		name     string
		key      PrimaryKey
		expected string
	}{
		{
			"partition from argument",
			Partition("id").Is("id"),
			"\"key\" : {\n    \"id\" : $util.dynamodb.toDynamoDBJson($ctx.args.id)\n  }",
		},
		{
			"generated partition",
			Partition("id").Auto(),
			"\"key\" : {\n    \"id\" : $util.dynamodb.toDynamoDBJson($util.autoId())\n  }",
		},
		{
			"partition and sort",
			Partition("pk").Is("owner").Sort("sk").Auto(),
			"\"key\" : {\n    \"pk\" : $util.dynamodb.toDynamoDBJson($ctx.args.owner),\n    \"sk\" : $util.dynamodb.toDynamoDBJson($util.autoId())\n  }",
		},
		{
			"sort replaced",
			Partition("pk").Auto().Sort("a").Is("a").Sort("b").Is("b"),
			"\"key\" : {\n    \"pk\" : $util.dynamodb.toDynamoDBJson($util.autoId()),\n    \"b\" : $util.dynamodb.toDynamoDBJson($ctx.args.b)\n  }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.key.RenderTemplate())
		})
	}
}

func TestAssign(t *testing.T) {
	a := NewAssign("name", "$ctx.args.name")
	assert.Equal(t, `$util.qr($input.put("name", $ctx.args.name))`, a.PutInMap("input"))
	assert.Equal(t, `"name" : $util.dynamodb.toDynamoDBJson($ctx.args.name)`, a.RenderAsAssignment())
}

func TestAttributeValues(t *testing.T) {
	assert.Equal(t, "#set($input = $ctx.args)", ValuesProjecting("").RenderVariables())
	assert.Equal(t, "#set($input = $ctx.args.input)", ValuesProjecting("input").RenderVariables())

	base := ValuesAttribute("name").Is("$ctx.args.name")
	extended := base.Attribute("version").Is("$ctx.args.version")

	assert.Equal(t, "#set($input = {})\n$util.qr($input.put(\"name\", $ctx.args.name))", base.RenderVariables())
	assert.Equal(t,
		"#set($input = {})\n$util.qr($input.put(\"name\", $ctx.args.name))\n$util.qr($input.put(\"version\", $ctx.args.version))",
		extended.RenderVariables())
	assert.Equal(t, `"attributeValues": $util.dynamodb.toMapValuesJson($input)`, extended.RenderTemplate())
}

func TestAttributeValues_Zero(t *testing.T) {
	assert.Equal(t, "#set($input = $ctx.args)", AttributeValues{}.RenderVariables())

	tmpl := DynamoDbPutItem(Partition("id").Auto(), AttributeValues{}).RenderTemplate()
	assert.Contains(t, tmpl, "#set($input = $ctx.args)\n")
	assert.NotContains(t, tmpl, "#set($input = )")
}

func TestDynamoDbPutItem(t *testing.T) {
	tmpl := DynamoDbPutItem(Partition("id").Auto(), ValuesProjecting("input"))

	expected := "\n#set($input = $ctx.args.input)\n" +
		"{\n" +
		"  \"version\": \"2017-02-28\",\n" +
		"  \"operation\": \"PutItem\",\n" +
		"  \"key\" : {\n    \"id\" : $util.dynamodb.toDynamoDBJson($util.autoId())\n  },\n" +
		"  \"attributeValues\": $util.dynamodb.toMapValuesJson($input)\n" +
		"}"
	assert.Equal(t, expected, tmpl.RenderTemplate())
}
