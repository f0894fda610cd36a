package appsync

import (
	"fmt"
	"os"
	"strings"
)

// MappingTemplate renders the VTL of a resolver or function request or
// response.
type MappingTemplate interface {
	RenderTemplate() string
}

type stringTemplate string

func (t stringTemplate) RenderTemplate() string { return string(t) }

// MappingTemplateFromString uses template verbatim.
func MappingTemplateFromString(template string) MappingTemplate {
	return stringTemplate(template)
}

// MappingTemplateFromFile reads a template file once.
func MappingTemplateFromFile(path string) (MappingTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping template: %w", err)
	}
	return stringTemplate(data), nil
}

// DynamoDbResultList returns the items of a Query or Scan.
func DynamoDbResultList() MappingTemplate {
	return stringTemplate("$util.toJson($ctx.result.items)")
}

// DynamoDbResultItem returns a single item.
func DynamoDbResultItem() MappingTemplate {
	return stringTemplate("$util.toJson($ctx.result)")
}

// DynamoDbScanTable scans the whole table.
func DynamoDbScanTable(consistentRead bool) MappingTemplate {
	return stringTemplate(fmt.Sprintf(
		`{"version" : "2017-02-28", "operation" : "Scan", "consistentRead": %t}`, consistentRead))
}

// DynamoDbQuery queries the table, or the named index when indexName is set.
// A zero cond leaves the query expression out.
func DynamoDbQuery(cond KeyCondition, indexName string, consistentRead bool) MappingTemplate {
	members := []string{fmt.Sprintf(`"consistentRead": %t`, consistentRead)}
	if indexName != "" {
		members = append(members, fmt.Sprintf(`"index" : "%s"`, indexName))
	}
	if query := cond.RenderTemplate(); query != "" {
		members = append(members, query)
	}
	return stringTemplate(`{"version" : "2017-02-28", "operation" : "Query", ` + strings.Join(members, ", ") + `}`)
}

// DynamoDbGetItem reads the item whose keyName equals the idArg argument.
func DynamoDbGetItem(keyName, idArg string, consistentRead bool) MappingTemplate {
	return stringTemplate(fmt.Sprintf(
		`{"version": "2017-02-28", "operation": "GetItem", "consistentRead": %t, "key": {"%s": $util.dynamodb.toDynamoDBJson($ctx.args.%s)}}`,
		consistentRead, keyName, idArg))
}

// DynamoDbDeleteItem deletes the item whose keyName equals the idArg argument.
func DynamoDbDeleteItem(keyName, idArg string) MappingTemplate {
	return stringTemplate(fmt.Sprintf(
		`{"version": "2017-02-28", "operation": "DeleteItem", "key": {"%s": $util.dynamodb.toDynamoDBJson($ctx.args.%s)}}`,
		keyName, idArg))
}

// DynamoDbPutItem writes an item with the given key and attributes.
func DynamoDbPutItem(key PrimaryKey, values AttributeValues) MappingTemplate {
	return stringTemplate(fmt.Sprintf(`
%s
{
  "version": "2017-02-28",
  "operation": "PutItem",
  %s,
  %s
}`, values.RenderVariables(), key.RenderTemplate(), values.RenderTemplate()))
}

// LambdaRequest invokes a function. payload defaults to the whole context and
// operation to Invoke.
func LambdaRequest(payload, operation string) MappingTemplate {
	if payload == "" {
		payload = "$util.toJson($ctx)"
	}
	if operation == "" {
		operation = "Invoke"
	}
	return stringTemplate(fmt.Sprintf(
		`{"version": "2017-02-28", "operation": "%s", "payload": %s}`, operation, payload))
}

// LambdaResult returns the function result.
func LambdaResult() MappingTemplate {
	return stringTemplate("$util.toJson($ctx.result)")
}
