// Package appsync is a code-first construct library for AWS AppSync GraphQL APIs.
//
// Types, fields and directives are assembled into a Schema that renders
// GraphQL SDL. A GraphqlApi owns the schema, its authorization modes, data
// sources, resolvers and pipeline functions. Every construct registers the
// CloudFormation resources it needs with a Stack, and Stack.Synth produces
// the template:
//
//	stack := appsync.NewStack("Demo", appsync.StackProps{})
//	api, err := appsync.NewGraphqlApi(stack, "Api", appsync.GraphqlApiProps{Name: "demo"})
//	if err != nil {
//	    return err
//	}
//
//	demo, _ := appsync.NewObjectType("Demo", appsync.ObjectTypeOptions{
//	    Definition: []appsync.FieldDefinition{
//	        appsync.Def("id", appsync.ID(appsync.BaseTypeOptions{IsRequired: true})),
//	        appsync.Def("version", appsync.String(appsync.BaseTypeOptions{IsRequired: true})),
//	    },
//	})
//	api.AddType(demo)
//
//	table, _ := api.AddDynamoDbDataSource("Table", appsync.Table{TableName: "demos", TableArn: arn}, appsync.DynamoDbDataSourceOptions{})
//	list, _ := appsync.NewResolvableField(appsync.ResolvableFieldOptions{
//	    FieldOptions:            appsync.FieldOptions{ReturnType: demo.Attribute(appsync.BaseTypeOptions{IsList: true})},
//	    DataSource:              table,
//	    RequestMappingTemplate:  appsync.DynamoDbScanTable(false),
//	    ResponseMappingTemplate: appsync.DynamoDbResultList(),
//	})
//	api.AddQuery("getDemos", list)
//
//	tmpl, err := stack.Synth()
//
// Nothing here talks to AWS. Mapping templates are rendered as VTL text and
// never executed, and grants only build policy statements.
package appsync
