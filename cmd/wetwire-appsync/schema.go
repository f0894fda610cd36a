package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-appsync-go"
)

const schemaResourceType = "AWS::AppSync::GraphQLSchema"

func newSchemaCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the synthesized GraphQL schema",
		Long: `Schema synthesizes the project and prints the SDL that will be deployed.

Examples:
    wetwire-appsync schema > schema.graphql`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger()
			defer func() { _ = logger.Sync() }()

			tmpl, err := synthProject(opts.configFile, logger)
			if err != nil {
				return err
			}
			return writeSchemas(cmd.OutOrStdout(), tmpl)
		},
	}
}

// writeSchemas prints every GraphQLSchema definition. With more than one
// API each definition is preceded by a comment naming its resource.
func writeSchemas(w io.Writer, tmpl *wetwire.Template) error {
	var names []string
	for name, res := range tmpl.Resources {
		if res.Type == schemaResourceType {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no %s resource in template", schemaResourceType)
	}
	sort.Strings(names)

	for i, name := range names {
		def, ok := tmpl.Resources[name].Properties["Definition"].(string)
		if !ok {
			return fmt.Errorf("%s: Definition is not a string", name)
		}
		if len(names) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", name)
		}
		fmt.Fprint(w, def)
		if !strings.HasSuffix(def, "\n") {
			fmt.Fprintln(w)
		}
	}
	return nil
}
