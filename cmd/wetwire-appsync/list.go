package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-appsync-go"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List synthesized resources",
		Long: `List synthesizes the project and prints every resource with its type.

Examples:
    wetwire-appsync list
    wetwire-appsync list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger()
			defer func() { _ = logger.Sync() }()

			tmpl, err := synthProject(opts.configFile, logger)
			if err != nil {
				return err
			}
			return outputListResult(cmd.OutOrStdout(), listResources(tmpl), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func listResources(tmpl *wetwire.Template) wetwire.ListResult {
	result := wetwire.ListResult{Resources: make([]wetwire.ListResource, 0, len(tmpl.Resources))}
	for name, res := range tmpl.Resources {
		result.Resources = append(result.Resources, wetwire.ListResource{
			Name:      name,
			Type:      res.Type,
			DependsOn: res.DependsOn,
		})
	}
	sort.Slice(result.Resources, func(i, j int) bool {
		return result.Resources[i].Name < result.Resources[j].Name
	})
	return result
}

func outputListResult(w io.Writer, result wetwire.ListResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if len(result.Resources) == 0 {
			fmt.Fprintln(w, "No resources found.")
			return nil
		}

		fmt.Fprintf(w, "Synthesized resources (%d):\n\n", len(result.Resources))
		for _, res := range result.Resources {
			fmt.Fprintf(w, "  %s: %s\n", res.Name, res.Type)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
