package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-appsync-go/internal/graph"
)

func newGraphCmd(opts *globalOptions) *cobra.Command {
	var (
		outputFormat   string
		includeOutputs bool
		clusterByType  bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the resource dependency graph",
		Long: `Graph synthesizes the project and renders resource dependencies.

Solid edges are Ref dependencies, blue edges are GetAtt dependencies and
dashed edges are explicit DependsOn entries.

Examples:
    wetwire-appsync graph | dot -Tpng -o api.png
    wetwire-appsync graph --format mermaid
    wetwire-appsync graph --cluster --outputs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var format graph.Format
			switch outputFormat {
			case "dot":
				format = graph.FormatDOT
			case "mermaid":
				format = graph.FormatMermaid
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			logger := opts.logger()
			defer func() { _ = logger.Sync() }()

			tmpl, err := synthProject(opts.configFile, logger)
			if err != nil {
				return err
			}
			gen := &graph.Generator{
				Format:         format,
				IncludeOutputs: includeOutputs,
				ClusterByType:  clusterByType,
			}
			return gen.Generate(tmpl, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVar(&includeOutputs, "outputs", false, "Include output nodes in the graph")
	cmd.Flags().BoolVar(&clusterByType, "cluster", false, "Cluster resources by service")

	return cmd
}
