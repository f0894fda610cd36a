package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newBuildCmd(opts *globalOptions) *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate CloudFormation template from the project file",
		Long: `Build synthesizes the project's GraphQL API into a CloudFormation template.

Examples:
    wetwire-appsync build
    wetwire-appsync build -o template.json
    wetwire-appsync build -c api/wetwire-appsync.yaml --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.OutOrStdout(), opts, outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runBuild(w io.Writer, opts *globalOptions, format, outputFile string) error {
	logger := opts.logger()
	defer func() { _ = logger.Sync() }()

	tmpl, err := synthProject(opts.configFile, logger)
	if err != nil {
		return err
	}
	data, err := encodeTemplate(tmpl, format)
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Fprintln(w, string(data))
		return nil
	}
	return os.WriteFile(outputFile, data, 0644)
}
