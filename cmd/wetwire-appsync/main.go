// Command wetwire-appsync synthesizes AWS AppSync GraphQL APIs into
// CloudFormation templates.
//
// Usage:
//
//	wetwire-appsync build                 Generate CloudFormation template
//	wetwire-appsync validate              Check resources, schema and cfn-lint rules
//	wetwire-appsync init myapi            Create new project
//	wetwire-appsync version               Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lex00/wetwire-appsync-go/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "wetwire-appsync",
		Short: "Generate AppSync CloudFormation templates",
		Long: `wetwire-appsync synthesizes AWS AppSync GraphQL APIs into CloudFormation.

Describe the API in a project file:

    stack: {name: Demo}
    api:
      name: demo
      schemaFile: schema.graphql

Then generate CloudFormation JSON:

    wetwire-appsync build`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", config.DefaultFile, "Project file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log construct and synthesis details to stderr")

	rootCmd.AddCommand(
		newBuildCmd(opts),
		newValidateCmd(opts),
		newListCmd(opts),
		newGraphCmd(opts),
		newSchemaCmd(opts),
		newDiffCmd(opts),
		newWatchCmd(opts),
		newInitCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// logger returns a development logger under --verbose and a no-op one
// otherwise.
func (o *globalOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wetwire-appsync %s\n", getVersion())
		},
	}
}
