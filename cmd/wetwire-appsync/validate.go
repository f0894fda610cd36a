package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-appsync-go"
	"github.com/lex00/wetwire-appsync-go/internal/validation"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var (
		outputFormat string
		strict       bool
		skipLint     bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the synthesized template",
		Long: `Validate synthesizes the project and checks the result.

Checks performed:
    - Resource properties against the CloudFormation resource schemas
    - GraphQL schema definitions parse and validate
    - cfn-lint rules on the generated template

Examples:
    wetwire-appsync validate
    wetwire-appsync validate --strict --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), opts, outputFormat, validation.Options{
				Strict:      strict,
				SkipCfnLint: skipLint,
			})
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat schema warnings as errors")
	cmd.Flags().BoolVar(&skipLint, "skip-lint", false, "Skip cfn-lint rules")

	return cmd
}

func runValidate(w io.Writer, opts *globalOptions, format string, vopts validation.Options) error {
	logger := opts.logger()
	defer func() { _ = logger.Sync() }()

	tmpl, err := synthProject(opts.configFile, logger)
	if err != nil {
		return err
	}
	res, err := validation.Validate(tmpl, vopts)
	if err != nil {
		return err
	}

	result := wetwire.ValidateResult{
		Success:   res.Passed(),
		Resources: res.Resources,
		Errors:    res.Errors(),
		Warnings:  res.Warnings(),
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case "text":
		writeValidateText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Success {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func writeValidateText(w io.Writer, result wetwire.ValidateResult) {
	if result.Success {
		fmt.Fprintf(w, "Validation passed: %d resources OK\n", result.Resources)
	} else {
		fmt.Fprintln(w, "Validation FAILED:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  ERROR: %s\n", e)
		}
	}
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "  WARNING: %s\n", warn)
	}
}
