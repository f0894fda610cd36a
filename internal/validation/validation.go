// Package validation checks synthesized AppSync templates.
//
// A template passes through three checks:
//   - schema: resource properties against the offline resource schemas
//   - sdl: every GraphQLSchema Definition parses as an AppSync schema
//   - cfn-lint-go: CloudFormation rules (library dependency)
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"

	wetwire "github.com/lex00/wetwire-appsync-go"
	"github.com/lex00/wetwire-appsync-go/appsync"
	"github.com/lex00/wetwire-appsync-go/internal/schema"
	"github.com/lex00/wetwire-appsync-go/internal/template"
)

// CfnLintResult contains the result of running cfn-lint.
type CfnLintResult struct {
	Passed        bool     `json:"passed"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	Informational []string `json:"informational"`
}

// TotalIssues returns the total number of issues found.
func (r CfnLintResult) TotalIssues() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Informational)
}

// Options selects the checks Validate runs.
type Options struct {
	// Strict reports properties unknown to the resource schema as warnings.
	Strict bool
	// SkipCfnLint disables the cfn-lint-go pass.
	SkipCfnLint bool
}

// Result contains all validation results for a template.
type Result struct {
	Resources     int            `json:"resources"`
	SchemaErrors  []string       `json:"schema_errors,omitempty"`
	SchemaWarning []string       `json:"schema_warnings,omitempty"`
	SDLErrors     []string       `json:"sdl_errors,omitempty"`
	CfnLintResult *CfnLintResult `json:"cfn_lint_result,omitempty"`
}

// Passed reports whether no check produced an error. Warnings are acceptable.
func (r *Result) Passed() bool {
	if len(r.SchemaErrors) > 0 || len(r.SDLErrors) > 0 {
		return false
	}
	return r.CfnLintResult == nil || r.CfnLintResult.Passed
}

// Errors returns every error message, schema first.
func (r *Result) Errors() []string {
	errs := append(append([]string{}, r.SchemaErrors...), r.SDLErrors...)
	if r.CfnLintResult != nil {
		errs = append(errs, r.CfnLintResult.Errors...)
	}
	return errs
}

// Warnings returns every warning message.
func (r *Result) Warnings() []string {
	warnings := append([]string{}, r.SchemaWarning...)
	if r.CfnLintResult != nil {
		warnings = append(warnings, r.CfnLintResult.Warnings...)
	}
	return warnings
}

// Validate runs the full validation pipeline on a template.
func Validate(tmpl *wetwire.Template, opts Options) (*Result, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("validate: nil template")
	}
	result := &Result{Resources: len(tmpl.Resources)}

	schemaResult, err := schema.ValidateTemplate(tmpl, schema.Options{Strict: opts.Strict})
	if err != nil {
		return nil, fmt.Errorf("running schema validation: %w", err)
	}
	for _, e := range schemaResult.Errors {
		result.SchemaErrors = append(result.SchemaErrors, e.Error())
	}
	for _, w := range schemaResult.Warnings {
		result.SchemaWarning = append(result.SchemaWarning, w.Error())
	}

	result.SDLErrors = ValidateSchemas(tmpl)

	if !opts.SkipCfnLint {
		cfnResult, err := LintTemplate(tmpl)
		if err != nil {
			return nil, fmt.Errorf("running cfn-lint: %w", err)
		}
		result.CfnLintResult = cfnResult
	}
	return result, nil
}

// ValidateSchemas parses the Definition of every GraphQLSchema resource.
// Definitions built from intrinsics (e.g. Fn::Sub) are skipped.
func ValidateSchemas(tmpl *wetwire.Template) []string {
	names := make([]string, 0, len(tmpl.Resources))
	for name := range tmpl.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []string
	for _, name := range names {
		res := tmpl.Resources[name]
		if res.Type != "AWS::AppSync::GraphQLSchema" {
			continue
		}
		sdl, ok := res.Properties["Definition"].(string)
		if !ok {
			continue
		}
		if err := appsync.ValidateSDL(name, sdl); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// LintTemplate writes tmpl to a temporary file and runs cfn-lint-go on it.
func LintTemplate(tmpl *wetwire.Template) (*CfnLintResult, error) {
	data, err := template.ToJSON(tmpl)
	if err != nil {
		return nil, fmt.Errorf("serializing template: %w", err)
	}
	dir, err := os.MkdirTemp("", "wetwire-appsync-lint")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "template.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing template: %w", err)
	}
	return RunCfnLint(path)
}

// RunCfnLint runs cfn-lint-go on the given template file.
func RunCfnLint(templatePath string) (*CfnLintResult, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Template file not found: %s", templatePath)},
		}, nil
	}

	linter := lint.New(lint.Options{})
	matches, err := linter.LintFile(templatePath)
	if err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Linter error: %v", err)},
		}, nil
	}

	result := &CfnLintResult{
		Errors:        []string{},
		Warnings:      []string{},
		Informational: []string{},
	}
	for _, match := range matches {
		formatted := formatMatch(match)
		switch match.Level {
		case "Error":
			result.Errors = append(result.Errors, formatted)
		case "Warning":
			result.Warnings = append(result.Warnings, formatted)
		default:
			result.Informational = append(result.Informational, formatted)
		}
	}
	result.Passed = len(result.Errors) == 0
	return result, nil
}

func formatMatch(match lint.Match) string {
	if len(match.Location.Path) == 0 {
		return fmt.Sprintf("%s: %s", match.Rule.ID, match.Message)
	}
	parts := make([]string, len(match.Location.Path))
	for i, p := range match.Location.Path {
		parts[i] = fmt.Sprintf("%v", p)
	}
	return fmt.Sprintf("%s: %s (at %s)", match.Rule.ID, match.Message, strings.Join(parts, "/"))
}
