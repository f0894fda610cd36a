package main

import (
	"fmt"

	"go.uber.org/zap"

	wetwire "github.com/lex00/wetwire-appsync-go"
	"github.com/lex00/wetwire-appsync-go/internal/config"
	"github.com/lex00/wetwire-appsync-go/internal/template"
)

// synthProject loads the project file and synthesizes its template.
func synthProject(path string, logger *zap.Logger) (*wetwire.Template, error) {
	project, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	stack, err := project.Build(logger)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", path, err)
	}
	tmpl, err := stack.Synth()
	if err != nil {
		return nil, fmt.Errorf("synthesizing %s: %w", path, err)
	}
	logger.Debug("synthesized project",
		zap.String("project", path),
		zap.Int("resources", len(tmpl.Resources)))
	return tmpl, nil
}

// encodeTemplate renders a template as json or yaml.
func encodeTemplate(tmpl *wetwire.Template, format string) ([]byte, error) {
	switch format {
	case "json":
		return template.ToJSON(tmpl)
	case "yaml":
		return template.ToYAML(tmpl)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
