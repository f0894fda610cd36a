package appsync

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"go.uber.org/zap"

	wetwire "github.com/lex00/wetwire-appsync-go"
	"github.com/lex00/wetwire-appsync-go/internal/schema"
	"github.com/lex00/wetwire-appsync-go/internal/template"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]+`)

// StackProps configures NewStack.
type StackProps struct {
	Description string
	// Logger receives debug output from constructs. Defaults to a no-op logger.
	Logger *zap.Logger
}

// renderFunc produces a resource and its explicit dependencies at synthesis
// time. A nil resource is skipped.
type renderFunc func() (wetwire.Resource, []string, error)

type declaration struct {
	id     string
	render renderFunc
}

// Stack collects the resources declared by constructs and synthesizes them
// into one CloudFormation template.
type Stack struct {
	name        string
	description string
	logger      *zap.Logger
	now         func() time.Time

	decls   []declaration
	ids     map[string]bool
	order   []string
	outputs map[string]wetwire.Output
}

// NewStack returns an empty stack.
func NewStack(name string, props StackProps) *Stack {
	logger := props.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stack{
		name:        name,
		description: props.Description,
		logger:      logger,
		now:         time.Now,
		ids:         make(map[string]bool),
		outputs:     make(map[string]wetwire.Output),
	}
}

// Name is the stack name.
func (s *Stack) Name() string { return s.name }

// Logger is the logger constructs write to.
func (s *Stack) Logger() *zap.Logger { return s.logger }

// logicalID joins construct ids into a CloudFormation logical ID.
func logicalID(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strcase.ToCamel(p))
	}
	return nonAlphanumeric.ReplaceAllString(b.String(), "")
}

// allocateID reserves the logical ID of a construct the caller named.
func (s *Stack) allocateID(parts ...string) (string, error) {
	id := logicalID(parts...)
	if id == "" {
		return "", fmt.Errorf("%w: empty logical ID from %q", ErrMissingRequiredField, parts)
	}
	if s.ids[id] {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	s.ids[id] = true
	s.order = append(s.order, id)
	return id, nil
}

// uniqueID reserves a logical ID for a generated construct, appending a
// counter when the natural ID is taken.
func (s *Stack) uniqueID(parts ...string) string {
	base := logicalID(parts...)
	id := base
	for n := 2; s.ids[id]; n++ {
		id = fmt.Sprintf("%s%d", base, n)
	}
	s.ids[id] = true
	s.order = append(s.order, id)
	return id
}

func (s *Stack) declare(id string, render renderFunc) {
	s.decls = append(s.decls, declaration{id: id, render: render})
}

// checkpoint marks the IDs and declarations registered so far.
type checkpoint struct {
	ids   int
	decls int
}

func (s *Stack) checkpoint() checkpoint {
	return checkpoint{ids: len(s.order), decls: len(s.decls)}
}

// rollback forgets everything registered after cp.
func (s *Stack) rollback(cp checkpoint) {
	for _, id := range s.order[cp.ids:] {
		delete(s.ids, id)
	}
	s.order = s.order[:cp.ids]
	s.decls = s.decls[:cp.decls]
}

// AddOutput exports a value from the template.
func (s *Stack) AddOutput(name string, value any, description string) error {
	id := logicalID(name)
	if id == "" {
		return fmt.Errorf("%w: output name", ErrMissingRequiredField)
	}
	if _, ok := s.outputs[id]; ok {
		return fmt.Errorf("%w: output %s", ErrDuplicateID, id)
	}
	s.outputs[id] = wetwire.Output{Description: description, Value: value}
	return nil
}

// LogicalIDs returns the reserved logical IDs, sorted.
func (s *Stack) LogicalIDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Synth renders every declaration, orders the resources by dependency and
// validates the result against the resource schemas.
func (s *Stack) Synth() (*wetwire.Template, error) {
	b := template.NewBuilder()
	b.SetDescription(s.description)

	for _, d := range s.decls {
		res, deps, err := d.render()
		if err != nil {
			return nil, fmt.Errorf("synthesizing %s: %w", d.id, err)
		}
		if res == nil {
			s.logger.Debug("skipping empty declaration", zap.String("logicalId", d.id))
			continue
		}
		if err := b.Add(d.id, res, deps...); err != nil {
			return nil, err
		}
		s.logger.Debug("declared resource",
			zap.String("logicalId", d.id),
			zap.String("type", res.ResourceType()),
			zap.Strings("dependsOn", deps))
	}
	for name, out := range s.outputs {
		b.AddOutput(name, out)
	}

	tmpl, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("building stack %s: %w", s.name, err)
	}

	result, err := schema.ValidateTemplate(tmpl, schema.Options{})
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		s.logger.Warn("schema warning", zap.String("resource", w.Resource), zap.String("message", w.Message))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("validating stack %s: %w", s.name, err)
	}

	s.logger.Debug("synthesized stack",
		zap.String("stack", s.name),
		zap.Int("resources", len(tmpl.Resources)),
		zap.Strings("order", b.Sorted()))
	return tmpl, nil
}
