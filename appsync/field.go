package appsync

import (
	"fmt"
	"strings"
)

// Argument is a named field argument.
type Argument struct {
	Name string
	Type GraphqlType
}

// Arg is shorthand for an Argument.
func Arg(name string, t GraphqlType) Argument {
	return Argument{Name: name, Type: t}
}

// FieldOptions configures a Field.
type FieldOptions struct {
	// ReturnType is the type the field resolves to.
	ReturnType GraphqlType
	// Args are rendered in order.
	Args []Argument
	// Directives are rendered after the return type.
	Directives []Directive
}

// Field is a return type with arguments and directives.
type Field struct {
	GraphqlType
	options FieldOptions
}

// NewField returns a field. A zero ReturnType is rejected when the field is
// added to a type.
func NewField(opts FieldOptions) *Field {
	return &Field{GraphqlType: opts.ReturnType, options: opts}
}

// ArgsToString renders the argument list as "(a: String, b: Int!)", or ""
// without arguments.
func (f *Field) ArgsToString() string {
	return argsToString(f.options.Args)
}

// DirectivesToString renders the directives for the given API modes.
func (f *Field) DirectivesToString(modes []AuthorizationType) string {
	return directivesToString(f.options.Directives, modes)
}

// FieldOptions returns the options the field was built from.
func (f *Field) FieldOptions() *ResolvableFieldOptions {
	return &ResolvableFieldOptions{FieldOptions: f.options}
}

// ResolvableFieldOptions configures a ResolvableField.
type ResolvableFieldOptions struct {
	FieldOptions

	// DataSource backs a unit resolver. Mutually exclusive with PipelineConfig.
	DataSource IDataSource
	// PipelineConfig lists the functions of a pipeline resolver.
	PipelineConfig []IAppsyncFunction

	RequestMappingTemplate  MappingTemplate
	ResponseMappingTemplate MappingTemplate
	CachingConfig           *CachingConfig
	MaxBatchSize            int
}

// ResolvableField is a field whose resolver is generated when its object
// type is bound to an API.
type ResolvableField struct {
	Field
	resolvable ResolvableFieldOptions
}

// NewResolvableField returns a field that carries resolver configuration.
func NewResolvableField(opts ResolvableFieldOptions) (*ResolvableField, error) {
	if !isNilDataSource(opts.DataSource) && len(opts.PipelineConfig) > 0 {
		return nil, fmt.Errorf("%w: pipeline resolver field cannot have a data source", ErrInvalidResolver)
	}
	return &ResolvableField{
		Field:      Field{GraphqlType: opts.ReturnType, options: opts.FieldOptions},
		resolvable: opts,
	}, nil
}

// FieldOptions returns the resolvable options the field was built from.
func (f *ResolvableField) FieldOptions() *ResolvableFieldOptions {
	opts := f.resolvable
	return &opts
}

// Kind is PIPELINE when the field has pipeline functions and UNIT otherwise.
func (f *ResolvableField) Kind() ResolverKind {
	if len(f.resolvable.PipelineConfig) > 0 {
		return ResolverKindPipeline
	}
	return ResolverKindUnit
}

// needsResolver reports whether binding the field should create a resolver.
func (f *ResolvableField) needsResolver() bool {
	return !isNilDataSource(f.resolvable.DataSource) || len(f.resolvable.PipelineConfig) > 0
}

func argsToString(args []Argument) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Name + ": " + a.Type.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
