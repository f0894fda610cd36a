package appsync

import (
	"fmt"
	"slices"
)

// ObjectTypeOptions configures NewObjectType.
type ObjectTypeOptions struct {
	Definition []FieldDefinition
	Directives []Directive
	// InterfaceTypes must each be satisfied by Definition.
	InterfaceTypes []*InterfaceType
}

// ObjectType is a concrete GraphQL type. Its resolvable fields become
// resolvers once the type is bound to an API.
type ObjectType struct {
	name           string
	fields         fieldSet
	directives     []Directive
	interfaceTypes []*InterfaceType
	modes          []AuthorizationType

	api       IGraphqlApi
	resolvers []*Resolver
}

// NewObjectType returns an object type. It fails when a field of an
// implemented interface is missing or declared with a different signature.
func NewObjectType(name string, opts ObjectTypeOptions) (*ObjectType, error) {
	if err := validateTypeName(name); err != nil {
		return nil, err
	}
	for _, iface := range opts.InterfaceTypes {
		if iface == nil {
			return nil, invalidDefinition(name, "", "interface type is nil")
		}
	}
	t := &ObjectType{
		name:           name,
		directives:     slices.Clone(opts.Directives),
		interfaceTypes: slices.Clone(opts.InterfaceTypes),
	}
	for _, def := range opts.Definition {
		if err := t.AddField(AddFieldOptions{FieldName: def.Name, Field: def.Field}); err != nil {
			return nil, err
		}
	}
	for _, iface := range t.interfaceTypes {
		for _, def := range iface.Definition() {
			if _, ok := t.fields.get(def.Name); !ok {
				return nil, invalidDefinition(name, def.Name, "field of interface %s is not declared", iface.Name())
			}
		}
	}
	return t, nil
}

func (t *ObjectType) Name() string            { return t.name }
func (t *ObjectType) Directives() []Directive { return slices.Clone(t.directives) }

// Definition returns the fields in SDL order.
func (t *ObjectType) Definition() []FieldDefinition { return t.fields.definitions() }

// InterfaceTypes returns the implemented interfaces.
func (t *ObjectType) InterfaceTypes() []*InterfaceType { return slices.Clone(t.interfaceTypes) }

// Resolvers returns the resolvers generated for this type's fields.
func (t *ObjectType) Resolvers() []*Resolver { return slices.Clone(t.resolvers) }

// Attribute references the type from a field.
func (t *ObjectType) Attribute(opts ...BaseTypeOptions) GraphqlType {
	return attribute(t, opts)
}

// AddField appends a field. Both FieldName and Field are required. When the
// type is already bound, a resolvable field gets its resolver immediately.
func (t *ObjectType) AddField(opts AddFieldOptions) error {
	if err := validateNamedField(t.name, opts); err != nil {
		return err
	}
	if err := t.checkInterfaceField(opts.FieldName, opts.Field); err != nil {
		return err
	}
	if t.api != nil {
		if err := t.generateResolver(opts.FieldName, opts.Field); err != nil {
			return err
		}
	}
	t.fields.set(opts.FieldName, opts.Field)
	return nil
}

// checkInterfaceField rejects a field whose signature differs from the one
// an implemented interface declares under the same name.
func (t *ObjectType) checkInterfaceField(name string, f IField) error {
	for _, iface := range t.interfaceTypes {
		want, ok := iface.fields.get(name)
		if !ok {
			continue
		}
		if want.String() != f.String() || want.ArgsToString() != f.ArgsToString() {
			return invalidDefinition(t.name, name, "signature %s%s does not match interface %s (%s%s)",
				f.ArgsToString(), f.String(), iface.Name(), want.ArgsToString(), want.String())
		}
	}
	return nil
}

func (t *ObjectType) String() string {
	implements := make([]string, len(t.interfaceTypes))
	for i, iface := range t.interfaceTypes {
		implements[i] = iface.Name()
	}
	return renderBlock("type", t.name, implements, directivesToString(t.directives, t.modes), t.fields.lines(t.modes))
}

// unbind releases a type whose binding failed part way.
func (t *ObjectType) unbind() {
	t.api = nil
	t.modes = nil
	t.resolvers = nil
}

func (t *ObjectType) bind(api IGraphqlApi) error {
	if t.api != nil {
		if t.api == api {
			return nil
		}
		return fmt.Errorf("type %s is already bound to another API", t.name)
	}
	cp := api.Stack().checkpoint()
	t.api = api
	t.modes = api.Modes()
	for _, def := range t.fields.definitions() {
		if err := t.generateResolver(def.Name, def.Field); err != nil {
			api.Stack().rollback(cp)
			t.unbind()
			return err
		}
	}
	return nil
}

func (t *ObjectType) generateResolver(fieldName string, f IField) error {
	rf, ok := f.(*ResolvableField)
	if !ok || !rf.needsResolver() {
		return nil
	}
	opts := rf.resolvable
	cp := t.api.Stack().checkpoint()
	r, err := t.api.CreateResolver(ResolverProps{
		TypeName:                t.name,
		FieldName:               fieldName,
		DataSource:              opts.DataSource,
		PipelineConfig:          opts.PipelineConfig,
		RequestMappingTemplate:  opts.RequestMappingTemplate,
		ResponseMappingTemplate: opts.ResponseMappingTemplate,
		CachingConfig:           opts.CachingConfig,
		MaxBatchSize:            opts.MaxBatchSize,
	})
	if err != nil {
		t.api.Stack().rollback(cp)
		return fmt.Errorf("generating resolver for %s.%s: %w", t.name, fieldName, err)
	}
	t.resolvers = append(t.resolvers, r)
	return nil
}
