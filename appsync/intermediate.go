package appsync

import (
	"regexp"
	"slices"
	"strings"
)

var graphqlName = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// IIntermediateType is a user-defined GraphQL type: an object, interface,
// input, enum or union.
type IIntermediateType interface {
	Name() string
	Directives() []Directive
	// String renders the SDL declaration.
	String() string
	// Attribute references this type from a field or argument.
	Attribute(opts ...BaseTypeOptions) GraphqlType
	AddField(opts AddFieldOptions) error

	bind(api IGraphqlApi) error
}

// AddFieldOptions is the argument of IIntermediateType.AddField. Which of the
// two members is required depends on the type.
type AddFieldOptions struct {
	FieldName string
	Field     IField
}

// FieldDefinition is a named entry of an object, interface or input type.
type FieldDefinition struct {
	Name  string
	Field IField
}

// Def is shorthand for a FieldDefinition.
func Def(name string, f IField) FieldDefinition {
	return FieldDefinition{Name: name, Field: f}
}

// fieldSet keeps fields in insertion order. Re-adding a name replaces the
// field without moving it.
type fieldSet struct {
	names  []string
	fields map[string]IField
}

func (s *fieldSet) set(name string, f IField) {
	if s.fields == nil {
		s.fields = make(map[string]IField)
	}
	if _, ok := s.fields[name]; !ok {
		s.names = append(s.names, name)
	}
	s.fields[name] = f
}

func (s *fieldSet) get(name string) (IField, bool) {
	f, ok := s.fields[name]
	return f, ok
}

func (s *fieldSet) definitions() []FieldDefinition {
	defs := make([]FieldDefinition, len(s.names))
	for i, name := range s.names {
		defs[i] = FieldDefinition{Name: name, Field: s.fields[name]}
	}
	return defs
}

func (s *fieldSet) lines(modes []AuthorizationType) []string {
	lines := make([]string, len(s.names))
	for i, name := range s.names {
		lines[i] = fieldLine(name, s.fields[name], modes)
	}
	return lines
}

func fieldLine(name string, f IField, modes []AuthorizationType) string {
	line := name + f.ArgsToString() + ": " + f.String()
	if dirs := f.DirectivesToString(modes); dirs != "" {
		line += " " + dirs
	}
	return line
}

// renderBlock renders "prefix Name[ implements A & B][ dirs] {\n  line\n}".
func renderBlock(prefix, name string, implements []string, directives string, lines []string) string {
	var b strings.Builder
	b.WriteString(prefix + " " + name)
	if len(implements) > 0 {
		b.WriteString(" implements " + strings.Join(implements, " & "))
	}
	if directives != "" {
		b.WriteString(" " + directives)
	}
	b.WriteString(" {\n")
	for _, line := range lines {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func validateTypeName(name string) error {
	if !graphqlName.MatchString(name) {
		return invalidDefinition(name, "", "type name must match %s", graphqlName)
	}
	return nil
}

// validateNamedField checks the contract shared by object, interface and
// input types: both a field name and a typed field are required.
func validateNamedField(typeName string, opts AddFieldOptions) error {
	if opts.FieldName == "" {
		return invalidDefinition(typeName, "", "field name is required")
	}
	if !graphqlName.MatchString(opts.FieldName) {
		return invalidDefinition(typeName, opts.FieldName, "field name must match %s", graphqlName)
	}
	if isNilField(opts.Field) || opts.Field.Type() == "" {
		return invalidDefinition(typeName, opts.FieldName, "field must be an IField with a return type")
	}
	return nil
}

func isNilField(f IField) bool {
	switch v := f.(type) {
	case nil:
		return true
	case *Field:
		return v == nil
	case *ResolvableField:
		return v == nil
	}
	return false
}

func isNilType(t IIntermediateType) bool {
	switch v := t.(type) {
	case nil:
		return true
	case *ObjectType:
		return v == nil
	case *InterfaceType:
		return v == nil
	case *InputType:
		return v == nil
	case *EnumType:
		return v == nil
	case *UnionType:
		return v == nil
	}
	return false
}

func attribute(t IIntermediateType, opts []BaseTypeOptions) GraphqlType {
	var o BaseTypeOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return GraphqlType{
		typ:              TypeIntermediate,
		isList:           o.IsList || o.IsRequiredList,
		isRequired:       o.IsRequired,
		isRequiredList:   o.IsRequiredList,
		intermediateType: t,
	}
}

// InterfaceTypeOptions configures NewInterfaceType.
type InterfaceTypeOptions struct {
	Definition []FieldDefinition
	Directives []Directive
}

// InterfaceType is an abstract type that object types implement.
type InterfaceType struct {
	name       string
	fields     fieldSet
	directives []Directive
	modes      []AuthorizationType
}

// NewInterfaceType returns an interface type with the given fields.
func NewInterfaceType(name string, opts InterfaceTypeOptions) (*InterfaceType, error) {
	if err := validateTypeName(name); err != nil {
		return nil, err
	}
	t := &InterfaceType{name: name, directives: slices.Clone(opts.Directives)}
	for _, def := range opts.Definition {
		if err := t.AddField(AddFieldOptions{FieldName: def.Name, Field: def.Field}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *InterfaceType) Name() string            { return t.name }
func (t *InterfaceType) Directives() []Directive { return slices.Clone(t.directives) }

// Definition returns the fields in SDL order.
func (t *InterfaceType) Definition() []FieldDefinition { return t.fields.definitions() }

// Attribute references the interface from a field.
func (t *InterfaceType) Attribute(opts ...BaseTypeOptions) GraphqlType {
	return attribute(t, opts)
}

// AddField appends a field. Both FieldName and Field are required.
func (t *InterfaceType) AddField(opts AddFieldOptions) error {
	if err := validateNamedField(t.name, opts); err != nil {
		return err
	}
	t.fields.set(opts.FieldName, opts.Field)
	return nil
}

func (t *InterfaceType) String() string {
	return renderBlock("interface", t.name, nil, directivesToString(t.directives, t.modes), t.fields.lines(t.modes))
}

func (t *InterfaceType) bind(api IGraphqlApi) error {
	t.modes = api.Modes()
	return nil
}

// InputTypeOptions configures NewInputType.
type InputTypeOptions struct {
	Definition []FieldDefinition
}

// InputType is an argument object. Inputs carry no directives.
type InputType struct {
	name   string
	fields fieldSet
	modes  []AuthorizationType
}

// NewInputType returns an input type with the given fields.
func NewInputType(name string, opts InputTypeOptions) (*InputType, error) {
	if err := validateTypeName(name); err != nil {
		return nil, err
	}
	t := &InputType{name: name}
	for _, def := range opts.Definition {
		if err := t.AddField(AddFieldOptions{FieldName: def.Name, Field: def.Field}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *InputType) Name() string                  { return t.name }
func (t *InputType) Directives() []Directive       { return nil }
func (t *InputType) Definition() []FieldDefinition { return t.fields.definitions() }

func (t *InputType) Attribute(opts ...BaseTypeOptions) GraphqlType {
	return attribute(t, opts)
}

// AddField appends a field. Both FieldName and Field are required.
func (t *InputType) AddField(opts AddFieldOptions) error {
	if err := validateNamedField(t.name, opts); err != nil {
		return err
	}
	t.fields.set(opts.FieldName, opts.Field)
	return nil
}

func (t *InputType) String() string {
	return renderBlock("input", t.name, nil, "", t.fields.lines(t.modes))
}

func (t *InputType) bind(api IGraphqlApi) error {
	t.modes = api.Modes()
	return nil
}

// EnumTypeOptions configures NewEnumType.
type EnumTypeOptions struct {
	Definition []string
}

// EnumType is a closed set of values.
type EnumType struct {
	name   string
	values []string
}

// NewEnumType returns an enum with the given values in order.
func NewEnumType(name string, opts EnumTypeOptions) (*EnumType, error) {
	if err := validateTypeName(name); err != nil {
		return nil, err
	}
	t := &EnumType{name: name}
	for _, v := range opts.Definition {
		if err := t.AddField(AddFieldOptions{FieldName: v}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *EnumType) Name() string            { return t.name }
func (t *EnumType) Directives() []Directive { return nil }

// Values returns the enum values in order.
func (t *EnumType) Values() []string { return slices.Clone(t.values) }

func (t *EnumType) Attribute(opts ...BaseTypeOptions) GraphqlType {
	return attribute(t, opts)
}

// AddField appends a value. Only FieldName may be set.
func (t *EnumType) AddField(opts AddFieldOptions) error {
	if !isNilField(opts.Field) {
		return invalidDefinition(t.name, opts.FieldName, "enum values are names only, a field cannot be configured")
	}
	if opts.FieldName == "" {
		return invalidDefinition(t.name, "", "enum value name is required")
	}
	if strings.ContainsAny(opts.FieldName, " \t\r\n") {
		return invalidDefinition(t.name, opts.FieldName, "enum value cannot contain whitespace")
	}
	t.values = append(t.values, opts.FieldName)
	return nil
}

func (t *EnumType) String() string {
	return renderBlock("enum", t.name, nil, "", t.values)
}

func (t *EnumType) bind(IGraphqlApi) error { return nil }

// UnionTypeOptions configures NewUnionType.
type UnionTypeOptions struct {
	// Definition lists the member types. Only object types are allowed.
	Definition []IIntermediateType
	Directives []Directive
}

// UnionType is one of several object types.
type UnionType struct {
	name       string
	members    []*ObjectType
	directives []Directive
	modes      []AuthorizationType
}

// NewUnionType returns a union of object types.
func NewUnionType(name string, opts UnionTypeOptions) (*UnionType, error) {
	if err := validateTypeName(name); err != nil {
		return nil, err
	}
	t := &UnionType{name: name, directives: slices.Clone(opts.Directives)}
	for _, member := range opts.Definition {
		obj, ok := member.(*ObjectType)
		if !ok || obj == nil {
			return nil, invalidDefinition(name, "", "union members must be object types, got %T", member)
		}
		t.members = append(t.members, obj)
	}
	return t, nil
}

func (t *UnionType) Name() string            { return t.name }
func (t *UnionType) Directives() []Directive { return slices.Clone(t.directives) }

// Members returns the member object types in order.
func (t *UnionType) Members() []*ObjectType { return slices.Clone(t.members) }

func (t *UnionType) Attribute(opts ...BaseTypeOptions) GraphqlType {
	return attribute(t, opts)
}

// AddField adds a member. Only Field may be set, and it must reference an
// object type.
func (t *UnionType) AddField(opts AddFieldOptions) error {
	if opts.FieldName != "" {
		return invalidDefinition(t.name, opts.FieldName, "union members are types, a field name cannot be configured")
	}
	if isNilField(opts.Field) {
		return invalidDefinition(t.name, "", "a field referencing an object type is required")
	}
	obj, ok := opts.Field.IntermediateType().(*ObjectType)
	if !ok || obj == nil {
		return invalidDefinition(t.name, "", "union members must be object types")
	}
	t.members = append(t.members, obj)
	return nil
}

func (t *UnionType) String() string {
	names := make([]string, len(t.members))
	for i, m := range t.members {
		names[i] = m.Name()
	}
	head := "union " + t.name
	if dirs := directivesToString(t.directives, t.modes); dirs != "" {
		head += " " + dirs
	}
	return head + " = " + strings.Join(names, " | ")
}

func (t *UnionType) bind(api IGraphqlApi) error {
	t.modes = api.Modes()
	return nil
}
