package appsync

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// schemaSegment is either raw SDL text or a type rendered at read time.
type schemaSegment struct {
	text string
	typ  IIntermediateType
}

// Schema accumulates the SDL of a GraphQL API.
//
// A code-first schema is built from types and root fields. A file-based
// schema starts from the file contents verbatim; code-first additions are
// still appended but never reconciled with the file.
type Schema struct {
	filePath string
	file     string
	segments []schemaSegment

	query        *ObjectType
	mutation     *ObjectType
	subscription *ObjectType

	api IGraphqlApi
}

// NewSchema returns an empty code-first schema.
func NewSchema() *Schema {
	return &Schema{}
}

// SchemaFromAsset returns a schema seeded with the contents of a .graphql
// file. The file is read once.
func SchemaFromAsset(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return &Schema{filePath: path, file: string(data)}, nil
}

// FilePath is the file the schema was loaded from, or "".
func (s *Schema) FilePath() string { return s.filePath }

// IsFileBased reports whether the schema was loaded from a file.
func (s *Schema) IsFileBased() bool { return s.filePath != "" }

// Definition renders the schema SDL.
func (s *Schema) Definition() string {
	var b strings.Builder
	if s.IsFileBased() {
		b.WriteString(s.file)
		// Keep appended declarations off the file's last line.
		if len(s.segments) > 0 && s.file != "" && !strings.HasSuffix(s.file, "\n") {
			b.WriteString("\n")
		}
	} else {
		b.WriteString(s.declaration())
	}
	for _, seg := range s.segments {
		if seg.typ != nil {
			b.WriteString(seg.typ.String())
			b.WriteString("\n")
			continue
		}
		b.WriteString(seg.text)
	}
	return b.String()
}

// declaration renders the schema block naming the root operation types.
func (s *Schema) declaration() string {
	var fields []string
	if s.query != nil {
		fields = append(fields, "query: "+s.query.Name())
	}
	if s.mutation != nil {
		fields = append(fields, "mutation: "+s.mutation.Name())
	}
	if s.subscription != nil {
		fields = append(fields, "subscription: "+s.subscription.Name())
	}
	if len(fields) == 0 {
		return ""
	}
	return "schema {\n  " + strings.Join(fields, "\n  ") + "\n}\n"
}

// AddType appends the type's declaration. Adding the same type twice
// declares it twice.
func (s *Schema) AddType(t IIntermediateType) (IIntermediateType, error) {
	if isNilType(t) {
		return nil, errors.New("schema: cannot add a nil type")
	}
	if s.api != nil {
		if err := t.bind(s.api); err != nil {
			return nil, err
		}
	}
	s.segments = append(s.segments, schemaSegment{typ: t})
	return t, nil
}

// AddQuery adds a field to the Query root type, creating it on first use.
func (s *Schema) AddQuery(fieldName string, field IField) (*ObjectType, error) {
	return s.addRootField(&s.query, "Query", fieldName, field)
}

// AddMutation adds a field to the Mutation root type, creating it on first use.
func (s *Schema) AddMutation(fieldName string, field IField) (*ObjectType, error) {
	return s.addRootField(&s.mutation, "Mutation", fieldName, field)
}

// AddSubscription adds a field to the Subscription root type, creating it on first use.
func (s *Schema) AddSubscription(fieldName string, field IField) (*ObjectType, error) {
	return s.addRootField(&s.subscription, "Subscription", fieldName, field)
}

func (s *Schema) addRootField(root **ObjectType, name, fieldName string, field IField) (*ObjectType, error) {
	opts := AddFieldOptions{FieldName: fieldName, Field: field}
	if err := validateNamedField(name, opts); err != nil {
		return nil, err
	}
	if *root == nil {
		t, err := NewObjectType(name, ObjectTypeOptions{})
		if err != nil {
			return nil, err
		}
		if err := t.AddField(opts); err != nil {
			return nil, err
		}
		if _, err := s.AddType(t); err != nil {
			return nil, err
		}
		*root = t
		return t, nil
	}
	if err := (*root).AddField(opts); err != nil {
		return nil, err
	}
	return *root, nil
}

// AddToSchema appends raw SDL. delimiter is written before text and a
// newline after it.
func (s *Schema) AddToSchema(text, delimiter string) {
	s.segments = append(s.segments, schemaSegment{text: delimiter + text + "\n"})
}

// Types returns the added types in order, including duplicates.
func (s *Schema) Types() []IIntermediateType {
	var types []IIntermediateType
	for _, seg := range s.segments {
		if seg.typ != nil {
			types = append(types, seg.typ)
		}
	}
	return types
}

// Validate parses the rendered SDL together with the AppSync scalars and
// directives and reports what a GraphQL server would reject.
func (s *Schema) Validate() error {
	name := "schema.graphql"
	if s.IsFileBased() {
		name = s.filePath
	}
	return ValidateSDL(name, s.Definition())
}

// checkBind reports why the schema or one of its object types cannot be
// bound to api.
func (s *Schema) checkBind(api IGraphqlApi) error {
	if s.api != nil && s.api != api {
		return errors.New("schema is already bound to another API")
	}
	for _, t := range s.Types() {
		if obj, ok := t.(*ObjectType); ok && obj.api != nil && obj.api != api {
			return fmt.Errorf("type %s is already bound to another API", obj.name)
		}
	}
	return nil
}

// bind attaches the schema and its types to api. On error the types bound
// by this call are released; their resources are left to the caller's
// stack rollback.
func (s *Schema) bind(api IGraphqlApi) error {
	if s.api == api {
		return nil
	}
	if err := s.checkBind(api); err != nil {
		return err
	}
	s.api = api
	var bound []*ObjectType
	for _, t := range s.Types() {
		obj, fresh := t.(*ObjectType)
		fresh = fresh && obj.api == nil
		if err := t.bind(api); err != nil {
			for _, o := range bound {
				o.unbind()
			}
			s.api = nil
			return err
		}
		if fresh {
			bound = append(bound, obj)
		}
	}
	return nil
}
