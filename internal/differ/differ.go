// Package differ provides semantic comparison of synthesized AppSync templates.
//
// Resource properties are compared structurally. The Definition of an
// AWS::AppSync::GraphQLSchema is compared as GraphQL SDL, so a reordered or
// reformatted schema produces no change and an edited one is reported per
// type and field.
package differ

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"gopkg.in/yaml.v3"

	wetwire "github.com/lex00/wetwire-appsync-go"
)

const schemaType = "AWS::AppSync::GraphQLSchema"

// Options configures the differ.
type Options struct {
	// IgnoreOrder ignores array element order in comparisons
	IgnoreOrder bool
}

// Result contains the difference between two templates.
type Result struct {
	Diff    wetwire.TemplateDiff
	Summary wetwire.DiffSummary
}

// Compare compares two templates and returns differences.
func Compare(template1, template2 *wetwire.Template, opts Options) (*Result, error) {
	if template1 == nil || template2 == nil {
		return nil, fmt.Errorf("compare: nil template")
	}
	res1, err := normalizeResources(template1.Resources)
	if err != nil {
		return nil, err
	}
	res2, err := normalizeResources(template2.Resources)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, name := range sortedNames(res2) {
		if _, exists := res1[name]; !exists {
			result.Diff.Added = append(result.Diff.Added, wetwire.DiffEntry{Resource: name, Type: res2[name].Type})
		}
	}
	for _, name := range sortedNames(res1) {
		def1 := res1[name]
		def2, exists := res2[name]
		if !exists {
			result.Diff.Removed = append(result.Diff.Removed, wetwire.DiffEntry{Resource: name, Type: def1.Type})
			continue
		}
		changes, err := compareResources(def1, def2, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if len(changes) > 0 {
			result.Diff.Modified = append(result.Diff.Modified, wetwire.DiffEntry{
				Resource: name,
				Type:     def1.Type,
				Changes:  changes,
			})
		}
	}

	result.Summary = wetwire.DiffSummary{
		Added:    len(result.Diff.Added),
		Removed:  len(result.Diff.Removed),
		Modified: len(result.Diff.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified
	return result, nil
}

// CompareFiles compares two template files.
func CompareFiles(file1, file2 string, opts Options) (*Result, error) {
	t1, err := LoadTemplate(file1)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file1, err)
	}
	t2, err := LoadTemplate(file2)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file2, err)
	}
	return Compare(t1, t2, opts)
}

// LoadTemplate loads a template from a JSON or YAML file.
func LoadTemplate(path string) (*wetwire.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var template wetwire.Template
	if err := json.Unmarshal(data, &template); err != nil {
		if err := yaml.Unmarshal(data, &template); err != nil {
			return nil, fmt.Errorf("failed to parse as JSON or YAML: %w", err)
		}
	}
	return &template, nil
}

// normalizeResources round-trips properties through JSON so synthesized
// values (int64, typed slices, intrinsics) compare equal to loaded ones.
func normalizeResources(resources map[string]wetwire.ResourceDef) (map[string]wetwire.ResourceDef, error) {
	out := make(map[string]wetwire.ResourceDef, len(resources))
	for name, def := range resources {
		if def.Properties != nil {
			data, err := json.Marshal(def.Properties)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			var props map[string]any
			if err := json.Unmarshal(data, &props); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			def.Properties = props
		}
		out[name] = def
	}
	return out, nil
}

func compareResources(def1, def2 wetwire.ResourceDef, opts Options) ([]string, error) {
	var changes []string

	if def1.Type != def2.Type {
		changes = append(changes, fmt.Sprintf("Type changed: %s → %s", def1.Type, def2.Type))
	}

	props1, props2 := def1.Properties, def2.Properties
	if def1.Type == schemaType && def2.Type == schemaType {
		sdl1, ok1 := props1["Definition"].(string)
		sdl2, ok2 := props2["Definition"].(string)
		if ok1 && ok2 {
			sdlChanges, err := CompareSDL(sdl1, sdl2)
			if err != nil {
				return nil, err
			}
			for _, c := range sdlChanges {
				changes = append(changes, "Definition: "+c)
			}
			props1 = withoutKey(props1, "Definition")
			props2 = withoutKey(props2, "Definition")
		}
	}
	changes = append(changes, compareProperties("", props1, props2, opts)...)

	if !cmp.Equal(def1.DependsOn, def2.DependsOn, cmpopts.EquateEmpty(), cmpopts.SortSlices(lessString)) {
		changes = append(changes, "DependsOn changed")
	}
	return changes, nil
}

// compareProperties compares property maps, descending into nested maps.
func compareProperties(prefix string, props1, props2 map[string]any, opts Options) []string {
	var changes []string

	for key, val2 := range props2 {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		val1, exists := props1[key]
		if !exists {
			changes = append(changes, path+" added")
			continue
		}
		m1, ok1 := val1.(map[string]any)
		m2, ok2 := val2.(map[string]any)
		if ok1 && ok2 && !isIntrinsic(m1) && !isIntrinsic(m2) {
			changes = append(changes, compareProperties(path, m1, m2, opts)...)
			continue
		}
		if !deepEqual(val1, val2, opts) {
			changes = append(changes, path+" modified")
		}
	}
	for key := range props1 {
		if _, exists := props2[key]; !exists {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			changes = append(changes, path+" removed")
		}
	}

	sort.Strings(changes)
	return changes
}

func deepEqual(a, b any, opts Options) bool {
	if opts.IgnoreOrder {
		return cmp.Equal(a, b, cmpopts.EquateEmpty(), cmpopts.SortSlices(lessAny))
	}
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// isIntrinsic reports whether m is a single-key intrinsic function such as
// {"Ref": ...} or {"Fn::GetAtt": [...]}. Those compare as a whole.
func isIntrinsic(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for k := range m {
		return k == "Ref" || strings.HasPrefix(k, "Fn::")
	}
	return false
}

func withoutKey(m map[string]any, key string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k != key {
			out[k] = v
		}
	}
	return out
}

func lessString(a, b string) bool { return a < b }

func lessAny(a, b any) bool {
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	return string(ja) < string(jb)
}

func sortedNames(m map[string]wetwire.ResourceDef) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompareSDL reports the type-level and field-level differences between two
// GraphQL schema documents. Formatting and declaration order are ignored.
func CompareSDL(oldSDL, newSDL string) ([]string, error) {
	oldDefs, err := parseDefinitions("old", oldSDL)
	if err != nil {
		return nil, err
	}
	newDefs, err := parseDefinitions("new", newSDL)
	if err != nil {
		return nil, err
	}

	var changes []string
	for _, name := range sortedDefNames(newDefs) {
		if _, ok := oldDefs[name]; !ok {
			changes = append(changes, fmt.Sprintf("%s %s added", kindName(newDefs[name].Kind), name))
		}
	}
	for _, name := range sortedDefNames(oldDefs) {
		d1 := oldDefs[name]
		d2, ok := newDefs[name]
		if !ok {
			changes = append(changes, fmt.Sprintf("%s %s removed", kindName(d1.Kind), name))
			continue
		}
		changes = append(changes, compareDefinitions(d1, d2)...)
	}
	return changes, nil
}

func parseDefinitions(name, sdl string) (map[string]*ast.Definition, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: sdl})
	if err != nil {
		return nil, fmt.Errorf("parsing %s schema: %w", name, err)
	}
	defs := make(map[string]*ast.Definition, len(doc.Definitions))
	for _, def := range doc.Definitions {
		defs[def.Name] = def
	}
	// Extensions are folded into the definition they extend.
	for _, ext := range doc.Extensions {
		def, ok := defs[ext.Name]
		if !ok {
			defs[ext.Name] = ext
			continue
		}
		merged := *def
		merged.Fields = append(append(ast.FieldList{}, def.Fields...), ext.Fields...)
		merged.EnumValues = append(append(ast.EnumValueList{}, def.EnumValues...), ext.EnumValues...)
		merged.Types = append(append([]string{}, def.Types...), ext.Types...)
		merged.Interfaces = append(append([]string{}, def.Interfaces...), ext.Interfaces...)
		merged.Directives = append(append(ast.DirectiveList{}, def.Directives...), ext.Directives...)
		defs[ext.Name] = &merged
	}
	return defs, nil
}

func compareDefinitions(d1, d2 *ast.Definition) []string {
	name := d1.Name
	if d1.Kind != d2.Kind {
		return []string{fmt.Sprintf("%s %s changed to %s", kindName(d1.Kind), name, kindName(d2.Kind))}
	}
	kind := kindName(d1.Kind)

	var changes []string
	if !sameSet(d1.Interfaces, d2.Interfaces) {
		changes = append(changes, fmt.Sprintf("%s %s interfaces changed", kind, name))
	}
	if directivesString(d1.Directives) != directivesString(d2.Directives) {
		changes = append(changes, fmt.Sprintf("%s %s directives changed", kind, name))
	}
	if !sameSet(d1.Types, d2.Types) {
		changes = append(changes, fmt.Sprintf("%s %s members changed", kind, name))
	}

	oldValues := make(map[string]bool, len(d1.EnumValues))
	for _, v := range d1.EnumValues {
		oldValues[v.Name] = true
	}
	newValues := make(map[string]bool, len(d2.EnumValues))
	for _, v := range d2.EnumValues {
		newValues[v.Name] = true
		if !oldValues[v.Name] {
			changes = append(changes, fmt.Sprintf("value %s.%s added", name, v.Name))
		}
	}
	for _, v := range d1.EnumValues {
		if !newValues[v.Name] {
			changes = append(changes, fmt.Sprintf("value %s.%s removed", name, v.Name))
		}
	}

	oldFields := make(map[string]*ast.FieldDefinition, len(d1.Fields))
	for _, f := range d1.Fields {
		oldFields[f.Name] = f
	}
	newFields := make(map[string]*ast.FieldDefinition, len(d2.Fields))
	for _, f := range d2.Fields {
		newFields[f.Name] = f
		old, ok := oldFields[f.Name]
		if !ok {
			changes = append(changes, fmt.Sprintf("field %s.%s added", name, f.Name))
			continue
		}
		if before, after := fieldSignature(old), fieldSignature(f); before != after {
			changes = append(changes, fmt.Sprintf("field %s.%s modified (%s → %s)", name, f.Name, before, after))
		}
	}
	for _, f := range d1.Fields {
		if _, ok := newFields[f.Name]; !ok {
			changes = append(changes, fmt.Sprintf("field %s.%s removed", name, f.Name))
		}
	}

	sort.Strings(changes)
	return changes
}

// fieldSignature renders a field without its name or description.
func fieldSignature(f *ast.FieldDefinition) string {
	var b strings.Builder
	if len(f.Arguments) > 0 {
		args := make([]string, len(f.Arguments))
		for i, a := range f.Arguments {
			args[i] = a.Name + ": " + a.Type.String()
		}
		b.WriteString("(" + strings.Join(args, ", ") + ")")
	}
	if f.Type != nil {
		b.WriteString(f.Type.String())
	}
	if d := directivesString(f.Directives); d != "" {
		b.WriteString(" " + d)
	}
	return b.String()
}

func directivesString(list ast.DirectiveList) string {
	parts := make([]string, len(list))
	for i, d := range list {
		s := "@" + d.Name
		if len(d.Arguments) > 0 {
			args := make([]string, len(d.Arguments))
			for j, a := range d.Arguments {
				args[j] = a.Name + ": " + a.Value.String()
			}
			s += "(" + strings.Join(args, ", ") + ")"
		}
		parts[i] = s
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func kindName(kind ast.DefinitionKind) string {
	switch kind {
	case ast.Object:
		return "type"
	case ast.InputObject:
		return "input"
	default:
		return strings.ToLower(string(kind))
	}
}

func sameSet(a, b []string) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty(), cmpopts.SortSlices(lessString))
}

func sortedDefNames(m map[string]*ast.Definition) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
