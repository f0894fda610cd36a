// Package template assembles CloudFormation templates from resource declarations.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	wetwire "github.com/lex00/wetwire-appsync-go"
	"github.com/lex00/wetwire-appsync-go/internal/serialize"
)

// Declaration is a resource registered with the builder.
type Declaration struct {
	Name      string
	Resource  wetwire.Resource
	DependsOn []string
}

type node struct {
	decl         Declaration
	props        map[string]any
	dependencies []string
}

// Builder constructs CloudFormation templates from declared resources.
type Builder struct {
	description string
	decls       []Declaration
	index       map[string]int
	outputs     map[string]wetwire.Output
	sorted      []string
}

// NewBuilder creates an empty template builder.
func NewBuilder() *Builder {
	return &Builder{
		index:   make(map[string]int),
		outputs: make(map[string]wetwire.Output),
	}
}

// SetDescription sets the template description.
func (b *Builder) SetDescription(desc string) {
	b.description = desc
}

// Add declares a resource under a logical name. Explicit dependencies are
// emitted as DependsOn; references found in the properties are ordered too.
func (b *Builder) Add(name string, res wetwire.Resource, dependsOn ...string) error {
	if name == "" {
		return errors.New("resource name is empty")
	}
	if res == nil {
		return fmt.Errorf("resource %s is nil", name)
	}
	if _, exists := b.index[name]; exists {
		return fmt.Errorf("duplicate resource name: %s", name)
	}
	b.index[name] = len(b.decls)
	b.decls = append(b.decls, Declaration{Name: name, Resource: res, DependsOn: dedupe(dependsOn)})
	return nil
}

// AddOutput declares a template output.
func (b *Builder) AddOutput(name string, out wetwire.Output) {
	b.outputs[name] = out
}

// Declarations returns the declared resources in declaration order.
func (b *Builder) Declarations() []Declaration {
	return append([]Declaration(nil), b.decls...)
}

// Sorted returns the logical names in the dependency order computed by the last Build.
func (b *Builder) Sorted() []string {
	return append([]string(nil), b.sorted...)
}

// Build constructs the CloudFormation template.
func (b *Builder) Build() (*wetwire.Template, error) {
	nodes := make(map[string]*node, len(b.decls))
	for _, decl := range b.decls {
		props, err := serialize.Resource(decl.Resource)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", decl.Name, err)
		}
		nodes[decl.Name] = &node{decl: decl, props: props}
	}

	for _, decl := range b.decls {
		n := nodes[decl.Name]
		deps := make([]string, 0, len(decl.DependsOn))
		for _, dep := range decl.DependsOn {
			if _, ok := nodes[dep]; !ok {
				return nil, fmt.Errorf("%s depends on unknown resource %s", decl.Name, dep)
			}
			deps = append(deps, dep)
		}
		for _, ref := range serialize.References(n.props) {
			if _, ok := nodes[ref.Resource]; !ok {
				return nil, fmt.Errorf("%s references unknown resource %s", decl.Name, ref.Resource)
			}
			deps = append(deps, ref.Resource)
		}
		n.dependencies = dedupe(deps)
	}

	order, err := topologicalSort(nodes)
	if err != nil {
		return nil, err
	}
	b.sorted = order

	template := &wetwire.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              b.description,
		Resources:                make(map[string]wetwire.ResourceDef, len(order)),
	}

	for _, name := range order {
		n := nodes[name]
		resourceType := n.decl.Resource.ResourceType()
		if resourceType == "" {
			return nil, fmt.Errorf("resource %s has no type", name)
		}
		template.Resources[name] = wetwire.ResourceDef{
			Type:       resourceType,
			Properties: n.props,
			DependsOn:  n.decl.DependsOn,
		}
	}

	if len(b.outputs) > 0 {
		template.Outputs = make(map[string]wetwire.Output, len(b.outputs))
		for name, out := range b.outputs {
			template.Outputs[name] = out
		}
	}

	return template, nil
}

// topologicalSort returns resources in dependency order.
func topologicalSort(nodes map[string]*node) ([]string, error) {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range nodes {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, n := range nodes {
		for _, dep := range n.dependencies {
			graph[dep] = append(graph[dep], name)
			inDegree[name]++
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, neighbor := range graph[current] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(nodes) {
		return nil, detectCycle(nodes)
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func detectCycle(nodes map[string]*node) error {
	visited := make(map[string]bool)
	path := make(map[string]bool)

	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	var cycle []string
	var findCycle func(name string) bool
	findCycle = func(name string) bool {
		visited[name] = true
		path[name] = true

		for _, dep := range nodes[name].dependencies {
			if !visited[dep] {
				if findCycle(dep) {
					cycle = append([]string{name}, cycle...)
					return true
				}
			} else if path[dep] {
				cycle = append([]string{name, dep}, cycle...)
				return true
			}
		}

		path[name] = false
		return false
	}

	for _, name := range names {
		if !visited[name] && findCycle(name) {
			break
		}
	}

	if len(cycle) > 0 {
		return fmt.Errorf("circular dependency detected:\n  %s", strings.Join(cycle, "\n    → "))
	}
	return errors.New("circular dependency detected")
}

func dedupe(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// ToJSON serializes the template to JSON.
func ToJSON(t *wetwire.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *wetwire.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
