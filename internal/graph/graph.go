// Package graph renders the resource dependency graph of a synthesized
// template in DOT or Mermaid format.
package graph

import (
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	wetwire "github.com/lex00/wetwire-appsync-go"
	"github.com/lex00/wetwire-appsync-go/internal/serialize"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from templates.
type Generator struct {
	// IncludeOutputs adds template outputs as nodes pointing at the
	// resources they reference.
	IncludeOutputs bool

	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByType groups resources by AWS service.
	ClusterByType bool
}

// edgeKind distinguishes attribute references from plain ones.
type edgeKind int

const (
	edgeDependsOn edgeKind = iota
	edgeRef
	edgeGetAtt
)

// Generate creates a dependency graph and writes it to w.
func (g *Generator) Generate(tmpl *wetwire.Template, w io.Writer) error {
	graph, err := g.buildGraph(tmpl)
	if err != nil {
		return err
	}

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err = w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(tmpl *wetwire.Template) (string, error) {
	var sb strings.Builder
	if err := g.Generate(tmpl, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(tmpl *wetwire.Template) (*dot.Graph, error) {
	if tmpl == nil {
		return nil, errors.New("template is nil")
	}
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	names := sortedKeys(tmpl.Resources)
	nodes := make(map[string]dot.Node, len(names))
	if g.ClusterByType {
		g.addClusteredNodes(graph, tmpl.Resources, names, nodes)
	} else {
		for _, name := range names {
			nodes[name] = addNode(graph, name, tmpl.Resources[name].Type)
		}
	}

	for _, name := range names {
		edges := resourceEdges(tmpl.Resources[name])
		for _, dep := range sortedKeys(edges) {
			to, ok := nodes[dep]
			if !ok {
				continue
			}
			styleEdge(graph.Edge(nodes[name], to), edges[dep])
		}
	}

	if g.IncludeOutputs {
		for _, name := range sortedKeys(tmpl.Outputs) {
			out := graph.Node("output_" + name)
			out.Attr("shape", "ellipse")
			out.Attr("style", "dashed")
			out.Label(name)

			refs, err := outputRefs(tmpl.Outputs[name])
			if err != nil {
				return nil, err
			}
			for _, ref := range refs {
				if to, ok := nodes[ref.Resource]; ok {
					styleEdge(graph.Edge(out, to), kindOf(ref))
				}
			}
		}
	}

	return graph, nil
}

// resourceEdges merges the references found in a resource's properties
// with its DependsOn list. A reference outranks a bare DependsOn.
func resourceEdges(res wetwire.ResourceDef) map[string]edgeKind {
	edges := make(map[string]edgeKind)
	for _, dep := range res.DependsOn {
		edges[dep] = edgeDependsOn
	}
	for _, ref := range serialize.References(res.Properties) {
		if k := kindOf(ref); k > edges[ref.Resource] {
			edges[ref.Resource] = k
		}
	}
	return edges
}

func kindOf(ref serialize.Reference) edgeKind {
	if ref.Attribute != "" {
		return edgeGetAtt
	}
	return edgeRef
}

func styleEdge(e dot.Edge, kind edgeKind) {
	switch kind {
	case edgeGetAtt:
		e.Attr("color", "blue")
	case edgeDependsOn:
		e.Attr("style", "dashed")
	}
}

// outputRefs finds the resources an output value references.
func outputRefs(out wetwire.Output) ([]serialize.Reference, error) {
	data, err := json.Marshal(out.Value)
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return serialize.References(map[string]any{"Value": value}), nil
}

func addNode(graph *dot.Graph, name, cfType string) dot.Node {
	n := graph.Node(name)
	n.Label(name + "\\n[" + cfType + "]")
	return n
}

// addClusteredNodes adds resource nodes grouped by AWS service.
func (g *Generator) addClusteredNodes(graph *dot.Graph, resources map[string]wetwire.ResourceDef, names []string, nodes map[string]dot.Node) {
	serviceResources := make(map[string][]string)
	for _, name := range names {
		service := extractService(resources[name].Type)
		serviceResources[service] = append(serviceResources[service], name)
	}

	for _, service := range sortedKeys(serviceResources) {
		resNames := serviceResources[service]
		if len(resNames) == 1 {
			nodes[resNames[0]] = addNode(graph, resNames[0], resources[resNames[0]].Type)
			continue
		}
		cluster := graph.Subgraph("cluster_"+service, dot.ClusterOption{})
		cluster.Attr("label", service)
		cluster.Attr("style", "rounded")
		cluster.Attr("bgcolor", "lightyellow")
		for _, name := range resNames {
			nodes[name] = addNode(cluster, name, resources[name].Type)
		}
	}
}

// extractService extracts the service name from a CloudFormation type.
// e.g., "AWS::AppSync::Resolver" -> "AppSync"
func extractService(cfType string) string {
	parts := strings.Split(cfType, "::")
	if len(parts) == 3 {
		return parts[1]
	}
	return "Other"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
