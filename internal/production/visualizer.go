package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/comalice/staticfsm"
)

// Graph is the description of a definition rendered by a Visualizer.
type Graph struct {
	Name   string                `json:"name" yaml:"name"`
	States []staticfsm.StateInfo `json:"states" yaml:"states"`
	Edges  []staticfsm.EdgeInfo  `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// GraphOf describes def.
func GraphOf[M any](def *staticfsm.Definition[M]) Graph {
	return Graph{Name: def.Name(), States: def.Info(), Edges: def.Edges()}
}

// DefaultVisualizer renders graphs as Graphviz DOT or JSON.
type DefaultVisualizer struct{}

// ExportDOT generates DOT source for g, highlighting the current state.
// Entry states are drawn dashed with a dotted edge into their target.
func (v *DefaultVisualizer) ExportDOT(g Graph, current string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", g.Name)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	buf.WriteString("  edge [fontsize=9];\n")

	for _, s := range g.States {
		style, fill := "rounded", ""
		if s.Entry {
			style += ",dashed"
		}
		if s.Name == current {
			style += ",filled"
			fill = ", fillcolor=lightgreen"
		}
		fmt.Fprintf(&buf, "  %q [style=%q%s];\n", s.Name, style, fill)
	}
	for _, s := range g.States {
		if s.Entry {
			fmt.Fprintf(&buf, "  %q -> %q [style=dotted, label=\"entry\"];\n", s.Name, s.Target)
		}
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes g to JSON.
func (v *DefaultVisualizer) ExportJSON(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}
