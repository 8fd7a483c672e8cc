package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/conga/pkg/cover"
	"github.com/matzehuels/conga/pkg/graph"
)

// Palette is the fill colour sequence for communities; it wraps around.
var Palette = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

// Options configures diagram generation.
type Options struct {
	// Indices labels vertices with their index instead of their label.
	Indices bool
	// Title is drawn above the graph when set.
	Title string
	// Layout selects the Graphviz engine attribute; "neato" when empty.
	Layout string
}

// ToDOT converts g to an undirected Graphviz graph coloured by c.
// Vertices missing from c are left white.
func ToDOT(g *graph.Graph, c cover.Cover, opts Options) string {
	layout := opts.Layout
	if layout == "" {
		layout = "neato"
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", layout)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	member := c.Memberships(g.VertexCount())
	for i := 0; i < g.VertexCount(); i++ {
		v, _ := g.Vertex(i)
		label := v.Label
		if opts.Indices || label == "" {
			label = strconv.Itoa(i)
		}
		attrs := append([]string{fmt.Sprintf("label=%q", label)}, fillAttrs(member[i])...)
		fmt.Fprintf(&buf, "  %d [%s];\n", i, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %d -- %d;\n", e.U, e.V)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fillAttrs(communities []int) []string {
	switch len(communities) {
	case 0:
		return nil
	case 1:
		return []string{fmt.Sprintf("fillcolor=%q", colour(communities[0]))}
	}
	fills := make([]string, len(communities))
	for i, c := range communities {
		fills[i] = colour(c)
	}
	return []string{
		"style=wedged",
		fmt.Sprintf("fillcolor=%q", strings.Join(fills, ":")),
		"penwidth=2",
	}
}

func colour(community int) string { return Palette[community%len(Palette)] }
