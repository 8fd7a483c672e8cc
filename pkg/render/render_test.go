package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/conga/pkg/cover"
	"github.com/matzehuels/conga/pkg/graph"
)

func bowTie() *graph.Graph {
	g := graph.New(0)
	for _, l := range []string{"a", "b", "hub", "c", "d"} {
		g.AddVertex(l)
	}
	for _, e := range [][2]int{{0, 1}, {0, 2}, {1, 2}, {2, 3}, {2, 4}, {3, 4}} {
		_ = g.AddEdge(e[0], e[1])
	}
	return g
}

func TestToDOT(t *testing.T) {
	c := cover.Cover{{0, 1, 2}, {2, 3, 4}}
	dot := ToDOT(bowTie(), c, Options{Title: "bow-tie"})

	for _, want := range []string{
		"graph G {",
		`0 [label="a", fillcolor="#8dd3c7"];`,
		`2 [label="hub", style=wedged, fillcolor="#8dd3c7:#ffffb3", penwidth=2];`,
		"0 -- 1;",
		`label="bow-tie";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTIndicesAndUncovered(t *testing.T) {
	dot := ToDOT(bowTie(), cover.Cover{{0, 1}}, Options{Indices: true})
	if !strings.Contains(dot, `4 [label="4"];`) {
		t.Errorf("uncovered vertex should keep the default fill:\n%s", dot)
	}
}

func TestColourWraps(t *testing.T) {
	if colour(len(Palette)) != Palette[0] {
		t.Error("palette should wrap around")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in -short mode")
	}
	dot := ToDOT(bowTie(), cover.Cover{{0, 1, 2}, {2, 3, 4}}, Options{})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("output is not SVG: %.80s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" viewBox="0.00 0.00 120.50 80.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="120" height="80"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should pass through, got %s", got)
	}
}

func TestToPDFWithoutRSVG(t *testing.T) {
	if HasRSVG() {
		t.Skip("rsvg-convert installed")
	}
	if _, err := ToPDF([]byte("<svg/>")); err == nil {
		t.Error("expected an error without rsvg-convert")
	}
}
