package cover

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/conga/pkg/graph"
)

func twoTriangles(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(6)
	for _, e := range [][2]int{{0, 1}, {1, 2}, {0, 2}, {2, 3}, {3, 4}, {4, 5}, {3, 5}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFromComponentsCollapsesClones(t *testing.T) {
	// Bow-tie split at its centre: both halves keep original vertex 2.
	g := graph.New(5)
	for _, e := range [][2]int{{0, 1}, {0, 2}, {1, 2}, {2, 3}, {2, 4}, {3, 4}} {
		_ = g.AddEdge(e[0], e[1])
	}
	if _, _, err := g.SplitVertex(2, []int{3, 4}); err != nil {
		t.Fatal(err)
	}

	c := FromComponents(g, g.Components())
	want := Cover{{0, 1, 2}, {2, 3, 4}}
	if !slices.EqualFunc(c, want, slices.Equal) {
		t.Fatalf("FromComponents = %v, want %v", c, want)
	}
	if got := c.Overlapping(); !slices.Equal(got, []int{2}) {
		t.Errorf("Overlapping() = %v, want [2]", got)
	}
	if !c.Covers(5) {
		t.Error("cover should include every original vertex")
	}
	if got := c.Memberships(5)[2]; !slices.Equal(got, []int{0, 1}) {
		t.Errorf("Memberships()[2] = %v, want [0 1]", got)
	}
}

func TestHistory(t *testing.T) {
	var h History
	if err := h.Record(1, Cover{{0, 1, 2}}); err != nil {
		t.Fatal(err)
	}
	if err := h.Record(3, Cover{{0}, {1}, {2}}); err != nil {
		t.Fatal(err)
	}
	if err := h.Record(2, Cover{{0}, {1, 2}}); err == nil {
		t.Error("recording a smaller count should fail")
	}

	if got := h.Counts(); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("Counts() = %v, want [1 3]", got)
	}
	if _, ok := h.Cover(2); ok {
		t.Error("Cover(2) should be absent")
	}
	if err := h.SetModularity(3, 0.25); err != nil {
		t.Fatal(err)
	}
	if err := h.SetModularity(7, 0.25); err == nil {
		t.Error("SetModularity on a missing count should fail")
	}
	if q, ok := h.Modularity(3); !ok || q != 0.25 {
		t.Errorf("Modularity(3) = %g, %v", q, ok)
	}
	if _, ok := h.Modularity(1); ok {
		t.Error("Modularity(1) was never set")
	}

	rebuilt, err := FromSnapshots(h.Snapshots())
	if err != nil {
		t.Fatal(err)
	}
	if q, ok := rebuilt.Modularity(3); !ok || q != 0.25 {
		t.Errorf("rebuilt Modularity(3) = %g, %v", q, ok)
	}
}

func TestNewman(t *testing.T) {
	g := twoTriangles(t)

	tests := []struct {
		name       string
		membership []int
		want       float64
	}{
		{"split at bridge", []int{0, 0, 0, 1, 1, 1}, 5.0 / 14},
		{"single community", []int{0, 0, 0, 0, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Newman(g, tt.membership); !near(got, tt.want) {
				t.Errorf("Newman = %g, want %g", got, tt.want)
			}
		})
	}

	if got := Newman(graph.New(3), []int{0, 1, 2}); got != 0 {
		t.Errorf("Newman on edgeless graph = %g, want 0", got)
	}
}

func TestLazar(t *testing.T) {
	g := twoTriangles(t)

	tests := []struct {
		name  string
		cover Cover
		want  float64
	}{
		{"split at bridge", Cover{{0, 1, 2}, {3, 4, 5}}, 7.0 / 9},
		{"single community", Cover{{0, 1, 2, 3, 4, 5}}, 7.0 / 15},
		{"singletons", Cover{{0}, {1}, {2}, {3}, {4}, {5}}, 0},
		{"empty", Cover{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lazar(g, tt.cover); !near(got, tt.want) {
				t.Errorf("Lazar = %g, want %g", got, tt.want)
			}
		})
	}
}
