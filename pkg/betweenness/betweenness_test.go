package betweenness

import (
	"context"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/conga/pkg/graph"
)

func build(t testing.TB, n int, edges [][2]int) *graph.Graph {
	t.Helper()
	g := graph.New(n)
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%d, %d): %v", e[0], e[1], err)
		}
	}
	return g
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

var twoTriangles = [][2]int{{0, 1}, {1, 2}, {0, 2}, {2, 3}, {3, 4}, {4, 5}, {3, 5}}

func TestComputeEdge(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
		want  map[graph.Edge]float64
	}{
		{
			name:  "path",
			n:     3,
			edges: [][2]int{{0, 1}, {1, 2}},
			want:  map[graph.Edge]float64{{U: 0, V: 1}: 2, {U: 1, V: 2}: 2},
		},
		{
			name:  "square",
			n:     4,
			edges: [][2]int{{0, 1}, {1, 2}, {2, 3}, {0, 3}},
			want: map[graph.Edge]float64{
				{U: 0, V: 1}: 2, {U: 1, V: 2}: 2, {U: 2, V: 3}: 2, {U: 0, V: 3}: 2,
			},
		},
		{
			name:  "bridge",
			n:     6,
			edges: twoTriangles,
			want:  map[graph.Edge]float64{{U: 2, V: 3}: 9, {U: 0, V: 1}: 1, {U: 0, V: 2}: 4},
		},
		{
			name:  "parallel edges share the load",
			n:     3,
			edges: [][2]int{{0, 1}, {0, 1}, {1, 2}},
			want:  map[graph.Edge]float64{{U: 0, V: 1}: 1, {U: 1, V: 2}: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.n, tt.edges)
			s, err := Compute(context.Background(), g, Options{})
			if err != nil {
				t.Fatal(err)
			}
			for e, want := range tt.want {
				got, ok := s.Edge(e.V, e.U)
				if !ok {
					t.Fatalf("edge %v missing", e)
				}
				if !near(got, want) {
					t.Errorf("edge %v = %g, want %g", e, got, want)
				}
			}
		})
	}
}

func TestComputeVertex(t *testing.T) {
	g := build(t, 6, twoTriangles)
	s, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0, 6, 6, 0, 0}
	for v, w := range want {
		if !near(s.Vertex[v], w) {
			t.Errorf("vertex %d = %g, want %g", v, s.Vertex[v], w)
		}
	}

	got := s.VerticesAtLeast(g, 6, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("VerticesAtLeast(6, 2) = %v, want [2 3]", got)
	}
}

func TestMaxEdgeTieBreak(t *testing.T) {
	// Every edge of a square carries the same load; the first one wins.
	g := build(t, 4, [][2]int{{2, 3}, {0, 3}, {1, 2}, {0, 1}})
	s, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	e, v, ok := s.MaxEdge()
	if !ok || e != (graph.Edge{U: 0, V: 1}) || !near(v, 2) {
		t.Errorf("MaxEdge() = %v, %g, %v; want 0-1, 2, true", e, v, ok)
	}

	empty, err := Compute(context.Background(), graph.New(3), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := empty.MaxEdge(); ok {
		t.Error("MaxEdge() on an edgeless graph should report !ok")
	}
}

func TestPairsPath(t *testing.T) {
	g := build(t, 3, [][2]int{{0, 1}, {1, 2}})
	tables, err := Pairs(context.Background(), g, []int{1}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	pt := tables[0]
	if pt.Get(0, 2) != 2 || pt.Get(2, 0) != 2 {
		t.Errorf("pair(0,2) = %g, pair(2,0) = %g, want 2 and 2", pt.Get(0, 2), pt.Get(2, 0))
	}
	if pt.Total() != 4 {
		t.Errorf("Total() = %g, want 4", pt.Total())
	}
}

func TestPairsSeedsUnusedPairs(t *testing.T) {
	// In a triangle no shortest path runs through a vertex.
	g := build(t, 3, [][2]int{{0, 1}, {1, 2}, {0, 2}})
	tables, err := Pairs(context.Background(), g, []int{0}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	pt := tables[0]
	if len(pt.counts) != 2 {
		t.Fatalf("len(counts) = %d, want 2 seeded pairs", len(pt.counts))
	}
	if pt.Total() != 0 {
		t.Errorf("Total() = %g, want 0", pt.Total())
	}
}

func TestPairsUnknownCandidate(t *testing.T) {
	g := build(t, 2, [][2]int{{0, 1}})
	if _, err := Pairs(context.Background(), g, []int{7}, Options{}); err == nil {
		t.Error("expected an error for an out-of-range candidate")
	}
}

// enumeratePairs counts pair betweenness by walking every shortest path,
// accounting each unordered endpoint pair once.
func enumeratePairs(g *graph.Graph, candidates []int) map[int]map[Pair]float64 {
	isCand := make(map[int]bool)
	out := make(map[int]map[Pair]float64)
	for _, v := range candidates {
		isCand[v] = true
		out[v] = make(map[Pair]float64)
	}

	seen := make(map[[2]int]bool)
	for s := 0; s < g.VertexCount(); s++ {
		for _, p := range g.ShortestPathsFrom(s) {
			key := [2]int{p[0], p[len(p)-1]}
			if seen[key] {
				continue
			}
			for i := 1; i+1 < len(p); i++ {
				if isCand[p[i]] {
					out[p[i]][Pair{U: p[i-1], W: p[i+1]}] += 2
					out[p[i]][Pair{U: p[i+1], W: p[i-1]}] += 2
				}
			}
		}
		// Mark after the source so every path s -> t is counted, then the
		// reverse direction is skipped.
		for _, p := range g.ShortestPathsFrom(s) {
			seen[[2]int{p[len(p)-1], p[0]}] = true
		}
	}
	return out
}

func allVertices(g *graph.Graph) []int {
	vs := make([]int, g.VertexCount())
	for i := range vs {
		vs[i] = i
	}
	return vs
}

func samePairs(t *testing.T, g *graph.Graph, tables []*PairTable) bool {
	t.Helper()
	want := enumeratePairs(g, allVertices(g))
	for _, pt := range tables {
		for k, c := range want[pt.Vertex] {
			if pt.Get(k.U, k.W) != c {
				t.Logf("vertex %d pair %v = %g, want %g", pt.Vertex, k, pt.Get(k.U, k.W), c)
				return false
			}
		}
		for k, c := range pt.counts {
			if want[pt.Vertex][k] != c {
				t.Logf("vertex %d pair %v = %g, want %g", pt.Vertex, k, c, want[pt.Vertex][k])
				return false
			}
		}
	}
	return true
}

func TestPairsMatchEnumeration(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
	}{
		{"square", 4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}},
		{"bridge", 6, twoTriangles},
		{"parallel", 4, [][2]int{{0, 1}, {0, 1}, {1, 2}, {2, 3}, {1, 3}}},
		{"disconnected", 5, [][2]int{{0, 1}, {1, 2}, {3, 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.n, tt.edges)
			tables, err := Pairs(context.Background(), g, allVertices(g), Options{})
			if err != nil {
				t.Fatal(err)
			}
			if !samePairs(t, g, tables) {
				t.Error("combinatorial counts differ from path enumeration")
			}
		})
	}
}

// randomGraph turns a flat list of endpoints into a simple graph on n
// vertices, dropping self-loops and duplicates.
func randomGraph(n int, ends []int) *graph.Graph {
	g := graph.New(n)
	for i := 0; i+1 < len(ends); i += 2 {
		u, v := ends[i], ends[i+1]
		if u == v || g.Multiplicity(u, v) > 0 {
			continue
		}
		_ = g.AddEdge(u, v)
	}
	return g
}

func TestPairsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	ends := gen.SliceOfN(24, gen.IntRange(0, 7))

	properties.Property("matches path enumeration", prop.ForAll(
		func(ends []int) bool {
			g := randomGraph(8, ends)
			tables, err := Pairs(context.Background(), g, allVertices(g), Options{})
			return err == nil && samePairs(t, g, tables)
		},
		ends,
	))

	properties.Property("tables are symmetric", prop.ForAll(
		func(ends []int) bool {
			g := randomGraph(8, ends)
			tables, err := Pairs(context.Background(), g, allVertices(g), Options{})
			if err != nil {
				return false
			}
			for _, pt := range tables {
				for k, c := range pt.counts {
					if pt.Get(k.W, k.U) != c {
						return false
					}
				}
			}
			return true
		},
		ends,
	))

	properties.Property("worker count does not change results", prop.ForAll(
		func(ends []int) bool {
			g := randomGraph(8, ends)
			ctx := context.Background()
			seq, err1 := Compute(ctx, g, Options{Workers: 1})
			par, err2 := Compute(ctx, g, Options{Workers: 3})
			if err1 != nil || err2 != nil {
				return false
			}
			for i := range seq.EdgeValues {
				if !near(seq.EdgeValues[i], par.EdgeValues[i]) {
					return false
				}
			}
			for i := range seq.Vertex {
				if !near(seq.Vertex[i], par.Vertex[i]) {
					return false
				}
			}
			p1, _ := Pairs(ctx, g, allVertices(g), Options{Workers: 1})
			p3, _ := Pairs(ctx, g, allVertices(g), Options{Workers: 3})
			for i := range p1 {
				for k, c := range p1[i].counts {
					if p3[i].Get(k.U, k.W) != c {
						return false
					}
				}
			}
			return true
		},
		ends,
	))

	properties.TestingRun(t)
}

func TestComputeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := build(t, 3, [][2]int{{0, 1}, {1, 2}})
	if _, err := Compute(ctx, g, Options{}); err == nil {
		t.Error("expected context error")
	}
}
