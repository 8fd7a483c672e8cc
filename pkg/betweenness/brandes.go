package betweenness

import (
	"context"
	"slices"

	"github.com/matzehuels/conga/pkg/graph"
)

// Tolerance absorbs floating-point noise when betweenness values are
// compared. Sums of path fractions that are equal in exact arithmetic can
// differ in the last bits depending on accumulation order.
const Tolerance = 1e-9

// Scores holds edge and vertex betweenness for one graph snapshot.
//
// Values are unnormalised and count unordered vertex pairs. An edge with
// multiplicity m reports the share of a single instance, that is the pair
// total divided by m.
type Scores struct {
	// Edges lists distinct vertex pairs in ascending (U, V) order.
	Edges []graph.Edge
	// EdgeValues[i] is the betweenness of one instance of Edges[i].
	EdgeValues []float64
	// Vertex[v] is the betweenness of vertex v.
	Vertex []float64

	index map[graph.Edge]int
}

// Edge returns the betweenness of one instance of the edge {u, v} and whether
// the edge exists.
func (s *Scores) Edge(u, v int) (float64, bool) {
	i, ok := s.index[graph.NewEdge(u, v)]
	if !ok {
		return 0, false
	}
	return s.EdgeValues[i], true
}

// MaxEdge returns the edge with the highest betweenness. Ties go to the
// edge that comes first in ascending (U, V) order; values within
// [Tolerance] of each other count as tied. ok is false when the
// graph has no edges.
func (s *Scores) MaxEdge() (e graph.Edge, value float64, ok bool) {
	for i, v := range s.EdgeValues {
		if !ok || v > value+Tolerance {
			e, value, ok = s.Edges[i], v, true
		}
	}
	return e, value, ok
}

// VerticesAtLeast returns, in ascending order, the vertices whose
// betweenness is at least threshold, up to [Tolerance], and that have at
// least minNeighbors distinct neighbours.
func (s *Scores) VerticesAtLeast(g *graph.Graph, threshold float64, minNeighbors int) []int {
	var out []int
	for v, b := range s.Vertex {
		if b >= threshold-Tolerance && len(g.Neighbors(v)) >= minNeighbors {
			out = append(out, v)
		}
	}
	return out
}

// Compute returns edge and vertex betweenness for g using Brandes'
// algorithm, one BFS plus one dependency accumulation per source.
func Compute(ctx context.Context, g *graph.Graph, opts Options) (*Scores, error) {
	n := g.VertexCount()
	nb := neighbourhoodOf(g)

	edges := distinctEdges(nb)
	index := make(map[graph.Edge]int, len(edges))
	for i, e := range edges {
		index[e] = i
	}

	workers := opts.workers(n)
	type partial struct {
		tree   *spt
		delta  []float64
		edge   []float64
		vertex []float64
	}
	parts := make([]*partial, workers)
	for w := range parts {
		parts[w] = &partial{
			tree:   newSPT(n),
			delta:  make([]float64, n),
			edge:   make([]float64, len(edges)),
			vertex: make([]float64, n),
		}
	}

	err := fanOut(ctx, n, workers, func(w, s int) {
		p := parts[w]
		t := p.tree
		t.reset(nb, s)
		for _, v := range t.order {
			p.delta[v] = 0
		}
		for i := len(t.order) - 1; i >= 0; i-- {
			x := t.order[i]
			for _, a := range t.preds[x] {
				c := t.sigma[a.to] * float64(a.mult) / t.sigma[x] * (1 + p.delta[x])
				p.edge[index[graph.NewEdge(a.to, x)]] += c
				p.delta[a.to] += c
			}
			if x != s {
				p.vertex[x] += p.delta[x]
			}
		}
	})
	if err != nil {
		return nil, err
	}

	scores := &Scores{
		Edges:      edges,
		EdgeValues: make([]float64, len(edges)),
		Vertex:     make([]float64, n),
		index:      index,
	}
	for _, p := range parts {
		for i, v := range p.edge {
			scores.EdgeValues[i] += v
		}
		for i, v := range p.vertex {
			scores.Vertex[i] += v
		}
	}

	// Every unordered pair was visited from both ends.
	for i, e := range edges {
		scores.EdgeValues[i] /= 2 * float64(nbMult(nb, e))
	}
	for i := range scores.Vertex {
		scores.Vertex[i] /= 2
	}
	return scores, nil
}

func distinctEdges(nb neighbourhood) []graph.Edge {
	var edges []graph.Edge
	for u, arcs := range nb {
		for _, a := range arcs {
			if u < a.to {
				edges = append(edges, graph.Edge{U: u, V: a.to})
			}
		}
	}
	slices.SortFunc(edges, compareEdges)
	return edges
}

func compareEdges(a, b graph.Edge) int {
	if a.U != b.U {
		return a.U - b.U
	}
	return a.V - b.V
}

func nbMult(nb neighbourhood, e graph.Edge) int {
	for _, a := range nb[e.U] {
		if a.to == e.V {
			return a.mult
		}
	}
	return 1
}
