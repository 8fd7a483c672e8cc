package betweenness

import (
	"context"

	"github.com/matzehuels/conga/pkg/graph"
)

// Pair is an ordered pair of neighbours of a vertex.
type Pair struct {
	U int
	W int
}

// PairTable is the pair betweenness of one vertex: how many shortest paths
// pass through U, the vertex and W in that order, counted over both
// directions.
type PairTable struct {
	Vertex    int
	Neighbors []int // distinct, ascending

	counts map[Pair]float64
}

// Get returns the pair betweenness of (u, w). Unknown pairs are 0.
func (t *PairTable) Get(u, w int) float64 { return t.counts[Pair{U: u, W: w}] }

// Total returns the sum over all ordered pairs.
func (t *PairTable) Total() float64 {
	var sum float64
	for _, c := range t.counts {
		sum += c
	}
	return sum
}

// Pairs computes a [PairTable] for each candidate, returned in candidate
// order. Every ordered pair of distinct neighbours of a candidate is present,
// with 0 when no shortest path uses it.
func Pairs(ctx context.Context, g *graph.Graph, candidates []int, opts Options) ([]*PairTable, error) {
	n := g.VertexCount()
	nb := neighbourhoodOf(g)

	slot := make([]int, n)
	for i := range slot {
		slot[i] = -1
	}
	for i, v := range candidates {
		if v < 0 || v >= n {
			return nil, graph.ErrVertexNotFound
		}
		slot[v] = i
	}

	workers := opts.workers(n)
	type partial struct {
		tree   *spt
		cont   []float64
		counts []map[Pair]float64
	}
	parts := make([]*partial, workers)
	for w := range parts {
		p := &partial{
			tree:   newSPT(n),
			cont:   make([]float64, n),
			counts: make([]map[Pair]float64, len(candidates)),
		}
		for i := range p.counts {
			p.counts[i] = make(map[Pair]float64)
		}
		parts[w] = p
	}

	err := fanOut(ctx, n, workers, func(w, s int) {
		p := parts[w]
		t := p.tree
		t.reset(nb, s)

		// cont[x]: shortest-path continuations from x to a target t > s,
		// x itself included when x > s.
		for i := len(t.order) - 1; i >= 0; i-- {
			x := t.order[i]
			p.cont[x] = 0
		}
		for i := len(t.order) - 1; i >= 0; i-- {
			x := t.order[i]
			if x > s {
				p.cont[x]++
			}
			for _, a := range t.preds[x] {
				p.cont[a.to] += float64(a.mult) * p.cont[x]
			}
		}

		for _, v := range t.order[1:] {
			c := slot[v]
			if c < 0 {
				continue
			}
			for _, in := range t.preds[v] {
				head := t.sigma[in.to] * float64(in.mult)
				for _, out := range nb[v] {
					if t.dist[out.to] != t.dist[v]+1 {
						continue
					}
					k := head * float64(out.mult) * p.cont[out.to]
					if k == 0 {
						continue
					}
					p.counts[c][Pair{U: in.to, W: out.to}] += 2 * k
					p.counts[c][Pair{U: out.to, W: in.to}] += 2 * k
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}

	tables := make([]*PairTable, len(candidates))
	for i, v := range candidates {
		t := &PairTable{Vertex: v, counts: make(map[Pair]float64)}
		for _, a := range nb[v] {
			t.Neighbors = append(t.Neighbors, a.to)
		}
		for _, u := range t.Neighbors {
			for _, w := range t.Neighbors {
				if u != w {
					t.counts[Pair{U: u, W: w}] = 0
				}
			}
		}
		for _, p := range parts {
			for k, c := range p.counts[i] {
				t.counts[k] += c
			}
		}
		tables[i] = t
	}
	return tables, nil
}
