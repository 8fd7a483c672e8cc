package betweenness

import "github.com/matzehuels/conga/pkg/graph"

// spt is the shortest-path DAG rooted at one source: BFS order, hop
// distances and path counts that honour edge multiplicity.
type spt struct {
	source int
	order  []int
	dist   []int
	sigma  []float64
	// preds[w] lists distinct predecessors of w with their multiplicity.
	preds [][]arc
}

type arc struct {
	to   int
	mult int
}

// neighbourhood caches sorted neighbour lists with multiplicities so the
// per-source passes do not re-sort adjacency maps.
type neighbourhood [][]arc

func neighbourhoodOf(g *graph.Graph) neighbourhood {
	n := g.VertexCount()
	nb := make(neighbourhood, n)
	for v := 0; v < n; v++ {
		for _, w := range g.Neighbors(v) {
			nb[v] = append(nb[v], arc{to: w, mult: g.Multiplicity(v, w)})
		}
	}
	return nb
}

func newSPT(n int) *spt {
	t := &spt{
		dist:  make([]int, n),
		sigma: make([]float64, n),
		preds: make([][]arc, n),
		order: make([]int, 0, n),
	}
	return t
}

// reset reruns BFS from s, reusing the buffers.
func (t *spt) reset(nb neighbourhood, s int) {
	for i := range t.dist {
		t.dist[i] = -1
		t.sigma[i] = 0
		t.preds[i] = t.preds[i][:0]
	}
	t.source = s
	t.order = append(t.order[:0], s)
	t.dist[s] = 0
	t.sigma[s] = 1

	for i := 0; i < len(t.order); i++ {
		x := t.order[i]
		for _, a := range nb[x] {
			y := a.to
			if t.dist[y] < 0 {
				t.dist[y] = t.dist[x] + 1
				t.order = append(t.order, y)
			}
			if t.dist[y] == t.dist[x]+1 {
				t.sigma[y] += t.sigma[x] * float64(a.mult)
				t.preds[y] = append(t.preds[y], arc{to: x, mult: a.mult})
			}
		}
	}
}
