package conga

import (
	"math"
	"slices"

	"github.com/matzehuels/conga/pkg/betweenness"
)

// Split is the best way found to divide a vertex's edges in two.
type Split struct {
	Vertex int
	// Group holds the neighbours whose edges move to the clone.
	Group []int
	// Rest holds the neighbours that stay with the vertex.
	Rest []int
	// Betweenness is the split betweenness: the pair betweenness between the
	// two groups.
	Betweenness float64
}

// cliqueMatrix is the weighted complete graph on a vertex's neighbours with
// pair betweenness as weights. groups[i] lists the neighbours merged into
// row i so far.
type cliqueMatrix struct {
	cells  [][]float64
	groups [][]int
}

func newCliqueMatrix(t *betweenness.PairTable) *cliqueMatrix {
	n := len(t.Neighbors)
	m := &cliqueMatrix{
		cells:  make([][]float64, n),
		groups: make([][]int, n),
	}
	for i, u := range t.Neighbors {
		m.cells[i] = make([]float64, n)
		m.groups[i] = []int{u}
		for j, w := range t.Neighbors {
			if i != j {
				m.cells[i][j] = t.Get(u, w)
			}
		}
	}
	return m
}

func (m *cliqueMatrix) size() int { return len(m.cells) }

// minCell returns the first off-diagonal minimum in row-major order.
func (m *cliqueMatrix) minCell() (int, int) {
	bi, bj, best := 0, 1, math.Inf(1)
	for i, row := range m.cells {
		for j, c := range row {
			if i != j && c < best {
				bi, bj, best = i, j, c
			}
		}
	}
	return bi, bj
}

// merge folds row and column j into i and drops j.
func (m *cliqueMatrix) merge(i, j int) {
	for k := range m.cells[i] {
		m.cells[i][k] += m.cells[j][k]
	}
	m.cells = slices.Delete(m.cells, j, j+1)
	for _, row := range m.cells {
		row[i] += row[j]
	}
	for r := range m.cells {
		m.cells[r] = slices.Delete(m.cells[r], j, j+1)
	}
	for k := range m.cells {
		m.cells[k][k] = 0
	}
	m.groups[i] = append(m.groups[i], m.groups[j]...)
	m.groups = slices.Delete(m.groups, j, j+1)
}

// collapse greedily merges the cheapest pair of neighbour groups until two
// remain and returns the betweenness between them. Neighbours that few
// shortest paths run between end up on the same side.
func (m *cliqueMatrix) collapse() float64 {
	for m.size() > 2 {
		i, j := m.minCell()
		if i > j {
			i, j = j, i
		}
		m.merge(i, j)
	}
	return m.cells[0][1]
}

// splitOf collapses the clique of one vertex. ok is false when the vertex
// has fewer than two neighbours.
func splitOf(t *betweenness.PairTable) (Split, bool) {
	if len(t.Neighbors) < 2 {
		return Split{}, false
	}
	m := newCliqueMatrix(t)
	value := m.collapse()
	group := slices.Sorted(slices.Values(m.groups[0]))
	rest := slices.Sorted(slices.Values(m.groups[1]))
	return Split{Vertex: t.Vertex, Group: group, Rest: rest, Betweenness: value}, true
}

// BestSplit returns the candidate whose collapsed clique gives the highest
// split betweenness. Candidates are scanned in the given order and the first
// maximum wins. ok is false when no candidate reaches a positive value.
func BestSplit(tables []*betweenness.PairTable) (Split, bool) {
	var best Split
	found := false
	for _, t := range tables {
		s, ok := splitOf(t)
		if !ok {
			continue
		}
		if s.Betweenness > best.Betweenness {
			best, found = s, true
		}
	}
	return best, found
}
