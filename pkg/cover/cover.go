// Package cover records the vertex covers a decomposition produces and
// scores them.
//
// A [Cover] assigns original-graph vertices to possibly overlapping
// communities. A [History] collects one cover per cluster count for a single
// run, plus the modularity values computed eagerly along the way.
package cover

import (
	"slices"

	"github.com/matzehuels/conga/pkg/graph"
)

// Cover is a list of communities, each an ascending list of original vertex
// ids. A vertex may appear in more than one community.
type Cover [][]int

// FromComponents maps the working graph's connected components back to
// original vertex ids. A split vertex and its clones collapse to a single id
// per community, so overlap shows up as one id in several communities.
func FromComponents(g *graph.Graph, comps [][]int) Cover {
	c := make(Cover, 0, len(comps))
	for _, comp := range comps {
		ids := make([]int, 0, len(comp))
		for _, v := range comp {
			ids = append(ids, g.Origin(v))
		}
		slices.Sort(ids)
		c = append(c, slices.Compact(ids))
	}
	return c
}

// Len returns the number of communities.
func (c Cover) Len() int { return len(c) }

// Memberships returns, for each of the n original vertices, the indices of
// the communities containing it.
func (c Cover) Memberships(n int) [][]int {
	m := make([][]int, n)
	for ci, comm := range c {
		for _, v := range comm {
			if v >= 0 && v < n {
				m[v] = append(m[v], ci)
			}
		}
	}
	return m
}

// Overlapping returns the ascending ids of vertices in more than one community.
func (c Cover) Overlapping() []int {
	count := make(map[int]int)
	for _, comm := range c {
		for _, v := range comm {
			count[v]++
		}
	}
	var out []int
	for v, n := range count {
		if n > 1 {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// Covers reports whether every id in [0, n) belongs to some community.
func (c Cover) Covers(n int) bool {
	seen := make([]bool, n)
	for _, comm := range c {
		for _, v := range comm {
			if v >= 0 && v < n {
				seen[v] = true
			}
		}
	}
	return !slices.Contains(seen, false)
}

// Clone returns a deep copy.
func (c Cover) Clone() Cover {
	out := make(Cover, len(c))
	for i, comm := range c {
		out[i] = slices.Clone(comm)
	}
	return out
}
