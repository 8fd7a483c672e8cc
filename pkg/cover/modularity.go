package cover

import "github.com/matzehuels/conga/pkg/graph"

// Newman returns the modularity of a partition of g:
//
//	Q = sum over c of L_c/m - (D_c/2m)^2
//
// where L_c is the number of edges inside community c, D_c the total degree
// of its members and m the edge count. membership[v] is v's community. A
// graph without edges scores 0.
func Newman(g *graph.Graph, membership []int) float64 {
	m := float64(g.EdgeCount())
	if m == 0 {
		return 0
	}
	inside := make(map[int]float64)
	degree := make(map[int]float64)
	for v := range membership {
		degree[membership[v]] += float64(g.Degree(v))
	}
	for _, e := range g.Edges() {
		if membership[e.U] == membership[e.V] {
			inside[membership[e.U]]++
		}
	}
	var q float64
	for c, d := range degree {
		q += inside[c]/m - (d/(2*m))*(d/(2*m))
	}
	return q
}

// Lazar returns the overlapping modularity of Lazar, Abel and Vicsek (2009)
// for cover c on the original graph g:
//
//	Q = 1/K sum over c of [ 1/n_c sum over i in c of (k_in - k_out)/(d_i s_i) ] * m_c / C(n_c, 2)
//
// k_in and k_out count i's edges into and out of c, d_i is i's degree, s_i
// the number of communities containing i and m_c the edges inside c.
// Communities with fewer than two members and isolated vertices contribute 0.
func Lazar(g *graph.Graph, c Cover) float64 {
	if len(c) == 0 {
		return 0
	}
	n := g.VertexCount()
	shares := make([]int, n)
	for _, comm := range c {
		for _, v := range comm {
			shares[v]++
		}
	}

	var total float64
	in := make(map[int]bool)
	for _, comm := range c {
		nc := len(comm)
		if nc < 2 {
			continue
		}
		clear(in)
		for _, v := range comm {
			in[v] = true
		}

		var sum float64
		internal := 0
		for _, i := range comm {
			d := g.Degree(i)
			if d == 0 {
				continue
			}
			kin := 0
			for _, j := range g.Neighbors(i) {
				if in[j] {
					kin += g.Multiplicity(i, j)
				}
			}
			internal += kin
			sum += float64(kin-(d-kin)) / float64(d*shares[i])
		}
		// Each internal edge was seen from both ends.
		mc := float64(internal) / 2
		pairs := float64(nc*(nc-1)) / 2
		total += sum / float64(nc) * mc / pairs
	}
	return total / float64(len(c))
}
