package graph

// ShortestPathsFrom enumerates every shortest path from s to each vertex
// reachable from it, s itself included as the single-vertex path [s].
//
// Ties are not broken: when several minimum-length paths lead to the same
// target, all of them are returned. A path over a parallel edge is returned
// once per edge instance. Paths are grouped by target in BFS order and, for a
// given target, ordered by the BFS discovery order of their predecessors.
//
// The number of shortest paths can grow exponentially with graph size; the
// betweenness package counts them combinatorially instead and this method is
// meant for inspection and verification on small graphs.
func (g *Graph) ShortestPathsFrom(s int) [][]int {
	if s < 0 || s >= len(g.vertices) {
		return nil
	}

	dist := make([]int, len(g.vertices))
	for i := range dist {
		dist[i] = -1
	}
	dist[s] = 0
	order := []int{s}
	preds := make([][]int, len(g.vertices))

	for i := 0; i < len(order); i++ {
		x := order[i]
		for _, y := range g.Neighbors(x) {
			if dist[y] < 0 {
				dist[y] = dist[x] + 1
				order = append(order, y)
			}
			if dist[y] == dist[x]+1 {
				for k := 0; k < g.adj[x][y]; k++ {
					preds[y] = append(preds[y], x)
				}
			}
		}
	}

	memo := make(map[int][][]int, len(order))
	var build func(t int) [][]int
	build = func(t int) [][]int {
		if p, ok := memo[t]; ok {
			return p
		}
		var paths [][]int
		if t == s {
			paths = [][]int{{s}}
		} else {
			for _, p := range preds[t] {
				for _, prefix := range build(p) {
					path := make([]int, len(prefix)+1)
					copy(path, prefix)
					path[len(prefix)] = t
					paths = append(paths, path)
				}
			}
		}
		memo[t] = paths
		return paths
	}

	var all [][]int
	for _, t := range order {
		all = append(all, build(t)...)
	}
	return all
}
