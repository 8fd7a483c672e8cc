// Package betweenness computes the shortest-path centrality measures CONGA
// uses to decide between deleting an edge and splitting a vertex.
//
// # Measures
//
//   - Edge betweenness: for each edge, the number of unordered vertex pairs
//     whose shortest paths cross it, each pair weighted by the fraction of its
//     shortest paths that do.
//   - Vertex betweenness: the same accounting per vertex, excluding the pairs
//     the vertex is an endpoint of.
//   - Pair betweenness: for a candidate vertex v and an ordered pair (u, w) of
//     its neighbours, the number of shortest paths that traverse u, v, w
//     consecutively. Each unordered endpoint pair is accounted once and adds 2
//     to both (u, w) and (w, u), so every table is symmetric.
//
// [Compute] runs one Brandes pass per source for the first two. [Pairs]
// counts the third combinatorially from the same BFS structure: the number
// of shortest paths through u-v-w equals sigma(u) * m(u,v) * m(v,w) * D(w),
// where D(w) counts the shortest-path continuations from w to the targets
// the source is responsible for. This is equivalent to enumerating every
// shortest path with [graph.Graph.ShortestPathsFrom] but never materialises
// them.
//
// # Concurrency
//
// Sources are independent. With Options.Workers > 1 they are partitioned
// statically (source s goes to worker s mod W), each worker accumulates into
// a private table and the tables are summed in worker order, so results are
// identical from run to run for a fixed worker count. The graph must not be
// mutated while a computation is running.
package betweenness
