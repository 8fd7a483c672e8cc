// Package graph provides the mutable undirected multigraph that the CONGA
// decomposition works on.
//
// # Overview
//
// CONGA repeatedly removes edges and splits vertices until no edges remain.
// This package models that working graph: an arena of vertices addressed by
// stable integer handles, each carrying an immutable [Vertex.Origin] that
// points back to the vertex of the caller's input graph it descends from.
//
// Mutations are one-directional. Edges are only ever deleted, vertices are only
// ever added (by splitting), and there is no rollback:
//
//   - [Graph.DeleteEdge] removes one edge instance between two vertices.
//   - [Graph.SplitVertex] clones a vertex (same Origin) and moves the edges to a
//     chosen neighbour group onto the clone.
//   - [Graph.Apply] consumes an [Action], the tagged decision value produced by
//     the decomposition driver, and dispatches to one of the above.
//
// # Basic Usage
//
//	g := graph.New(4)
//	_ = g.AddEdge(0, 1)
//	_ = g.AddEdge(1, 2)
//	_ = g.AddEdge(2, 3)
//
//	split, err := g.Apply(graph.DeleteEdge(1, 2))
//	// split == true: {0,1} and {2,3} are now separate components
//
// # Multi-edges
//
// Parallel edges are tracked by multiplicity. Inputs are expected to be simple
// graphs; a split moves every instance of an edge at once, so parallel edges
// never appear unless the caller adds them.
//
// # Determinism
//
// [Graph.Neighbors] is sorted ascending and [Graph.Edges] enumerates pairs in
// ascending (min, max) order. Algorithms that break ties by "first encountered"
// rely on these orders.
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. Read-only queries
// (Neighbors, Multiplicity, ShortestPathsFrom) may run concurrently as long as
// no goroutine mutates the graph at the same time.
package graph
