// Package pkg provides the libraries behind conga, an overlapping community
// detector.
//
// # Overview
//
// CONGA (Cluster-Overlap Newman Girvan Algorithm) divides a graph by
// repeatedly deleting the edge or splitting the vertex with the highest
// betweenness. Every time the working graph falls apart into more
// components the components, mapped back to the original vertices, form a
// new cover. Because split vertices keep their origin, a vertex can end up
// in several communities.
//
// The pkg directory is organized into three areas:
//
//  1. Algorithm: [graph], [betweenness], [conga], [cover], [overlap]
//  2. Inputs and outputs: [io], [datasets], [render]
//  3. Infrastructure: [pipeline], [cache], [storage], [metrics],
//     [observability], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	edge list / node-link JSON
//	         ↓
//	    [io] package (build a simple graph)
//	         ↓
//	    [conga] package (divide, record one cover per component count)
//	         ↓
//	    [overlap] package (modularity per count, optimal cover)
//	         ↓
//	    JSON/CSV/DOT/SVG/PNG/PDF output
//
// [pipeline] wraps that flow with a result cache and run storage; the CLI
// and the HTTP server both call it.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/conga/pkg/conga"
//	    "github.com/matzehuels/conga/pkg/datasets"
//	)
//
//	res, err := conga.Decompose(context.Background(), datasets.Zachary(), conga.Options{})
//	if err != nil {
//	    return err
//	}
//	best, _ := res.OptimalCover()
//
// # Main Packages
//
// [graph] - Mutable undirected multigraph. Vertices carry the id of the
// original vertex they descend from; [graph.Action] describes one edge
// deletion or vertex split.
//
// [betweenness] - Brandes edge and vertex betweenness and the pair
// betweenness CONGA needs to score splits. Sources can be spread over
// worker goroutines.
//
// [conga] - The decomposition driver and the split finder that collapses a
// vertex's neighbour matrix into the best two-way split.
//
// [cover] - Covers, the per-count history of one run, and Newman and Lazar
// modularity.
//
// [overlap] - Evaluates a history: modularity of each cover and the
// optimal cluster count.
//
// [pipeline] - Orchestration (hash → cache → decompose → render → store).
//
// [cache] - Result cache with file, Redis and null backends.
//
// [storage] - Run records with memory, file and MongoDB backends.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/graph
// [graph.Action]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/graph#Action
// [betweenness]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/betweenness
// [conga]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/conga
// [cover]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/cover
// [overlap]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/overlap
// [io]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/io
// [datasets]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/datasets
// [render]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/storage
// [metrics]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/conga/pkg/buildinfo
package pkg
