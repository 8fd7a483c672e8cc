// Package io reads graphs for decomposition and writes decomposition results.
//
// # Input Formats
//
// Node-link JSON, the same shape the HTTP API accepts:
//
//	{
//	  "nodes": [
//	    {"id": "a", "label": "Alice"},
//	    {"id": "b"},
//	    {"id": "c"}
//	  ],
//	  "edges": [
//	    {"from": "a", "to": "b"},
//	    {"from": "b", "to": "c"}
//	  ]
//	}
//
// Edge lists, one "u v" pair per line separated by whitespace, with "#"
// comments. CSV files with a "from,to" header are read the same way.
// Vertex ids in edge lists are opaque tokens; vertices are numbered in the
// order they first appear and the token becomes the vertex label.
//
// Decomposition expects a simple graph. Readers reject self-loops and
// collapse repeated edges into one.
//
// # Import
//
// [Import] picks a reader by file extension:
//
//	g, err := io.Import("karate.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Output
//
// [WriteResult] encodes a [Document]: every cover of a run keyed by cluster
// count, with modularity values and the optimal count. [WriteCoverCSV]
// writes one "vertex,community" row per membership of a single cover.
package io
