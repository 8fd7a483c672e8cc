package conga_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/conga/pkg/conga"
	"github.com/matzehuels/conga/pkg/graph"
)

func ExampleDecompose() {
	// Two triangles joined by the bridge 2-3.
	g := graph.New(6)
	for _, e := range [][2]int{{0, 1}, {1, 2}, {0, 2}, {2, 3}, {3, 4}, {4, 5}, {3, 5}} {
		_ = g.AddEdge(e[0], e[1])
	}

	res, err := conga.Decompose(context.Background(), g, conga.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	best, _ := res.OptimalCover()
	fmt.Println("Counts:", res.Counts())
	fmt.Println("Optimal:", best)
	// Output:
	// Counts: [1 2 3 4 5 6]
	// Optimal: [[0 1 2] [3 4 5]]
}

func ExampleDecomposer_Step() {
	// Bow-tie: vertex 2 belongs to both triangles.
	g := graph.New(5)
	for _, e := range [][2]int{{0, 1}, {0, 2}, {1, 2}, {2, 3}, {2, 4}, {3, 4}} {
		_ = g.AddEdge(e[0], e[1])
	}

	d, _ := conga.New(g, conga.Options{})
	step, _ := d.Step(context.Background())
	fmt.Println(step.Action)
	fmt.Println("Clusters:", step.Clusters)
	// Output:
	// split-vertex 2 [0 1]
	// Clusters: 2
}
