// Package datasets bundles small reference graphs used by the demo command
// and by tests.
package datasets

import (
	"strconv"

	"github.com/matzehuels/conga/pkg/cover"
	"github.com/matzehuels/conga/pkg/graph"
)

// zacharyEdges lists the karate club friendships, 1-indexed as published.
var zacharyEdges = [][2]int{
	{1, 2}, {1, 3}, {1, 4}, {1, 5}, {1, 6}, {1, 7}, {1, 8}, {1, 9}, {1, 11}, {1, 12},
	{1, 13}, {1, 14}, {1, 18}, {1, 20}, {1, 22}, {1, 32},
	{2, 3}, {2, 4}, {2, 8}, {2, 14}, {2, 18}, {2, 20}, {2, 22}, {2, 31},
	{3, 4}, {3, 8}, {3, 9}, {3, 10}, {3, 14}, {3, 28}, {3, 29}, {3, 33},
	{4, 8}, {4, 13}, {4, 14},
	{5, 7}, {5, 11},
	{6, 7}, {6, 11}, {6, 17},
	{7, 17},
	{9, 31}, {9, 33}, {9, 34},
	{10, 34},
	{14, 34},
	{15, 33}, {15, 34},
	{16, 33}, {16, 34},
	{19, 33}, {19, 34},
	{20, 34},
	{21, 33}, {21, 34},
	{23, 33}, {23, 34},
	{24, 26}, {24, 28}, {24, 30}, {24, 33}, {24, 34},
	{25, 26}, {25, 28}, {25, 32},
	{26, 32},
	{27, 30}, {27, 34},
	{28, 34},
	{29, 32}, {29, 34},
	{30, 33}, {30, 34},
	{31, 33}, {31, 34},
	{32, 33}, {32, 34},
	{33, 34},
}

// officers holds the 0-indexed members who followed the club officer
// after the split. Everyone else stayed with the instructor.
var officers = []int{9, 14, 15, 18, 20, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33}

// ZacharyVertices and ZacharyEdges are the size of the karate club graph.
const (
	ZacharyVertices = 34
	ZacharyEdges    = 78
)

// Zachary returns Zachary's karate club network: 34 members, 78
// friendships. Vertices are 0-indexed and labelled with their published
// 1-based number.
func Zachary() *graph.Graph {
	g := graph.New(0)
	for i := 1; i <= ZacharyVertices; i++ {
		g.AddVertex(strconv.Itoa(i))
	}
	for _, e := range zacharyEdges {
		// Static data: endpoints are in range and distinct.
		_ = g.AddEdge(e[0]-1, e[1]-1)
	}
	return g
}

// ZacharyFactions returns the two groups the club split into, instructor's
// faction first.
func ZacharyFactions() cover.Cover {
	isOfficer := make(map[int]bool, len(officers))
	for _, v := range officers {
		isOfficer[v] = true
	}
	var instructor []int
	for v := 0; v < ZacharyVertices; v++ {
		if !isOfficer[v] {
			instructor = append(instructor, v)
		}
	}
	return cover.Cover{instructor, append([]int(nil), officers...)}
}
