package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrVertexNotFound is returned when an operation references a vertex
	// handle outside the graph's arena.
	ErrVertexNotFound = errors.New("vertex not found")

	// ErrEdgeNotFound is returned by [Graph.DeleteEdge] and [Graph.SplitVertex]
	// when the requested edge does not exist. Inside a decomposition run this
	// indicates a broken invariant rather than bad input.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same vertex. Self-loops carry no betweenness and are rejected.
	ErrSelfLoop = errors.New("self-loops are not allowed")

	// ErrTrivialSplit is returned by [Graph.SplitVertex] when the neighbour
	// group is empty or covers every neighbour, which would not split anything.
	ErrTrivialSplit = errors.New("split group must be a non-empty proper subset of the neighbours")
)

// Vertex is a node of the working graph.
//
// ID is the vertex's handle in the arena. Origin is the handle of the vertex in
// the caller's original graph this vertex descends from; clones created by
// [Graph.SplitVertex] inherit it. Label is an optional display name.
type Vertex struct {
	ID     int
	Origin int
	Label  string
}

// Edge is an unordered vertex pair. Edges returned by this package always have
// U <= V.
type Edge struct {
	U int
	V int
}

// NewEdge returns the normalised edge between u and v.
func NewEdge(u, v int) Edge {
	if u > v {
		u, v = v, u
	}
	return Edge{U: u, V: v}
}

// String returns the edge as "u-v".
func (e Edge) String() string { return fmt.Sprintf("%d-%d", e.U, e.V) }

// Graph is an undirected multigraph with origin back-references.
//
// The zero value is an empty graph ready for use.
type Graph struct {
	vertices []Vertex
	adj      []map[int]int // vertex -> neighbour -> edge multiplicity
	edges    int
}

// New creates a graph with n vertices whose IDs and Origins are 0..n-1.
func New(n int) *Graph {
	g := &Graph{
		vertices: make([]Vertex, 0, n),
		adj:      make([]map[int]int, 0, n),
	}
	for i := 0; i < n; i++ {
		g.AddVertex("")
	}
	return g
}

// AddVertex appends a vertex whose Origin is its own ID and returns its handle.
func (g *Graph) AddVertex(label string) int {
	id := len(g.vertices)
	g.vertices = append(g.vertices, Vertex{ID: id, Origin: id, Label: label})
	g.adj = append(g.adj, make(map[int]int))
	return id
}

// AddEdge adds one edge instance between u and v.
// Returns ErrVertexNotFound for unknown endpoints and ErrSelfLoop when u == v.
func (g *Graph) AddEdge(u, v int) error {
	if err := g.check(u, v); err != nil {
		return err
	}
	if u == v {
		return fmt.Errorf("%w: %d", ErrSelfLoop, u)
	}
	g.adj[u][v]++
	g.adj[v][u]++
	g.edges++
	return nil
}

// DeleteEdge removes one edge instance between u and v.
// Returns ErrEdgeNotFound if u and v are not adjacent.
func (g *Graph) DeleteEdge(u, v int) error {
	if err := g.check(u, v); err != nil {
		return err
	}
	if g.adj[u][v] == 0 {
		return fmt.Errorf("%w: %d-%d", ErrEdgeNotFound, u, v)
	}
	g.unlink(u, v, 1)
	return nil
}

// SplitVertex clones v and moves every edge between v and a member of group
// onto the clone. The clone inherits v's Origin and Label.
//
// It returns the clone's handle and whether v and the clone ended up in
// different connected components. The group must be a non-empty proper
// subset of v's neighbours; otherwise ErrTrivialSplit is returned and the
// graph is left untouched.
func (g *Graph) SplitVertex(v int, group []int) (int, bool, error) {
	if err := g.check(v); err != nil {
		return 0, false, err
	}
	members := make(map[int]struct{}, len(group))
	for _, u := range group {
		if g.adj[v][u] == 0 {
			return 0, false, fmt.Errorf("%w: %d-%d", ErrEdgeNotFound, v, u)
		}
		members[u] = struct{}{}
	}
	if len(members) == 0 || len(members) == len(g.adj[v]) {
		return 0, false, fmt.Errorf("%w: vertex %d", ErrTrivialSplit, v)
	}

	orig := g.vertices[v]
	clone := g.AddVertex(orig.Label)
	g.vertices[clone].Origin = orig.Origin

	for _, u := range slices.Sorted(maps.Keys(members)) {
		m := g.adj[v][u]
		g.unlink(v, u, m)
		g.adj[clone][u] += m
		g.adj[u][clone] += m
		g.edges += m
	}
	return clone, g.Disconnected(v, clone), nil
}

// Disconnected reports whether no path joins u and v. After a deletion or a
// split touching u and v this is exactly the "zero edge-disjoint paths
// remain" test: it answers whether that modification split a component
// without recomputing all components.
func (g *Graph) Disconnected(u, v int) bool {
	if u == v {
		return false
	}
	seen := make([]bool, len(g.vertices))
	seen[u] = true
	queue := []int{u}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		for y := range g.adj[x] {
			if y == v {
				return false
			}
			if !seen[y] {
				seen[y] = true
				queue = append(queue, y)
			}
		}
	}
	return true
}

// Components partitions the vertices into connected components.
// Components are ordered by their smallest vertex and members are ascending.
func (g *Graph) Components() [][]int {
	membership := g.Membership()
	var comps [][]int
	for v, c := range membership {
		if c == len(comps) {
			comps = append(comps, nil)
		}
		comps[c] = append(comps[c], v)
	}
	return comps
}

// Membership returns, for each vertex, the index of its connected component.
// Component indices are assigned in ascending order of the smallest member.
func (g *Graph) Membership() []int {
	membership := make([]int, len(g.vertices))
	for i := range membership {
		membership[i] = -1
	}
	next := 0
	for start := range g.vertices {
		if membership[start] >= 0 {
			continue
		}
		membership[start] = next
		queue := []int{start}
		for len(queue) > 0 {
			x := queue[0]
			queue = queue[1:]
			for y := range g.adj[x] {
				if membership[y] < 0 {
					membership[y] = next
					queue = append(queue, y)
				}
			}
		}
		next++
	}
	return membership
}

// Neighbors returns the distinct neighbours of v in ascending order.
// Returns nil for unknown vertices.
func (g *Graph) Neighbors(v int) []int {
	if v < 0 || v >= len(g.adj) {
		return nil
	}
	return slices.Sorted(maps.Keys(g.adj[v]))
}

// Multiplicity returns the number of edge instances between u and v.
func (g *Graph) Multiplicity(u, v int) int {
	if u < 0 || u >= len(g.adj) {
		return 0
	}
	return g.adj[u][v]
}

// Degree returns the number of edge instances incident to v.
func (g *Graph) Degree(v int) int {
	if v < 0 || v >= len(g.adj) {
		return 0
	}
	d := 0
	for _, m := range g.adj[v] {
		d += m
	}
	return d
}

// Edges returns one entry per edge instance, sorted by (U, V).
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for u := range g.adj {
		for _, v := range g.Neighbors(u) {
			if v < u {
				continue
			}
			for i := 0; i < g.adj[u][v]; i++ {
				edges = append(edges, Edge{U: u, V: v})
			}
		}
	}
	return edges
}

// Vertex returns the vertex with the given handle.
func (g *Graph) Vertex(id int) (Vertex, bool) {
	if id < 0 || id >= len(g.vertices) {
		return Vertex{}, false
	}
	return g.vertices[id], true
}

// SetLabel sets the display label of a vertex.
func (g *Graph) SetLabel(id int, label string) error {
	if err := g.check(id); err != nil {
		return err
	}
	g.vertices[id].Label = label
	return nil
}

// Origin returns the original-graph handle of vertex id.
func (g *Graph) Origin(id int) int { return g.vertices[id].Origin }

// VertexCount returns the number of vertices, clones included.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of edge instances.
func (g *Graph) EdgeCount() int { return g.edges }

// Clone returns a deep copy of the graph. The decomposition driver clones
// the caller's graph so the input is never mutated.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		vertices: slices.Clone(g.vertices),
		adj:      make([]map[int]int, len(g.adj)),
		edges:    g.edges,
	}
	for i, m := range g.adj {
		c.adj[i] = maps.Clone(m)
	}
	return c
}

func (g *Graph) unlink(u, v, m int) {
	g.adj[u][v] -= m
	g.adj[v][u] -= m
	if g.adj[u][v] == 0 {
		delete(g.adj[u], v)
		delete(g.adj[v], u)
	}
	g.edges -= m
}

func (g *Graph) check(ids ...int) error {
	for _, id := range ids {
		if id < 0 || id >= len(g.vertices) {
			return fmt.Errorf("%w: %d", ErrVertexNotFound, id)
		}
	}
	return nil
}
