package graph

import "fmt"

// ActionKind tags the modification an [Action] performs.
type ActionKind int

const (
	// ActionDeleteEdge removes one instance of Action.Edge.
	ActionDeleteEdge ActionKind = iota
	// ActionSplitVertex splits Action.Vertex, moving the edges to Action.Group
	// onto a new clone.
	ActionSplitVertex
)

// String returns "delete-edge" or "split-vertex".
func (k ActionKind) String() string {
	switch k {
	case ActionDeleteEdge:
		return "delete-edge"
	case ActionSplitVertex:
		return "split-vertex"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is the decision taken by one decomposition iteration.
// Only the fields relevant to Kind are set.
type Action struct {
	Kind   ActionKind
	Edge   Edge  // ActionDeleteEdge
	Vertex int   // ActionSplitVertex
	Group  []int // ActionSplitVertex: neighbours moved to the clone
}

// DeleteEdge builds an action that removes one u-v edge.
func DeleteEdge(u, v int) Action {
	return Action{Kind: ActionDeleteEdge, Edge: NewEdge(u, v)}
}

// SplitVertex builds an action that splits v, moving the edges to group.
func SplitVertex(v int, group []int) Action {
	return Action{Kind: ActionSplitVertex, Vertex: v, Group: group}
}

// String renders the action for logs.
func (a Action) String() string {
	if a.Kind == ActionSplitVertex {
		return fmt.Sprintf("%s %d %v", a.Kind, a.Vertex, a.Group)
	}
	return fmt.Sprintf("%s %s", a.Kind, a.Edge)
}

// Apply performs the action and reports whether it disconnected the two
// vertices it touched (the edge's endpoints, or the split vertex and its
// clone).
func (g *Graph) Apply(a Action) (bool, error) {
	switch a.Kind {
	case ActionDeleteEdge:
		if err := g.DeleteEdge(a.Edge.U, a.Edge.V); err != nil {
			return false, err
		}
		return g.Disconnected(a.Edge.U, a.Edge.V), nil
	case ActionSplitVertex:
		_, split, err := g.SplitVertex(a.Vertex, a.Group)
		return split, err
	default:
		return false, fmt.Errorf("unknown action kind %d", int(a.Kind))
	}
}
