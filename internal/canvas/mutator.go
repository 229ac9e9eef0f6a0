package canvas

import "github.com/google/uuid"

// Node placement constants. Placement is a simple offset heuristic
// relative to the source node; collisions are not resolved.
const (
	defaultNodeWidth  = 400.0
	defaultNodeHeight = 200.0
	verticalGap       = 80.0
	horizontalGap     = 60.0
)

// Position is a canvas coordinate for a new node's top-left corner.
type Position struct {
	X float64
	Y float64
}

// Mutator creates AI-generated nodes and the edges connecting them to
// their sources. It only ever appends; existing nodes and edges are never
// modified or removed, except a prompt node's text being replaced with an
// error message by the owning flow.
type Mutator struct {
	canvas *Canvas
}

// NewMutator creates a Mutator over one canvas.
func NewMutator(canvas *Canvas) *Mutator {
	return &Mutator{canvas: canvas}
}

// CreateNode appends a new text node tagged as AI-generated with the
// given generation type. The tag is set here, once, and never changes.
func (m *Mutator) CreateNode(gen GenerationType, text string, pos Position) *Node {
	node := &Node{
		ID:             uuid.New().String(),
		Type:           NodeText,
		X:              pos.X,
		Y:              pos.Y,
		Width:          defaultNodeWidth,
		Height:         defaultNodeHeight,
		Text:           text,
		IsAIGenerated:  true,
		GenerationType: gen,
	}
	m.canvas.Nodes = append(m.canvas.Nodes, node)
	return node
}

// Connect draws a directed edge from each source node to the target.
func (m *Mutator) Connect(fromIDs []string, toID string) {
	for _, fromID := range fromIDs {
		m.canvas.Edges = append(m.canvas.Edges, &Edge{
			ID:       uuid.New().String(),
			FromNode: fromID,
			FromSide: "bottom",
			ToNode:   toID,
			ToSide:   "top",
		})
	}
}

// PlaceBelow returns a position directly below the source node.
func PlaceBelow(source *Node) Position {
	return Position{
		X: source.X,
		Y: source.Y + source.Height + verticalGap,
	}
}

// PlaceBelowRight fans n sibling nodes out below and to the right of the
// source, index selecting the slot.
func PlaceBelowRight(source *Node, index int) Position {
	return Position{
		X: source.X + float64(index)*(defaultNodeWidth+horizontalGap),
		Y: source.Y + source.Height + verticalGap,
	}
}
