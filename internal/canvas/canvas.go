// Package canvas implements the node-graph logic behind the plugin: it
// models a JSON-compatible Obsidian canvas, extracts node content,
// aggregates connected-node context, and writes AI-generated nodes and
// edges back into the graph.
package canvas

// NodeKind is the content kind of a canvas node.
type NodeKind string

const (
	NodeText  NodeKind = "text"
	NodeFile  NodeKind = "file"
	NodeGroup NodeKind = "group"
)

// GenerationType tags AI-created nodes for styling. It is set exactly
// once, at creation, and never changes.
type GenerationType string

const (
	GenerationPrompt   GenerationType = "prompt"
	GenerationQuestion GenerationType = "question"
	GenerationResponse GenerationType = "response"
)

// Node is a single content box on the canvas. The JSON field names match
// the Obsidian .canvas format so documents round-trip untouched.
type Node struct {
	ID     string   `json:"id"`
	Type   NodeKind `json:"type"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Text   string   `json:"text,omitempty"`  // inline content of text nodes
	File   string   `json:"file,omitempty"`  // vault-relative path of file nodes
	Label  string   `json:"label,omitempty"` // group label

	// Metadata written by the mutator for AI-created nodes; the host's
	// styling pass keys off these.
	IsAIGenerated  bool           `json:"isAIGenerated,omitempty"`
	GenerationType GenerationType `json:"generationType,omitempty"`
}

// Edge is a directed connection between two canvas nodes. Edges are
// created only by the mutator and never changed afterwards.
type Edge struct {
	ID       string `json:"id"`
	FromNode string `json:"fromNode"`
	FromSide string `json:"fromSide,omitempty"`
	ToNode   string `json:"toNode"`
	ToSide   string `json:"toSide,omitempty"`
}

// Canvas is the host-provided node graph. The graph may contain cycles;
// traversal guards against them with a visited set.
type Canvas struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// NodeByID returns the node with the given id, or nil.
func (c *Canvas) NodeByID(id string) *Node {
	for _, node := range c.Nodes {
		if node.ID == id {
			return node
		}
	}
	return nil
}

// ParentsOf returns the ids of nodes with an edge pointing at id, in edge
// order. These are the ancestors context aggregation walks.
func (c *Canvas) ParentsOf(id string) []string {
	var parents []string
	for _, edge := range c.Edges {
		if edge.ToNode == id {
			parents = append(parents, edge.FromNode)
		}
	}
	return parents
}
