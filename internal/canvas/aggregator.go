package canvas

import "fmt"

// NodeContent is one aggregated (node id, content) pair.
type NodeContent struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Aggregator walks connected ancestor nodes and concatenates their
// extracted content.
type Aggregator struct {
	canvas    *Canvas
	extractor *Extractor
}

// NewAggregator creates an Aggregator over one canvas.
func NewAggregator(canvas *Canvas, extractor *Extractor) *Aggregator {
	return &Aggregator{canvas: canvas, extractor: extractor}
}

// CollectContext traverses ancestors breadth-first starting from the
// start node's direct parents, bounded by maxDepth hops; maxDepth == 0
// means unlimited. A visited set keyed by node id guarantees termination
// on cyclic graphs and deduplicates content. Nodes whose content is empty
// or unreadable are skipped but still count as visited. An empty result
// is not an error; callers decide whether to surface ErrNoConnectedNodes.
func (a *Aggregator) CollectContext(startID string, maxDepth int) ([]NodeContent, error) {
	start := a.canvas.NodeByID(startID)
	if start == nil {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, startID)
	}

	type queued struct {
		id    string
		depth int
	}

	visited := map[string]bool{startID: true}
	queue := make([]queued, 0)
	for _, parent := range a.canvas.ParentsOf(startID) {
		if !visited[parent] {
			visited[parent] = true
			queue = append(queue, queued{id: parent, depth: 1})
		}
	}

	contents := make([]NodeContent, 0)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := a.canvas.NodeByID(current.id)
		if node != nil {
			if content, err := a.extractor.Extract(node); err == nil {
				contents = append(contents, NodeContent{ID: node.ID, Content: content})
			}
		}

		if maxDepth > 0 && current.depth >= maxDepth {
			continue
		}
		for _, parent := range a.canvas.ParentsOf(current.id) {
			if !visited[parent] {
				visited[parent] = true
				queue = append(queue, queued{id: parent, depth: current.depth + 1})
			}
		}
	}

	return contents, nil
}
