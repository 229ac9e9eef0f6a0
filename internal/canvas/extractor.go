package canvas

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrContentUnavailable is returned when a node has no extractable text.
var ErrContentUnavailable = errors.New("node has no extractable content")

// ErrNodeNotFound is returned when an operation references a node id that
// is not in the canvas.
var ErrNodeNotFound = errors.New("node not found")

// ErrNoConnectedNodes is surfaced by callers when context aggregation
// finds nothing connected to the start node.
var ErrNoConnectedNodes = errors.New("no connected nodes with content")

// FileResolver resolves the contents of a file node.
type FileResolver interface {
	ReadFile(path string) ([]byte, error)
}

// VaultResolver reads file-node content from a vault directory on disk.
type VaultResolver struct {
	Root string
}

// ReadFile reads a vault-relative path. Paths escaping the vault root are
// rejected.
func (r *VaultResolver) ReadFile(path string) ([]byte, error) {
	cleaned := filepath.Clean("/" + path)
	if strings.Contains(cleaned, "..") {
		return nil, fmt.Errorf("invalid vault path: %s", path)
	}
	return os.ReadFile(filepath.Join(r.Root, cleaned))
}

// Extractor resolves a node's displayable text: inline text for text
// nodes, file contents for file nodes, the label for groups.
type Extractor struct {
	resolver FileResolver
}

// NewExtractor creates an Extractor. resolver may be nil, in which case
// file nodes are treated as unavailable.
func NewExtractor(resolver FileResolver) *Extractor {
	return &Extractor{resolver: resolver}
}

// Extract returns the node's content or ErrContentUnavailable.
func (e *Extractor) Extract(node *Node) (string, error) {
	if node == nil {
		return "", ErrContentUnavailable
	}

	switch node.Type {
	case NodeText:
		if strings.TrimSpace(node.Text) == "" {
			return "", ErrContentUnavailable
		}
		return node.Text, nil

	case NodeFile:
		if node.File == "" || e.resolver == nil {
			return "", ErrContentUnavailable
		}
		data, err := e.resolver.ReadFile(node.File)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrContentUnavailable, node.File)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", ErrContentUnavailable
		}
		return string(data), nil

	case NodeGroup:
		if strings.TrimSpace(node.Label) == "" {
			return "", ErrContentUnavailable
		}
		return node.Label, nil
	}

	return "", ErrContentUnavailable
}
