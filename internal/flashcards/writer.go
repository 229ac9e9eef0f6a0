// Package flashcards persists generated flashcard sets as Markdown files
// compatible with the spaced-repetition plugin format: one card per line,
// front::back.
package flashcards

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/augmented-canvas/canvas-api/internal/models"
)

const fileMode = 0o644

// ErrEmptySet is returned when a set has no cards; nothing is written.
var ErrEmptySet = errors.New("flashcard set has no cards")

// Writer persists flashcard sets under one directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write persists one set and returns the path of the written file. The
// suggested filename is sanitized and given a .md extension.
func (w *Writer) Write(set models.FlashcardSet) (string, error) {
	if len(set.Flashcards) == 0 {
		return "", ErrEmptySet
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create flashcards directory: %w", err)
	}

	path := filepath.Join(w.dir, SanitizeFilename(set.Filename)+".md")
	if err := os.WriteFile(path, []byte(Render(set)), fileMode); err != nil {
		return "", fmt.Errorf("failed to write flashcards file: %w", err)
	}
	return path, nil
}

// Render formats a set as front::back lines, one card per line.
func Render(set models.FlashcardSet) string {
	var b strings.Builder
	for _, card := range set.Flashcards {
		b.WriteString(card.Front)
		b.WriteString("::")
		b.WriteString(card.Back)
		b.WriteString("\n")
	}
	return b.String()
}

// SanitizeFilename strips path separators and characters that are not
// safe in vault filenames. An empty result falls back to "flashcards".
func SanitizeFilename(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".md")
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
	)
	name = strings.TrimSpace(replacer.Replace(name))
	if name == "" || name == "." || name == ".." {
		return "flashcards"
	}
	return name
}
