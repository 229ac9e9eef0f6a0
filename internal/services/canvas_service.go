// Package services wires the canvas, agent, and persistence layers into
// the request-level flows the API handlers expose.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/augmented-canvas/canvas-api/internal/agent"
	"github.com/augmented-canvas/canvas-api/internal/canvas"
	"github.com/augmented-canvas/canvas-api/internal/flashcards"
	"github.com/augmented-canvas/canvas-api/internal/llm"
	"github.com/augmented-canvas/canvas-api/internal/models"
)

// CanvasService runs the context-aware canvas flows: aggregate ancestor
// content, call the agent, and write generated nodes back into the graph.
type CanvasService struct {
	agent    *agent.Service
	writer   *flashcards.Writer
	resolver canvas.FileResolver
}

// NewCanvasService creates a CanvasService. resolver may be nil when no
// vault directory is configured; file nodes then contribute no content.
func NewCanvasService(agentService *agent.Service, writer *flashcards.Writer, resolver canvas.FileResolver) *CanvasService {
	return &CanvasService{agent: agentService, writer: writer, resolver: resolver}
}

// PromptRequest asks the agent about a node with its ancestor context.
type PromptRequest struct {
	Canvas       *canvas.Canvas
	NodeID       string
	Question     string
	SystemPrompt string
	Depth        int
	APIKey       string
}

// PromptResult carries the mutated canvas and the ids of created nodes.
// On agent failure the result is still returned alongside the error so
// the caller can persist the prompt node carrying the error text.
type PromptResult struct {
	Canvas         *canvas.Canvas
	PromptNodeID   string
	ResponseNodeID string
	Response       string
	Model          string
	Usage          llm.Usage
}

// Prompt aggregates context for the node, asks the agent, and appends a
// response node connected to the source. When a custom question is set a
// prompt node is created first; if the agent then fails, that node's text
// is replaced with the error message before returning.
func (s *CanvasService) Prompt(ctx context.Context, req PromptRequest) (*PromptResult, error) {
	source := req.Canvas.NodeByID(req.NodeID)
	if source == nil {
		return nil, fmt.Errorf("%w: %s", canvas.ErrNodeNotFound, req.NodeID)
	}

	extractor := canvas.NewExtractor(s.resolver)
	aggregator := canvas.NewAggregator(req.Canvas, extractor)
	mutator := canvas.NewMutator(req.Canvas)

	ancestors, err := aggregator.CollectContext(req.NodeID, req.Depth)
	if err != nil {
		return nil, err
	}

	ownContent, ownErr := extractor.Extract(source)

	var content string
	switch {
	case req.Question != "":
		parts := contentStrings(ancestors)
		if ownErr == nil {
			parts = append(parts, ownContent)
		}
		if len(parts) == 0 {
			return nil, canvas.ErrNoConnectedNodes
		}
		content = agent.BuildMultiNodePrompt(parts, req.Question)

	case ownErr != nil:
		return nil, ownErr

	case len(ancestors) == 0:
		content = ownContent

	default:
		content = agent.BuildMultiNodePrompt(contentStrings(ancestors), ownContent)
	}

	result := &PromptResult{Canvas: req.Canvas}
	anchor := source
	if req.Question != "" {
		promptNode := mutator.CreateNode(canvas.GenerationPrompt, req.Question, canvas.PlaceBelow(source))
		mutator.Connect([]string{source.ID}, promptNode.ID)
		result.PromptNodeID = promptNode.ID
		anchor = promptNode
	}

	answer, err := s.agent.Ask(ctx, content, req.SystemPrompt, req.APIKey)
	if err != nil {
		if anchor != source {
			anchor.Text = err.Error()
		}
		return result, err
	}

	responseNode := mutator.CreateNode(canvas.GenerationResponse, answer.Text, canvas.PlaceBelow(anchor))
	mutator.Connect([]string{anchor.ID}, responseNode.ID)

	result.ResponseNodeID = responseNode.ID
	result.Response = answer.Text
	result.Model = answer.Model
	result.Usage = answer.Usage
	return result, nil
}

// QuestionsRequest generates questions about a node and materializes
// each one as a connected question node.
type QuestionsRequest struct {
	Canvas *canvas.Canvas
	NodeID string
	Count  int
	Depth  int
	APIKey string
}

// QuestionsResult carries the mutated canvas and the generated questions
// in model order, parallel to NodeIDs.
type QuestionsResult struct {
	Canvas    *canvas.Canvas
	Questions []string
	NodeIDs   []string
	Model     string
	Usage     llm.Usage
}

// Questions asks the agent for questions about the node's content and
// fans them out as question nodes below the source.
func (s *CanvasService) Questions(ctx context.Context, req QuestionsRequest) (*QuestionsResult, error) {
	content, source, err := s.collectContent(req.Canvas, req.NodeID, req.Depth)
	if err != nil {
		return nil, err
	}

	answer, err := s.agent.AskQuestions(ctx, content, req.Count, req.APIKey)
	if err != nil {
		return nil, err
	}

	mutator := canvas.NewMutator(req.Canvas)
	nodeIDs := make([]string, 0, len(answer.Questions))
	for i, question := range answer.Questions {
		node := mutator.CreateNode(canvas.GenerationQuestion, question, canvas.PlaceBelowRight(source, i))
		mutator.Connect([]string{source.ID}, node.ID)
		nodeIDs = append(nodeIDs, node.ID)
	}

	return &QuestionsResult{
		Canvas:    req.Canvas,
		Questions: answer.Questions,
		NodeIDs:   nodeIDs,
		Model:     answer.Model,
		Usage:     answer.Usage,
	}, nil
}

// FlashcardsRequest generates a flashcard set from a node's content.
type FlashcardsRequest struct {
	Canvas *canvas.Canvas
	NodeID string
	Title  string
	Depth  int
	APIKey string
}

// FlashcardsResult carries the generated set and the path it was written
// to. Path is empty when no flashcards directory is configured.
type FlashcardsResult struct {
	Set   models.FlashcardSet
	Path  string
	Model string
	Usage llm.Usage
}

// Flashcards asks the agent for a flashcard set over the node's content
// and persists it. Nothing is written when the agent response fails to
// parse.
func (s *CanvasService) Flashcards(ctx context.Context, req FlashcardsRequest) (*FlashcardsResult, error) {
	content, _, err := s.collectContent(req.Canvas, req.NodeID, req.Depth)
	if err != nil {
		return nil, err
	}

	answer, err := s.agent.AskFlashcards(ctx, content, req.Title, req.APIKey)
	if err != nil {
		return nil, err
	}

	result := &FlashcardsResult{Set: answer.Set, Model: answer.Model, Usage: answer.Usage}
	if s.writer != nil {
		path, err := s.writer.Write(answer.Set)
		if err != nil {
			return nil, err
		}
		result.Path = path
	}
	return result, nil
}

// collectContent joins the node's own content with its ancestor context,
// ancestors first.
func (s *CanvasService) collectContent(cv *canvas.Canvas, nodeID string, depth int) (string, *canvas.Node, error) {
	source := cv.NodeByID(nodeID)
	if source == nil {
		return "", nil, fmt.Errorf("%w: %s", canvas.ErrNodeNotFound, nodeID)
	}

	extractor := canvas.NewExtractor(s.resolver)
	aggregator := canvas.NewAggregator(cv, extractor)

	ancestors, err := aggregator.CollectContext(nodeID, depth)
	if err != nil {
		return "", nil, err
	}

	parts := contentStrings(ancestors)
	if own, err := extractor.Extract(source); err == nil {
		parts = append(parts, own)
	}
	if len(parts) == 0 {
		return "", nil, canvas.ErrNoConnectedNodes
	}
	return strings.Join(parts, "\n\n"), source, nil
}

func contentStrings(contents []canvas.NodeContent) []string {
	parts := make([]string, 0, len(contents))
	for _, c := range contents {
		parts = append(parts, c.Content)
	}
	return parts
}
