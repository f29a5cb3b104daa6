package tools

import (
	"context"
	"fmt"
	"strings"

	borgo "github.com/borgo-ai/borgo"
	"github.com/borgo-ai/borgo/src/rag"
)

// AddKnowledgeTool ingests a document into the knowledge base.
type AddKnowledgeTool struct {
	KB *rag.KnowledgeBase
}

func (t *AddKnowledgeTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "add_knowledge",
		Description: "Add a document to the knowledge base so it can be queried later.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"content": map[string]any{"type": "string", "description": "The document text."},
				"source":  map[string]any{"type": "string", "description": "Where the document came from."},
			},
			"required": []string{"content"},
		},
	}
}

func (t *AddKnowledgeTool) Invoke(ctx context.Context, req borgo.ToolRequest) (borgo.ToolResponse, error) {
	if t.KB == nil {
		return borgo.ToolResponse{}, fmt.Errorf("no knowledge base configured")
	}
	content := stringArg(req.Arguments, "content", "input")
	if content == "" {
		return borgo.ToolResponse{}, fmt.Errorf("missing 'content' argument")
	}
	source := stringArg(req.Arguments, "source")
	if source == "" {
		source = "conversation"
	}

	n, err := t.KB.Add(ctx, content, source)
	if err != nil {
		return borgo.ToolResponse{}, fmt.Errorf("adding knowledge: %w", err)
	}
	return borgo.ToolResponse{Content: fmt.Sprintf("Added %d chunk(s) from %s to the knowledge base.", n, source)}, nil
}

// QueryKnowledgeTool searches the knowledge base.
type QueryKnowledgeTool struct {
	KB    *rag.KnowledgeBase
	Limit int
}

func (t *QueryKnowledgeTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "query_knowledge",
		Description: "Search the knowledge base for passages relevant to a query.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "The search query."},
				"limit": map[string]any{"type": "integer", "description": "Maximum number of passages."},
			},
			"required": []string{"query"},
		},
	}
}

func (t *QueryKnowledgeTool) Invoke(ctx context.Context, req borgo.ToolRequest) (borgo.ToolResponse, error) {
	if t.KB == nil {
		return borgo.ToolResponse{}, fmt.Errorf("no knowledge base configured")
	}
	query := stringArg(req.Arguments, "query", "input")
	if query == "" {
		return borgo.ToolResponse{}, fmt.Errorf("missing 'query' argument")
	}
	limit := intArg(req.Arguments, "limit", t.Limit)
	if limit <= 0 {
		limit = 3
	}

	records, err := t.KB.Query(ctx, query, limit)
	if err != nil {
		return borgo.ToolResponse{}, fmt.Errorf("querying knowledge: %w", err)
	}
	if len(records) == 0 {
		return borgo.ToolResponse{Content: "No relevant passages found."}, nil
	}

	var b strings.Builder
	for i, rec := range records {
		source := rec.Source
		if source == "" {
			source = "unknown"
		}
		fmt.Fprintf(&b, "[%d] (%s) %s\n", i+1, source, truncate(rec.Content, 500))
	}
	return borgo.ToolResponse{Content: b.String()}, nil
}
