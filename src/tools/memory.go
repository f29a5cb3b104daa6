package tools

import (
	"context"
	"fmt"
	"strings"

	borgo "github.com/borgo-ai/borgo"
	"github.com/borgo-ai/borgo/src/memory/model"
	"github.com/borgo-ai/borgo/src/memory/session"
)

// RememberTool saves a fact to long-term memory.
type RememberTool struct {
	Memory    *session.SessionMemory
	SessionID string
}

func (t *RememberTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "remember",
		Description: "Save an important fact to long-term memory for future conversations.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"content": map[string]any{"type": "string", "description": "The fact to remember."},
			},
			"required": []string{"content"},
		},
	}
}

func (t *RememberTool) Invoke(ctx context.Context, req borgo.ToolRequest) (borgo.ToolResponse, error) {
	if t.Memory == nil {
		return borgo.ToolResponse{}, fmt.Errorf("no memory store configured")
	}
	content := stringArg(req.Arguments, "content", "input")
	if content == "" {
		return borgo.ToolResponse{}, fmt.Errorf("missing 'content' argument")
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = t.SessionID
	}
	if sessionID == "" {
		sessionID = "default"
	}

	metadata := model.EncodeMetadata(map[string]string{"source": "remember"})
	if err := t.Memory.Remember(ctx, sessionID, content, metadata); err != nil {
		return borgo.ToolResponse{}, fmt.Errorf("saving memory: %w", err)
	}
	return borgo.ToolResponse{Content: "Saved to long-term memory."}, nil
}

// RecallTool retrieves memories similar to a query.
type RecallTool struct {
	Memory *session.SessionMemory
	Limit  int
}

func (t *RecallTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "recall",
		Description: "Search long-term memory for facts related to a query.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "What to look for."},
				"limit": map[string]any{"type": "integer", "description": "Maximum number of memories."},
			},
			"required": []string{"query"},
		},
	}
}

func (t *RecallTool) Invoke(ctx context.Context, req borgo.ToolRequest) (borgo.ToolResponse, error) {
	if t.Memory == nil {
		return borgo.ToolResponse{}, fmt.Errorf("no memory store configured")
	}
	query := stringArg(req.Arguments, "query", "input")
	if query == "" {
		return borgo.ToolResponse{}, fmt.Errorf("missing 'query' argument")
	}
	limit := intArg(req.Arguments, "limit", t.Limit)
	if limit <= 0 {
		limit = 5
	}

	records, err := t.Memory.Recall(ctx, query, limit)
	if err != nil {
		return borgo.ToolResponse{}, fmt.Errorf("recalling memory: %w", err)
	}
	if len(records) == 0 {
		return borgo.ToolResponse{Content: "No matching memories found."}, nil
	}

	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "- %s\n", rec.Content)
	}
	return borgo.ToolResponse{Content: b.String()}, nil
}
