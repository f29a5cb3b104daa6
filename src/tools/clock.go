package tools

import (
	"context"
	"time"

	borgo "github.com/borgo-ai/borgo"
)

// GetTimeTool reports the current date and time.
type GetTimeTool struct {
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (t *GetTimeTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "get_time",
		Description: "Get the current date and time.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

func (t *GetTimeTool) Invoke(_ context.Context, _ borgo.ToolRequest) (borgo.ToolResponse, error) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	return borgo.ToolResponse{Content: now().Format("Monday, January 2, 2006 at 15:04:05 MST")}, nil
}
