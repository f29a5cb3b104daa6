package tools

import (
	"context"
	"fmt"

	borgo "github.com/borgo-ai/borgo"
	"github.com/borgo-ai/borgo/src/models"
)

// SummarizeTool condenses a block of text with the chat model.
type SummarizeTool struct {
	Model models.Agent
}

const summarizeInputLimit = 24000

func (t *SummarizeTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "summarize",
		Description: "Summarize a block of text into its key points.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string", "description": "The text to summarize."},
			},
			"required": []string{"text"},
		},
	}
}

func (t *SummarizeTool) Invoke(ctx context.Context, req borgo.ToolRequest) (borgo.ToolResponse, error) {
	if t.Model == nil {
		return borgo.ToolResponse{}, fmt.Errorf("no chat model configured")
	}
	text := stringArg(req.Arguments, "text", "input")
	if text == "" {
		return borgo.ToolResponse{}, fmt.Errorf("missing 'text' argument")
	}

	prompt := "Summarize the following text concisely, keeping the key points:\n\n" + truncate(text, summarizeInputLimit)
	summary, err := t.Model.Chat(ctx, []models.Message{{Role: models.RoleUser, Content: prompt}})
	if err != nil {
		return borgo.ToolResponse{}, fmt.Errorf("summarizing: %w", err)
	}
	return borgo.ToolResponse{Content: summary}, nil
}
