package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	borgo "github.com/borgo-ai/borgo"
	"github.com/borgo-ai/borgo/src/models"
)

// DescribeImageTool sends an image to a vision-capable model.
type DescribeImageTool struct {
	Vision models.VisionAgent
}

func (t *DescribeImageTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "describe_image",
		Description: "Describe the contents of a local image file using a vision model.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path":   map[string]any{"type": "string", "description": "Path to the image file."},
				"prompt": map[string]any{"type": "string", "description": "Optional question about the image."},
			},
			"required": []string{"path"},
		},
	}
}

func (t *DescribeImageTool) Invoke(ctx context.Context, req borgo.ToolRequest) (borgo.ToolResponse, error) {
	if t.Vision == nil {
		return borgo.ToolResponse{}, fmt.Errorf("no vision-capable model configured")
	}

	path := stringArg(req.Arguments, "path", "input")
	if path == "" {
		return borgo.ToolResponse{}, fmt.Errorf("missing 'path' argument")
	}
	prompt := stringArg(req.Arguments, "prompt")
	if prompt == "" {
		prompt = "Describe this image in detail."
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return borgo.ToolResponse{}, fmt.Errorf("reading %s: %w", path, err)
	}

	answer, err := t.Vision.ChatWithFiles(ctx,
		[]models.Message{{Role: models.RoleUser, Content: prompt}},
		[]models.File{{Name: filepath.Base(path), Data: data}},
	)
	if err != nil {
		return borgo.ToolResponse{}, fmt.Errorf("describing image: %w", err)
	}
	return borgo.ToolResponse{Content: answer}, nil
}
