package tools

import (
	"bytes"
	"context"
	"fmt"
	"os"

	borgo "github.com/borgo-ai/borgo"
)

// LoadFileTool reads a local file and returns its text content.
type LoadFileTool struct {
	MaxBytes int64
}

const defaultMaxFileBytes = 256 * 1024

func (t *LoadFileTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "load_file",
		Description: "Read a local text file and return its contents.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{"type": "string", "description": "Path to the file."},
			},
			"required": []string{"path"},
		},
	}
}

func (t *LoadFileTool) Invoke(_ context.Context, req borgo.ToolRequest) (borgo.ToolResponse, error) {
	path := stringArg(req.Arguments, "path", "input")
	if path == "" {
		return borgo.ToolResponse{}, fmt.Errorf("missing 'path' argument")
	}

	maxBytes := t.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxFileBytes
	}

	info, err := os.Stat(path)
	if err != nil {
		return borgo.ToolResponse{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return borgo.ToolResponse{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxBytes {
		return borgo.ToolResponse{}, fmt.Errorf("%s is too large (%d bytes, limit %d)", path, info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return borgo.ToolResponse{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return borgo.ToolResponse{Content: fmt.Sprintf("%s appears to be a binary file (%d bytes).", path, len(data))}, nil
	}
	return borgo.ToolResponse{Content: string(data)}, nil
}
