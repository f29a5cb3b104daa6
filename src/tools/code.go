package tools

import (
	"context"
	"fmt"
	"strings"

	borgo "github.com/borgo-ai/borgo"
	"github.com/borgo-ai/borgo/src/sandbox"
)

// RunCodeTool executes a snippet in the code sandbox.
type RunCodeTool struct {
	Executor *sandbox.Executor
}

func (t *RunCodeTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "run_code",
		Description: "Run a small code snippet in a sandbox with no file, network or process access. Assign to _result to return a value.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"code": map[string]any{"type": "string", "description": "The code to run."},
			},
			"required": []string{"code"},
		},
	}
}

func (t *RunCodeTool) Invoke(_ context.Context, req borgo.ToolRequest) (borgo.ToolResponse, error) {
	code := stringArg(req.Arguments, "code", "input")
	if code == "" {
		return borgo.ToolResponse{}, fmt.Errorf("missing 'code' argument")
	}

	res := t.Executor.ExecuteCode(code)
	if !res.Success {
		return borgo.ToolResponse{}, fmt.Errorf("execution failed: %s", res.Error)
	}

	var b strings.Builder
	if res.Stdout != "" {
		b.WriteString(res.Stdout)
	}
	if res.ReturnValue != nil {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Result: %v", res.ReturnValue)
	}
	if b.Len() == 0 {
		b.WriteString("Code ran successfully with no output.")
	}
	return borgo.ToolResponse{Content: b.String()}, nil
}
