package tools

import (
	"context"
	"fmt"
	"strings"

	borgo "github.com/borgo-ai/borgo"
	"github.com/borgo-ai/borgo/src/sandbox"
)

// RunShellTool executes shell commands. It is the approval checkpoint: the
// safety guard runs first and can never be overridden, then the approver is
// asked to confirm the exact command before anything spawns.
type RunShellTool struct {
	Executor *sandbox.Executor
	Approver borgo.Approver
}

func (t *RunShellTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "run_shell",
		Description: "Run a shell command after user approval. Destructive commands are blocked outright.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"command": map[string]any{"type": "string", "description": "The shell command to run."},
			},
			"required": []string{"command"},
		},
	}
}

func (t *RunShellTool) Invoke(ctx context.Context, req borgo.ToolRequest) (borgo.ToolResponse, error) {
	command := stringArg(req.Arguments, "command", "input")
	if command == "" {
		return borgo.ToolResponse{}, fmt.Errorf("missing 'command' argument")
	}

	if ok, reason := t.Executor.CheckShell(command); !ok {
		return borgo.ToolResponse{}, fmt.Errorf("%s", reason)
	}

	approved := false
	if t.Approver != nil {
		approved = t.Approver.Confirm(fmt.Sprintf("Run shell command?\n  %s", command))
	}

	res := t.Executor.ExecuteShell(ctx, command, approved)
	if res.Cancelled {
		return borgo.ToolResponse{Content: "Command cancelled by user."}, nil
	}
	if res.Error != "" && res.Stdout == "" && res.Stderr == "" {
		return borgo.ToolResponse{}, fmt.Errorf("%s", res.Error)
	}

	var b strings.Builder
	if res.Stdout != "" {
		b.WriteString(res.Stdout)
	}
	if res.Stderr != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("stderr: ")
		b.WriteString(res.Stderr)
	}
	if code, ok := res.ReturnValue.(int); ok && code != 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "exit code: %d", code)
	}
	if b.Len() == 0 {
		b.WriteString("Command ran successfully with no output.")
	}
	return borgo.ToolResponse{Content: truncate(b.String(), 4000)}, nil
}
