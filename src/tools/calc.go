package tools

import (
	"context"
	"fmt"
	"regexp"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	borgo "github.com/borgo-ai/borgo"
)

// CalculateTool evaluates arithmetic expressions. The charset check rejects
// anything containing identifiers before the expression reaches the
// interpreter, so only numbers and operators ever evaluate.
type CalculateTool struct{}

var arithmeticPattern = regexp.MustCompile(`^[0-9+\-*/%(). \t]+$`)

func (t *CalculateTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "calculate",
		Description: "Evaluate an arithmetic expression using numbers and + - * / % ( ) only.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"expression": map[string]any{"type": "string", "description": "The arithmetic expression."},
			},
			"required": []string{"expression"},
		},
	}
}

func (t *CalculateTool) Invoke(_ context.Context, req borgo.ToolRequest) (borgo.ToolResponse, error) {
	expr := stringArg(req.Arguments, "expression", "input")
	if expr == "" {
		return borgo.ToolResponse{}, fmt.Errorf("missing 'expression' argument")
	}
	if !arithmeticPattern.MatchString(expr) {
		return borgo.ToolResponse{}, fmt.Errorf("expression may only contain numbers and + - * / %% ( )")
	}

	thread := &starlark.Thread{Name: "calculate"}
	value, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, "expr", expr, nil)
	if err != nil {
		return borgo.ToolResponse{}, fmt.Errorf("evaluating expression: %v", err)
	}
	return borgo.ToolResponse{Content: value.String()}, nil
}
