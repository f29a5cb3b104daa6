package borgo

import (
	"context"
	"strings"
	"testing"

	"github.com/borgo-ai/borgo/src/models"
)

type recordingTool struct {
	name   string
	inputs []string
}

func (t *recordingTool) Spec() ToolSpec {
	return ToolSpec{Name: t.name, Description: "records invocations"}
}

func (t *recordingTool) Invoke(_ context.Context, req ToolRequest) (ToolResponse, error) {
	input, _ := req.Arguments["input"].(string)
	if input == "" {
		input, _ = req.Arguments["command"].(string)
	}
	t.inputs = append(t.inputs, input)
	return ToolResponse{Content: "observed " + input}, nil
}

func TestInterceptorRunsDirectivesInOrder(t *testing.T) {
	search := &recordingTool{name: "search_web"}
	shell := &recordingTool{name: "run_shell"}
	catalog := NewStaticToolCatalog([]Tool{search, shell})
	model := models.NewScriptedLLM("final answer after observations")
	in := NewInterceptor(model, catalog)

	response := "Let me check.\n[[SEARCH: go generics]]\nand\n[[BASH: uname -a]]"
	final, calls, err := in.Process(context.Background(), nil, response)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if final != "final answer after observations" {
		t.Errorf("final = %q, want follow-up completion", final)
	}
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(calls))
	}
	if calls[0].Tool != "search_web" || calls[1].Tool != "run_shell" {
		t.Errorf("call order = %s, %s", calls[0].Tool, calls[1].Tool)
	}
	if model.Calls() != 1 {
		t.Errorf("completions = %d, want exactly one follow-up", model.Calls())
	}
}

func TestInterceptorObservationsReachFollowup(t *testing.T) {
	catalog := NewStaticToolCatalog([]Tool{&recordingTool{name: "search_web"}})
	model := models.NewScriptedLLM("done")
	in := NewInterceptor(model, catalog)

	_, _, err := in.Process(context.Background(), nil, "[[SEARCH: rust vs go]]")
	if err != nil {
		t.Fatal(err)
	}

	prompt := model.Prompts[0]
	last := prompt[len(prompt)-1]
	if last.Role != models.RoleSystem {
		t.Fatalf("last follow-up message role = %q, want system", last.Role)
	}
	if !strings.Contains(last.Content, "observed rust vs go") {
		t.Errorf("follow-up content = %q, want tool observation", last.Content)
	}
}

func TestInterceptorNoDirectivesReturnsOriginal(t *testing.T) {
	catalog := NewStaticToolCatalog(nil)
	model := models.NewScriptedLLM("should never be used")
	in := NewInterceptor(model, catalog)

	final, calls, err := in.Process(context.Background(), nil, "plain prose, nothing to run")
	if err != nil {
		t.Fatal(err)
	}
	if final != "plain prose, nothing to run" {
		t.Errorf("final = %q, want original text", final)
	}
	if len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
	if model.Calls() != 0 {
		t.Errorf("completions = %d, want zero", model.Calls())
	}
}

func TestInterceptorBacktickFallback(t *testing.T) {
	shell := &recordingTool{name: "run_shell"}
	catalog := NewStaticToolCatalog([]Tool{shell})
	model := models.NewScriptedLLM("unused")
	in := NewInterceptor(model, catalog)

	final, calls, err := in.Process(context.Background(), nil,
		"You can run `ls -la` to list files, or read the `main.go` source.")
	if err != nil {
		t.Fatal(err)
	}
	if final != "You can run `ls -la` to list files, or read the `main.go` source." {
		t.Errorf("fallback must keep the original text, got %q", final)
	}
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1 (only the known command prefix)", len(calls))
	}
	if shell.inputs[0] != "ls -la" {
		t.Errorf("command = %q", shell.inputs[0])
	}
	if model.Calls() != 0 {
		t.Errorf("backtick fallback must not trigger a follow-up completion, got %d", model.Calls())
	}
}

func TestInterceptorFollowupDirectivesDoNotRecurse(t *testing.T) {
	search := &recordingTool{name: "search_web"}
	catalog := NewStaticToolCatalog([]Tool{search})
	model := models.NewScriptedLLM("[[SEARCH: second query]] still curious")
	in := NewInterceptor(model, catalog)

	_, calls, err := in.Process(context.Background(), nil, "[[SEARCH: first query]]")
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want both depths executed", len(calls))
	}
	if search.inputs[0] != "first query" || search.inputs[1] != "second query" {
		t.Errorf("inputs = %v", search.inputs)
	}
	if model.Calls() != 1 {
		t.Errorf("completions = %d, follow-up directives must not trigger a third pass", model.Calls())
	}
}

func TestInterceptorJSONDirectiveArgs(t *testing.T) {
	catalog := NewStaticToolCatalog([]Tool{&recordingTool{name: "run_shell"}})
	model := models.NewScriptedLLM("done")
	in := NewInterceptor(model, catalog)

	_, calls, err := in.Process(context.Background(), nil,
		`[[run_shell: {"command": "echo structured"}]]`)
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 {
		t.Fatalf("calls = %d", len(calls))
	}
	if calls[0].Args["command"] != "echo structured" {
		t.Errorf("args = %v, want parsed JSON object", calls[0].Args)
	}
}

func TestInterceptorUnknownDirectiveBecomesFailedCall(t *testing.T) {
	catalog := NewStaticToolCatalog(nil)
	model := models.NewScriptedLLM("recovered")
	in := NewInterceptor(model, catalog)

	final, calls, err := in.Process(context.Background(), nil, "[[teleport: to the moon]]")
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 || calls[0].Success {
		t.Fatalf("calls = %+v, want one failed call", calls)
	}
	if calls[0].Error != "Unknown tool: teleport" {
		t.Errorf("error = %q", calls[0].Error)
	}
	if final != "recovered" {
		t.Errorf("final = %q, failures still feed the follow-up", final)
	}
}
