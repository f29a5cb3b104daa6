package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	borgo "github.com/borgo-ai/borgo"
	"github.com/borgo-ai/borgo/src/memory/embed"
	"github.com/borgo-ai/borgo/src/memory/session"
	"github.com/borgo-ai/borgo/src/memory/store"
	"github.com/borgo-ai/borgo/src/models"
	"github.com/borgo-ai/borgo/src/rag"
	"github.com/borgo-ai/borgo/src/sandbox"
)

func TestCalculateTool(t *testing.T) {
	tool := &CalculateTool{}
	resp, err := tool.Invoke(context.Background(), borgo.ToolRequest{
		Arguments: map[string]any{"expression": "(2 + 3) * 4"},
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if resp.Content != "20" {
		t.Errorf("result = %q, want 20", resp.Content)
	}
}

func TestCalculateToolRejectsIdentifiers(t *testing.T) {
	tool := &CalculateTool{}
	for _, expr := range []string{"len('x')", "1 + x", "math.pi", "__import__"} {
		if _, err := tool.Invoke(context.Background(), borgo.ToolRequest{
			Arguments: map[string]any{"expression": expr},
		}); err == nil {
			t.Errorf("expected rejection for %q", expr)
		}
	}
}

func TestGetTimeTool(t *testing.T) {
	fixed := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	tool := &GetTimeTool{Now: func() time.Time { return fixed }}
	resp, err := tool.Invoke(context.Background(), borgo.ToolRequest{})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !strings.Contains(resp.Content, "March 14, 2026") {
		t.Errorf("content %q should contain the date", resp.Content)
	}
}

func TestRunCodeTool(t *testing.T) {
	tool := &RunCodeTool{Executor: sandbox.NewExecutor()}
	resp, err := tool.Invoke(context.Background(), borgo.ToolRequest{
		Arguments: map[string]any{"code": "_result = 2 + 2\nprint(\"ok\")"},
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !strings.Contains(resp.Content, "ok") || !strings.Contains(resp.Content, "Result: 4") {
		t.Errorf("content = %q, want stdout and result", resp.Content)
	}
}

func TestRunShellToolDeniedByApprover(t *testing.T) {
	tool := &RunShellTool{Executor: sandbox.NewExecutor(), Approver: borgo.DenyApprover{}}
	resp, err := tool.Invoke(context.Background(), borgo.ToolRequest{
		Arguments: map[string]any{"command": "echo hi"},
	})
	if err != nil {
		t.Fatalf("a declined command is a cancellation, not an error: %v", err)
	}
	if !strings.Contains(resp.Content, "cancelled") {
		t.Errorf("content = %q, want cancellation notice", resp.Content)
	}
}

func TestRunShellToolBlockedCommand(t *testing.T) {
	tool := &RunShellTool{Executor: sandbox.NewExecutor(), Approver: borgo.AutoApprover{}}
	_, err := tool.Invoke(context.Background(), borgo.ToolRequest{
		Arguments: map[string]any{"command": "rm -rf /"},
	})
	if err == nil {
		t.Fatal("blocked command must fail")
	}
	if !strings.Contains(err.Error(), "Blocked") {
		t.Errorf("error %q should carry the block reason", err)
	}
}

func TestRunShellToolApproved(t *testing.T) {
	tool := &RunShellTool{Executor: sandbox.NewExecutor(), Approver: borgo.AutoApprover{}}
	resp, err := tool.Invoke(context.Background(), borgo.ToolRequest{
		Arguments: map[string]any{"command": "echo approved"},
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !strings.Contains(resp.Content, "approved") {
		t.Errorf("content = %q, want command output", resp.Content)
	}
}

func TestMemoryTools(t *testing.T) {
	memory := session.NewSessionMemory(
		session.NewMemoryBankWithStore(store.NewInMemoryStore()), 8,
	).WithEmbedder(embed.DummyEmbedder{})

	remember := &RememberTool{Memory: memory, SessionID: "test"}
	recall := &RecallTool{Memory: memory}
	ctx := context.Background()

	if _, err := remember.Invoke(ctx, borgo.ToolRequest{
		Arguments: map[string]any{"content": "the user prefers metric units"},
	}); err != nil {
		t.Fatalf("remember: %v", err)
	}

	resp, err := recall.Invoke(ctx, borgo.ToolRequest{
		Arguments: map[string]any{"query": "units preference"},
	})
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if !strings.Contains(resp.Content, "metric units") {
		t.Errorf("recall content = %q, want stored fact", resp.Content)
	}
}

func TestKnowledgeTools(t *testing.T) {
	kb := rag.NewKnowledgeBase(store.NewInMemoryStore(), embed.DummyEmbedder{})
	add := &AddKnowledgeTool{KB: kb}
	query := &QueryKnowledgeTool{KB: kb}
	ctx := context.Background()

	if _, err := add.Invoke(ctx, borgo.ToolRequest{
		Arguments: map[string]any{"content": "Widgets ship in crates of twelve.", "source": "manual.txt"},
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	resp, err := query.Invoke(ctx, borgo.ToolRequest{
		Arguments: map[string]any{"query": "how do widgets ship"},
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(resp.Content, "crates of twelve") {
		t.Errorf("query content = %q, want stored passage", resp.Content)
	}
	if !strings.Contains(resp.Content, "manual.txt") {
		t.Errorf("query content = %q, want source label", resp.Content)
	}
}

func TestReadURLTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head><script>junk()</script></head><body><p>page body text</p></body></html>"))
	}))
	defer srv.Close()

	tool := &ReadURLTool{Client: NewWebClient()}
	resp, err := tool.Invoke(context.Background(), borgo.ToolRequest{
		Arguments: map[string]any{"url": srv.URL},
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !strings.Contains(resp.Content, "page body text") {
		t.Errorf("content = %q, want page text", resp.Content)
	}
	if strings.Contains(resp.Content, "junk()") {
		t.Errorf("content = %q, script should be stripped", resp.Content)
	}
}

func TestLoadFileTool(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("file contents here"), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := &LoadFileTool{}
	resp, err := tool.Invoke(context.Background(), borgo.ToolRequest{
		Arguments: map[string]any{"path": path},
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if resp.Content != "file contents here" {
		t.Errorf("content = %q", resp.Content)
	}

	if _, err := tool.Invoke(context.Background(), borgo.ToolRequest{
		Arguments: map[string]any{"path": filepath.Join(dir, "missing.txt")},
	}); err == nil {
		t.Error("missing file should fail")
	}
}

func TestSummarizeTool(t *testing.T) {
	tool := &SummarizeTool{Model: models.NewScriptedLLM("a short summary")}
	resp, err := tool.Invoke(context.Background(), borgo.ToolRequest{
		Arguments: map[string]any{"text": "long text to condense"},
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if resp.Content != "a short summary" {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestAllRegistersFullToolSet(t *testing.T) {
	catalog := borgo.NewStaticToolCatalog(All(Config{}))
	specs := catalog.Specs()
	if len(specs) != 14 {
		t.Fatalf("tool count = %d, want 14", len(specs))
	}
	for _, name := range []string{
		"search_web", "read_url", "remember", "recall", "calculate",
		"get_time", "add_knowledge", "query_knowledge", "run_code",
		"run_shell", "get_system_info", "describe_image", "summarize", "load_file",
	} {
		if _, _, ok := catalog.Lookup(name); !ok {
			t.Errorf("tool %s not registered", name)
		}
	}
}
