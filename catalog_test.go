package borgo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type echoTool struct {
	name string
	err  error
}

func (t *echoTool) Spec() ToolSpec {
	return ToolSpec{Name: t.name, Description: "echoes its input"}
}

func (t *echoTool) Invoke(_ context.Context, req ToolRequest) (ToolResponse, error) {
	if t.err != nil {
		return ToolResponse{}, t.err
	}
	return ToolResponse{Content: fmt.Sprintf("echo: %v", req.Arguments["input"])}, nil
}

type panicTool struct{}

func (panicTool) Spec() ToolSpec { return ToolSpec{Name: "panics"} }
func (panicTool) Invoke(context.Context, ToolRequest) (ToolResponse, error) {
	panic("boom")
}

func TestCatalogExecuteSuccess(t *testing.T) {
	catalog := NewStaticToolCatalog([]Tool{&echoTool{name: "echo"}})
	call := catalog.Execute(context.Background(), "Echo", map[string]any{"input": "hi"})
	if !call.Success {
		t.Fatalf("call failed: %s", call.Error)
	}
	if call.Result != "echo: hi" {
		t.Errorf("result = %q", call.Result)
	}
	if call.Error != "" {
		t.Errorf("error must be empty on success, got %q", call.Error)
	}
}

func TestCatalogExecuteUnknownTool(t *testing.T) {
	catalog := NewStaticToolCatalog(nil)
	call := catalog.Execute(context.Background(), "nonexistent", nil)
	if call.Success {
		t.Fatal("unknown tool must not succeed")
	}
	if call.Error != "Unknown tool: nonexistent" {
		t.Errorf("error = %q", call.Error)
	}
}

func TestCatalogExecuteToolError(t *testing.T) {
	catalog := NewStaticToolCatalog([]Tool{&echoTool{name: "fails", err: errors.New("backend offline")}})
	call := catalog.Execute(context.Background(), "fails", nil)
	if call.Success {
		t.Fatal("failing tool must not succeed")
	}
	if call.Error != "backend offline" {
		t.Errorf("error = %q", call.Error)
	}
	if call.Result != "" {
		t.Errorf("result must be empty on failure, got %q", call.Result)
	}
}

func TestCatalogExecuteRecoversPanics(t *testing.T) {
	catalog := NewStaticToolCatalog([]Tool{panicTool{}})
	call := catalog.Execute(context.Background(), "panics", nil)
	if call.Success {
		t.Fatal("panicking tool must not succeed")
	}
	if !strings.Contains(call.Error, "boom") {
		t.Errorf("error = %q, want panic message", call.Error)
	}
}

func TestCatalogRegisterDuplicate(t *testing.T) {
	catalog := NewStaticToolCatalog(nil)
	if err := catalog.Register(&echoTool{name: "echo"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := catalog.Register(&echoTool{name: "ECHO"}); err == nil {
		t.Error("case-insensitive duplicate should be rejected")
	}
}

func TestCatalogSpecsOrder(t *testing.T) {
	catalog := NewStaticToolCatalog([]Tool{
		&echoTool{name: "b"}, &echoTool{name: "a"}, &echoTool{name: "c"},
	})
	specs := catalog.Specs()
	got := make([]string, len(specs))
	for i, s := range specs {
		got[i] = s.Name
	}
	if strings.Join(got, ",") != "b,a,c" {
		t.Errorf("order = %v, want registration order", got)
	}
}
