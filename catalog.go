package borgo

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// StaticToolCatalog is the default in-memory ToolCatalog implementation.
type StaticToolCatalog struct {
	mu    sync.RWMutex
	tools map[string]Tool
	specs map[string]ToolSpec
	order []string
}

// NewStaticToolCatalog constructs a catalog seeded with the provided tools.
// Invalid entries are skipped silently.
func NewStaticToolCatalog(tools []Tool) *StaticToolCatalog {
	catalog := &StaticToolCatalog{
		tools: make(map[string]Tool),
		specs: make(map[string]ToolSpec),
	}
	for _, tool := range tools {
		_ = catalog.Register(tool)
	}
	return catalog
}

// Register adds a tool to the catalog using a lower-cased key. Duplicate names return an error.
func (c *StaticToolCatalog) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	spec := tool.Spec()
	key := strings.ToLower(strings.TrimSpace(spec.Name))
	if key == "" {
		return fmt.Errorf("tool name is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.tools[key]; exists {
		return fmt.Errorf("tool %s already registered", spec.Name)
	}
	c.tools[key] = tool
	c.specs[key] = spec
	c.order = append(c.order, key)
	return nil
}

// Lookup returns the tool and its specification if present.
func (c *StaticToolCatalog) Lookup(name string) (Tool, ToolSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	tool, ok := c.tools[key]
	if !ok {
		return nil, ToolSpec{}, false
	}
	return tool, c.specs[key], true
}

// Specs returns a snapshot of the tool specifications in registration order.
func (c *StaticToolCatalog) Specs() []ToolSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()

	specs := make([]ToolSpec, 0, len(c.order))
	for _, key := range c.order {
		specs = append(specs, c.specs[key])
	}
	return specs
}

// Tools returns the registered tools in order.
func (c *StaticToolCatalog) Tools() []Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tools := make([]Tool, 0, len(c.order))
	for _, key := range c.order {
		tools = append(tools, c.tools[key])
	}
	return tools
}

// Execute invokes a tool by name and converts every failure mode into a
// failed ToolCall. Unknown tools, errors and panics all come back as
// observations; Execute never returns an error and never crashes the run.
func (c *StaticToolCatalog) Execute(ctx context.Context, name string, args map[string]any) (call ToolCall) {
	if args == nil {
		args = map[string]any{}
	}
	call = ToolCall{Tool: name, Args: args}

	tool, _, ok := c.Lookup(name)
	if !ok {
		call.Error = fmt.Sprintf("Unknown tool: %s", name)
		return call
	}

	defer func() {
		if r := recover(); r != nil {
			call.Success = false
			call.Result = ""
			call.Error = fmt.Sprintf("tool %s panicked: %v", name, r)
		}
	}()

	sessionID, _ := args["session_id"].(string)
	resp, err := tool.Invoke(ctx, ToolRequest{SessionID: sessionID, Arguments: args})
	if err != nil {
		call.Error = err.Error()
		return call
	}
	call.Success = true
	call.Result = resp.Content
	return call
}

var _ ToolCatalog = (*StaticToolCatalog)(nil)
