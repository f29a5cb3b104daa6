package tools

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	borgo "github.com/borgo-ai/borgo"
)

// GetSystemInfoTool reports basic facts about the host.
type GetSystemInfoTool struct{}

func (t *GetSystemInfoTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "get_system_info",
		Description: "Get basic information about the host system: OS, architecture, CPUs, hostname, working directory.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

func (t *GetSystemInfoTool) Invoke(_ context.Context, _ borgo.ToolRequest) (borgo.ToolResponse, error) {
	hostname, _ := os.Hostname()
	wd, _ := os.Getwd()

	var b strings.Builder
	fmt.Fprintf(&b, "OS: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "CPUs: %d\n", runtime.NumCPU())
	fmt.Fprintf(&b, "Hostname: %s\n", hostname)
	fmt.Fprintf(&b, "Working directory: %s\n", wd)
	fmt.Fprintf(&b, "Runtime: %s\n", runtime.Version())
	fmt.Fprintf(&b, "Local time: %s", time.Now().Format(time.RFC1123))
	return borgo.ToolResponse{Content: b.String()}, nil
}
