package borgo

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/borgo-ai/borgo/src/models"
)

// Interceptor scans finished chat completions for inline tool directives of
// the form [[TOOL: argument text]], executes them and feeds the observations
// back for exactly one follow-up completion. Recursion is capped: directives
// in the follow-up run once but never trigger a further completion.
type Interceptor struct {
	Model   models.Agent
	Catalog ToolCatalog
}

var (
	directivePattern = regexp.MustCompile(`(?s)\[\[\s*([A-Za-z_][\w-]*)\s*:\s*(.*?)\]\]`)
	backtickPattern  = regexp.MustCompile("`([^`\n]+)`")
)

// directiveAliases maps marker shorthand to registered tool names.
var directiveAliases = map[string]string{
	"search": "search_web",
	"web":    "search_web",
	"url":    "read_url",
	"fetch":  "read_url",
	"bash":   "run_shell",
	"shell":  "run_shell",
	"sh":     "run_shell",
	"python": "run_code",
	"code":   "run_code",
	"calc":   "calculate",
	"time":   "get_time",
}

// shellPrefixes are command words the backtick fallback treats as likely
// shell directives. Best effort only; the safety guard and approval prompt
// still gate execution.
var shellPrefixes = []string{
	"ls", "cat", "echo", "pwd", "grep", "find", "head", "tail",
	"df", "du", "ps", "uname", "whoami", "date", "uptime", "free",
	"curl", "wget", "git", "which", "wc",
}

func NewInterceptor(model models.Agent, catalog ToolCatalog) *Interceptor {
	return &Interceptor{Model: model, Catalog: catalog}
}

// Process inspects response for directives. It returns the final text to
// show (the follow-up completion when directives ran, otherwise the
// original response) and every tool call made. The only error is a backend
// failure on the follow-up completion.
func (in *Interceptor) Process(ctx context.Context, messages []models.Message, response string) (string, []ToolCall, error) {
	calls := in.runDirectives(ctx, response)

	if len(calls) == 0 {
		fallback := in.runBacktickFallback(ctx, response)
		return response, fallback, nil
	}

	var report strings.Builder
	report.WriteString("Tool observations from your previous response:\n")
	for _, call := range calls {
		report.WriteString(fmt.Sprintf("- %s: %s\n", call.Tool, observationText(call)))
	}
	report.WriteString("Use these observations to give the user a complete answer.")

	followupMessages := make([]models.Message, 0, len(messages)+2)
	followupMessages = append(followupMessages, messages...)
	followupMessages = append(followupMessages,
		models.Message{Role: models.RoleAssistant, Content: response},
		models.Message{Role: models.RoleSystem, Content: report.String()},
	)

	followup, err := in.Model.Chat(ctx, followupMessages)
	if err != nil {
		return response, calls, fmt.Errorf("follow-up completion failed: %w", err)
	}

	// Depth 2: directives in the follow-up execute, but their observations
	// are not fed into another completion.
	calls = append(calls, in.runDirectives(ctx, followup)...)

	return followup, calls, nil
}

// runDirectives executes every [[TOOL: args]] marker in order of appearance.
func (in *Interceptor) runDirectives(ctx context.Context, text string) []ToolCall {
	matches := directivePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	calls := make([]ToolCall, 0, len(matches))
	for _, m := range matches {
		name := resolveDirectiveName(m[1])
		args := parseDirectiveArgs(strings.TrimSpace(m[2]))
		calls = append(calls, in.Catalog.Execute(ctx, name, args))
	}
	return calls
}

// runBacktickFallback scans backtick spans for known shell prefixes and
// routes them through run_shell, whose approver confirms each command.
func (in *Interceptor) runBacktickFallback(ctx context.Context, text string) []ToolCall {
	var calls []ToolCall
	for _, m := range backtickPattern.FindAllStringSubmatch(text, -1) {
		command := strings.TrimSpace(m[1])
		if !looksLikeShellCommand(command) {
			continue
		}
		calls = append(calls, in.Catalog.Execute(ctx, "run_shell", map[string]any{"command": command}))
	}
	return calls
}

func resolveDirectiveName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := directiveAliases[name]; ok {
		return mapped
	}
	return name
}

// parseDirectiveArgs accepts either a JSON object or free text, which is
// passed to the tool as its primary "input" argument.
func parseDirectiveArgs(raw string) map[string]any {
	if strings.HasPrefix(raw, "{") {
		var args map[string]any
		if err := json.Unmarshal([]byte(raw), &args); err == nil {
			return args
		}
	}
	return map[string]any{"input": raw}
}

func looksLikeShellCommand(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(fields[0])
	for _, prefix := range shellPrefixes {
		if first == prefix {
			return true
		}
	}
	return false
}
