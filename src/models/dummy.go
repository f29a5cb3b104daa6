package models

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DummyLLM is a lightweight model implementation useful for local testing without API calls.
type DummyLLM struct {
	Prefix string
}

func NewDummyLLM(prefix string) *DummyLLM {
	if strings.TrimSpace(prefix) == "" {
		prefix = "Dummy response:"
	}
	return &DummyLLM{Prefix: prefix}
}

func (d *DummyLLM) Chat(_ context.Context, messages []Message) (string, error) {
	var last string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			last = firstLine(messages[i].Content)
			break
		}
	}
	if last == "" {
		last = "<empty prompt>"
	}
	return fmt.Sprintf("%s %s", d.Prefix, last), nil
}

func (d *DummyLLM) ChatStream(ctx context.Context, messages []Message) (<-chan StreamChunk, error) {
	return simulateStream(func() (string, error) {
		return d.Chat(ctx, messages)
	}), nil
}

func (d *DummyLLM) ChatWithFiles(ctx context.Context, messages []Message, files []File) (string, error) {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	text, err := d.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s [files: %s]", text, strings.Join(names, ", ")), nil
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ScriptedLLM replays a fixed sequence of responses. Once the script runs
// out it keeps returning the final entry.
type ScriptedLLM struct {
	mu        sync.Mutex
	Responses []string
	next      int

	// Prompts records every message slice received, for assertions.
	Prompts [][]Message
}

func NewScriptedLLM(responses ...string) *ScriptedLLM {
	return &ScriptedLLM{Responses: responses}
}

func (s *ScriptedLLM) Chat(_ context.Context, messages []Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]Message, len(messages))
	copy(copied, messages)
	s.Prompts = append(s.Prompts, copied)

	if len(s.Responses) == 0 {
		return "", nil
	}
	idx := s.next
	if idx >= len(s.Responses) {
		idx = len(s.Responses) - 1
	} else {
		s.next++
	}
	return s.Responses[idx], nil
}

func (s *ScriptedLLM) ChatStream(ctx context.Context, messages []Message) (<-chan StreamChunk, error) {
	return simulateStream(func() (string, error) {
		return s.Chat(ctx, messages)
	}), nil
}

// Calls reports how many completions have been served.
func (s *ScriptedLLM) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Prompts)
}

var (
	_ Agent       = (*DummyLLM)(nil)
	_ VisionAgent = (*DummyLLM)(nil)
	_ Agent       = (*ScriptedLLM)(nil)
)
