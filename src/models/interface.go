package models

import (
	"context"
	"errors"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// File is a lightweight in-memory attachment.
// Name is used for display; MIME should be best-effort (e.g., "text/markdown").
type File struct {
	Name string
	MIME string
	Data []byte
}

// StreamChunk is one increment of a streamed completion. Exactly one chunk
// per stream has Done set; it carries the full accumulated text and, if the
// stream failed, the error.
type StreamChunk struct {
	Delta    string
	FullText string
	Done     bool
	Err      error
}

// Agent is a chat-completion backend.
type Agent interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	ChatStream(ctx context.Context, messages []Message) (<-chan StreamChunk, error)
}

// VisionAgent is implemented by backends that accept attachments.
type VisionAgent interface {
	ChatWithFiles(ctx context.Context, messages []Message, files []File) (string, error)
}

// ErrBackendUnavailable wraps transport-level failures. The reasoning loop
// treats it as fatal; everything else becomes an observation.
var ErrBackendUnavailable = errors.New("model backend unavailable")
