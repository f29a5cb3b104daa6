package models

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// NewProvider returns a concrete Agent for the named backend.
func NewProvider(ctx context.Context, provider, model string) (Agent, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "openai":
		return NewOpenAILLM(model), nil
	case "gemini", "google":
		return NewGeminiLLM(ctx, model)
	case "ollama":
		return NewOllamaLLM(model)
	case "anthropic", "claude":
		return NewAnthropicLLM(model), nil
	case "dummy", "":
		return NewDummyLLM(""), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// simulateStream adapts a blocking completion to the streaming contract by
// emitting the finished text in word-sized chunks.
func simulateStream(complete func() (string, error)) <-chan StreamChunk {
	ch := make(chan StreamChunk, 16)
	go func() {
		defer close(ch)
		text, err := complete()
		if err != nil {
			ch <- StreamChunk{Done: true, Err: err}
			return
		}
		words := strings.Fields(text)
		var sb strings.Builder
		for i, word := range words {
			if i > 0 {
				word = " " + word
			}
			sb.WriteString(word)
			ch <- StreamChunk{Delta: word}
		}
		ch <- StreamChunk{Done: true, FullText: sb.String()}
	}()
	return ch
}

var mimeExtMap = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".txt":  "text/plain",
	".log":  "text/plain",
	".md":   "text/markdown",
	".json": "application/json",
	".yaml": "application/x-yaml",
	".yml":  "application/x-yaml",
	".xml":  "application/xml",
	".csv":  "text/csv",
	".go":   "text/plain",
	".py":   "text/plain",
	".sh":   "text/plain",
}

var mimeAliasMap = map[string]string{
	"image/jpg":   "image/jpeg",
	"image/pjpeg": "image/jpeg",
	"image/x-png": "image/png",
	"video/mov":   "video/quicktime",
}

// normalizeMIME fixes messy or aliased MIME values and falls back to the
// file extension.
func normalizeMIME(name, m string) string {
	strip := func(s string) string {
		if i := strings.IndexByte(s, ';'); i >= 0 {
			return strings.TrimSpace(s[:i])
		}
		return strings.TrimSpace(s)
	}

	fromExt := func() string {
		ext := strings.ToLower(filepath.Ext(name))
		if ext == "" {
			return ""
		}
		if mt, ok := mimeExtMap[ext]; ok {
			return mt
		}
		if mt := mime.TypeByExtension(ext); mt != "" {
			return strip(mt)
		}
		return ""
	}

	raw := strip(strings.ToLower(strings.TrimSpace(m)))
	if raw == "" {
		return fromExt()
	}
	if normalized, ok := mimeAliasMap[raw]; ok {
		return normalized
	}
	if !strings.Contains(raw, "/") || strings.HasSuffix(raw, "/") {
		if via := fromExt(); via != "" {
			return via
		}
	}
	return raw
}

func isTextMIME(m string) bool {
	m = strings.ToLower(strings.TrimSpace(m))
	if strings.HasPrefix(m, "text/") {
		return true
	}
	switch m {
	case "application/json",
		"application/xml",
		"application/x-yaml",
		"application/yaml":
		return true
	default:
		return false
	}
}

func isImageOrVideoMIME(m string) bool {
	m = strings.ToLower(strings.TrimSpace(m))
	return strings.HasPrefix(m, "image/") || strings.HasPrefix(m, "video/")
}

// combinePromptWithFiles inlines text attachments after the prompt; non-text
// attachments are referenced by name only.
func combinePromptWithFiles(base string, files []File) string {
	if len(files) == 0 {
		return base
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n---\nATTACHMENTS (inline for text files) BEGIN\n")

	for i, f := range files {
		title := strings.TrimSpace(f.Name)
		if title == "" {
			title = fmt.Sprintf("file_%d", i+1)
		}
		mt := normalizeMIME(f.Name, f.MIME)

		if isTextMIME(mt) && len(f.Data) > 0 {
			b.WriteString("\n<<<FILE ")
			b.WriteString(title)
			if mt != "" {
				b.WriteString(" [")
				b.WriteString(mt)
				b.WriteString("]")
			}
			b.WriteString(">>>:\n")
			b.Write(f.Data)
			b.WriteString("\n<<<END FILE ")
			b.WriteString(title)
			b.WriteString(">>>\n")
		} else {
			b.WriteString("\n[Non-text attachment] ")
			b.WriteString(title)
			if mt != "" {
				b.WriteString(" (")
				b.WriteString(mt)
				b.WriteString(")")
			}
		}
	}

	b.WriteString("\nATTACHMENTS END\n---\n")
	return b.String()
}
