package models

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// ---------------------------- Ollama -----------------------------------------

type OllamaLLM struct {
	Client     *ollama.Client
	Model      string
	httpClient *http.Client
	host       string
}

func NewOllamaLLM(model string) (*OllamaLLM, error) {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = "http://localhost:11434"
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", host, err)
	}

	httpClient := &http.Client{
		Timeout: 120 * time.Second,
	}

	if model == "" {
		model = "llama3.2"
	}
	return &OllamaLLM{
		Client:     ollama.NewClient(u, httpClient),
		Model:      model,
		httpClient: httpClient,
		host:       host,
	}, nil
}

func chatMessages(messages []Message) []ollama.Message {
	out := make([]ollama.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, ollama.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func (o *OllamaLLM) Chat(ctx context.Context, messages []Message) (string, error) {
	var text strings.Builder
	stream := false
	req := &ollama.ChatRequest{
		Model:    o.Model,
		Messages: chatMessages(messages),
		Stream:   &stream,
	}
	if err := o.Client.Chat(ctx, req, func(cr ollama.ChatResponse) error {
		text.WriteString(cr.Message.Content)
		return nil
	}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return text.String(), nil
}

// ChatStream uses Ollama's native callback-based streaming.
func (o *OllamaLLM) ChatStream(ctx context.Context, messages []Message) (<-chan StreamChunk, error) {
	req := &ollama.ChatRequest{
		Model:    o.Model,
		Messages: chatMessages(messages),
	}

	ch := make(chan StreamChunk, 16)
	go func() {
		defer close(ch)
		var sb strings.Builder
		err := o.Client.Chat(ctx, req, func(cr ollama.ChatResponse) error {
			if cr.Message.Content != "" {
				sb.WriteString(cr.Message.Content)
				ch <- StreamChunk{Delta: cr.Message.Content}
			}
			return nil
		})
		if err != nil {
			ch <- StreamChunk{Done: true, FullText: sb.String(), Err: fmt.Errorf("%w: %v", ErrBackendUnavailable, err)}
			return
		}
		ch <- StreamChunk{Done: true, FullText: sb.String()}
	}()

	return ch, nil
}

// ChatWithFiles inlines text attachments into the last user turn and sends
// images through Ollama's native image field.
func (o *OllamaLLM) ChatWithFiles(ctx context.Context, messages []Message, files []File) (string, error) {
	var textFiles []File
	var imageData []ollama.ImageData

	for _, f := range files {
		mt := normalizeMIME(f.Name, f.MIME)
		if isImageOrVideoMIME(mt) {
			encoded := base64.StdEncoding.EncodeToString(f.Data)
			imageData = append(imageData, ollama.ImageData(encoded))
		} else if isTextMIME(mt) {
			textFiles = append(textFiles, f)
		}
	}

	msgs := chatMessages(messages)
	if len(msgs) > 0 {
		last := &msgs[len(msgs)-1]
		if len(textFiles) > 0 {
			last.Content = combinePromptWithFiles(last.Content, textFiles)
		}
		last.Images = imageData
	}

	var text strings.Builder
	stream := false
	req := &ollama.ChatRequest{Model: o.Model, Messages: msgs, Stream: &stream}
	if err := o.Client.Chat(ctx, req, func(cr ollama.ChatResponse) error {
		text.WriteString(cr.Message.Content)
		return nil
	}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return text.String(), nil
}

// WebSearch queries the Ollama Web Search API and returns top results.
func (o *OllamaLLM) WebSearch(ctx context.Context, query string, limit int) ([]map[string]string, error) {
	endpoint := fmt.Sprintf("%s/api/web_search", strings.TrimRight(o.host, "/"))

	reqBody := map[string]any{"query": query}
	if limit > 0 {
		reqBody["limit"] = limit
	}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(reqBody); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, buf)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key := os.Getenv("OLLAMA_API_KEY"); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("web search failed: %s", resp.Status)
	}

	var data struct {
		Results []map[string]string `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return data.Results, nil
}

var _ Agent = (*OllamaLLM)(nil)
var _ VisionAgent = (*OllamaLLM)(nil)
