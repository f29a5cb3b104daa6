package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	borgo "github.com/borgo-ai/borgo"
	"github.com/borgo-ai/borgo/src/cache"
)

// WebClient fetches pages over HTTP. It exposes only GET: the type has no
// way to express a write verb, so nothing built on it can send one. Fetched
// pages are cached briefly to spare repeat lookups within a run.
type WebClient struct {
	httpClient *http.Client
	cache      *cache.Cache[string]
	maxBody    int64
}

const (
	webFetchTimeout = 15 * time.Second
	webCacheTTL     = 10 * time.Minute
	webMaxBody      = 512 * 1024
)

func NewWebClient() *WebClient {
	return &WebClient{
		httpClient: &http.Client{Timeout: webFetchTimeout},
		cache:      cache.New[string](128, webCacheTTL),
		maxBody:    webMaxBody,
	}
}

// Get fetches a URL and returns its body as plain text, with HTML markup
// stripped.
func (c *WebClient) Get(ctx context.Context, rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", fmt.Errorf("only http and https URLs are supported, got %q", rawURL)
	}

	key := cache.Key(rawURL)
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "borgo/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetching %s: %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", rawURL, err)
	}

	text := string(body)
	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		text = stripHTML(text)
	}

	c.cache.Set(key, text)
	return text, nil
}

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagPattern         = regexp.MustCompile(`(?s)<[^>]+>`)
	blankLinePattern   = regexp.MustCompile(`\n{3,}`)
)

func stripHTML(html string) string {
	text := scriptBlockPattern.ReplaceAllString(html, "")
	text = tagPattern.ReplaceAllString(text, "\n")
	text = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'", "&nbsp;", " ").Replace(text)
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return blankLinePattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
}

// ReadURLTool fetches a page and returns its text content.
type ReadURLTool struct {
	Client *WebClient
}

func (t *ReadURLTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "read_url",
		Description: "Fetch a web page with an HTTP GET request and return its text content.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{"type": "string", "description": "The http(s) URL to fetch."},
			},
			"required": []string{"url"},
		},
	}
}

func (t *ReadURLTool) Invoke(ctx context.Context, req borgo.ToolRequest) (borgo.ToolResponse, error) {
	rawURL := stringArg(req.Arguments, "url", "input")
	if rawURL == "" {
		return borgo.ToolResponse{}, fmt.Errorf("missing 'url' argument")
	}
	text, err := t.Client.Get(ctx, strings.TrimSpace(rawURL))
	if err != nil {
		return borgo.ToolResponse{}, err
	}
	return borgo.ToolResponse{Content: truncate(text, 4000)}, nil
}
