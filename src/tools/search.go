package tools

import (
	"context"
	"fmt"
	"strings"

	borgo "github.com/borgo-ai/borgo"
	"github.com/borgo-ai/borgo/src/models"
)

// SearchResult is one hit from a web search provider.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// Searcher is a pluggable web search provider.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// OllamaSearcher backs the search tool with the Ollama Web Search API.
type OllamaSearcher struct {
	LLM *models.OllamaLLM
}

func (s *OllamaSearcher) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	raw, err := s.LLM.WebSearch(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(raw))
	for _, item := range raw {
		snippet := item["content"]
		if snippet == "" {
			snippet = item["snippet"]
		}
		results = append(results, SearchResult{
			Title:   item["title"],
			URL:     item["url"],
			Snippet: snippet,
		})
	}
	return results, nil
}

// SearchTool queries the web through the configured Searcher.
type SearchTool struct {
	Searcher Searcher
	Limit    int
}

func (t *SearchTool) Spec() borgo.ToolSpec {
	return borgo.ToolSpec{
		Name:        "search_web",
		Description: "Search the web and return the top results with titles, URLs and snippets.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "The search query."},
				"limit": map[string]any{"type": "integer", "description": "Maximum number of results."},
			},
			"required": []string{"query"},
		},
	}
}

func (t *SearchTool) Invoke(ctx context.Context, req borgo.ToolRequest) (borgo.ToolResponse, error) {
	if t.Searcher == nil {
		return borgo.ToolResponse{}, fmt.Errorf("no search provider configured")
	}
	query := stringArg(req.Arguments, "query", "input")
	if query == "" {
		return borgo.ToolResponse{}, fmt.Errorf("missing 'query' argument")
	}
	limit := intArg(req.Arguments, "limit", t.Limit)
	if limit <= 0 {
		limit = 5
	}

	results, err := t.Searcher.Search(ctx, query, limit)
	if err != nil {
		return borgo.ToolResponse{}, fmt.Errorf("web search failed: %w", err)
	}
	if len(results) == 0 {
		return borgo.ToolResponse{Content: "No results found."}, nil
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(r.Snippet, 300))
		}
	}
	return borgo.ToolResponse{Content: b.String()}, nil
}
