package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/borgo-ai/borgo/src/concurrent"
	"github.com/borgo-ai/borgo/src/memory/embed"
	"github.com/borgo-ai/borgo/src/memory/model"
	"github.com/borgo-ai/borgo/src/memory/store"
)

// KnowledgeBase stores documents as overlapping chunks in a vector store so
// the agent can ground answers in previously ingested material.
type KnowledgeBase struct {
	Store        store.VectorStore
	Embedder     embed.Embedder
	ChunkSize    int
	ChunkOverlap int
	Concurrency  int
}

const (
	defaultChunkSize    = 512
	defaultChunkOverlap = 50
)

func NewKnowledgeBase(s store.VectorStore, e embed.Embedder) *KnowledgeBase {
	return &KnowledgeBase{
		Store:        s,
		Embedder:     e,
		ChunkSize:    defaultChunkSize,
		ChunkOverlap: defaultChunkOverlap,
	}
}

// Add chunks the document, embeds the chunks in parallel and stores them
// tagged with the given source. It returns the number of chunks stored.
func (kb *KnowledgeBase) Add(ctx context.Context, content, source string) (int, error) {
	chunks := kb.chunk(content)
	if len(chunks) == 0 {
		return 0, nil
	}

	embeddings, err := concurrent.Map(ctx, chunks, func(ctx context.Context, chunk string) ([]float32, error) {
		return kb.Embedder.Embed(ctx, chunk)
	}, kb.Concurrency)
	if err != nil {
		return 0, fmt.Errorf("embedding document chunks: %w", err)
	}

	metadata := model.EncodeMetadata(map[string]string{"source": source})
	for i, chunk := range chunks {
		if err := kb.Store.StoreMemory(ctx, "knowledge", chunk, metadata, embeddings[i]); err != nil {
			return i, fmt.Errorf("storing chunk %d: %w", i, err)
		}
	}
	return len(chunks), nil
}

// Query embeds the query and returns the top-k matching chunks.
func (kb *KnowledgeBase) Query(ctx context.Context, query string, limit int) ([]model.MemoryRecord, error) {
	embedding, err := kb.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return kb.Store.SearchMemory(ctx, embedding, limit)
}

// Count reports how many chunks are stored.
func (kb *KnowledgeBase) Count(ctx context.Context) (int, error) {
	return kb.Store.Count(ctx)
}

// chunk splits text into overlapping windows, preferring to break at
// sentence boundaries past the midpoint of each window.
func (kb *KnowledgeBase) chunk(text string) []string {
	size := kb.ChunkSize
	if size <= 0 {
		size = defaultChunkSize
	}
	overlap := kb.ChunkOverlap
	if overlap < 0 || overlap >= size {
		overlap = defaultChunkOverlap
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end < len(text) {
			window := text[start:end]
			for _, sep := range []string{". ", ".\n", "!\n", "?\n", "\n\n"} {
				if idx := strings.LastIndex(window, sep); idx > size/2 {
					end = start + idx + len(sep)
					break
				}
			}
		} else {
			end = len(text)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}
