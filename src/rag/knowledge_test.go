package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/borgo-ai/borgo/src/memory/embed"
	"github.com/borgo-ai/borgo/src/memory/store"
)

func newTestKB() *KnowledgeBase {
	return NewKnowledgeBase(store.NewInMemoryStore(), embed.DummyEmbedder{})
}

func TestKnowledgeBaseAddAndQuery(t *testing.T) {
	kb := newTestKB()
	ctx := context.Background()

	n, err := kb.Add(ctx, "The capital of France is Paris.", "geography.txt")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if n != 1 {
		t.Fatalf("chunks = %d, want 1", n)
	}

	records, err := kb.Query(ctx, "capital of France", 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Source != "geography.txt" {
		t.Errorf("source = %q, want geography.txt", records[0].Source)
	}
}

func TestKnowledgeBaseChunksLongDocuments(t *testing.T) {
	kb := newTestKB()
	kb.ChunkSize = 100
	kb.ChunkOverlap = 10

	doc := strings.Repeat("This is a sentence about storage engines. ", 20)
	n, err := kb.Add(context.Background(), doc, "doc.md")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if n < 2 {
		t.Fatalf("chunks = %d, want several", n)
	}
	count, err := kb.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != n {
		t.Errorf("stored = %d, want %d", count, n)
	}
}

func TestKnowledgeBaseEmptyDocument(t *testing.T) {
	kb := newTestKB()
	n, err := kb.Add(context.Background(), "   \n  ", "empty.txt")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if n != 0 {
		t.Errorf("chunks = %d, want 0", n)
	}
}
