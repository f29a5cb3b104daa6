package session

import (
	"context"
	"testing"

	"github.com/borgo-ai/borgo/src/memory/embed"
	"github.com/borgo-ai/borgo/src/memory/store"
)

func newTestMemory(size int) *SessionMemory {
	bank := NewMemoryBankWithStore(store.NewInMemoryStore())
	return NewSessionMemory(bank, size).WithEmbedder(embed.DummyEmbedder{})
}

func TestSessionMemoryRememberRecall(t *testing.T) {
	sm := newTestMemory(8)
	ctx := context.Background()

	if err := sm.Remember(ctx, "s1", "the launch code is 1234", ""); err != nil {
		t.Fatalf("Remember: %v", err)
	}

	records, err := sm.Recall(ctx, "launch code", 5)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(records) != 1 || records[0].Content != "the launch code is 1234" {
		t.Errorf("records = %+v", records)
	}
}

func TestSessionMemoryShortTermRing(t *testing.T) {
	sm := newTestMemory(3)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three", "four", "five"} {
		sm.AddShortTerm("s1", content, "", nil)
	}

	records, err := sm.RetrieveContext(ctx, "s1", "anything", 0)
	if err != nil {
		t.Fatalf("RetrieveContext: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("short-term size = %d, want 3", len(records))
	}
	// Oldest entries fall off; the newest three remain in order.
	for i, want := range []string{"three", "four", "five"} {
		if records[i].Content != want {
			t.Errorf("records[%d] = %q, want %q", i, records[i].Content, want)
		}
	}
}

func TestSessionMemoryShortTermIsPerSession(t *testing.T) {
	sm := newTestMemory(8)
	ctx := context.Background()

	sm.AddShortTerm("alpha", "alpha fact", "", nil)
	sm.AddShortTerm("beta", "beta fact", "", nil)

	records, err := sm.RetrieveContext(ctx, "alpha", "fact", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Content != "alpha fact" {
		t.Errorf("alpha context = %+v", records)
	}
}

func TestSessionMemoryFlushToLongTerm(t *testing.T) {
	sm := newTestMemory(8)
	ctx := context.Background()

	embedding, err := sm.Embed(ctx, "flushed fact")
	if err != nil {
		t.Fatal(err)
	}
	sm.AddShortTerm("s1", "flushed fact", "", embedding)

	if err := sm.FlushToLongTerm(ctx, "s1"); err != nil {
		t.Fatalf("FlushToLongTerm: %v", err)
	}

	// The short-term buffer is emptied and the record is now searchable.
	records, err := sm.RetrieveContext(ctx, "s1", "flushed fact", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Content != "flushed fact" {
		t.Errorf("records after flush = %+v", records)
	}
}

func TestSessionMemoryEmbedFallsBackOnFailure(t *testing.T) {
	sm := NewSessionMemory(NewMemoryBankWithStore(store.NewInMemoryStore()), 8).
		WithEmbedder(failingEmbedder{})

	vec, err := sm.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("Embed must not surface provider failures: %v", err)
	}
	if len(vec) == 0 {
		t.Error("fallback embedding must be non-empty")
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, context.DeadlineExceeded
}

func TestMemoryBankNilStore(t *testing.T) {
	bank := &MemoryBank{}
	ctx := context.Background()

	if err := bank.StoreMemory(ctx, "s", "x", "", nil); err != nil {
		t.Errorf("StoreMemory on empty bank: %v", err)
	}
	if records, err := bank.SearchMemory(ctx, nil, 5); err != nil || records != nil {
		t.Errorf("SearchMemory on empty bank: %v, %v", records, err)
	}
	if err := bank.CreateSchema(ctx); err != nil {
		t.Errorf("CreateSchema on empty bank: %v", err)
	}
	if err := bank.Close(); err != nil {
		t.Errorf("Close on empty bank: %v", err)
	}
}
