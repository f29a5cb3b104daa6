package session

import (
	"context"
	"io"
	"sync"

	"github.com/borgo-ai/borgo/src/memory/embed"
	"github.com/borgo-ai/borgo/src/memory/model"
	"github.com/borgo-ai/borgo/src/memory/store"
)

// MemoryBank is a thin wrapper around a VectorStore implementation.
type MemoryBank struct {
	Store store.VectorStore
}

// SessionMemory layers a bounded short-term buffer per session on top of a
// MemoryBank, with an embedding provider for long-term storage and retrieval.
type SessionMemory struct {
	Bank          *MemoryBank
	shortTerm     map[string][]model.MemoryRecord
	mu            sync.RWMutex
	shortTermSize int
	Embedder      embed.Embedder
}

// NewMemoryBank creates a new Postgres-backed memory bank.
func NewMemoryBank(ctx context.Context, connStr string) (*MemoryBank, error) {
	s, err := store.NewPostgresStore(ctx, connStr)
	if err != nil {
		return nil, err
	}
	return &MemoryBank{Store: s}, nil
}

// NewMemoryBankWithStore creates a memory bank backed by a custom vector store.
func NewMemoryBankWithStore(s store.VectorStore) *MemoryBank {
	return &MemoryBank{Store: s}
}

// NewSessionMemory wraps MemoryBank with a short-term cache of the given size.
func NewSessionMemory(bank *MemoryBank, shortTermSize int) *SessionMemory {
	if shortTermSize <= 0 {
		shortTermSize = 16
	}
	return &SessionMemory{
		Bank:          bank,
		shortTerm:     make(map[string][]model.MemoryRecord),
		shortTermSize: shortTermSize,
		Embedder:      embed.AutoEmbedder(),
	}
}

// WithEmbedder overrides the embedding provider.
func (sm *SessionMemory) WithEmbedder(e embed.Embedder) *SessionMemory {
	if e != nil {
		sm.Embedder = e
	}
	return sm
}

// AddShortTerm stores a record in the ephemeral session cache.
func (sm *SessionMemory) AddShortTerm(sessionID, content, metadata string, embedding []float32) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	record := model.MemoryRecord{SessionID: sessionID, Content: content, Metadata: metadata, Embedding: embedding}
	sm.shortTerm[sessionID] = append(sm.shortTerm[sessionID], record)

	if len(sm.shortTerm[sessionID]) > sm.shortTermSize {
		sm.shortTerm[sessionID] = sm.shortTerm[sessionID][len(sm.shortTerm[sessionID])-sm.shortTermSize:]
	}
}

// Remember writes a record straight to the long-term store.
func (sm *SessionMemory) Remember(ctx context.Context, sessionID, content, metadata string) error {
	embedding, err := sm.Embed(ctx, content)
	if err != nil {
		return err
	}
	return sm.Bank.StoreMemory(ctx, sessionID, content, metadata, embedding)
}

// Recall searches the long-term store for records similar to the query.
func (sm *SessionMemory) Recall(ctx context.Context, query string, limit int) ([]model.MemoryRecord, error) {
	embedding, err := sm.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return sm.Bank.SearchMemory(ctx, embedding, limit)
}

// FlushToLongTerm writes the short-term cache to the configured vector store.
func (sm *SessionMemory) FlushToLongTerm(ctx context.Context, sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	records := sm.shortTerm[sessionID]
	for _, r := range records {
		if err := sm.Bank.StoreMemory(ctx, sessionID, r.Content, r.Metadata, r.Embedding); err != nil {
			return err
		}
	}
	delete(sm.shortTerm, sessionID)
	return nil
}

// Embed ensures an embedder is available and returns the embedding for text.
// Embedding failures fall back to the deterministic dummy vector so memory
// writes never fail outright on a flaky provider.
func (sm *SessionMemory) Embed(ctx context.Context, text string) ([]float32, error) {
	if sm.Embedder == nil {
		sm.Embedder = embed.AutoEmbedder()
	}
	vec, err := sm.Embedder.Embed(ctx, text)
	if err != nil || len(vec) == 0 {
		return embed.DummyEmbedding(text), nil
	}
	return vec, nil
}

// RetrieveContext returns combined short- and long-term memory for a session.
func (sm *SessionMemory) RetrieveContext(ctx context.Context, sessionID, query string, limit int) ([]model.MemoryRecord, error) {
	var longTerm []model.MemoryRecord
	if sm.Bank != nil {
		queryEmbedding, err := sm.Embed(ctx, query)
		if err != nil {
			return nil, err
		}
		records, err := sm.Bank.SearchMemory(ctx, queryEmbedding, limit)
		if err != nil {
			return nil, err
		}
		longTerm = records
	}

	sm.mu.RLock()
	shortTerm := sm.shortTerm[sessionID]
	sm.mu.RUnlock()

	return append(append([]model.MemoryRecord(nil), shortTerm...), longTerm...), nil
}

// StoreMemory inserts a long-term record.
func (mb *MemoryBank) StoreMemory(ctx context.Context, sessionID, content, metadata string, embedding []float32) error {
	if mb == nil || mb.Store == nil {
		return nil
	}
	return mb.Store.StoreMemory(ctx, sessionID, content, metadata, embedding)
}

// SearchMemory returns top-k similar memories.
func (mb *MemoryBank) SearchMemory(ctx context.Context, queryEmbedding []float32, limit int) ([]model.MemoryRecord, error) {
	if mb == nil || mb.Store == nil {
		return nil, nil
	}
	return mb.Store.SearchMemory(ctx, queryEmbedding, limit)
}

// CreateSchema initialises the backing store if it supports schema management.
func (mb *MemoryBank) CreateSchema(ctx context.Context) error {
	if mb == nil || mb.Store == nil {
		return nil
	}
	initializer, ok := mb.Store.(store.SchemaInitializer)
	if !ok {
		return nil
	}
	return initializer.CreateSchema(ctx)
}

// Close releases underlying resources if the store implements io.Closer.
func (mb *MemoryBank) Close() error {
	if mb == nil || mb.Store == nil {
		return nil
	}
	if closer, ok := mb.Store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
