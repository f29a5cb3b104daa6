package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/borgo-ai/borgo/src/memory/model"
)

// InMemoryStore implements VectorStore for tests and lightweight deployments.
type InMemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]model.MemoryRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[int64]model.MemoryRecord)}
}

func (s *InMemoryStore) StoreMemory(_ context.Context, sessionID, content, metadata string, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = make(map[int64]model.MemoryRecord)
	}
	s.nextID++
	record := model.MemoryRecord{
		ID:        s.nextID,
		SessionID: sessionID,
		Content:   content,
		Metadata:  metadata,
		Embedding: append([]float32(nil), embedding...),
		Source:    model.MetadataSource(metadata),
		CreatedAt: time.Now().UTC(),
	}
	s.records[record.ID] = record
	return nil
}

func (s *InMemoryStore) SearchMemory(_ context.Context, queryEmbedding []float32, limit int) ([]model.MemoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		return nil, nil
	}
	scored := make([]model.MemoryRecord, 0, len(s.records))
	for _, rec := range s.records {
		rec.Score = model.CosineSimilarity(queryEmbedding, rec.Embedding)
		scored = append(scored, rec)
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (s *InMemoryStore) DeleteMemory(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.records, id)
	}
	return nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
