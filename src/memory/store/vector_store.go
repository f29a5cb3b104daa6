package store

import (
	"context"

	"github.com/borgo-ai/borgo/src/memory/model"
)

// VectorStore defines the contract for long-term memory backends.
type VectorStore interface {
	StoreMemory(ctx context.Context, sessionID, content, metadata string, embedding []float32) error
	SearchMemory(ctx context.Context, queryEmbedding []float32, limit int) ([]model.MemoryRecord, error)
	DeleteMemory(ctx context.Context, ids []int64) error
	Count(ctx context.Context) (int, error)
}

// SchemaInitializer allows stores to expose optional schema/bootstrap routines.
type SchemaInitializer interface {
	CreateSchema(ctx context.Context) error
}
