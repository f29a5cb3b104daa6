package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/borgo-ai/borgo/src/memory/model"
)

// PostgresStore implements VectorStore using Postgres + pgvector.
type PostgresStore struct {
	DB *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and returns a Postgres-backed store.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return &PostgresStore{DB: db}, nil
}

// StoreMemory inserts a long-term record into Postgres.
func (ps *PostgresStore) StoreMemory(ctx context.Context, sessionID, content, metadata string, embedding []float32) error {
	if ps == nil || ps.DB == nil {
		return nil
	}
	query := `
		INSERT INTO memory_bank (session_id, content, metadata, embedding)
		VALUES ($1, $2, $3::jsonb, $4::vector);
	`
	if strings.TrimSpace(metadata) == "" {
		metadata = "{}"
	}
	_, err := ps.DB.Exec(ctx, query, sessionID, content, metadata, vectorLiteral(embedding))
	return err
}

// SearchMemory returns top-k similar memories from Postgres.
func (ps *PostgresStore) SearchMemory(ctx context.Context, queryEmbedding []float32, limit int) ([]model.MemoryRecord, error) {
	if ps == nil || ps.DB == nil {
		return nil, nil
	}
	rows, err := ps.DB.Query(ctx, `
		SELECT id, session_id, content, metadata, (embedding <-> $1::vector) AS score
		FROM memory_bank
		ORDER BY embedding <-> $1::vector
		LIMIT $2;
	`, vectorLiteral(queryEmbedding), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.MemoryRecord
	for rows.Next() {
		var rec model.MemoryRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Content, &rec.Metadata, &rec.Score); err != nil {
			return nil, err
		}
		rec.Source = model.MetadataSource(rec.Metadata)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteMemory removes records by id.
func (ps *PostgresStore) DeleteMemory(ctx context.Context, ids []int64) error {
	if ps == nil || ps.DB == nil || len(ids) == 0 {
		return nil
	}
	_, err := ps.DB.Exec(ctx, `DELETE FROM memory_bank WHERE id = ANY($1);`, ids)
	return err
}

// Count returns the number of stored records.
func (ps *PostgresStore) Count(ctx context.Context) (int, error) {
	if ps == nil || ps.DB == nil {
		return 0, nil
	}
	var n int
	err := ps.DB.QueryRow(ctx, `SELECT COUNT(*) FROM memory_bank;`).Scan(&n)
	return n, err
}

// CreateSchema ensures the pgvector extension and memory table are available.
func (ps *PostgresStore) CreateSchema(ctx context.Context) error {
	if ps == nil || ps.DB == nil {
		return nil
	}
	_, err := ps.DB.Exec(ctx, `
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS memory_bank (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			content TEXT NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			embedding vector(768),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close releases the underlying Postgres connection pool.
func (ps *PostgresStore) Close() error {
	if ps == nil || ps.DB == nil {
		return nil
	}
	ps.DB.Close()
	return nil
}

func vectorLiteral(embedding []float32) string {
	jsonEmbed, _ := json.Marshal(embedding)
	return fmt.Sprintf("[%s]", strings.Trim(string(jsonEmbed), "[]"))
}
