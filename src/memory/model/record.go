package model

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// MemoryRecord is a single unit of long-term memory: a piece of text, its
// embedding, and bookkeeping metadata. Score is only populated on retrieval.
type MemoryRecord struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Content   string    `json:"content"`
	Metadata  string    `json:"metadata"`
	Embedding []float32 `json:"embedding"`
	Score     float64   `json:"score"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// EncodeMetadata renders a string map as the canonical JSON metadata payload.
func EncodeMetadata(meta map[string]string) string {
	if len(meta) == 0 {
		return ""
	}
	out, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(out)
}

// DecodeMetadata parses the metadata payload, returning an empty map on
// malformed input rather than an error.
func DecodeMetadata(raw string) map[string]any {
	payload := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return payload
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return map[string]any{}
	}
	return payload
}

// MetadataRole extracts the "role" field from a metadata payload.
func MetadataRole(raw string) string {
	payload := DecodeMetadata(raw)
	if role, ok := payload["role"].(string); ok && role != "" {
		return role
	}
	return "unknown"
}

// MetadataSource extracts the "source" field from a metadata payload.
func MetadataSource(raw string) string {
	payload := DecodeMetadata(raw)
	if src, ok := payload["source"].(string); ok && src != "" {
		return src
	}
	return ""
}

// CosineSimilarity computes the cosine similarity of two vectors. Mismatched
// lengths compare over the shorter prefix; zero vectors score zero.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
