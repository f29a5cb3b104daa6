package embed

import (
	"context"
	"errors"
	"os"
	"strings"
)

// Embedder is a pluggable text-embedding provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrNotSupported is returned by providers that do not offer embeddings.
var ErrNotSupported = errors.New("embeddings not supported by this provider")

// DummyEmbedder produces deterministic pseudo-embeddings. It keeps the memory
// and knowledge layers functional in tests and offline deployments.
type DummyEmbedder struct{}

func (DummyEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return DummyEmbedding(text), nil
}

// DummyEmbedding folds the text bytes into a fixed 768-dim vector.
func DummyEmbedding(text string) []float32 {
	vec := make([]float32, 768)
	for i, ch := range []byte(text) {
		vec[i%768] += float32(ch) / 255.0
	}
	return vec
}

// AutoEmbedder chooses a provider from the environment:
// BORGO_EMBED_PROVIDER=ollama|openai with BORGO_EMBED_MODEL for the model
// name. Unset or failing providers fall back to DummyEmbedder.
func AutoEmbedder() Embedder {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("BORGO_EMBED_PROVIDER")))
	model := strings.TrimSpace(os.Getenv("BORGO_EMBED_MODEL"))

	switch provider {
	case "ollama":
		if e, err := NewOllamaEmbedder(model); err == nil {
			return e
		}
	case "openai":
		if e, err := NewOpenAIEmbedder(model); err == nil {
			return e
		}
	}
	return DummyEmbedder{}
}
