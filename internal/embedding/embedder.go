// Package embedding provides text embedding via a remote embedding service,
// with batching, caching, and a deterministic mock for tests.
package embedding

import (
	"context"
	"fmt"
)

// Embedder produces vector embeddings for text. EmbedBatch is 1:1 and
// order-preserving with its input. Model identifies the embedding model; it
// must be the same at index build time and query time or distances between
// query and stored vectors are meaningless.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
	Close() error
}

// Config holds settings for creating an embedder.
type Config struct {
	Provider     string
	Model        string
	APIKey       string
	BaseURL      string
	MaxBatchSize int
}

// NewEmbedder creates an embedder for the configured provider.
// Supported providers: "openai" (default), "mock" (offline development and tests).
func NewEmbedder(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIEmbedder(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.MaxBatchSize)
	case "mock":
		return NewMockEmbedder(0), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, mock)", cfg.Provider)
	}
}
