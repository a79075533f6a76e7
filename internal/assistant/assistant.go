// Package assistant orchestrates the per-request pipeline: guardrail check,
// query embedding, category-partitioned retrieval, and advice generation.
package assistant

import (
	"context"
	"fmt"

	"github.com/voyagehq/itinera/internal/embedding"
	"github.com/voyagehq/itinera/internal/guardrail"
	"github.com/voyagehq/itinera/internal/models"
	"github.com/voyagehq/itinera/internal/retriever"
	"github.com/voyagehq/itinera/internal/vector"
	"go.uber.org/zap"
)

// AdviceGenerator produces structured advice from a query and its retrieved
// seed context.
type AdviceGenerator interface {
	Generate(ctx context.Context, query string, results models.RetrievalResult) (*models.TravelAdvice, error)
}

// Options holds retrieval tunables for the pipeline.
type Options struct {
	KPerCategory int
	Pool         int
}

// DefaultOptions returns the default retrieval tunables.
func DefaultOptions() Options {
	return Options{KPerCategory: 3, Pool: 150}
}

// Service runs travel queries against the shared read-only index. The index
// and metadata are loaded once at startup and never mutated afterwards, so
// concurrent requests need no locking here.
type Service struct {
	embedder  embedding.Embedder
	index     *vector.FlatIndex
	meta      *vector.Metadata
	guard     *guardrail.Filter
	generator AdviceGenerator
	opts      Options
	logger    *zap.Logger
}

// NewService creates the pipeline service. A nil logger is replaced with a no-op.
func NewService(
	embedder embedding.Embedder,
	index *vector.FlatIndex,
	meta *vector.Metadata,
	guard *guardrail.Filter,
	generator AdviceGenerator,
	opts Options,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		embedder:  embedder,
		index:     index,
		meta:      meta,
		guard:     guard,
		generator: generator,
		opts:      opts,
		logger:    logger,
	}
}

// Advise runs the full pipeline for one query. The guardrail runs first, so a
// banned query never reaches the embedding service or the index.
func (s *Service) Advise(ctx context.Context, query string) (*models.TravelAdvice, error) {
	if err := s.guard.Enforce(query); err != nil {
		return nil, err
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := retriever.Search(s.index, s.meta, queryVec, s.opts.KPerCategory, s.opts.Pool)
	if err != nil {
		return nil, fmt.Errorf("retrieve seed context: %w", err)
	}
	if len(results) == 0 {
		s.logger.Warn("no seed candidates retrieved for query")
	}
	s.logger.Debug("retrieved seed context", zap.Int("categories", len(results)))

	advice, err := s.generator.Generate(ctx, query, results)
	if err != nil {
		return nil, fmt.Errorf("generate advice: %w", err)
	}
	return advice, nil
}

// IndexSize returns the number of indexed items, for status reporting.
func (s *Service) IndexSize() int {
	return s.index.Ntotal()
}

// EmbeddingModel returns the embedding model the served index was built with.
func (s *Service) EmbeddingModel() string {
	return s.index.Model()
}
