// Package indexer builds and persists the vector index and its metadata mirror
// from the seed catalogues.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/voyagehq/itinera/internal/embedding"
	"github.com/voyagehq/itinera/internal/seed"
	"github.com/voyagehq/itinera/internal/vector"
	"go.uber.org/zap"
)

// ErrMisaligned is returned when the persisted index and metadata artifacts
// disagree in length. One was written without the other; the pair cannot be
// served and must be rebuilt.
var ErrMisaligned = errors.New("index and metadata artifacts are misaligned")

// Builder runs the one-time build pipeline: load seed records, flatten, embed,
// build the flat index, and persist index plus metadata as a pair.
type Builder struct {
	seedDir   string
	indexPath string
	metaPath  string
	embedder  embedding.Embedder
	rng       *rand.Rand
	logger    *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a logger for build progress.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// WithRand sets the randomness source for placeholder prices, so builds can be
// made deterministic in tests.
func WithRand(rng *rand.Rand) BuilderOption {
	return func(b *Builder) { b.rng = rng }
}

// NewBuilder creates a builder over the given seed directory and artifact paths.
func NewBuilder(seedDir, indexPath, metaPath string, embedder embedding.Embedder, opts ...BuilderOption) *Builder {
	b := &Builder{
		seedDir:   seedDir,
		indexPath: indexPath,
		metaPath:  metaPath,
		embedder:  embedder,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Ensure returns a servable index/metadata pair. When the persisted index
// exists and is non-empty, the build pipeline is skipped entirely and the pair
// is loaded as-is; repeated process starts never re-embed or duplicate
// entries. An index whose metadata is missing or of different length is a
// fatal error, not a rebuild: the artifacts drifted and serving them would
// break positional alignment.
func (b *Builder) Ensure(ctx context.Context) (*vector.FlatIndex, *vector.Metadata, error) {
	if _, err := os.Stat(b.indexPath); err != nil {
		if os.IsNotExist(err) {
			b.logger.Info("index artifact absent, building", zap.String("path", b.indexPath))
			return b.Rebuild(ctx)
		}
		return nil, nil, fmt.Errorf("stat index file: %w", err)
	}

	idx, err := vector.LoadIndex(b.indexPath, b.embedder.Model())
	if err != nil {
		return nil, nil, err
	}
	if idx.Ntotal() == 0 {
		b.logger.Info("index is empty, building", zap.String("path", b.indexPath))
		return b.Rebuild(ctx)
	}

	meta, err := vector.LoadMetadata(b.metaPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: index has %d vectors but metadata failed to load: %v",
			ErrMisaligned, idx.Ntotal(), err)
	}
	if meta.Len() != idx.Ntotal() {
		return nil, nil, fmt.Errorf("%w: index has %d vectors, metadata has %d entries",
			ErrMisaligned, idx.Ntotal(), meta.Len())
	}
	b.logger.Info("loaded persisted index",
		zap.Int("ntotal", idx.Ntotal()),
		zap.String("model", idx.Model()),
	)
	return idx, meta, nil
}

// Rebuild runs the full pipeline and persists both artifacts. Both are written
// to temporary files first and renamed together, so an embedding or write
// failure leaves no partial pair behind.
func (b *Builder) Rebuild(ctx context.Context) (*vector.FlatIndex, *vector.Metadata, error) {
	data, err := seed.Load(b.seedDir)
	if err != nil {
		return nil, nil, err
	}
	b.logger.Info("seed data loaded",
		zap.Int("hotels", len(data.Hotels)),
		zap.Int("flights", len(data.Flights)),
		zap.Int("experiences", len(data.Experiences)),
	)

	items, err := seed.Flatten(data, b.rng)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, fmt.Errorf("no seed records found under %s, nothing to index", b.seedDir)
	}

	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Text
	}
	vecs, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding pass failed, aborting build: %w", err)
	}
	if len(vecs) != len(items) {
		return nil, nil, fmt.Errorf("embedding count mismatch: %d items, %d vectors", len(items), len(vecs))
	}

	// Dimension is fixed by the first vector of the build.
	idx, err := vector.NewFlatIndex(len(vecs[0]), b.embedder.Model())
	if err != nil {
		return nil, nil, err
	}
	if err := idx.Add(vecs); err != nil {
		return nil, nil, err
	}
	meta := vector.NewMetadata(items)

	if err := b.persistPair(idx, meta); err != nil {
		return nil, nil, err
	}
	b.logger.Info("stored travel items in vector index",
		zap.Int("ntotal", idx.Ntotal()),
		zap.String("index_path", b.indexPath),
		zap.String("metadata_path", b.metaPath),
	)
	return idx, meta, nil
}

// persistPair writes both artifacts through temp files and renames them only
// after both writes succeed, keeping index and metadata from drifting apart.
func (b *Builder) persistPair(idx *vector.FlatIndex, meta *vector.Metadata) error {
	idxTmp := b.indexPath + ".tmp"
	metaTmp := b.metaPath + ".tmp"
	if err := idx.Save(idxTmp); err != nil {
		return err
	}
	if err := meta.Save(metaTmp); err != nil {
		_ = os.Remove(idxTmp)
		return err
	}
	if err := os.Rename(idxTmp, b.indexPath); err != nil {
		_ = os.Remove(idxTmp)
		_ = os.Remove(metaTmp)
		return fmt.Errorf("rename index artifact: %w", err)
	}
	if err := os.Rename(metaTmp, b.metaPath); err != nil {
		_ = os.Remove(metaTmp)
		return fmt.Errorf("rename metadata artifact: %w", err)
	}
	return nil
}
