// Package retriever performs category-partitioned nearest-neighbor retrieval
// over a flat vector index and its metadata mirror.
package retriever

import (
	"errors"
	"fmt"

	"github.com/voyagehq/itinera/internal/models"
	"github.com/voyagehq/itinera/internal/vector"
)

// ErrEmptyIndex is returned when retrieval is attempted against an index or
// metadata store with no items.
var ErrEmptyIndex = errors.New("vector index has no items")

// Search pulls a pool of nearest candidates for queryVec in a single index
// scan, then partitions them by category, keeping up to kPerCategory nearest
// items per category, ascending by distance.
//
// The scan stops early once every category seen so far has filled its quota.
// If the pool runs out first, the collected lists are returned as-is; short
// lists are valid. Categories with no candidates in the pool are absent from
// the result. Choosing a pool large enough to realistically fill all quotas is
// the caller's responsibility; there is no automatic growth or retry.
func Search(idx *vector.FlatIndex, meta *vector.Metadata, queryVec []float32, kPerCategory, pool int) (models.RetrievalResult, error) {
	if len(queryVec) == 0 {
		return nil, fmt.Errorf("query vector is empty or nil")
	}
	if len(queryVec) != idx.Dim() {
		return nil, fmt.Errorf("query vector dimension mismatch: got %d, index expects %d", len(queryVec), idx.Dim())
	}
	if idx.Ntotal() == 0 {
		return nil, ErrEmptyIndex
	}
	if meta.Len() == 0 {
		return nil, fmt.Errorf("%w: metadata store is empty", ErrEmptyIndex)
	}
	if meta.Len() != idx.Ntotal() {
		return nil, fmt.Errorf("metadata has %d entries but index has %d vectors", meta.Len(), idx.Ntotal())
	}
	if kPerCategory <= 0 {
		return nil, fmt.Errorf("k_per_category must be positive, got %d", kPerCategory)
	}

	effective := pool
	if effective > idx.Ntotal() {
		effective = idx.Ntotal()
	}
	hits, err := idx.Search(queryVec, effective)
	if err != nil {
		return nil, err
	}

	result := make(models.RetrievalResult)
	for _, hit := range hits {
		item := meta.At(hit.Position)
		if len(result[item.Category]) < kPerCategory {
			result[item.Category] = append(result[item.Category], models.ScoredItem{
				Item:     item,
				Distance: hit.Distance,
			})
		}
		if allFull(result, kPerCategory) {
			break
		}
	}
	return result, nil
}

// allFull reports whether every category collected so far has reached k.
// Categories not yet observed in the scan do not count; only an exhausted pool
// ends the scan for them.
func allFull(result models.RetrievalResult, k int) bool {
	for _, items := range result {
		if len(items) < k {
			return false
		}
	}
	return true
}
