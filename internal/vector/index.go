// Package vector provides a flat L2 vector index with binary persistence and
// the positionally aligned metadata store.
package vector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/voyagehq/itinera/pkg/utils"
)

// indexMagic identifies the persisted index format.
const indexMagic = uint32(0x49545658) // "ITVX"

const indexFormatVersion = uint32(1)

// ErrModelMismatch is returned when a persisted index was built with a
// different embedding model than the one configured. Searching across models
// silently produces meaningless distances, so loading refuses instead.
var ErrModelMismatch = errors.New("index embedding model mismatch")

// Hit is a single nearest-neighbor candidate: the vector's position in the
// index and its squared L2 distance from the query.
type Hit struct {
	Position int
	Distance float32
}

// FlatIndex is an exact (brute-force) squared-L2 nearest-neighbor index.
// Position i always resolves to the i-th vector added, so an external
// metadata sequence built in the same append order stays aligned.
type FlatIndex struct {
	dim     int
	model   string
	vectors [][]float32
	mu      sync.RWMutex
}

// NewFlatIndex creates an empty index for vectors of the given dimension,
// tagged with the embedding model that produces them.
func NewFlatIndex(dim int, model string) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}
	return &FlatIndex{dim: dim, model: model}, nil
}

// Add appends vectors in order. Every vector must match the index dimension.
func (x *FlatIndex) Add(vectors [][]float32) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for i, vec := range vectors {
		if len(vec) != x.dim {
			return fmt.Errorf("vector %d dimension mismatch: got %d, expected %d", i, len(vec), x.dim)
		}
		cp := make([]float32, x.dim)
		copy(cp, vec)
		x.vectors = append(x.vectors, cp)
	}
	return nil
}

// Search returns the k nearest vectors to query, ascending by squared L2
// distance. Ties keep insertion order (stable sort, no secondary key).
// k is clamped to the index size.
func (x *FlatIndex) Search(query []float32, k int) ([]Hit, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("query vector is empty")
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), x.dim)
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	if k <= 0 || len(x.vectors) == 0 {
		return nil, nil
	}
	hits := make([]Hit, len(x.vectors))
	for i, vec := range x.vectors {
		hits[i] = Hit{Position: i, Distance: utils.SquaredL2(query, vec)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Ntotal returns the number of indexed vectors.
func (x *FlatIndex) Ntotal() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Dim returns the vector dimension.
func (x *FlatIndex) Dim() int {
	return x.dim
}

// Model returns the embedding model the index was built with.
func (x *FlatIndex) Model() string {
	return x.model
}

// Save writes the index to path. Directory is created if needed. Format:
// magic, version, model (length-prefixed), dim, count, then count rows of
// dim little-endian float32s.
func (x *FlatIndex) Save(path string) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()

	for _, v := range []uint32{indexMagic, indexFormatVersion} {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write index header: %w", err)
		}
	}
	modelBytes := []byte(x.model)
	if err := binary.Write(f, binary.LittleEndian, uint32(len(modelBytes))); err != nil {
		return fmt.Errorf("write model length: %w", err)
	}
	if _, err := f.Write(modelBytes); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(x.dim)); err != nil {
		return fmt.Errorf("write dimension: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(x.vectors))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	for _, vec := range x.vectors {
		if _, err := f.Write(float32SliceToBytes(vec)); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}
	return nil
}

// LoadIndex reads an index from path. model is the configured embedding model;
// when non-empty it must match the model recorded at build time or
// ErrModelMismatch is returned.
func LoadIndex(path, model string) (*FlatIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file %s: %w", path, err)
	}
	defer f.Close()

	var magic, version uint32
	if err := binary.Read(f, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("read index magic: %w", err)
	}
	if magic != indexMagic {
		return nil, fmt.Errorf("not an index file: %s", path)
	}
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("read index version: %w", err)
	}
	if version != indexFormatVersion {
		return nil, fmt.Errorf("unsupported index format version %d", version)
	}
	var modelLen uint32
	if err := binary.Read(f, binary.LittleEndian, &modelLen); err != nil {
		return nil, fmt.Errorf("read model length: %w", err)
	}
	modelBytes := make([]byte, modelLen)
	if _, err := io.ReadFull(f, modelBytes); err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	storedModel := string(modelBytes)
	if model != "" && storedModel != model {
		return nil, fmt.Errorf("%w: index built with %q, configured %q", ErrModelMismatch, storedModel, model)
	}
	var dim, count uint32
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read dimension: %w", err)
	}
	if err := binary.Read(f, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}
	idx, err := NewFlatIndex(int(dim), storedModel)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, int(dim)*4)
	idx.vectors = make([][]float32, 0, count)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, fmt.Errorf("read vector %d: %w", i, err)
		}
		idx.vectors = append(idx.vectors, bytesToFloat32Slice(buf))
	}
	return idx, nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
