package vector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/voyagehq/itinera/internal/models"
)

// Metadata is the ordered FlatItem mirror of a FlatIndex: entry i describes
// the vector at position i. It is built together with the index, persisted as
// a JSON array, and never mutated at query time.
type Metadata struct {
	items []models.FlatItem
}

// NewMetadata wraps items as a metadata store. The slice is taken over, not copied.
func NewMetadata(items []models.FlatItem) *Metadata {
	return &Metadata{items: items}
}

// Len returns the number of entries.
func (m *Metadata) Len() int {
	return len(m.items)
}

// At returns the entry at position i.
func (m *Metadata) At(i int) models.FlatItem {
	return m.items[i]
}

// Items returns the underlying entries, in index position order.
func (m *Metadata) Items() []models.FlatItem {
	return m.items
}

// Save writes the metadata as a JSON array to path. Directory is created if needed.
func (m *Metadata) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	data, err := json.Marshal(m.items)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	return nil
}

// LoadMetadata reads a metadata store from the JSON array at path.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata file %s: %w", path, err)
	}
	var items []models.FlatItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse metadata file %s: %w", path, err)
	}
	return &Metadata{items: items}, nil
}
