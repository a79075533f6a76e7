package vector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voyagehq/itinera/internal/models"
)

func TestMetadata_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "meta.json")
	items := []models.FlatItem{
		{ID: "h1", Category: models.CategoryHotels, Text: "name: A"},
		{ID: "f1", Category: models.CategoryFlights, Text: "airline: B"},
	}
	meta := NewMetadata(items)
	require.NoError(t, meta.Save(path))

	loaded, err := LoadMetadata(path)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	require.Equal(t, items[0], loaded.At(0))
	require.Equal(t, items[1], loaded.At(1))
}

func TestMetadata_PersistedShape(t *testing.T) {
	// The on-disk form is a plain JSON array of {id, category, text} objects.
	path := filepath.Join(t.TempDir(), "meta.json")
	meta := NewMetadata([]models.FlatItem{{ID: "e1", Category: models.CategoryExperiences, Text: "name: X"}})
	require.NoError(t, meta.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"e1","category":"experiences","text":"name: X"}]`, string(raw))
}

func TestLoadMetadata_Errors(t *testing.T) {
	_, err := LoadMetadata(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = LoadMetadata(path)
	require.Error(t, err)
}
