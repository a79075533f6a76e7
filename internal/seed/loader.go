// Package seed loads raw travel catalogues and flattens them into indexable items.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/voyagehq/itinera/internal/models"
)

const (
	hotelCatalogueFile      = "hotel_catalogue.json"
	flightCatalogueFile     = "flight_catalogue.json"
	experienceCatalogueFile = "experiences_catalogue.json"
)

// Load reads the per-category catalogue files under dir. A missing file yields
// an empty category, not an error; malformed JSON is an error naming the file.
func Load(dir string) (*models.SeedData, error) {
	var data models.SeedData
	if err := readCatalogue(filepath.Join(dir, hotelCatalogueFile), &data.Hotels); err != nil {
		return nil, err
	}
	if err := readCatalogue(filepath.Join(dir, flightCatalogueFile), &data.Flights); err != nil {
		return nil, err
	}
	if err := readCatalogue(filepath.Join(dir, experienceCatalogueFile), &data.Experiences); err != nil {
		return nil, err
	}
	return &data, nil
}

// readCatalogue unmarshals the JSON array at path into out. A missing file
// leaves out unchanged.
func readCatalogue(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read catalogue %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse catalogue %s: %w", path, err)
	}
	return nil
}
