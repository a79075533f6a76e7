package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCatalogue(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
}

func TestLoad_AllCatalogues(t *testing.T) {
	dir := t.TempDir()
	writeCatalogue(t, dir, hotelCatalogueFile, `[
		{"hotel_id":"h1","hotel_name":"Grand Palm","city":"Dubai","room_price":220,"rating":4.5,"amenities":["spa","pool"]},
		{"hotel_id":"h2","hotel_name":"Sea View","city":"Dubai","rating":4.1}
	]`)
	writeCatalogue(t, dir, flightCatalogueFile, `[
		{"flight_id":"f1","operating_airline":"VS","city_depart":"London","city_arrive":"Dubai","flight_duration":"7h","depart_date":"2026-09-10","price":540}
	]`)
	writeCatalogue(t, dir, experienceCatalogueFile, `[
		{"experience_id":"e1","title":"Desert Safari","city":"Dubai","base_price":95,"duration_hours":6,"tags":["adventure"]}
	]`)

	data, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, data.Hotels, 2)
	require.Len(t, data.Flights, 1)
	require.Len(t, data.Experiences, 1)
	require.Equal(t, "h1", data.Hotels[0].HotelID)
	require.NotNil(t, data.Hotels[0].RoomPrice)
	require.Nil(t, data.Hotels[1].RoomPrice)
	require.Equal(t, 4, data.Total())
}

func TestLoad_MissingFilesYieldEmptyCategories(t *testing.T) {
	dir := t.TempDir()
	writeCatalogue(t, dir, hotelCatalogueFile, `[{"hotel_id":"h1","hotel_name":"Solo","city":"Rome"}]`)

	data, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, data.Hotels, 1)
	require.Empty(t, data.Flights)
	require.Empty(t, data.Experiences)
}

func TestLoad_MalformedCatalogue(t *testing.T) {
	dir := t.TempDir()
	writeCatalogue(t, dir, flightCatalogueFile, `{"not":"an array"`)

	_, err := Load(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), flightCatalogueFile)
}
