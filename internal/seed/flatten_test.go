package seed

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/voyagehq/itinera/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func sampleSeed() *models.SeedData {
	return &models.SeedData{
		Hotels: []models.HotelRecord{
			{HotelID: "h1", HotelName: "Grand Palm", City: "Dubai", RoomPrice: floatPtr(220), Rating: 4.5, Amenities: []string{"spa", "pool"}},
			{HotelID: "h2", HotelName: "Sea View", City: "Dubai", Rating: 4.1},
		},
		Flights: []models.FlightRecord{
			{FlightID: "f1", OperatingAirline: "VS", CityDepart: "London", CityArrive: "Dubai", FlightDuration: "7h", DepartDate: "2026-09-10"},
		},
		Experiences: []models.ExperienceRecord{
			{ExperienceID: "e1", Title: "Desert Safari", City: "Dubai", BasePrice: floatPtr(95), DurationHours: 6, Tags: []string{"adventure"}},
		},
	}
}

func TestFlatten_AllCategoriesProcessed(t *testing.T) {
	items, err := Flatten(sampleSeed(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items across all categories, got %d", len(items))
	}
	counts := map[models.Category]int{}
	for _, it := range items {
		counts[it.Category]++
		if it.Text == "" {
			t.Errorf("item %s has empty text", it.ID)
		}
		if it.ID == "" {
			t.Errorf("item in %s has empty id", it.Category)
		}
	}
	if counts[models.CategoryHotels] != 2 || counts[models.CategoryFlights] != 1 || counts[models.CategoryExperiences] != 1 {
		t.Errorf("category counts: %v", counts)
	}
}

func TestFlatten_TextTemplates(t *testing.T) {
	items, err := Flatten(sampleSeed(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	hotel := items[0]
	want := "name: Grand Palm - city: Dubai - price_per_night: 220 - rating: 4.5 - amenities: spa, pool"
	if hotel.Text != want {
		t.Errorf("hotel text:\n got %q\nwant %q", hotel.Text, want)
	}
	exp := items[3]
	wantExp := "name: Desert Safari - city: Dubai - price: 95 - duration: 6 - tags: adventure"
	if exp.Text != wantExp {
		t.Errorf("experience text:\n got %q\nwant %q", exp.Text, wantExp)
	}
}

func TestFlatten_PlaceholderPriceDeterministicWithSeed(t *testing.T) {
	a, err := Flatten(sampleSeed(), rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Flatten(sampleSeed(), rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("item %d differs across runs with same seed: %q vs %q", i, a[i].Text, b[i].Text)
		}
	}
}

func TestFlatten_PlaceholderPriceInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		items, err := Flatten(sampleSeed(), rng)
		if err != nil {
			t.Fatal(err)
		}
		// Hotel h2 and flight f1 have no price; their placeholder must be in range.
		checks := []struct {
			text     string
			field    string
			min, max int
		}{
			{items[1].Text, "price_per_night: ", hotelPriceMin, hotelPriceMax},
			{items[2].Text, "price: ", flightPriceMin, flightPriceMax},
		}
		for _, c := range checks {
			idx := strings.Index(c.text, c.field)
			if idx < 0 {
				t.Fatalf("field %q not in %q", c.field, c.text)
			}
			rest := c.text[idx+len(c.field):]
			if cut := strings.Index(rest, " - "); cut >= 0 {
				rest = rest[:cut]
			}
			price, err := strconv.Atoi(rest)
			if err != nil {
				t.Fatalf("placeholder price %q not an int: %v", rest, err)
			}
			if price < c.min || price > c.max {
				t.Errorf("placeholder price %d outside [%d, %d]", price, c.min, c.max)
			}
		}
	}
}

func TestFlatten_MissingIDFails(t *testing.T) {
	data := &models.SeedData{Hotels: []models.HotelRecord{{HotelName: "No ID", City: "Rome"}}}
	_, err := Flatten(data, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("expected error for missing hotel_id")
	}
	if !strings.Contains(err.Error(), "hotel_id") {
		t.Errorf("error should name the missing field: %v", err)
	}

	data = &models.SeedData{Flights: []models.FlightRecord{{OperatingAirline: "VS"}}}
	if _, err := Flatten(data, rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("expected error for missing flight_id")
	}

	data = &models.SeedData{Experiences: []models.ExperienceRecord{{Title: "Tour"}}}
	if _, err := Flatten(data, rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("expected error for missing experience_id")
	}
}

func TestFlatten_EmptySeed(t *testing.T) {
	items, err := Flatten(&models.SeedData{}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}
