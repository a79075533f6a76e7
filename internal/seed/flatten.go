package seed

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/voyagehq/itinera/internal/models"
)

// Placeholder price ranges used when a record has no price. The value only
// keeps the flattened text from having a blank field; it never feeds into
// vector math directly.
const (
	hotelPriceMin  = 40
	hotelPriceMax  = 500
	flightPriceMin = 150
	flightPriceMax = 1500
)

// Flatten converts every seed record across all categories into a FlatItem,
// in category order (hotels, flights, experiences) preserving record order
// within each category. Records missing their natural id are an error: an item
// without a stable id cannot be traced back to its source record. rng supplies
// placeholder prices; pass a seeded source for deterministic output, or nil
// for a time-seeded one.
func Flatten(data *models.SeedData, rng *rand.Rand) ([]models.FlatItem, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	items := make([]models.FlatItem, 0, data.Total())

	for i, r := range data.Hotels {
		if r.HotelID == "" {
			return nil, fmt.Errorf("hotel record %d: missing hotel_id", i)
		}
		price := priceOrPlaceholder(r.RoomPrice, rng, hotelPriceMin, hotelPriceMax)
		text := fmt.Sprintf("name: %s - city: %s - price_per_night: %s - rating: %s - amenities: %s",
			r.HotelName, r.City, price, formatFloat(r.Rating), strings.Join(r.Amenities, ", "))
		items = append(items, models.FlatItem{ID: r.HotelID, Category: models.CategoryHotels, Text: text})
	}

	for i, r := range data.Flights {
		if r.FlightID == "" {
			return nil, fmt.Errorf("flight record %d: missing flight_id", i)
		}
		price := priceOrPlaceholder(r.Price, rng, flightPriceMin, flightPriceMax)
		text := fmt.Sprintf("airline: %s - from_airport: %s - to_airport: %s - duration: %s - date: %s - price: %s",
			r.OperatingAirline, r.CityDepart, r.CityArrive, r.FlightDuration, r.DepartDate, price)
		items = append(items, models.FlatItem{ID: r.FlightID, Category: models.CategoryFlights, Text: text})
	}

	for i, r := range data.Experiences {
		if r.ExperienceID == "" {
			return nil, fmt.Errorf("experience record %d: missing experience_id", i)
		}
		price := ""
		if r.BasePrice != nil {
			price = formatFloat(*r.BasePrice)
		}
		text := fmt.Sprintf("name: %s - city: %s - price: %s - duration: %s - tags: %s",
			r.Title, r.City, price, formatFloat(r.DurationHours), strings.Join(r.Tags, ", "))
		items = append(items, models.FlatItem{ID: r.ExperienceID, Category: models.CategoryExperiences, Text: text})
	}

	return items, nil
}

// priceOrPlaceholder formats the record price, or draws a uniform placeholder
// in [min, max] when the record has none.
func priceOrPlaceholder(price *float64, rng *rand.Rand, min, max int) string {
	if price != nil {
		return formatFloat(*price)
	}
	return strconv.Itoa(min + rng.Intn(max-min+1))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
