// Package models defines core data structures for seed records, flattened items,
// queries, retrieval results, and generated travel advice.
package models

// Category identifies which seed catalogue an item came from. Values match the
// keys used in the persisted metadata file.
type Category string

const (
	CategoryHotels      Category = "hotels"
	CategoryFlights     Category = "flights"
	CategoryExperiences Category = "experiences"
)

// Categories lists all known categories in a stable order.
var Categories = []Category{CategoryHotels, CategoryFlights, CategoryExperiences}

// HotelRecord is a raw hotel entry from the seed catalogue.
// RoomPrice is optional; a placeholder is synthesized at flatten time when absent.
type HotelRecord struct {
	HotelID   string   `json:"hotel_id"`
	HotelName string   `json:"hotel_name"`
	City      string   `json:"city"`
	RoomPrice *float64 `json:"room_price,omitempty"`
	Rating    float64  `json:"rating,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
}

// FlightRecord is a raw flight entry from the seed catalogue.
type FlightRecord struct {
	FlightID         string   `json:"flight_id"`
	OperatingAirline string   `json:"operating_airline"`
	CityDepart       string   `json:"city_depart"`
	CityArrive       string   `json:"city_arrive"`
	FlightDuration   string   `json:"flight_duration,omitempty"`
	DepartDate       string   `json:"depart_date,omitempty"`
	Price            *float64 `json:"price,omitempty"`
}

// ExperienceRecord is a raw experience entry from the seed catalogue.
type ExperienceRecord struct {
	ExperienceID  string   `json:"experience_id"`
	Title         string   `json:"title"`
	City          string   `json:"city"`
	BasePrice     *float64 `json:"base_price,omitempty"`
	DurationHours float64  `json:"duration_hours,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// SeedData holds all raw records loaded from the seed directory.
// A category whose source file is absent has an empty slice.
type SeedData struct {
	Hotels      []HotelRecord
	Flights     []FlightRecord
	Experiences []ExperienceRecord
}

// Total returns the number of records across all categories.
func (s *SeedData) Total() int {
	return len(s.Hotels) + len(s.Flights) + len(s.Experiences)
}
