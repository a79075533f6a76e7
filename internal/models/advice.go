package models

// TravelAdvice is the structured response produced by the advice generator.
// Validation tags enforce the generation contract: all top-level fields present,
// budget one of three levels, exactly three tips. The per-category
// recommendations are optional and nil when the model found no match.
type TravelAdvice struct {
	Destination string                    `json:"destination" validate:"required"`
	Reason      string                    `json:"reason" validate:"required"`
	Budget      string                    `json:"budget" validate:"required,oneof=Low Moderate High"`
	Tips        []string                  `json:"tips" validate:"required,len=3,dive,required"`
	Hotel       *HotelRecommendation      `json:"hotel,omitempty"`
	Flight      *FlightRecommendation     `json:"flight,omitempty"`
	Experience  *ExperienceRecommendation `json:"experience,omitempty"`
}

// HotelRecommendation is the hotel portion of generated advice.
type HotelRecommendation struct {
	Name          string  `json:"name" validate:"required"`
	City          string  `json:"city" validate:"required"`
	PricePerNight float64 `json:"price_per_night"`
	Rating        float64 `json:"rating"`
}

// FlightRecommendation is the flight portion of generated advice.
type FlightRecommendation struct {
	Airline     string  `json:"airline" validate:"required"`
	FromAirport string  `json:"from_airport" validate:"required"`
	ToAirport   string  `json:"to_airport" validate:"required"`
	Price       float64 `json:"price"`
	Duration    string  `json:"duration"`
	Date        string  `json:"date"`
}

// ExperienceRecommendation is the experience portion of generated advice.
type ExperienceRecommendation struct {
	Name     string  `json:"name" validate:"required"`
	City     string  `json:"city" validate:"required"`
	Price    float64 `json:"price"`
	Duration string  `json:"duration"`
}
