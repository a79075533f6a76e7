package advisor

import (
	"fmt"
	"strings"

	"github.com/voyagehq/itinera/internal/models"
)

// systemPrompt instructs the model to ground its advice in the retrieved seed
// data only and to answer in strict JSON matching the TravelAdvice shape.
const systemPrompt = `You are a helpful travel assistant. You MUST ONLY use the provided seed data
(hotels, flights, experiences) when recommending.

Return STRICT JSON matching this schema:

{
  "destination": "string",
  "reason": "string",
  "budget": "Low" | "Moderate" | "High",
  "tips": ["string", "string", "string"],
  "hotel": {
    "name": "string",
    "city": "string",
    "price_per_night": number,
    "rating": number
  },
  "flight": {
    "airline": "string",
    "from_airport": "string",
    "to_airport": "string",
    "price": number,
    "duration": "string",
    "date": "string"
  },
  "experience": {
    "name": "string",
    "city": "string",
    "price": number,
    "duration": "string"
  }
}

- All keys must be present, but "hotel", "flight", or "experience" can be null if no match is found.
- Use only the provided seed data for values.
- Do not include extra text before or after the JSON.`

// FormatContext renders a retrieval result as the seed-data block of the user
// message: one section per category in stable order, each item annotated with
// its distance so the model can weigh relevance.
func FormatContext(results models.RetrievalResult) string {
	var b strings.Builder
	for _, cat := range models.Categories {
		items, ok := results[cat]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", cat)
		for _, s := range items {
			fmt.Fprintf(&b, "  - [id: %s, distance: %.4f] %s\n", s.Item.ID, s.Distance, s.Item.Text)
		}
	}
	return b.String()
}

// userMessage builds the user turn from the raw query and formatted context.
func userMessage(query string, results models.RetrievalResult) string {
	return fmt.Sprintf("User query: %s\n\nRelevant seed data:\n%s", query, FormatContext(results))
}
