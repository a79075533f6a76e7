package models

import (
	"fmt"
	"strings"
)

// TravelQuery is the inbound request body for the travel assistant endpoint.
type TravelQuery struct {
	Query string `json:"query"`
}

// Validate ensures the query is non-empty after trimming whitespace.
func (q *TravelQuery) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return fmt.Errorf("query cannot be empty")
	}
	return nil
}
