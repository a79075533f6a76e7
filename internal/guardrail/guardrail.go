// Package guardrail filters inbound queries against a deny-list before any
// embedding or retrieval work happens.
package guardrail

import (
	"errors"
	"strings"
)

// ErrBanned marks a query rejected by the deny-list. Handlers map it to a
// client error.
var ErrBanned = errors.New("query not allowed, please ask a travel planning question")

// defaultBannedTerms is a plain substring deny-list, not a learned classifier.
var defaultBannedTerms = []string{"visa", "immigration advice", "illegal", "fraud"}

// Filter rejects queries containing any banned term.
type Filter struct {
	terms []string
}

// NewFilter creates a filter with the given terms, lowercased for
// case-insensitive matching. With no terms, the default deny-list is used.
func NewFilter(terms ...string) *Filter {
	if len(terms) == 0 {
		terms = defaultBannedTerms
	}
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}
	return &Filter{terms: lowered}
}

// Enforce returns ErrBanned if query contains any banned term,
// case-insensitively; otherwise nil.
func (f *Filter) Enforce(query string) error {
	q := strings.ToLower(query)
	for _, term := range f.terms {
		if strings.Contains(q, term) {
			return ErrBanned
		}
	}
	return nil
}
