package models

// FlatItem is the normalized text-plus-identity form of one seed record. It is
// the unit that gets embedded and indexed. Text is never empty; items are created
// once at index-build time and never mutated afterwards.
type FlatItem struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// ScoredItem is a retrieval hit: a flat item annotated with its squared L2
// distance from the query vector.
type ScoredItem struct {
	Item     FlatItem `json:"item"`
	Distance float32  `json:"distance"`
}

// RetrievalResult maps each category to its nearest items, ascending by
// distance, at most k per category. Categories with no hits in the candidate
// pool are absent from the map.
type RetrievalResult map[Category][]ScoredItem
