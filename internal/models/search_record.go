package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxPhraseLength is the longest phrase the store accepts.
const MaxPhraseLength = 1000

// SearchRecord tracks how often a phrase has been searched and when it was last searched.
type SearchRecord struct {
	ID             uuid.UUID `json:"id"`
	Phrase         string    `json:"phrase"` // always lowercase
	Count          int64     `json:"count"`
	LastSearchedAt time.Time `json:"last_searched_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// String returns the phrase.
func (r *SearchRecord) String() string {
	return r.Phrase
}
