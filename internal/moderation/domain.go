package moderation

import "time"

// RestrictedWord is a term blocked in rider chat and trip comments.
// Matching is case- and diacritic-insensitive.
type RestrictedWord struct {
	ID        string    `json:"id"`
	Word      string    `json:"word"`
	AddedBy   string    `json:"addedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScreenResult reports whether a text passed moderation and which
// restricted terms it contained.
type ScreenResult struct {
	Allowed bool     `json:"allowed"`
	Matches []string `json:"matches"`
}
