package types

import "time"

// Language is a culture that property values can vary by.
type Language struct {
	LanguageID string    `json:"language_id"` // UUID v7, generated on creation.
	IsoCode    string    `json:"iso_code"`    // Culture code such as "en-US" (required, unique).
	Name       string    `json:"name"`        // Display name (optional).
	CreatedAt  time.Time `json:"created_at"`  // Timestamp of creation.
}

// LanguageLookup resolves language ids for the XML export path.
type LanguageLookup interface {
	// GetLanguageByID returns the language with the given id.
	// Returns ErrNotFound if no language exists with that id.
	GetLanguageByID(id string) (*Language, error)
}
