package models

import (
	"time"
)

// Perfume is a catalog entry. The catalog is read-mostly: entries are
// imported in bulk and looked up by key during answer processing.
type Perfume struct {
	ID    string `json:"id" gorm:"primaryKey"`
	Key   string `json:"key" gorm:"uniqueIndex"`
	Name  string `json:"name"`
	Brand string `json:"brand" gorm:"index"`

	Family      string   `json:"family" gorm:"index"`
	Subfamilies []string `json:"subfamilies" gorm:"serializer:json"`

	TopNotes   []string `json:"top_notes" gorm:"serializer:json"`
	HeartNotes []string `json:"heart_notes" gorm:"serializer:json"`
	BaseNotes  []string `json:"base_notes" gorm:"serializer:json"`

	Intensity  string `json:"intensity"`  // "low", "medium", "high", "very_high"
	Duration   string `json:"duration"`   // "short", "moderate", "long", "very_long"
	Projection string `json:"projection"` // "low", "moderate", "high", "explosive"
	Gender     string `json:"gender"`     // "male", "female", "unisex"
	Price      string `json:"price"`      // "low", "medium", "high", "luxury"

	Popularity float64 `json:"popularity"` // 0-10 scale

	Occasions          []string `json:"occasions" gorm:"serializer:json"`
	RecommendedSeasons []string `json:"recommended_seasons" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AllNotes returns the union of the perfume's top, heart and base notes.
func (p Perfume) AllNotes() []string {
	notes := make([]string, 0, len(p.TopNotes)+len(p.HeartNotes)+len(p.BaseNotes))
	notes = append(notes, p.TopNotes...)
	notes = append(notes, p.HeartNotes...)
	notes = append(notes, p.BaseNotes...)
	return notes
}
