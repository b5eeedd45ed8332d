package entity

import (
	"time"

	"github.com/google/uuid"
)

// Business represents one listing in the community directory. Fields with a
// _pt suffix carry the Portuguese-language variant; the Display fields are
// resolved by the post-processor and never stored.
type Business struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	NamePT         *string           `json:"name_pt,omitempty"`
	Description    *string           `json:"description,omitempty"`
	DescriptionPT  *string           `json:"description_pt,omitempty"`
	Category       string            `json:"category"`
	Subcategory    *string           `json:"subcategory,omitempty"`
	Offerings      []string          `json:"offerings,omitempty"`
	Address        *string           `json:"address,omitempty"`
	Postcode       *string           `json:"postcode,omitempty"`
	Region         *string           `json:"region,omitempty"`
	Latitude       *float64          `json:"latitude,omitempty"`
	Longitude      *float64          `json:"longitude,omitempty"`
	Phone          *string           `json:"phone,omitempty"`
	Website        *string           `json:"website,omitempty"`
	PriceRange     *string           `json:"price_range,omitempty"`
	Verified       bool              `json:"verified"`
	Premium        bool              `json:"premium"`
	FeaturedUntil  *time.Time        `json:"featured_until,omitempty"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"review_count"`
	OpeningHours   map[string]string `json:"opening_hours,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	// Computed by the post-processor.
	NameDisplay        string   `json:"name_display"`
	DescriptionDisplay *string  `json:"description_display,omitempty"`
	PhoneDisplay       *string  `json:"phone_display,omitempty"`
	DistanceKm         *float64 `json:"distance_km,omitempty"`
	IsOpen             *bool    `json:"is_open,omitempty"`
}

// CategoryCount aggregates how many non-rejected listings share a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// AreaSuggestion names a region close to a set of coordinates.
type AreaSuggestion struct {
	Region  string `json:"region"`
	Geohash string `json:"geohash"`
}
