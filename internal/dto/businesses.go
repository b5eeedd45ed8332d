package dto

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Sort modes accepted by the directory search endpoint.
const (
	SortFeatured     = "featured"
	SortRating       = "rating"
	SortNewest       = "newest"
	SortAlphabetical = "alphabetical"
)

// SearchFilter contains the caller-supplied criteria for a directory search.
// A filter is built once per request and never mutated afterwards.
type SearchFilter struct {
	Search      string   `json:"search,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Regions     []string `json:"regions,omitempty"`
	PriceRanges []string `json:"priceRanges,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	RadiusKm    *float64 `json:"radius,omitempty"`
	SortBy      string   `json:"sortBy,omitempty"`
	OpenNow     bool     `json:"openNow,omitempty"`
	Limit       int      `json:"limit"`
	Offset      int      `json:"offset"`
}

// HasCoordinates reports whether the filter selects the geo retrieval path.
func (f SearchFilter) HasCoordinates() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// ValidSort reports whether the requested sort mode is one the API supports.
func (f SearchFilter) ValidSort() bool {
	switch f.SortBy {
	case "", SortFeatured, SortRating, SortNewest, SortAlphabetical:
		return true
	}
	return false
}

const keySeparator = "::"

// CacheKey serializes the filter into a deterministic cache key. Field order
// is fixed, absent optional fields are omitted, and multi-value fields are
// sorted, so two filters with identical values always share a key no matter
// how they were constructed.
func (f SearchFilter) CacheKey() string {
	parts := make([]string, 0, 12)

	if f.Search != "" {
		parts = append(parts, "q="+strings.ToLower(strings.TrimSpace(f.Search)))
	}
	if len(f.Categories) > 0 {
		parts = append(parts, "cat="+joinSorted(f.Categories))
	}
	if len(f.Regions) > 0 {
		parts = append(parts, "reg="+joinSorted(f.Regions))
	}
	if len(f.PriceRanges) > 0 {
		parts = append(parts, "price="+joinSorted(f.PriceRanges))
	}
	if f.Latitude != nil {
		parts = append(parts, "lat="+formatCoord(*f.Latitude))
	}
	if f.Longitude != nil {
		parts = append(parts, "lng="+formatCoord(*f.Longitude))
	}
	if f.RadiusKm != nil {
		parts = append(parts, "radius="+formatCoord(*f.RadiusKm))
	}
	if f.SortBy != "" {
		parts = append(parts, "sort="+f.SortBy)
	}
	if f.OpenNow {
		parts = append(parts, "open=1")
	}
	parts = append(parts, "limit="+strconv.Itoa(f.Limit), "offset="+strconv.Itoa(f.Offset))

	return strings.Join(parts, keySeparator)
}

func joinSorted(values []string) string {
	copied := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			copied = append(copied, v)
		}
	}
	sort.Strings(copied)
	return strings.Join(copied, ",")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String implements fmt.Stringer for log lines.
func (f SearchFilter) String() string {
	return fmt.Sprintf("filter{%s}", f.CacheKey())
}
