package service

import (
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/lusohub/directory-api/internal/dto"
	"github.com/lusohub/directory-api/internal/entity"
	"github.com/lusohub/directory-api/internal/repository"
)

// phoneRegion is the default region used when formatting listing phone
// numbers for display.
const phoneRegion = "GB"

// postProcess normalizes rows from either retrieval path into Business
// records and applies the filters the backend query could not express. Input
// rows are never mutated; every record returned is a fresh copy.
func postProcess(rows []repository.Row, filter dto.SearchFilter, now time.Time) []entity.Business {
	result := make([]entity.Business, 0, len(rows))
	for _, row := range rows {
		b := row.Business

		switch row.Kind {
		case repository.KindGeo:
			// The procedure only supports distance and category bounds;
			// search text and region filters run here.
			if !matchesGeoFilters(b, filter) {
				continue
			}
			distance := row.DistanceKm
			b.DistanceKm = &distance
		case repository.KindRelational:
			// All declared filters were pushed into the query.
		}

		resolveDisplayFields(&b)

		if filter.OpenNow {
			open := IsOpenAt(b.OpeningHours, now)
			b.IsOpen = &open
			if !open {
				continue
			}
		}

		result = append(result, b)
	}
	return result
}

// resolveDisplayFields prefers the Portuguese variant when present and falls
// back to the default-language field, and formats the phone number for the
// configured region.
func resolveDisplayFields(b *entity.Business) {
	b.NameDisplay = b.Name
	if b.NamePT != nil && *b.NamePT != "" {
		b.NameDisplay = *b.NamePT
	}

	b.DescriptionDisplay = b.Description
	if b.DescriptionPT != nil && *b.DescriptionPT != "" {
		b.DescriptionDisplay = b.DescriptionPT
	}

	if b.Phone != nil {
		if num, err := phonenumbers.Parse(*b.Phone, phoneRegion); err == nil && phonenumbers.IsValidNumber(num) {
			formatted := phonenumbers.Format(num, phonenumbers.NATIONAL)
			b.PhoneDisplay = &formatted
		}
	}
}

// matchesGeoFilters applies the case-insensitive substring and inclusion
// filters over geo-procedure rows in process.
func matchesGeoFilters(b entity.Business, filter dto.SearchFilter) bool {
	if q := strings.ToLower(strings.TrimSpace(filter.Search)); q != "" {
		var haystack strings.Builder
		haystack.WriteString(b.Name)
		if b.NamePT != nil {
			haystack.WriteByte(' ')
			haystack.WriteString(*b.NamePT)
		}
		if b.Address != nil {
			haystack.WriteByte(' ')
			haystack.WriteString(*b.Address)
		}
		if !strings.Contains(strings.ToLower(haystack.String()), q) {
			return false
		}
	}
	if len(filter.Regions) > 0 {
		if b.Region == nil || !containsFold(filter.Regions, *b.Region) {
			return false
		}
	}
	if len(filter.Categories) > 0 && !containsFold(filter.Categories, b.Category) {
		return false
	}
	return true
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
