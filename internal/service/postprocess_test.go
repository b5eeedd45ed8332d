package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lusohub/directory-api/internal/dto"
	"github.com/lusohub/directory-api/internal/entity"
	"github.com/lusohub/directory-api/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestResolveDisplayFields(t *testing.T) {
	b := entity.Business{
		Name:          "Lisbon Bakery",
		NamePT:        strPtr("Padaria de Lisboa"),
		Description:   strPtr("Fresh bread"),
		DescriptionPT: strPtr("Pão fresco"),
	}
	resolveDisplayFields(&b)

	if b.NameDisplay != "Padaria de Lisboa" {
		t.Fatalf("expected portuguese name preferred, got %q", b.NameDisplay)
	}
	if b.DescriptionDisplay == nil || *b.DescriptionDisplay != "Pão fresco" {
		t.Fatalf("expected portuguese description preferred, got %v", b.DescriptionDisplay)
	}
}

func TestResolveDisplayFieldsFallback(t *testing.T) {
	b := entity.Business{Name: "Lisbon Bakery", NamePT: strPtr(""), Description: strPtr("Fresh bread")}
	resolveDisplayFields(&b)

	if b.NameDisplay != "Lisbon Bakery" {
		t.Fatalf("expected fallback to default name, got %q", b.NameDisplay)
	}
	if b.DescriptionDisplay == nil || *b.DescriptionDisplay != "Fresh bread" {
		t.Fatalf("expected fallback description, got %v", b.DescriptionDisplay)
	}
}

func TestResolveDisplayFieldsPhone(t *testing.T) {
	b := entity.Business{Name: "Shop", Phone: strPtr("+442071234567")}
	resolveDisplayFields(&b)

	if b.PhoneDisplay == nil || *b.PhoneDisplay != "020 7123 4567" {
		t.Fatalf("expected national formatting, got %v", b.PhoneDisplay)
	}

	invalid := entity.Business{Name: "Shop", Phone: strPtr("not-a-number")}
	resolveDisplayFields(&invalid)
	if invalid.PhoneDisplay != nil {
		t.Fatalf("expected no display number for unparseable input, got %v", invalid.PhoneDisplay)
	}
}

func TestMatchesGeoFilters(t *testing.T) {
	b := entity.Business{
		Name:     "Mercearia Central",
		NamePT:   strPtr("Mercearia Central de Londres"),
		Address:  strPtr("12 High Street, Stockwell"),
		Region:   strPtr("London"),
		Category: "food",
	}

	tests := []struct {
		name   string
		filter dto.SearchFilter
		want   bool
	}{
		{"no filters", dto.SearchFilter{}, true},
		{"search in name", dto.SearchFilter{Search: "mercearia"}, true},
		{"search in address", dto.SearchFilter{Search: "stockwell"}, true},
		{"search misses", dto.SearchFilter{Search: "pharmacy"}, false},
		{"region matches fold", dto.SearchFilter{Regions: []string{"london"}}, true},
		{"region misses", dto.SearchFilter{Regions: []string{"Manchester"}}, false},
		{"category matches", dto.SearchFilter{Categories: []string{"Food"}}, true},
		{"category misses", dto.SearchFilter{Categories: []string{"services"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesGeoFilters(b, tt.filter); got != tt.want {
				t.Fatalf("matchesGeoFilters = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesGeoFiltersNilRegion(t *testing.T) {
	b := entity.Business{Name: "Shop", Category: "food"}
	if matchesGeoFilters(b, dto.SearchFilter{Regions: []string{"London"}}) {
		t.Fatalf("expected listing without region to fail a region filter")
	}
}

func TestPostProcessGeoRows(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	rows := []repository.Row{
		{Kind: repository.KindGeo, Business: entity.Business{ID: uuid.New(), Name: "Padaria", Category: "food"}, DistanceKm: 0.4},
		{Kind: repository.KindGeo, Business: entity.Business{ID: uuid.New(), Name: "Talho", Category: "food"}, DistanceKm: 3.1},
	}

	result := postProcess(rows, dto.SearchFilter{Search: "padaria"}, now)
	if len(result) != 1 {
		t.Fatalf("expected text filter applied to geo rows, got %d", len(result))
	}
	if result[0].DistanceKm == nil || *result[0].DistanceKm != 0.4 {
		t.Fatalf("expected distance set, got %v", result[0].DistanceKm)
	}
}

func TestPostProcessDoesNotMutateInput(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	rows := []repository.Row{{
		Kind:     repository.KindRelational,
		Business: entity.Business{ID: uuid.New(), Name: "Shop", NamePT: strPtr("Loja")},
	}}

	postProcess(rows, dto.SearchFilter{}, now)
	if rows[0].Business.NameDisplay != "" {
		t.Fatalf("expected input row untouched, got display %q", rows[0].Business.NameDisplay)
	}
}
