package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lusohub/directory-api/internal/entity"
	"github.com/lusohub/directory-api/internal/querycache"
)

type mockAreasRepository struct {
	RegionsByPrefixFunc func(ctx context.Context, prefix string) ([]entity.AreaSuggestion, error)
	calls               int
	prefixes            []string
}

func (m *mockAreasRepository) RegionsByPrefix(ctx context.Context, prefix string) ([]entity.AreaSuggestion, error) {
	m.calls++
	m.prefixes = append(m.prefixes, prefix)
	return m.RegionsByPrefixFunc(ctx, prefix)
}

func newSuggestCache(t *testing.T) *querycache.Cache[[]entity.AreaSuggestion] {
	t.Helper()
	cache, err := querycache.New[[]entity.AreaSuggestion](querycache.Config{TTL: time.Hour, MaxEntries: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cache
}

func TestSuggest(t *testing.T) {
	repo := &mockAreasRepository{
		RegionsByPrefixFunc: func(ctx context.Context, prefix string) ([]entity.AreaSuggestion, error) {
			return []entity.AreaSuggestion{{Region: "Stockwell", Geohash: prefix}}, nil
		},
	}
	svc := NewSuggestService(repo, newSuggestCache(t), time.Second)

	suggestions, err := svc.Suggest(context.Background(), 51.4707, -0.1235)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].Region != "Stockwell" {
		t.Fatalf("unexpected suggestions: %+v", suggestions)
	}
	if len(repo.prefixes) != 1 || len(repo.prefixes[0]) != 5 {
		t.Fatalf("expected a five character geohash prefix, got %v", repo.prefixes)
	}
}

func TestSuggestCachesByBucket(t *testing.T) {
	repo := &mockAreasRepository{
		RegionsByPrefixFunc: func(ctx context.Context, prefix string) ([]entity.AreaSuggestion, error) {
			return []entity.AreaSuggestion{{Region: "Stockwell", Geohash: prefix}}, nil
		},
	}
	svc := NewSuggestService(repo, newSuggestCache(t), time.Second)

	// two coordinates inside the same bucket share one backend lookup
	if _, err := svc.Suggest(context.Background(), 51.4707, -0.1235); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Suggest(context.Background(), 51.4708, -0.1236); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected one backend call for nearby coordinates, got %d", repo.calls)
	}

	// a distant coordinate lands in its own bucket
	if _, err := svc.Suggest(context.Background(), 53.4808, -2.2426); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("expected a second backend call for a distant bucket, got %d", repo.calls)
	}
}

func TestSuggestRepositoryError(t *testing.T) {
	wantErr := errors.New("query failed")
	repo := &mockAreasRepository{
		RegionsByPrefixFunc: func(ctx context.Context, prefix string) ([]entity.AreaSuggestion, error) {
			return nil, wantErr
		},
	}
	svc := NewSuggestService(repo, newSuggestCache(t), time.Second)

	if _, err := svc.Suggest(context.Background(), 51.4707, -0.1235); !errors.Is(err, wantErr) {
		t.Fatalf("expected repository error surfaced, got %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected failed lookups not cached, got %d calls", repo.calls)
	}

	// second attempt hits the backend again
	if _, err := svc.Suggest(context.Background(), 51.4707, -0.1235); err == nil {
		t.Fatalf("expected error on retry")
	}
	if repo.calls != 2 {
		t.Fatalf("expected retry to reach the backend, got %d calls", repo.calls)
	}
}
