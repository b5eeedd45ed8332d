package service

import (
	"context"
	"time"

	"github.com/mmcloughlin/geohash"

	"github.com/lusohub/directory-api/internal/entity"
	"github.com/lusohub/directory-api/internal/querycache"
	"github.com/lusohub/directory-api/internal/repository"
)

// suggestPrecision keeps five geohash characters, roughly a 3 km bucket, so
// nearby coordinates share one cache entry.
const suggestPrecision = 5

// SuggestService resolves coordinates to named-region suggestions. It keeps
// its own cache family, fully independent of the search cache.
type SuggestService struct {
	repo         repository.AreasRepository
	cache        *querycache.Cache[[]entity.AreaSuggestion]
	queryTimeout time.Duration
}

// NewSuggestService wires the suggestion lookup.
func NewSuggestService(repo repository.AreasRepository, cache *querycache.Cache[[]entity.AreaSuggestion], queryTimeout time.Duration) *SuggestService {
	return &SuggestService{repo: repo, cache: cache, queryTimeout: queryTimeout}
}

// Suggest returns the regions near the given coordinates.
func (s *SuggestService) Suggest(ctx context.Context, lat, lng float64) ([]entity.AreaSuggestion, error) {
	prefix := geohash.EncodeWithPrecision(lat, lng, suggestPrecision)

	if cached, ok := s.cache.Get(prefix); ok {
		return cached, nil
	}

	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	suggestions, err := s.repo.RegionsByPrefix(qctx, prefix)
	if err != nil {
		return nil, err
	}

	s.cache.Set(prefix, suggestions)
	return suggestions, nil
}
