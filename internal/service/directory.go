package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lusohub/directory-api/internal/dto"
	"github.com/lusohub/directory-api/internal/entity"
	"github.com/lusohub/directory-api/internal/querycache"
	"github.com/lusohub/directory-api/internal/repository"
)

const (
	defaultLimit  = 20
	maxLimit      = 100
	featuredLimit = 6
)

// SearchResult is the unified payload returned for a directory search.
type SearchResult struct {
	Businesses []entity.Business `json:"businesses"`
	Total      int               `json:"total"`
	HasMore    bool              `json:"hasMore"`
	Filters    dto.SearchFilter  `json:"filters"`
}

// DirectoryService orchestrates cache, query builder and post-processor for
// directory reads.
type DirectoryService struct {
	repo          repository.BusinessesRepository
	cache         *querycache.Cache[SearchResult]
	queryTimeout  time.Duration
	slowThreshold time.Duration
	now           func() time.Time
}

// NewDirectoryService wires the search pipeline. The cache instance is owned
// by the caller so invalidation can be registered alongside other families.
func NewDirectoryService(repo repository.BusinessesRepository, cache *querycache.Cache[SearchResult], queryTimeout, slowThreshold time.Duration) *DirectoryService {
	return &DirectoryService{
		repo:          repo,
		cache:         cache,
		queryTimeout:  queryTimeout,
		slowThreshold: slowThreshold,
		now:           time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *DirectoryService) WithClock(now func() time.Time) *DirectoryService {
	s.now = now
	return s
}

// Search resolves a filter to a result list, consulting the cache first.
// With coordinates present the distance-bounded procedure runs; if it fails
// the relational path serves as fallback so the request still succeeds.
func (s *DirectoryService) Search(ctx context.Context, filter dto.SearchFilter) (SearchResult, error) {
	filter = normalize(filter)

	key := filter.CacheKey()
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	started := s.now()
	result, err := s.search(ctx, filter)
	if err != nil {
		return SearchResult{}, err
	}

	if elapsed := s.now().Sub(started); elapsed > s.slowThreshold {
		log.Printf("slow_search elapsed=%s rows=%d %s", elapsed, len(result.Businesses), filter)
	}

	s.cache.Set(key, result)
	return result, nil
}

func (s *DirectoryService) search(ctx context.Context, filter dto.SearchFilter) (SearchResult, error) {
	if filter.HasCoordinates() {
		qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
		rows, err := s.repo.FindNearby(qctx, filter)
		cancel()
		if err == nil {
			businesses := postProcess(rows, filter, s.now())
			// Once geo-bounded the page is the whole result set; no
			// further pagination is offered.
			return SearchResult{
				Businesses: businesses,
				Total:      len(businesses),
				HasMore:    false,
				Filters:    filter,
			}, nil
		}
		log.Printf("geo_search_failed falling back to relational path err=%v", err)
	}

	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	page, err := s.repo.Search(qctx, filter)
	if err != nil {
		return SearchResult{}, err
	}

	return SearchResult{
		Businesses: postProcess(page.Rows, filter, s.now()),
		Total:      page.Total,
		HasMore:    filter.Offset+filter.Limit < page.Total,
		Filters:    filter,
	}, nil
}

// Featured returns the currently promoted listings.
func (s *DirectoryService) Featured(ctx context.Context) ([]entity.Business, error) {
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.Featured(qctx, featuredLimit)
	if err != nil {
		return nil, err
	}
	return postProcess(rows, dto.SearchFilter{}, s.now()), nil
}

// BusinessByID fetches one listing with display fields resolved.
func (s *DirectoryService) BusinessByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	business, err := s.repo.FindByID(qctx, id)
	if err != nil {
		return nil, err
	}

	b := *business
	resolveDisplayFields(&b)
	open := IsOpenAt(b.OpeningHours, s.now())
	b.IsOpen = &open
	return &b, nil
}

// Categories lists category counts for the directory landing page.
func (s *DirectoryService) Categories(ctx context.Context) ([]entity.CategoryCount, error) {
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return s.repo.CategoryCounts(qctx)
}

func normalize(filter dto.SearchFilter) dto.SearchFilter {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.SortBy == "" {
		filter.SortBy = dto.SortFeatured
	}
	return filter
}
