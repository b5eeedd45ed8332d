package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lusohub/directory-api/internal/entity"
)

// AreasRepository resolves geohash prefixes to named regions.
type AreasRepository interface {
	RegionsByPrefix(ctx context.Context, prefix string) ([]entity.AreaSuggestion, error)
}

// PGXAreasRepository implements AreasRepository over the areas table.
type PGXAreasRepository struct {
	pool pgxPool
}

// NewPGXAreasRepository wires a pgx backed areas repository.
func NewPGXAreasRepository(pool *pgxpool.Pool) *PGXAreasRepository {
	return &PGXAreasRepository{pool: pool}
}

// RegionsByPrefix returns the regions whose geohash falls inside the given
// prefix bucket. The prefix-range trick matches every geohash that starts
// with the prefix.
func (r *PGXAreasRepository) RegionsByPrefix(ctx context.Context, prefix string) ([]entity.AreaSuggestion, error) {
	query := `
        SELECT DISTINCT region, geohash
        FROM areas
        WHERE geohash >= $1 AND geohash <= $1 || '~'
        ORDER BY region ASC
    `

	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("regions by prefix: %w (%v)", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var suggestions []entity.AreaSuggestion
	for rows.Next() {
		var s entity.AreaSuggestion
		if err := rows.Scan(&s.Region, &s.Geohash); err != nil {
			return nil, fmt.Errorf("scan area suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate area suggestions: %w (%v)", ErrBackendUnavailable, err)
	}
	return suggestions, nil
}
