package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/lusohub/directory-api/internal/dto"
	"github.com/lusohub/directory-api/internal/entity"
)

// ErrBackendUnavailable indicates the database could not serve a query.
// Callers must be able to tell "no results" apart from "query failed", so a
// failed query never yields an empty list.
var ErrBackendUnavailable = errors.New("backend unavailable")

// ErrBusinessNotFound is returned when no listing matches the identifier.
var ErrBusinessNotFound = errors.New("business not found")

// RowKind tags which retrieval path produced a row.
type RowKind int

const (
	// KindRelational rows come from the filtered table query.
	KindRelational RowKind = iota
	// KindGeo rows come from the distance-bounded procedure and carry a
	// precomputed distance.
	KindGeo
)

// Row is the tagged union handed to the post-processor. DistanceKm is only
// meaningful for KindGeo.
type Row struct {
	Kind       RowKind
	Business   entity.Business
	DistanceKm float64
}

// SearchPage bundles one relational result page with its unpaginated total.
type SearchPage struct {
	Rows  []Row
	Total int
}

// BusinessesRepository describes the read operations of the directory.
type BusinessesRepository interface {
	Search(ctx context.Context, filter dto.SearchFilter) (SearchPage, error)
	FindNearby(ctx context.Context, filter dto.SearchFilter) ([]Row, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)
	Featured(ctx context.Context, limit int) ([]Row, error)
	CategoryCounts(ctx context.Context) ([]entity.CategoryCount, error)
}

type pgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGXBusinessesRepository implements BusinessesRepository using pgx.
type PGXBusinessesRepository struct {
	pool pgxPool
}

// NewPGXBusinessesRepository wires a pgx backed repository.
func NewPGXBusinessesRepository(pool *pgxpool.Pool) *PGXBusinessesRepository {
	return &PGXBusinessesRepository{pool: pool}
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const businessColumns = `
            id,
            name,
            name_pt,
            description,
            description_pt,
            category,
            subcategory,
            offerings,
            address,
            postcode,
            region,
            CASE WHEN location IS NOT NULL THEN ST_X(location::geometry) END AS longitude,
            CASE WHEN location IS NOT NULL THEN ST_Y(location::geometry) END AS latitude,
            phone,
            website,
            price_range,
            verified_status,
            is_premium,
            featured_until,
            rating,
            review_count,
            opening_hours,
            created_at,
            updated_at
`

// buildClauses translates the filter into WHERE predicates with positional
// args. Only verified listings are visible on the public read path.
func buildClauses(filter dto.SearchFilter) ([]string, []any) {
	clauses := []string{"verified_status IN ('verified', 'premium')"}
	var args []any
	idx := 1

	if q := strings.TrimSpace(filter.Search); q != "" {
		pattern := fmt.Sprintf("%%%s%%", q)
		cols := []string{"name", "name_pt", "description", "description_pt", "subcategory", "array_to_string(offerings, ' ')"}
		parts := make([]string, 0, len(cols))
		for _, col := range cols {
			parts = append(parts, fmt.Sprintf("%s ILIKE $%d", col, idx))
			args = append(args, pattern)
			idx++
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}
	if len(filter.Categories) > 0 {
		clauses = append(clauses, fmt.Sprintf("category = ANY($%d)", idx))
		args = append(args, filter.Categories)
		idx++
	}
	if len(filter.Regions) > 0 {
		clauses = append(clauses, fmt.Sprintf("region = ANY($%d)", idx))
		args = append(args, filter.Regions)
		idx++
	}
	if len(filter.PriceRanges) > 0 {
		clauses = append(clauses, fmt.Sprintf("price_range = ANY($%d)", idx))
		args = append(args, filter.PriceRanges)
		idx++
	}

	return clauses, args
}

// sortClause maps a sort mode onto its ORDER BY expression, tie-breaks
// included. featured is the default mode.
func sortClause(sortBy string) string {
	switch sortBy {
	case dto.SortRating:
		return "rating DESC NULLS LAST"
	case dto.SortNewest:
		return "created_at DESC"
	case dto.SortAlphabetical:
		return "name ASC"
	default:
		return "is_premium DESC, rating DESC NULLS LAST, review_count DESC NULLS LAST"
	}
}

// Search runs the relational path: one filtered page query and one count
// query over the same predicates, issued concurrently.
func (r *PGXBusinessesRepository) Search(ctx context.Context, filter dto.SearchFilter) (SearchPage, error) {
	clauses, args := buildClauses(filter)
	where := " WHERE " + strings.Join(clauses, " AND ")

	pageQuery := strings.Builder{}
	pageQuery.WriteString("SELECT " + businessColumns + " FROM businesses")
	pageQuery.WriteString(where)
	pageQuery.WriteString(" ORDER BY ")
	pageQuery.WriteString(sortClause(filter.SortBy))
	pageQuery.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))

	pageArgs := append(append([]any{}, args...), filter.Limit, filter.Offset)
	countQuery := "SELECT COUNT(*) FROM businesses" + where

	var (
		page  SearchPage
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.pool.Query(gctx, pageQuery.String(), pageArgs...)
		if err != nil {
			return fmt.Errorf("list businesses: %w (%v)", ErrBackendUnavailable, err)
		}
		defer rows.Close()
		scanned, err := scanBusinessRows(rows, KindRelational)
		if err != nil {
			return err
		}
		page.Rows = scanned
		return nil
	})
	g.Go(func() error {
		if err := r.pool.QueryRow(gctx, countQuery, args...).Scan(&total); err != nil {
			return fmt.Errorf("count businesses: %w (%v)", ErrBackendUnavailable, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return SearchPage{}, err
	}

	page.Total = total
	return page, nil
}

// FindNearby invokes the distance-bounded procedure. Rows come back
// pre-sorted by distance; this path is not paginated, so the caller's offset
// is not applied.
func (r *PGXBusinessesRepository) FindNearby(ctx context.Context, filter dto.SearchFilter) ([]Row, error) {
	radius := 10.0
	if filter.RadiusKm != nil {
		radius = *filter.RadiusKm
	}

	var categories any
	if len(filter.Categories) > 0 {
		categories = filter.Categories
	}

	query := `
        SELECT ` + businessColumns + `, distance_km
        FROM find_nearby_businesses($1, $2, $3, $4, $5)
    `

	rows, err := r.pool.Query(ctx, query, *filter.Latitude, *filter.Longitude, radius, categories, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("nearby businesses: %w (%v)", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	return scanBusinessRows(rows, KindGeo)
}

// FindByID fetches one listing regardless of verification status.
func (r *PGXBusinessesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	query := "SELECT " + businessColumns + " FROM businesses WHERE id = $1"

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("fetch business: %w (%v)", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	scanned, err := scanBusinessRows(rows, KindRelational)
	if err != nil {
		return nil, err
	}
	if len(scanned) == 0 {
		return nil, ErrBusinessNotFound
	}
	return &scanned[0].Business, nil
}

// Featured returns premium listings whose featured window has not expired.
func (r *PGXBusinessesRepository) Featured(ctx context.Context, limit int) ([]Row, error) {
	query := "SELECT " + businessColumns + ` FROM businesses
        WHERE verified_status = 'premium' AND featured_until >= NOW()
        ORDER BY rating DESC NULLS LAST
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("featured businesses: %w (%v)", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	return scanBusinessRows(rows, KindRelational)
}

// CategoryCounts aggregates listings per category, rejected ones excluded.
func (r *PGXBusinessesRepository) CategoryCounts(ctx context.Context) ([]entity.CategoryCount, error) {
	query := `
        SELECT category, COUNT(*) AS total
        FROM businesses
        WHERE verified_status <> 'rejected'
        GROUP BY category
        ORDER BY total DESC, category ASC
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w (%v)", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var counts []entity.CategoryCount
	for rows.Next() {
		var c entity.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w (%v)", ErrBackendUnavailable, err)
	}
	return counts, nil
}

func scanBusinessRows(rows pgx.Rows, kind RowKind) ([]Row, error) {
	var result []Row
	for rows.Next() {
		var (
			b             entity.Business
			namePT        sql.NullString
			description   sql.NullString
			descriptionPT sql.NullString
			subcategory   sql.NullString
			offerings     []string
			address       sql.NullString
			postcode      sql.NullString
			region        sql.NullString
			longitude     sql.NullFloat64
			latitude      sql.NullFloat64
			phone         sql.NullString
			website       sql.NullString
			priceRange    sql.NullString
			status        string
			premium       bool
			featuredUntil sql.NullTime
			rating        sql.NullFloat64
			reviews       sql.NullInt64
			hoursJSON     []byte
			distance      float64
		)

		dest := []any{
			&b.ID,
			&b.Name,
			&namePT,
			&description,
			&descriptionPT,
			&b.Category,
			&subcategory,
			&offerings,
			&address,
			&postcode,
			&region,
			&longitude,
			&latitude,
			&phone,
			&website,
			&priceRange,
			&status,
			&premium,
			&featuredUntil,
			&rating,
			&reviews,
			&hoursJSON,
			&b.CreatedAt,
			&b.UpdatedAt,
		}
		if kind == KindGeo {
			dest = append(dest, &distance)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}

		b.NamePT = nullStringPtr(namePT)
		b.Description = nullStringPtr(description)
		b.DescriptionPT = nullStringPtr(descriptionPT)
		b.Subcategory = nullStringPtr(subcategory)
		if len(offerings) > 0 {
			b.Offerings = append([]string(nil), offerings...)
		}
		b.Address = nullStringPtr(address)
		b.Postcode = nullStringPtr(postcode)
		b.Region = nullStringPtr(region)
		if longitude.Valid {
			val := longitude.Float64
			b.Longitude = &val
		}
		if latitude.Valid {
			val := latitude.Float64
			b.Latitude = &val
		}
		b.Phone = nullStringPtr(phone)
		b.Website = nullStringPtr(website)
		b.PriceRange = nullStringPtr(priceRange)
		b.Verified = status == "verified" || status == "premium"
		b.Premium = premium || status == "premium"
		if featuredUntil.Valid {
			ts := featuredUntil.Time
			b.FeaturedUntil = &ts
		}
		if rating.Valid {
			b.Rating = rating.Float64
		}
		if reviews.Valid {
			b.ReviewCount = int(reviews.Int64)
		}
		if len(hoursJSON) > 0 {
			// Malformed hours payloads degrade to "no hours" rather than
			// failing the whole page.
			_ = json.Unmarshal(hoursJSON, &b.OpeningHours)
		}

		result = append(result, Row{Kind: kind, Business: b, DistanceKm: distance})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate businesses: %w (%v)", ErrBackendUnavailable, err)
	}
	return result, nil
}

func nullStringPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}
