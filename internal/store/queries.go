package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Occupation is a stored occupation row.
type Occupation struct {
	ID        int64
	Code      string
	Title     string
	Group     string
	Slug      string
	Indexable bool
}

// Metro is a stored metro-area row.
type Metro struct {
	ID        int64
	AreaCode  string
	AreaTitle string
	Slug      string
	StateAbbr *string
	Indexable bool
}

// SalaryRow is one indexable fact joined with its counterpart entity's
// display fields, as consumed by occupation and metro pages.
type SalaryRow struct {
	Title   string
	Slug    string
	TotEmp  *int64
	AMedian *float64
	AMean   *float64
	Score   float64
}

// EntityStats aggregates the indexable facts under one occupation or metro.
type EntityStats struct {
	AvgMedian *float64
	MinMedian *float64
	MaxMedian *float64
	TotalEmp  *int64
	FactCount int64
}

// OccupationHit is one occupation search result.
type OccupationHit struct {
	Title     string
	Slug      string
	AvgMedian *float64
}

// MetroHit is one location search result.
type MetroHit struct {
	AreaTitle string
	Slug      string
	StateAbbr *string
}

// SalaryPageHit is one combined occupation+location search result.
type SalaryPageHit struct {
	OccTitle  string
	OccSlug   string
	AreaTitle string
	MetroSlug string
	AMedian   *float64
}

// SlugPair identifies one salary page URL.
type SlugPair struct {
	OccSlug   string
	MetroSlug string
}

// OccupationBySlug looks up one occupation. Returns ErrNotFound when absent.
func (s *Store) OccupationBySlug(ctx context.Context, slug string) (Occupation, error) {
	var occ Occupation
	err := s.withRetry(ctx, func() error {
		row := s.db.QueryRow(ctx, `
			SELECT id, occ_code, occ_title, occ_group, slug, is_indexable
			FROM occupations WHERE slug = $1`, slug)
		return row.Scan(&occ.ID, &occ.Code, &occ.Title, &occ.Group, &occ.Slug, &occ.Indexable)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Occupation{}, ErrNotFound
		}
		return Occupation{}, fmt.Errorf("occupation by slug: %w", err)
	}
	return occ, nil
}

// MetroBySlug looks up one metro area. Returns ErrNotFound when absent.
func (s *Store) MetroBySlug(ctx context.Context, slug string) (Metro, error) {
	var m Metro
	err := s.withRetry(ctx, func() error {
		row := s.db.QueryRow(ctx, `
			SELECT id, area_code, area_title, slug, state_abbr, is_indexable
			FROM metros WHERE slug = $1`, slug)
		return row.Scan(&m.ID, &m.AreaCode, &m.AreaTitle, &m.Slug, &m.StateAbbr, &m.Indexable)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Metro{}, ErrNotFound
		}
		return Metro{}, fmt.Errorf("metro by slug: %w", err)
	}
	return m, nil
}

// SalariesForOccupation lists indexable facts for one occupation across
// metros, most significant first.
func (s *Store) SalariesForOccupation(ctx context.Context, occupationID int64, limit int) ([]SalaryRow, error) {
	return s.salaryRows(ctx, `
		SELECT m.area_title, m.slug, sd.tot_emp, sd.a_median, sd.a_mean, sd.dqs
		FROM salary_data sd
		JOIN metros m ON sd.metro_id = m.id
		WHERE sd.occupation_id = $1 AND sd.is_indexable = TRUE
		ORDER BY sd.tot_emp DESC NULLS LAST, sd.id
		LIMIT $2`, occupationID, limit)
}

// SalariesForMetro lists indexable facts for one metro across occupations.
func (s *Store) SalariesForMetro(ctx context.Context, metroID int64, limit int) ([]SalaryRow, error) {
	return s.salaryRows(ctx, `
		SELECT o.occ_title, o.slug, sd.tot_emp, sd.a_median, sd.a_mean, sd.dqs
		FROM salary_data sd
		JOIN occupations o ON sd.occupation_id = o.id
		WHERE sd.metro_id = $1 AND sd.is_indexable = TRUE
		ORDER BY sd.tot_emp DESC NULLS LAST, sd.id
		LIMIT $2`, metroID, limit)
}

func (s *Store) salaryRows(ctx context.Context, query string, args ...any) ([]SalaryRow, error) {
	var out []SalaryRow
	err := s.withRetry(ctx, func() error {
		rows, err := s.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var r SalaryRow
			if err := rows.Scan(&r.Title, &r.Slug, &r.TotEmp, &r.AMedian, &r.AMean, &r.Score); err != nil {
				return err
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list salary rows: %w", err)
	}
	return out, nil
}

// OccupationStats aggregates the indexable facts under one occupation.
func (s *Store) OccupationStats(ctx context.Context, occupationID int64) (EntityStats, error) {
	return s.entityStats(ctx, `
		SELECT ROUND(AVG(a_median)::numeric, 0), MIN(a_median), MAX(a_median),
			SUM(tot_emp), COUNT(*)
		FROM salary_data
		WHERE occupation_id = $1 AND is_indexable = TRUE`, occupationID)
}

// MetroStats aggregates the indexable facts under one metro.
func (s *Store) MetroStats(ctx context.Context, metroID int64) (EntityStats, error) {
	return s.entityStats(ctx, `
		SELECT ROUND(AVG(a_median)::numeric, 0), MIN(a_median), MAX(a_median),
			SUM(tot_emp), COUNT(*)
		FROM salary_data
		WHERE metro_id = $1 AND is_indexable = TRUE`, metroID)
}

func (s *Store) entityStats(ctx context.Context, query string, args ...any) (EntityStats, error) {
	var st EntityStats
	err := s.withRetry(ctx, func() error {
		row := s.db.QueryRow(ctx, query, args...)
		return row.Scan(&st.AvgMedian, &st.MinMedian, &st.MaxMedian, &st.TotalEmp, &st.FactCount)
	})
	if err != nil {
		return EntityStats{}, fmt.Errorf("entity stats: %w", err)
	}
	return st, nil
}

// SearchOccupations finds indexable occupations by title or slug substring,
// prefix matches first.
func (s *Store) SearchOccupations(ctx context.Context, q string, limit int) ([]OccupationHit, error) {
	var out []OccupationHit
	err := s.withRetry(ctx, func() error {
		rows, err := s.db.Query(ctx, `
			SELECT o.occ_title, o.slug,
				(SELECT ROUND(AVG(sd.a_median)::numeric, 0)
				 FROM salary_data sd
				 WHERE sd.occupation_id = o.id AND sd.is_indexable = TRUE) AS avg_salary
			FROM occupations o
			WHERE o.is_indexable = TRUE
				AND (o.occ_title ILIKE $1 OR o.slug ILIKE $1)
			ORDER BY
				CASE WHEN o.occ_title ILIKE $2 THEN 0 ELSE 1 END,
				o.occ_title
			LIMIT $3`, "%"+q+"%", q+"%", limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var h OccupationHit
			if err := rows.Scan(&h.Title, &h.Slug, &h.AvgMedian); err != nil {
				return err
			}
			out = append(out, h)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("search occupations: %w", err)
	}
	return out, nil
}

// SearchMetros finds indexable metros by title, slug, or state code.
func (s *Store) SearchMetros(ctx context.Context, q string, limit int) ([]MetroHit, error) {
	var out []MetroHit
	err := s.withRetry(ctx, func() error {
		rows, err := s.db.Query(ctx, `
			SELECT area_title, slug, state_abbr
			FROM metros
			WHERE is_indexable = TRUE
				AND (area_title ILIKE $1 OR slug ILIKE $1 OR state_abbr ILIKE $1)
			ORDER BY
				CASE WHEN area_title ILIKE $2 THEN 0 ELSE 1 END,
				area_title
			LIMIT $3`, "%"+q+"%", q+"%", limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var h MetroHit
			if err := rows.Scan(&h.AreaTitle, &h.Slug, &h.StateAbbr); err != nil {
				return err
			}
			out = append(out, h)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("search metros: %w", err)
	}
	return out, nil
}

// SearchSalaryPages finds specific (occupation, metro) pages matching both
// a job query and a location query.
func (s *Store) SearchSalaryPages(ctx context.Context, q, location string, limit int) ([]SalaryPageHit, error) {
	var out []SalaryPageHit
	err := s.withRetry(ctx, func() error {
		rows, err := s.db.Query(ctx, `
			SELECT o.occ_title, o.slug, m.area_title, m.slug, sd.a_median
			FROM salary_data sd
			JOIN occupations o ON sd.occupation_id = o.id
			JOIN metros m ON sd.metro_id = m.id
			WHERE sd.is_indexable = TRUE
				AND (o.occ_title ILIKE $1 OR o.slug ILIKE $1)
				AND (m.area_title ILIKE $2 OR m.slug ILIKE $2)
			ORDER BY sd.tot_emp DESC NULLS LAST, sd.id
			LIMIT $3`, "%"+q+"%", "%"+location+"%", limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var h SalaryPageHit
			if err := rows.Scan(&h.OccTitle, &h.OccSlug, &h.AreaTitle, &h.MetroSlug, &h.AMedian); err != nil {
				return err
			}
			out = append(out, h)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("search salary pages: %w", err)
	}
	return out, nil
}

// CountIndexableFacts counts the salary-page universe.
func (s *Store) CountIndexableFacts(ctx context.Context) (int64, error) {
	var count int64
	err := s.withRetry(ctx, func() error {
		row := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM salary_data WHERE is_indexable = TRUE`)
		return row.Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count indexable facts: %w", err)
	}
	return count, nil
}

// IndexableOccupationSlugs lists occupation-index page slugs in slug order.
func (s *Store) IndexableOccupationSlugs(ctx context.Context) ([]string, error) {
	return s.slugList(ctx, `SELECT slug FROM occupations WHERE is_indexable = TRUE ORDER BY slug`)
}

// IndexableMetroSlugs lists metro-index page slugs in slug order.
func (s *Store) IndexableMetroSlugs(ctx context.Context) ([]string, error) {
	return s.slugList(ctx, `SELECT slug FROM metros WHERE is_indexable = TRUE ORDER BY slug`)
}

func (s *Store) slugList(ctx context.Context, query string) ([]string, error) {
	var out []string
	err := s.withRetry(ctx, func() error {
		rows, err := s.db.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var slug string
			if err := rows.Scan(&slug); err != nil {
				return err
			}
			out = append(out, slug)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list slugs: %w", err)
	}
	return out, nil
}

// SalarySlugPage returns one offset/limit slice of salary-page slug pairs
// in sitemap rank order: descending employment, nulls last, id as the
// stable tiebreak so identical counts never reorder between requests.
func (s *Store) SalarySlugPage(ctx context.Context, limit, offset int64) ([]SlugPair, error) {
	var out []SlugPair
	err := s.withRetry(ctx, func() error {
		rows, err := s.db.Query(ctx, `
			SELECT o.slug, m.slug
			FROM salary_data sd
			JOIN occupations o ON sd.occupation_id = o.id
			JOIN metros m ON sd.metro_id = m.id
			WHERE sd.is_indexable = TRUE
			ORDER BY sd.tot_emp DESC NULLS LAST, sd.id
			LIMIT $1 OFFSET $2`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var p SlugPair
			if err := rows.Scan(&p.OccSlug, &p.MetroSlug); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("salary slug page: %w", err)
	}
	return out, nil
}
