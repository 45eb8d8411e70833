package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"comichub/pkg/models"
)

type SearchQuery struct {
	Query  string
	Status string
	Type   string
	Genres []string // genre ids; a candidate must carry every one of them
	Limit  int
	Offset int
}

func (q SearchQuery) empty() bool {
	return strings.TrimSpace(q.Query) == "" && q.Status == "" && q.Type == "" && len(q.Genres) == 0
}

// SearchSeries runs the relevance-scored catalog search. Title matches
// are tiered (exact 1.0, prefix 0.9, substring 0.7); hits reached only
// through alternative titles or the description score 0.3. Results order
// by relevance, then recency. The genre filter intersects afterwards.
func (r *Repo) SearchSeries(ctx context.Context, q SearchQuery) ([]models.SearchResult, error) {
	if q.empty() {
		return []models.SearchResult{}, nil
	}

	sqlStr, args := buildSearchSQL(q)
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	out := []models.SearchResult{}
	for rows.Next() {
		var (
			res       models.SearchResult
			altJSON   string
			desc      sql.NullString
			coverURL  sql.NullString
			rating    sql.NullFloat64
		)
		if err := rows.Scan(
			&res.ID, &res.Title, &altJSON, &desc, &coverURL,
			&res.Status, &res.Type, &rating, &res.IsFeatured, &res.UpdatedAt,
			&res.ChaptersCount, &res.RelevanceScore,
		); err != nil {
			return nil, fmt.Errorf("search scan: %w", err)
		}
		res.Description = desc.String
		res.CoverURL = coverURL.String
		if rating.Valid {
			v := rating.Float64
			res.Rating = &v
		}
		res.AlternativeTitles = decodeTitles(altJSON)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(q.Genres) > 0 {
		out, err = r.filterByAllGenres(ctx, out, q.Genres)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func buildSearchSQL(q SearchQuery) (string, []any) {
	base := `
		SELECT s.id, s.title, s.alternative_titles, s.description, s.cover_url,
			s.status, s.type, s.rating, s.is_featured, s.updated_at,
			COALESCE((SELECT COUNT(*) FROM chapters WHERE series_id = s.id), 0) AS chapters_count,`

	var where []string
	var args []any

	kw := strings.TrimSpace(q.Query)
	if kw != "" {
		base += `
			CASE
				WHEN LOWER(s.title) = LOWER(?) THEN 1.0
				WHEN LOWER(s.title) LIKE LOWER(?) || '%' THEN 0.9
				WHEN LOWER(s.title) LIKE '%' || LOWER(?) || '%' THEN 0.7
				ELSE 0.3
			END AS relevance_score
		FROM series s`
		args = append(args, kw, kw, kw)

		where = append(where, `(LOWER(s.title) LIKE '%' || LOWER(?) || '%'
			OR LOWER(s.alternative_titles) LIKE '%' || LOWER(?) || '%'
			OR LOWER(COALESCE(s.description, '')) LIKE '%' || LOWER(?) || '%')`)
		args = append(args, kw, kw, kw)
	} else {
		base += `
			1.0 AS relevance_score
		FROM series s`
	}

	if q.Status != "" {
		where = append(where, "s.status = ?")
		args = append(args, q.Status)
	}
	if q.Type != "" {
		where = append(where, "s.type = ?")
		args = append(args, q.Type)
	}

	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}

	if kw != "" {
		base += " ORDER BY relevance_score DESC, s.updated_at DESC"
	} else {
		base += " ORDER BY s.updated_at DESC"
	}
	base += " LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	return base, args
}

// filterByAllGenres keeps only candidates tagged with every requested
// genre (AND semantics).
func (r *Repo) filterByAllGenres(ctx context.Context, in []models.SearchResult, genreIDs []string) ([]models.SearchResult, error) {
	if len(in) == 0 {
		return in, nil
	}

	ids := make([]string, len(in))
	for i, s := range in {
		ids[i] = s.ID
	}

	query := `
		SELECT series_id FROM series_genres
		WHERE series_id IN (` + placeholders(len(ids)) + `)
			AND genre_id IN (` + placeholders(len(genreIDs)) + `)
		GROUP BY series_id
		HAVING COUNT(DISTINCT genre_id) = ?`

	args := toArgs(ids)
	args = append(args, toArgs(genreIDs)...)
	args = append(args, len(genreIDs))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("genre filter: %w", err)
	}
	defer rows.Close()

	matching := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("genre filter scan: %w", err)
		}
		matching[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := []models.SearchResult{}
	for _, s := range in {
		if matching[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}
