package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"comichub/pkg/models"
)

// PopularSeries returns the leaderboard for period "all", "weekly" or
// "monthly". All-time ranks by the persisted running counter; period
// ranks by view events inside the window and excludes series with zero
// period views entirely.
func (r *Repo) PopularSeries(ctx context.Context, period string, limit int, withGenres bool) ([]models.PopularSeries, error) {
	var (
		rows *sql.Rows
		err  error
	)

	switch period {
	case "weekly", "monthly":
		window := 7 * 24 * time.Hour
		if period == "monthly" {
			window = 30 * 24 * time.Hour
		}
		cutoff := fmtTime(time.Now().Add(-window))
		rows, err = r.DB.QueryContext(ctx, `
			SELECT s.id, s.title, s.cover_url, s.status, s.type, s.total_views,
				COUNT(cv.id) AS period_views
			FROM series s
			LEFT JOIN chapter_views cv ON cv.series_id = s.id AND cv.viewed_at >= ?
			GROUP BY s.id
			HAVING COUNT(cv.id) > 0
			ORDER BY period_views DESC
			LIMIT ?
		`, cutoff, limit)
	default:
		rows, err = r.DB.QueryContext(ctx, `
			SELECT id, title, cover_url, status, type, total_views,
				total_views AS period_views
			FROM series
			ORDER BY total_views DESC
			LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("popular series: %w", err)
	}
	defer rows.Close()

	out := []models.PopularSeries{}
	ids := []string{}
	for rows.Next() {
		var (
			p        models.PopularSeries
			coverURL sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &coverURL, &p.Status, &p.Type, &p.TotalViews, &p.PeriodViews); err != nil {
			return nil, fmt.Errorf("scan popular series: %w", err)
		}
		p.CoverURL = coverURL.String
		out = append(out, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if withGenres {
		genres, err := r.genresBySeries(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range out {
			gs := genres[out[i].ID]
			if gs == nil {
				gs = []models.Genre{}
			}
			out[i].Genres = gs
		}
	}
	return out, nil
}

// SeriesWithLatestChapters orders series by their newest chapter (series
// without chapters sort last) and attaches a preview of the three highest
// chapter numbers, keeping only the newest row when a number was re-used.
func (r *Repo) SeriesWithLatestChapters(ctx context.Context, limit int) ([]models.SeriesWithChapters, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+seriesCols+`,
			(SELECT MAX(created_at) FROM chapters WHERE series_id = series.id) AS latest_chapter_at
		FROM series
		ORDER BY latest_chapter_at IS NULL, latest_chapter_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("series with latest chapters: %w", err)
	}
	defer rows.Close()

	out := []models.SeriesWithChapters{}
	for rows.Next() {
		var (
			s         models.SeriesWithChapters
			altJSON   string
			desc      sql.NullString
			coverURL  sql.NullString
			bannerURL sql.NullString
			rating    sql.NullFloat64
			// computed column, comes back as raw text
			latest sql.NullString
		)
		if err := rows.Scan(
			&s.ID, &s.Title, &altJSON, &desc, &coverURL, &bannerURL,
			&s.Status, &s.Type, &rating, &s.IsFeatured, &s.TotalViews,
			&s.CreatedAt, &s.UpdatedAt, &latest,
		); err != nil {
			return nil, fmt.Errorf("scan latest series: %w", err)
		}
		s.Description = desc.String
		s.CoverURL = coverURL.String
		s.BannerURL = bannerURL.String
		if rating.Valid {
			v := rating.Float64
			s.Rating = &v
		}
		if latest.Valid {
			if t, err := time.Parse(sqliteTime, latest.String); err == nil {
				s.LatestChapterAt = &t
			}
		}
		s.AlternativeTitles = decodeTitles(altJSON)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		preview, err := r.latestChapterPreview(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Chapters = preview
	}
	return out, nil
}

func (r *Repo) latestChapterPreview(ctx context.Context, seriesID string) ([]models.Chapter, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+chapterCols+` FROM chapters
		WHERE series_id = ?
		ORDER BY chapter_number DESC, created_at DESC
	`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("chapter preview: %w", err)
	}
	defer rows.Close()

	out := []models.Chapter{}
	seen := map[float64]bool{}
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preview chapter: %w", err)
		}
		if seen[c.ChapterNumber] {
			continue
		}
		seen[c.ChapterNumber] = true
		out = append(out, *c)
		if len(out) == 3 {
			break
		}
	}
	return out, rows.Err()
}

func (r *Repo) FeaturedSeries(ctx context.Context) ([]models.FeaturedSeries, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+seriesCols+`,
			COALESCE((SELECT COUNT(*) FROM chapters WHERE series_id = series.id), 0) AS chapters_count
		FROM series
		WHERE is_featured = 1
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("featured series: %w", err)
	}
	defer rows.Close()

	out := []models.FeaturedSeries{}
	ids := []string{}
	for rows.Next() {
		var (
			s         models.FeaturedSeries
			altJSON   string
			desc      sql.NullString
			coverURL  sql.NullString
			bannerURL sql.NullString
			rating    sql.NullFloat64
		)
		if err := rows.Scan(
			&s.ID, &s.Title, &altJSON, &desc, &coverURL, &bannerURL,
			&s.Status, &s.Type, &rating, &s.IsFeatured, &s.TotalViews,
			&s.CreatedAt, &s.UpdatedAt, &s.ChaptersCount,
		); err != nil {
			return nil, fmt.Errorf("scan featured series: %w", err)
		}
		s.Description = desc.String
		s.CoverURL = coverURL.String
		s.BannerURL = bannerURL.String
		if rating.Valid {
			v := rating.Float64
			s.Rating = &v
		}
		s.AlternativeTitles = decodeTitles(altJSON)
		out = append(out, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	genres, err := r.genresBySeries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		gs := genres[out[i].ID]
		if gs == nil {
			gs = []models.Genre{}
		}
		out[i].Genres = gs
	}
	return out, nil
}

const browsePageSize = 18

func (r *Repo) BrowseSeries(ctx context.Context, page int) (*models.BrowsePage, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+seriesCols+`,
			COALESCE((SELECT COUNT(*) FROM chapters WHERE series_id = series.id), 0) AS chapters_count
		FROM series
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`, browsePageSize, page*browsePageSize)
	if err != nil {
		return nil, fmt.Errorf("browse series: %w", err)
	}
	defer rows.Close()

	items := []models.SeriesWithCount{}
	for rows.Next() {
		var (
			s         models.SeriesWithCount
			altJSON   string
			desc      sql.NullString
			coverURL  sql.NullString
			bannerURL sql.NullString
			rating    sql.NullFloat64
		)
		if err := rows.Scan(
			&s.ID, &s.Title, &altJSON, &desc, &coverURL, &bannerURL,
			&s.Status, &s.Type, &rating, &s.IsFeatured, &s.TotalViews,
			&s.CreatedAt, &s.UpdatedAt, &s.ChaptersCount,
		); err != nil {
			return nil, fmt.Errorf("scan browse series: %w", err)
		}
		s.Description = desc.String
		s.CoverURL = coverURL.String
		s.BannerURL = bannerURL.String
		if rating.Valid {
			v := rating.Float64
			s.Rating = &v
		}
		s.AlternativeTitles = decodeTitles(altJSON)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := &models.BrowsePage{Series: items}
	if len(items) == browsePageSize {
		next := page + 1
		out.NextPage = &next
	}
	return out, nil
}
