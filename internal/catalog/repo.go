package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"comichub/pkg/models"
)

// sqliteTime is the storage layout for every timestamp we write. Keeping
// one UTC layout makes window comparisons and ORDER BY well defined.
const sqliteTime = "2006-01-02 15:04:05"

func nowUTC() string {
	return time.Now().UTC().Format(sqliteTime)
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(sqliteTime)
}

type Repo struct {
	DB *sql.DB
	// CDNHost, when set, rewrites stored image URL hosts on read so a
	// storage zone move doesn't require touching every row.
	CDNHost string
}

func NewRepo(db *sql.DB, cdnHost string) *Repo {
	return &Repo{DB: db, CDNHost: cdnHost}
}

const seriesCols = `id, title, alternative_titles, description, cover_url, banner_url,
	status, type, rating, is_featured, total_views, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSeries(row rowScanner) (*models.Series, error) {
	var (
		s         models.Series
		altJSON   string
		desc      sql.NullString
		coverURL  sql.NullString
		bannerURL sql.NullString
		rating    sql.NullFloat64
	)

	if err := row.Scan(
		&s.ID, &s.Title, &altJSON, &desc, &coverURL, &bannerURL,
		&s.Status, &s.Type, &rating, &s.IsFeatured, &s.TotalViews,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s.Description = desc.String
	s.CoverURL = coverURL.String
	s.BannerURL = bannerURL.String
	if rating.Valid {
		v := rating.Float64
		s.Rating = &v
	}
	s.AlternativeTitles = decodeTitles(altJSON)
	return &s, nil
}

func decodeTitles(raw string) []string {
	out := []string{}
	_ = json.Unmarshal([]byte(raw), &out)
	return out
}

func encodeTitles(titles []string) string {
	if titles == nil {
		titles = []string{}
	}
	b, _ := json.Marshal(titles)
	return string(b)
}

func (r *Repo) ListSeries(ctx context.Context) ([]models.Series, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+seriesCols+` FROM series ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	out := []models.Series{}
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *Repo) GetSeries(ctx context.Context, id string) (*models.Series, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+seriesCols+` FROM series WHERE id = ?
	`, id)

	s, err := scanSeries(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get series: %w", err)
	}
	return s, nil
}

func (r *Repo) ListSeriesWithChapterCount(ctx context.Context) ([]models.SeriesWithCount, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+seriesCols+`,
			COALESCE((SELECT COUNT(*) FROM chapters WHERE series_id = series.id), 0) AS chapters_count
		FROM series
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list series with count: %w", err)
	}
	defer rows.Close()

	out := []models.SeriesWithCount{}
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
			return nil, fmt.Errorf("scan series with count: %w", err)
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
	}
	return out, rows.Err()
}

const chapterCols = `id, series_id, chapter_number, title, chapter_type, pdf_url, created_at`

func scanChapter(row rowScanner) (*models.Chapter, error) {
	var (
		c      models.Chapter
		title  sql.NullString
		pdfURL sql.NullString
	)
	if err := row.Scan(&c.ID, &c.SeriesID, &c.ChapterNumber, &title, &c.ChapterType, &pdfURL, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Title = title.String
	c.PDFURL = pdfURL.String
	return &c, nil
}

func (r *Repo) ListChapters(ctx context.Context, seriesID string) ([]models.Chapter, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+chapterCols+` FROM chapters
		WHERE series_id = ?
		ORDER BY chapter_number DESC
	`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	out := []models.Chapter{}
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

var urlHostRe = regexp.MustCompile(`https?://[^/]+`)

// GetChapterWithPages returns the reader payload. Page image URLs are
// normalized to the configured CDN host.
func (r *Repo) GetChapterWithPages(ctx context.Context, id string) (*models.ChapterWithPages, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+chapterCols+` FROM chapters WHERE id = ?
	`, id)
	ch, err := scanChapter(row)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("get chapter: %w", err)
		}
		ch = nil
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, chapter_id, page_number, image_url FROM chapter_pages
		WHERE chapter_id = ?
		ORDER BY page_number ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get chapter pages: %w", err)
	}
	defer rows.Close()

	pages := []models.ChapterPage{}
	for rows.Next() {
		var p models.ChapterPage
		if err := rows.Scan(&p.ID, &p.ChapterID, &p.PageNumber, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("scan chapter page: %w", err)
		}
		if r.CDNHost != "" && p.ImageURL != "" {
			p.ImageURL = urlHostRe.ReplaceAllString(p.ImageURL, "https://"+r.CDNHost)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.ChapterWithPages{Chapter: ch, Pages: pages}, nil
}

func (r *Repo) ListGenres(ctx context.Context) ([]models.Genre, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, slug FROM genres ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()
	return scanGenres(rows)
}

func (r *Repo) ListSeriesGenres(ctx context.Context, seriesID string) ([]models.Genre, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT g.id, g.name, g.slug FROM genres g
		JOIN series_genres sg ON g.id = sg.genre_id
		WHERE sg.series_id = ?
	`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list series genres: %w", err)
	}
	defer rows.Close()
	return scanGenres(rows)
}

func scanGenres(rows *sql.Rows) ([]models.Genre, error) {
	out := []models.Genre{}
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repo) ListAllSeriesGenres(ctx context.Context) ([]models.SeriesGenre, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT series_id, genre_id FROM series_genres`)
	if err != nil {
		return nil, fmt.Errorf("list all series genres: %w", err)
	}
	defer rows.Close()

	out := []models.SeriesGenre{}
	for rows.Next() {
		var sg models.SeriesGenre
		if err := rows.Scan(&sg.SeriesID, &sg.GenreID); err != nil {
			return nil, fmt.Errorf("scan series genre: %w", err)
		}
		out = append(out, sg)
	}
	return out, rows.Err()
}

func (r *Repo) SeriesViews(ctx context.Context, seriesID string) (int64, error) {
	var views int64
	err := r.DB.QueryRowContext(ctx, `SELECT total_views FROM series WHERE id = ?`, seriesID).Scan(&views)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("series views: %w", err)
	}
	return views, nil
}

// genresBySeries loads genres for a set of series ids in one query.
func (r *Repo) genresBySeries(ctx context.Context, seriesIDs []string) (map[string][]models.Genre, error) {
	if len(seriesIDs) == 0 {
		return map[string][]models.Genre{}, nil
	}

	query := `
		SELECT sg.series_id, g.id, g.name, g.slug
		FROM series_genres sg
		JOIN genres g ON g.id = sg.genre_id
		WHERE sg.series_id IN (` + placeholders(len(seriesIDs)) + `)`
	rows, err := r.DB.QueryContext(ctx, query, toArgs(seriesIDs)...)
	if err != nil {
		return nil, fmt.Errorf("genres by series: %w", err)
	}
	defer rows.Close()

	out := map[string][]models.Genre{}
	for rows.Next() {
		var (
			sid string
			g   models.Genre
		)
		if err := rows.Scan(&sid, &g.ID, &g.Name, &g.Slug); err != nil {
			return nil, fmt.Errorf("scan series genre row: %w", err)
		}
		out[sid] = append(out[sid], g)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	out := "?"
	for i := 1; i < n; i++ {
		out += ", ?"
	}
	return out
}

func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
