package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"comichub/pkg/models"
)

type SeriesInput struct {
	Title             string
	AlternativeTitles []string
	Description       string
	CoverURL          string
	BannerURL         string
	Status            string
	Type              string
	Rating            *float64
	IsFeatured        bool
}

func (r *Repo) CreateSeries(ctx context.Context, in SeriesInput) (*models.Series, error) {
	if in.Status == "" {
		in.Status = "ongoing"
	}
	if in.Type == "" {
		in.Type = "manhwa"
	}

	id := uuid.NewString()
	now := nowUTC()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO series (id, title, alternative_titles, description, cover_url,
			banner_url, status, type, rating, is_featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, in.Title, encodeTitles(in.AlternativeTitles), nullable(in.Description),
		nullable(in.CoverURL), nullable(in.BannerURL), in.Status, in.Type,
		in.Rating, in.IsFeatured, now, now)
	if err != nil {
		return nil, fmt.Errorf("create series: %w", err)
	}
	return r.GetSeries(ctx, id)
}

// SeriesPatch applies COALESCE semantics: nil pointers keep the current
// value. Rating is the exception and is written verbatim, so a missing
// rating clears the column.
type SeriesPatch struct {
	Title             *string
	AlternativeTitles []string
	Description       *string
	CoverURL          *string
	BannerURL         *string
	Status            *string
	Type              *string
	Rating            *float64
	IsFeatured        *bool
}

func (r *Repo) UpdateSeries(ctx context.Context, id string, patch SeriesPatch) (*models.Series, error) {
	var altTitles any
	if patch.AlternativeTitles != nil {
		altTitles = encodeTitles(patch.AlternativeTitles)
	}

	_, err := r.DB.ExecContext(ctx, `
		UPDATE series SET
			title = COALESCE(?, title),
			alternative_titles = COALESCE(?, alternative_titles),
			description = COALESCE(?, description),
			cover_url = COALESCE(?, cover_url),
			banner_url = COALESCE(?, banner_url),
			status = COALESCE(?, status),
			type = COALESCE(?, type),
			rating = ?,
			is_featured = COALESCE(?, is_featured),
			updated_at = ?
		WHERE id = ?
	`, patch.Title, altTitles, patch.Description, patch.CoverURL, patch.BannerURL,
		patch.Status, patch.Type, patch.Rating, patch.IsFeatured, nowUTC(), id)
	if err != nil {
		return nil, fmt.Errorf("update series: %w", err)
	}
	return r.GetSeries(ctx, id)
}

func (r *Repo) DeleteSeries(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM series WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	return nil
}

type PageInput struct {
	PageNumber int
	ImageURL   string
}

type ChapterInput struct {
	SeriesID      string
	ChapterNumber float64
	Title         string
	ChapterType   string
	PDFURL        string
	Pages         []PageInput
}

func (r *Repo) CreateChapter(ctx context.Context, in ChapterInput) (*models.Chapter, error) {
	if in.ChapterType == "" {
		in.ChapterType = "images"
	}

	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO chapters (id, series_id, chapter_number, title, chapter_type, pdf_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, in.SeriesID, in.ChapterNumber, nullable(in.Title), in.ChapterType,
		nullable(in.PDFURL), nowUTC())
	if err != nil {
		return nil, fmt.Errorf("create chapter: %w", err)
	}

	for _, p := range in.Pages {
		_, err := r.DB.ExecContext(ctx, `
			INSERT INTO chapter_pages (id, chapter_id, page_number, image_url)
			VALUES (?, ?, ?, ?)
		`, uuid.NewString(), id, p.PageNumber, p.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("create chapter page: %w", err)
		}
	}

	// a new chapter counts as a series update
	_, err = r.DB.ExecContext(ctx, `UPDATE series SET updated_at = ? WHERE id = ?`, nowUTC(), in.SeriesID)
	if err != nil {
		return nil, fmt.Errorf("bump series updated_at: %w", err)
	}

	row := r.DB.QueryRowContext(ctx, `SELECT `+chapterCols+` FROM chapters WHERE id = ?`, id)
	return scanChapter(row)
}

// ChapterPatch: number keeps its value when nil, title is set verbatim.
type ChapterPatch struct {
	ChapterNumber *float64
	Title         *string
}

func (r *Repo) UpdateChapter(ctx context.Context, id string, patch ChapterPatch) (*models.Chapter, error) {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE chapters SET
			chapter_number = COALESCE(?, chapter_number),
			title = ?
		WHERE id = ?
	`, patch.ChapterNumber, patch.Title, id)
	if err != nil {
		return nil, fmt.Errorf("update chapter: %w", err)
	}

	row := r.DB.QueryRowContext(ctx, `SELECT `+chapterCols+` FROM chapters WHERE id = ?`, id)
	ch, err := scanChapter(row)
	if err != nil {
		return nil, fmt.Errorf("reload chapter: %w", err)
	}
	return ch, nil
}

func (r *Repo) DeleteChapter(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM chapters WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}
	return nil
}

func (r *Repo) CreateGenre(ctx context.Context, name, slug string) (*models.Genre, error) {
	g := models.Genre{ID: uuid.NewString(), Name: name, Slug: slug}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO genres (id, name, slug) VALUES (?, ?, ?)
	`, g.ID, g.Name, g.Slug)
	if err != nil {
		return nil, fmt.Errorf("create genre: %w", err)
	}
	return &g, nil
}

func (r *Repo) UpdateGenre(ctx context.Context, id, name, slug string) (*models.Genre, error) {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE genres SET name = ?, slug = ? WHERE id = ?
	`, name, slug, id)
	if err != nil {
		return nil, fmt.Errorf("update genre: %w", err)
	}
	return &models.Genre{ID: id, Name: name, Slug: slug}, nil
}

func (r *Repo) DeleteGenre(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	return nil
}

// ReplaceSeriesGenres swaps the full tag set for a series.
func (r *Repo) ReplaceSeriesGenres(ctx context.Context, seriesID string, genreIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace genres: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM series_genres WHERE series_id = ?`, seriesID); err != nil {
		return fmt.Errorf("clear series genres: %w", err)
	}
	for _, gid := range genreIDs {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO series_genres (series_id, genre_id) VALUES (?, ?)
		`, seriesID, gid); err != nil {
			return fmt.Errorf("insert series genre: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace genres: %w", err)
	}
	return nil
}

type CDNFixReport struct {
	SeriesFixed   int64  `json:"series_fixed"`
	PagesFixed    int64  `json:"pages_fixed"`
	ChaptersFixed int64  `json:"chapters_fixed"`
	NewHostname   string `json:"new_hostname"`
}

// FixCDNUrls rewrites a stale storage hostname across every stored URL
// column to the configured CDN host.
func (r *Repo) FixCDNUrls(ctx context.Context, oldHostname string) (*CDNFixReport, error) {
	if oldHostname == "" || r.CDNHost == "" {
		return nil, fmt.Errorf("missing hostname parameters")
	}

	like := "%" + oldHostname + "%"

	seriesRes, err := r.DB.ExecContext(ctx, `
		UPDATE series SET
			cover_url = REPLACE(cover_url, ?, ?),
			banner_url = REPLACE(banner_url, ?, ?)
		WHERE cover_url LIKE ? OR banner_url LIKE ?
	`, oldHostname, r.CDNHost, oldHostname, r.CDNHost, like, like)
	if err != nil {
		return nil, fmt.Errorf("fix series urls: %w", err)
	}

	pagesRes, err := r.DB.ExecContext(ctx, `
		UPDATE chapter_pages SET image_url = REPLACE(image_url, ?, ?)
		WHERE image_url LIKE ?
	`, oldHostname, r.CDNHost, like)
	if err != nil {
		return nil, fmt.Errorf("fix page urls: %w", err)
	}

	chaptersRes, err := r.DB.ExecContext(ctx, `
		UPDATE chapters SET pdf_url = REPLACE(pdf_url, ?, ?)
		WHERE pdf_url LIKE ?
	`, oldHostname, r.CDNHost, like)
	if err != nil {
		return nil, fmt.Errorf("fix chapter urls: %w", err)
	}

	report := &CDNFixReport{NewHostname: r.CDNHost}
	report.SeriesFixed, _ = seriesRes.RowsAffected()
	report.PagesFixed, _ = pagesRes.RowsAffected()
	report.ChaptersFixed, _ = chaptersRes.RowsAffected()
	return report, nil
}

// nullable maps "" to NULL so empty optional fields don't store empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
