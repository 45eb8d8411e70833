package dispatch

import (
	"context"
	"errors"

	"comichub/internal/catalog"
)

func (r *Router) createSeries(ctx context.Context, e *env) (any, error) {
	if !e.isAdmin {
		return nil, ErrUnauthorized
	}
	title := e.p.str("title")
	if title == "" {
		return nil, errors.New("title is required")
	}

	return r.Catalog.CreateSeries(ctx, catalog.SeriesInput{
		Title:             title,
		AlternativeTitles: e.p.strSlice("alternative_titles"),
		Description:       e.p.str("description"),
		CoverURL:          e.p.str("cover_url"),
		BannerURL:         e.p.str("banner_url"),
		Status:            e.p.str("status"),
		Type:              e.p.str("type"),
		Rating:            e.p.floatPtr("rating"),
		IsFeatured:        e.p.boolVal("is_featured"),
	})
}

func (r *Router) updateSeries(ctx context.Context, e *env) (any, error) {
	if !e.isAdmin {
		return nil, ErrUnauthorized
	}

	var altTitles []string
	if _, ok := e.p["alternative_titles"]; ok {
		altTitles = e.p.strSlice("alternative_titles")
		if altTitles == nil {
			altTitles = []string{}
		}
	}

	return r.Catalog.UpdateSeries(ctx, e.p.str("id"), catalog.SeriesPatch{
		Title:             e.p.strPtr("title"),
		AlternativeTitles: altTitles,
		Description:       e.p.strPtr("description"),
		CoverURL:          e.p.strPtr("cover_url"),
		BannerURL:         e.p.strPtr("banner_url"),
		Status:            e.p.strPtr("status"),
		Type:              e.p.strPtr("type"),
		Rating:            e.p.floatPtr("rating"),
		IsFeatured:        e.p.boolPtr("is_featured"),
	})
}

func (r *Router) deleteSeries(ctx context.Context, e *env) (any, error) {
	if !e.isAdmin {
		return nil, ErrUnauthorized
	}
	if err := r.Catalog.DeleteSeries(ctx, e.p.str("id")); err != nil {
		return nil, err
	}
	return map[string]any{"success": true}, nil
}

func (r *Router) createChapter(ctx context.Context, e *env) (any, error) {
	if !e.isAdmin {
		return nil, ErrUnauthorized
	}
	seriesID := e.p.str("series_id")
	if seriesID == "" {
		return nil, errors.New("series_id is required")
	}

	in := catalog.ChapterInput{
		SeriesID:      seriesID,
		ChapterNumber: e.p.float("chapter_number"),
		Title:         e.p.str("title"),
		ChapterType:   e.p.str("chapter_type"),
		PDFURL:        e.p.str("pdf_url"),
	}

	if raw, ok := e.p["pages"].([]any); ok {
		for _, item := range raw {
			page, isMap := item.(map[string]any)
			if !isMap {
				continue
			}
			p := Params(page)
			in.Pages = append(in.Pages, catalog.PageInput{
				PageNumber: p.intDefault("page_number", 0),
				ImageURL:   p.str("image_url"),
			})
		}
	}

	return r.Catalog.CreateChapter(ctx, in)
}

func (r *Router) updateChapter(ctx context.Context, e *env) (any, error) {
	if !e.isAdmin {
		return nil, ErrUnauthorized
	}
	return r.Catalog.UpdateChapter(ctx, e.p.str("id"), catalog.ChapterPatch{
		ChapterNumber: e.p.floatPtr("chapter_number"),
		Title:         e.p.strPtr("title"),
	})
}

func (r *Router) deleteChapter(ctx context.Context, e *env) (any, error) {
	if !e.isAdmin {
		return nil, ErrUnauthorized
	}
	if err := r.Catalog.DeleteChapter(ctx, e.p.str("id")); err != nil {
		return nil, err
	}
	return map[string]any{"success": true}, nil
}

func (r *Router) createGenre(ctx context.Context, e *env) (any, error) {
	if !e.isAdmin {
		return nil, ErrUnauthorized
	}
	name, slug := e.p.str("name"), e.p.str("slug")
	if name == "" || slug == "" {
		return nil, errors.New("name and slug are required")
	}
	return r.Catalog.CreateGenre(ctx, name, slug)
}

func (r *Router) updateGenre(ctx context.Context, e *env) (any, error) {
	if !e.isAdmin {
		return nil, ErrUnauthorized
	}
	return r.Catalog.UpdateGenre(ctx, e.p.str("id"), e.p.str("name"), e.p.str("slug"))
}

func (r *Router) deleteGenre(ctx context.Context, e *env) (any, error) {
	if !e.isAdmin {
		return nil, ErrUnauthorized
	}
	if err := r.Catalog.DeleteGenre(ctx, e.p.str("id")); err != nil {
		return nil, err
	}
	return map[string]any{"success": true}, nil
}

func (r *Router) updateSeriesGenres(ctx context.Context, e *env) (any, error) {
	if !e.isAdmin {
		return nil, ErrUnauthorized
	}
	if err := r.Catalog.ReplaceSeriesGenres(ctx, e.p.str("series_id"), e.p.strSlice("genre_ids")); err != nil {
		return nil, err
	}
	return map[string]any{"success": true}, nil
}

// recordChapterView is the one mutating action open to everyone; its
// abuse controls live in the recorder itself.
func (r *Router) recordChapterView(ctx context.Context, e *env) (any, error) {
	chapterID := e.p.str("chapter_id")
	seriesID := e.p.str("series_id")
	if chapterID == "" || seriesID == "" {
		return nil, errors.New("chapter_id and series_id are required")
	}

	recorded, err := r.Catalog.RecordView(ctx, chapterID, seriesID, e.p.str("viewer_hash"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "recorded": recorded}, nil
}

func (r *Router) fixCDNUrls(ctx context.Context, e *env) (any, error) {
	if !e.isAdmin {
		return nil, ErrUnauthorized
	}
	return r.Catalog.FixCDNUrls(ctx, e.p.str("old_hostname"))
}
