package dispatch

import (
	"context"

	"comichub/internal/catalog"
)

func (r *Router) getAllSeries(ctx context.Context, e *env) (any, error) {
	return r.Catalog.ListSeries(ctx)
}

func (r *Router) getSeries(ctx context.Context, e *env) (any, error) {
	// no match is null inside data, never a 404
	return r.Catalog.GetSeries(ctx, e.p.str("id"))
}

func (r *Router) getSeriesWithChapterCount(ctx context.Context, e *env) (any, error) {
	return r.Catalog.ListSeriesWithChapterCount(ctx)
}

func (r *Router) getChapters(ctx context.Context, e *env) (any, error) {
	return r.Catalog.ListChapters(ctx, e.p.str("series_id"))
}

func (r *Router) getChapter(ctx context.Context, e *env) (any, error) {
	return r.Catalog.GetChapterWithPages(ctx, e.p.str("id"))
}

func (r *Router) getGenres(ctx context.Context, e *env) (any, error) {
	return r.Catalog.ListGenres(ctx)
}

func (r *Router) getSeriesGenres(ctx context.Context, e *env) (any, error) {
	return r.Catalog.ListSeriesGenres(ctx, e.p.str("series_id"))
}

func (r *Router) getAllSeriesGenres(ctx context.Context, e *env) (any, error) {
	return r.Catalog.ListAllSeriesGenres(ctx)
}

func (r *Router) getPopularSeries(ctx context.Context, e *env) (any, error) {
	period := e.p.str("time_period")
	if period == "" {
		period = "all"
	}
	return r.Catalog.PopularSeries(ctx, period, e.p.intDefault("result_limit", 10), false)
}

func (r *Router) getPopularSeriesWithGenres(ctx context.Context, e *env) (any, error) {
	period := e.p.str("time_period")
	if period == "" {
		period = "all"
	}
	return r.Catalog.PopularSeries(ctx, period, e.p.intDefault("result_limit", 10), true)
}

func (r *Router) getSeriesViews(ctx context.Context, e *env) (any, error) {
	return r.Catalog.SeriesViews(ctx, e.p.str("series_id"))
}

func (r *Router) getSeriesWithLatestChapters(ctx context.Context, e *env) (any, error) {
	return r.Catalog.SeriesWithLatestChapters(ctx, e.p.intDefault("limit", 12))
}

func (r *Router) getFeaturedSeries(ctx context.Context, e *env) (any, error) {
	return r.Catalog.FeaturedSeries(ctx)
}

func (r *Router) getBrowseSeries(ctx context.Context, e *env) (any, error) {
	return r.Catalog.BrowseSeries(ctx, e.p.intDefault("page", 0))
}

func (r *Router) searchSeries(ctx context.Context, e *env) (any, error) {
	return r.Catalog.SearchSeries(ctx, catalog.SearchQuery{
		Query:  e.p.str("search_query"),
		Status: e.p.str("filter_status"),
		Type:   e.p.str("filter_type"),
		Genres: e.p.strSlice("filter_genres"),
		Limit:  e.p.intDefault("result_limit", 20),
		Offset: e.p.intDefault("result_offset", 0),
	})
}
