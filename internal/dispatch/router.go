package dispatch

import (
	"context"
	"errors"

	"comichub/internal/auth"
	"comichub/internal/catalog"
)

var (
	ErrUnknownAction = errors.New("Unknown action")
	// ErrUnauthorized's text is load-bearing: the outer handler maps any
	// error whose message contains "Unauthorized" to HTTP 401.
	ErrUnauthorized = errors.New("Unauthorized")
)

type env struct {
	p Params
	// isAdmin is derived once per request from the Authorization header.
	// Write operations must each check it themselves; there is no shared
	// middleware guard on purpose.
	isAdmin bool
}

type opFunc func(ctx context.Context, e *env) (any, error)

// Router executes the closed set of data operations. Every action name
// outside the table is rejected before any data access.
type Router struct {
	Catalog *catalog.Repo
	Auth    *auth.Service
	ops     map[string]opFunc
}

func NewRouter(cat *catalog.Repo, authSvc *auth.Service) *Router {
	r := &Router{Catalog: cat, Auth: authSvc}
	r.ops = map[string]opFunc{
		"get_all_series":                  r.getAllSeries,
		"get_series":                      r.getSeries,
		"get_series_with_chapter_count":   r.getSeriesWithChapterCount,
		"get_chapters":                    r.getChapters,
		"get_chapter":                     r.getChapter,
		"get_genres":                      r.getGenres,
		"get_series_genres":               r.getSeriesGenres,
		"get_all_series_genres":           r.getAllSeriesGenres,
		"get_popular_series":              r.getPopularSeries,
		"get_popular_series_with_genres":  r.getPopularSeriesWithGenres,
		"get_series_views":                r.getSeriesViews,
		"get_series_with_latest_chapters": r.getSeriesWithLatestChapters,
		"get_featured_series":             r.getFeaturedSeries,
		"get_browse_series":               r.getBrowseSeries,
		"search_series":                   r.searchSeries,
		"create_series":                   r.createSeries,
		"update_series":                   r.updateSeries,
		"delete_series":                   r.deleteSeries,
		"create_chapter":                  r.createChapter,
		"update_chapter":                  r.updateChapter,
		"delete_chapter":                  r.deleteChapter,
		"create_genre":                    r.createGenre,
		"update_genre":                    r.updateGenre,
		"delete_genre":                    r.deleteGenre,
		"update_series_genres":            r.updateSeriesGenres,
		"record_chapter_view":             r.recordChapterView,
		"fix_cdn_urls":                    r.fixCDNUrls,
	}
	return r
}

// Actions returns the allow-list.
func (r *Router) Actions() []string {
	out := make([]string, 0, len(r.ops))
	for name := range r.ops {
		out = append(out, name)
	}
	return out
}

func (r *Router) Dispatch(ctx context.Context, action string, params Params, authHeader string) (any, error) {
	op, ok := r.ops[action]
	if !ok {
		return nil, ErrUnknownAction
	}

	if params == nil {
		params = Params{}
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	e := &env{p: params, isAdmin: r.Auth.VerifyBearer(authHeader)}
	return op(ctx, e)
}
