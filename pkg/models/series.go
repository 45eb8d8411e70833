package models

import "time"

type Series struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	AlternativeTitles []string  `json:"alternative_titles"`
	Description       string    `json:"description,omitempty"`
	CoverURL          string    `json:"cover_url,omitempty"`
	BannerURL         string    `json:"banner_url,omitempty"`
	Status            string    `json:"status"`
	Type              string    `json:"type"`
	Rating            *float64  `json:"rating"`
	IsFeatured        bool      `json:"is_featured"`
	TotalViews        int64     `json:"total_views"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type SeriesWithCount struct {
	Series
	ChaptersCount int `json:"chapters_count"`
}

// PopularSeries is the slim projection used by the popularity leaderboards.
// PeriodViews equals TotalViews for the all-time period.
type PopularSeries struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	CoverURL    string  `json:"cover_url,omitempty"`
	Status      string  `json:"status"`
	Type        string  `json:"type"`
	TotalViews  int64   `json:"total_views"`
	PeriodViews int64   `json:"period_views"`
	Genres      []Genre `json:"genres,omitempty"`
}

type SeriesWithChapters struct {
	Series
	LatestChapterAt *time.Time `json:"latest_chapter_at"`
	Chapters        []Chapter  `json:"chapters"`
}

type FeaturedSeries struct {
	Series
	ChaptersCount int     `json:"chapters_count"`
	Genres        []Genre `json:"genres"`
}

type BrowsePage struct {
	Series   []SeriesWithCount `json:"series"`
	NextPage *int              `json:"nextPage,omitempty"`
}

type SearchResult struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	AlternativeTitles []string  `json:"alternative_titles"`
	Description       string    `json:"description,omitempty"`
	CoverURL          string    `json:"cover_url,omitempty"`
	Status            string    `json:"status"`
	Type              string    `json:"type"`
	Rating            *float64  `json:"rating"`
	IsFeatured        bool      `json:"is_featured"`
	UpdatedAt         time.Time `json:"updated_at"`
	ChaptersCount     int       `json:"chapters_count"`
	RelevanceScore    float64   `json:"relevance_score"`
}
