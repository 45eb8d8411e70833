package models

type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type SeriesGenre struct {
	SeriesID string `json:"series_id"`
	GenreID  string `json:"genre_id"`
}
