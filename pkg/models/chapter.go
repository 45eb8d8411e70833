package models

import "time"

type Chapter struct {
	ID            string    `json:"id"`
	SeriesID      string    `json:"series_id"`
	ChapterNumber float64   `json:"chapter_number"`
	Title         string    `json:"title,omitempty"`
	ChapterType   string    `json:"chapter_type"`
	PDFURL        string    `json:"pdf_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type ChapterPage struct {
	ID         string `json:"id"`
	ChapterID  string `json:"chapter_id"`
	PageNumber int    `json:"page_number"`
	ImageURL   string `json:"image_url"`
}

// ChapterWithPages is the reader payload for a single chapter.
type ChapterWithPages struct {
	Chapter *Chapter      `json:"chapter"`
	Pages   []ChapterPage `json:"pages"`
}
