package dto

import "time"

// PublishReportRequest registers a stored PDF as a published report.
type PublishReportRequest struct {
	TitleID     string     `json:"title_id" validate:"required"`
	TitleEN     string     `json:"title_en"`
	Category    string     `json:"category" validate:"required,oneof=annual financial ojk"`
	Period      string     `json:"period" validate:"required"`
	File        string     `json:"file" validate:"required"`
	IsPublic    *bool      `json:"is_public"`
	PublishedAt *time.Time `json:"published_at"`
}

// PublicReportItem is the localized public projection of a report.
type PublicReportItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Period      string    `json:"period"`
	DownloadURL string    `json:"download_url"`
	PublishedAt time.Time `json:"published_at"`
}
