package models

import "time"

// ReportCategory groups published report documents.
type ReportCategory string

const (
	ReportCategoryAnnual    ReportCategory = "annual"
	ReportCategoryFinancial ReportCategory = "financial"
	ReportCategoryOJK       ReportCategory = "ojk"
)

// ValidReportCategory reports whether the category is known.
func ValidReportCategory(c ReportCategory) bool {
	switch c {
	case ReportCategoryAnnual, ReportCategoryFinancial, ReportCategoryOJK:
		return true
	}
	return false
}

// Report is a published PDF document (annual report, financial statement,
// OJK disclosure) stored on the asset store.
type Report struct {
	ID          string         `db:"id" json:"id"`
	TitleID     string         `db:"title_id" json:"title_id"`
	TitleEN     string         `db:"title_en" json:"title_en"`
	Category    ReportCategory `db:"category" json:"category"`
	Period      string         `db:"period" json:"period"`
	File        string         `db:"file" json:"file"`
	IsPublic    bool           `db:"is_public" json:"is_public"`
	PublishedAt time.Time      `db:"published_at" json:"published_at"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// ReportFilter captures listing criteria for reports.
type ReportFilter struct {
	Category   ReportCategory
	Period     string
	PublicOnly bool
	Page       int
	PageSize   int
}
