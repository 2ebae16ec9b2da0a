package models

import "time"

// ServiceItem is one entry of the financing-services catalogue shown on the
// public site (e.g. motor financing, multi-purpose loans).
type ServiceItem struct {
	ID        string    `db:"id" json:"id"`
	TitleID   string    `db:"title_id" json:"title_id"`
	TitleEN   string    `db:"title_en" json:"title_en"`
	SummaryID string    `db:"summary_id" json:"summary_id"`
	SummaryEN string    `db:"summary_en" json:"summary_en"`
	BodyID    string    `db:"body_id" json:"body_id"`
	BodyEN    string    `db:"body_en" json:"body_en"`
	Icon      *string   `db:"icon" json:"icon,omitempty"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
