package models

import "time"

// TeamMember is a management or board profile on the about page.
type TeamMember struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	PositionID string    `db:"position_id" json:"position_id"`
	PositionEN string    `db:"position_en" json:"position_en"`
	Photo      *string   `db:"photo" json:"photo,omitempty"`
	SortOrder  int       `db:"sort_order" json:"sort_order"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
