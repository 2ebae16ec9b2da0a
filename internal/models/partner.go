package models

import "time"

// Partner is a cooperating company displayed on the partners strip.
type Partner struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Logo       *string   `db:"logo" json:"logo,omitempty"`
	WebsiteURL *string   `db:"website_url" json:"website_url,omitempty"`
	SortOrder  int       `db:"sort_order" json:"sort_order"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
