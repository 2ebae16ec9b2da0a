package models

import "time"

// Event represents a bilingual event announcement.
type Event struct {
	ID          string        `db:"id" json:"id"`
	TitleID     string        `db:"title_id" json:"title_id"`
	TitleEN     string        `db:"title_en" json:"title_en"`
	BodyID      string        `db:"body_id" json:"body_id"`
	BodyEN      string        `db:"body_en" json:"body_en"`
	Location    string        `db:"location" json:"location"`
	Image       *string       `db:"image" json:"image,omitempty"`
	StartsAt    time.Time     `db:"starts_at" json:"starts_at"`
	EndsAt      *time.Time    `db:"ends_at" json:"ends_at,omitempty"`
	Status      ContentStatus `db:"status" json:"status"`
	PublishedAt *time.Time    `db:"published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// EventFilter captures listing criteria for events.
type EventFilter struct {
	Status       ContentStatus
	UpcomingOnly bool
	Search       string
	Page         int
	PageSize     int
}
