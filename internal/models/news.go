package models

import "time"

// NewsPost represents a bilingual news article.
type NewsPost struct {
	ID          string        `db:"id" json:"id"`
	Slug        string        `db:"slug" json:"slug"`
	TitleID     string        `db:"title_id" json:"title_id"`
	TitleEN     string        `db:"title_en" json:"title_en"`
	ExcerptID   string        `db:"excerpt_id" json:"excerpt_id"`
	ExcerptEN   string        `db:"excerpt_en" json:"excerpt_en"`
	BodyID      string        `db:"body_id" json:"body_id"`
	BodyEN      string        `db:"body_en" json:"body_en"`
	Image       *string       `db:"image" json:"image,omitempty"`
	Status      ContentStatus `db:"status" json:"status"`
	PublishedAt *time.Time    `db:"published_at" json:"published_at,omitempty"`
	CreatedBy   *string       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// NewsFilter captures listing criteria for news posts.
type NewsFilter struct {
	Status    ContentStatus
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
