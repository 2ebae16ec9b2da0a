package dto

import "time"

// CreateNewsRequest creates a bilingual news post. English fields may be
// left empty; public reads fall back to the Indonesian variant.
type CreateNewsRequest struct {
	Slug      string `json:"slug" validate:"required"`
	TitleID   string `json:"title_id" validate:"required"`
	TitleEN   string `json:"title_en"`
	ExcerptID string `json:"excerpt_id"`
	ExcerptEN string `json:"excerpt_en"`
	BodyID    string `json:"body_id" validate:"required"`
	BodyEN    string `json:"body_en"`
	Image     string `json:"image"`
	Status    string `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// UpdateNewsRequest replaces a news post's editable fields.
type UpdateNewsRequest struct {
	Slug      string `json:"slug" validate:"required"`
	TitleID   string `json:"title_id" validate:"required"`
	TitleEN   string `json:"title_en"`
	ExcerptID string `json:"excerpt_id"`
	ExcerptEN string `json:"excerpt_en"`
	BodyID    string `json:"body_id" validate:"required"`
	BodyEN    string `json:"body_en"`
	Image     string `json:"image"`
	Status    string `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// BulkStatusRequest transitions a set of rows to a new lifecycle status.
type BulkStatusRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1"`
	Status string   `json:"status" validate:"required,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// PublicNewsItem is the localized public projection of a news post.
type PublicNewsItem struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// CreateEventRequest creates a bilingual event.
type CreateEventRequest struct {
	TitleID  string     `json:"title_id" validate:"required"`
	TitleEN  string     `json:"title_en"`
	BodyID   string     `json:"body_id" validate:"required"`
	BodyEN   string     `json:"body_en"`
	Location string     `json:"location"`
	Image    string     `json:"image"`
	StartsAt time.Time  `json:"starts_at" validate:"required"`
	EndsAt   *time.Time `json:"ends_at"`
	Status   string     `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// UpdateEventRequest replaces an event's editable fields.
type UpdateEventRequest struct {
	TitleID  string     `json:"title_id" validate:"required"`
	TitleEN  string     `json:"title_en"`
	BodyID   string     `json:"body_id" validate:"required"`
	BodyEN   string     `json:"body_en"`
	Location string     `json:"location"`
	Image    string     `json:"image"`
	StartsAt time.Time  `json:"starts_at" validate:"required"`
	EndsAt   *time.Time `json:"ends_at"`
	Status   string     `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// PublicEventItem is the localized public projection of an event.
type PublicEventItem struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	Location string     `json:"location,omitempty"`
	ImageURL string     `json:"image_url,omitempty"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
}
