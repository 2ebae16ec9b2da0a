package dto

import "time"

// UpsertCareerRequest creates or updates a job vacancy.
type UpsertCareerRequest struct {
	TitleID        string     `json:"title_id" validate:"required"`
	TitleEN        string     `json:"title_en"`
	DescriptionID  string     `json:"description_id" validate:"required"`
	DescriptionEN  string     `json:"description_en"`
	Location       string     `json:"location"`
	EmploymentType string     `json:"employment_type"`
	ClosesAt       *time.Time `json:"closes_at"`
	Status         string     `json:"status" validate:"omitempty,oneof=OPEN CLOSED"`
}

// PublicCareerItem is the localized public projection of a vacancy.
type PublicCareerItem struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location,omitempty"`
	EmploymentType string     `json:"employment_type,omitempty"`
	ClosesAt       *time.Time `json:"closes_at,omitempty"`
}
