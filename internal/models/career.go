package models

import "time"

// CareerStatus captures a vacancy's lifecycle.
type CareerStatus string

const (
	CareerStatusOpen   CareerStatus = "OPEN"
	CareerStatusClosed CareerStatus = "CLOSED"
)

// Career represents a published job vacancy.
type Career struct {
	ID             string       `db:"id" json:"id"`
	TitleID        string       `db:"title_id" json:"title_id"`
	TitleEN        string       `db:"title_en" json:"title_en"`
	DescriptionID  string       `db:"description_id" json:"description_id"`
	DescriptionEN  string       `db:"description_en" json:"description_en"`
	Location       string       `db:"location" json:"location"`
	EmploymentType string       `db:"employment_type" json:"employment_type"`
	ClosesAt       *time.Time   `db:"closes_at" json:"closes_at,omitempty"`
	Status         CareerStatus `db:"status" json:"status"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// CareerFilter captures listing criteria for vacancies.
type CareerFilter struct {
	Status   CareerStatus
	Search   string
	Page     int
	PageSize int
}
