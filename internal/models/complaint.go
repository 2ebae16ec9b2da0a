package models

import "time"

// ComplaintStatus tracks intake handling. New complaints start at NEW and
// move through IN_REVIEW to a terminal RESOLVED or REJECTED.
type ComplaintStatus string

const (
	ComplaintStatusNew      ComplaintStatus = "NEW"
	ComplaintStatusInReview ComplaintStatus = "IN_REVIEW"
	ComplaintStatusResolved ComplaintStatus = "RESOLVED"
	ComplaintStatusRejected ComplaintStatus = "REJECTED"
)

// ValidComplaintStatus reports whether the status is a known state.
func ValidComplaintStatus(s ComplaintStatus) bool {
	switch s {
	case ComplaintStatusNew, ComplaintStatusInReview, ComplaintStatusResolved, ComplaintStatusRejected:
		return true
	}
	return false
}

// Complaint is a consumer complaint submitted through the public form.
type Complaint struct {
	ID         string          `db:"id" json:"id"`
	FullName   string          `db:"full_name" json:"full_name"`
	Email      string          `db:"email" json:"email"`
	Phone      string          `db:"phone" json:"phone"`
	Category   string          `db:"category" json:"category"`
	Message    string          `db:"message" json:"message"`
	Status     ComplaintStatus `db:"status" json:"status"`
	Note       *string         `db:"note" json:"note,omitempty"`
	ResolvedAt *time.Time      `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// ComplaintFilter captures listing criteria for complaints.
type ComplaintFilter struct {
	Status   ComplaintStatus
	Category string
	Search   string
	Page     int
	PageSize int
}
