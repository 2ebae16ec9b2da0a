package dto

// CreateComplaintRequest is the public intake form payload.
type CreateComplaintRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Category string `json:"category" validate:"required"`
	Message  string `json:"message" validate:"required,min=10"`
}

// UpdateComplaintStatusRequest moves a complaint through its workflow.
type UpdateComplaintStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW IN_REVIEW RESOLVED REJECTED"`
	Note   string `json:"note"`
}
