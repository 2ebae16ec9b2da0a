package dto

import "time"

// CreateExportRequest enqueues an asynchronous export job.
type CreateExportRequest struct {
	Type string `json:"type" validate:"required,oneof=complaints_csv motor_price_list_pdf"`
}

// ExportJobItem describes a job and, once finished, its signed download URL.
type ExportJobItem struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	DownloadURL  string     `json:"download_url,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}
