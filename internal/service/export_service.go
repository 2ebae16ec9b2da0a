package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
	"github.com/tez-capital/cms-api/pkg/export"
	"github.com/tez-capital/cms-api/pkg/jobs"
	"github.com/tez-capital/cms-api/pkg/storage"
)

type exportJobRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ExportJob, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkFinished(ctx context.Context, id, filePath string, finishedAt time.Time) error
	MarkFailed(ctx context.Context, id, message string, finishedAt time.Time) error
}

type exportComplaintSource interface {
	ListAll(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error)
}

type exportMotorSource interface {
	List(ctx context.Context, filter models.MotorFilter) ([]models.Motor, int, error)
}

// ExportServiceConfig tunes the background worker pool.
type ExportServiceConfig struct {
	Workers    int
	MaxRetries int
}

// ExportService generates CSV and PDF exports asynchronously. Jobs are
// persisted for status polling and the produced files are served through
// signed, expiring download tokens.
type ExportService struct {
	repo       exportJobRepository
	complaints exportComplaintSource
	motors     exportMotorSource
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	files      *storage.AssetStore
	signer     *storage.SignedURLSigner
	queue      *jobs.Queue
	logger     *zap.Logger
}

// NewExportService constructs an ExportService with its own worker queue.
// Start must be called before Enqueue.
func NewExportService(repo exportJobRepository, complaints exportComplaintSource, motors exportMotorSource, files *storage.AssetStore, signer *storage.SignedURLSigner, logger *zap.Logger, cfg ExportServiceConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		repo:       repo,
		complaints: complaints,
		motors:     motors,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		files:      files,
		signer:     signer,
		logger:     logger,
	}
	s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the background workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker pool.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Enqueue persists a QUEUED job and hands it to the worker pool.
func (s *ExportService) Enqueue(ctx context.Context, req dto.CreateExportRequest, actor *models.JWTClaims) (*dto.ExportJobItem, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	exportType := models.ExportType(req.Type)
	switch exportType {
	case models.ExportTypeComplaintsCSV, models.ExportTypeMotorPriceList:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export type %q", req.Type))
	}

	job := &models.ExportJob{
		Type:      exportType,
		Status:    models.ExportStatusQueued,
		CreatedBy: actor.UserID,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(exportType)}); err != nil {
		now := time.Now().UTC()
		if markErr := s.repo.MarkFailed(ctx, job.ID, "queue unavailable", now); markErr != nil {
			s.logger.Warn("failed to mark export job failed", zap.Error(markErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}

	item := s.toItem(*job)
	return &item, nil
}

// GetJob returns job status for the creating user, including a signed
// download URL once finished.
func (s *ExportService) GetJob(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ExportJobItem, error) {
	job, err := s.loadOwnedJob(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	item := s.toItem(*job)
	return &item, nil
}

// ListJobs returns the actor's recent export jobs.
func (s *ExportService) ListJobs(ctx context.Context, actor *models.JWTClaims, limit int) ([]dto.ExportJobItem, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	rows, err := s.repo.ListByUser(ctx, actor.UserID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list export jobs")
	}
	items := make([]dto.ExportJobItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, s.toItem(row))
	}
	return items, nil
}

// ResolveDownload validates a signed token and opens the referenced file.
func (s *ExportService) ResolveDownload(token string) (*os.File, string, error) {
	resourceID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download token")
	}
	file, err := s.files.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file not found")
	}
	return file, resourceID, nil
}

func (s *ExportService) loadOwnedJob(ctx context.Context, id string, actor *models.JWTClaims) (*models.ExportJob, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	if job.CreatedBy != actor.UserID && actor.Role != models.RoleSuperAdmin {
		return nil, appErrors.ErrForbidden
	}
	return job, nil
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	if err := s.repo.MarkProcessing(ctx, job.ID); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	var (
		data []byte
		ext  string
		err  error
	)
	switch models.ExportType(job.Type) {
	case models.ExportTypeComplaintsCSV:
		data, err = s.buildComplaintsCSV(ctx)
		ext = "csv"
	case models.ExportTypeMotorPriceList:
		data, err = s.buildMotorPriceList(ctx)
		ext = "pdf"
	default:
		err = fmt.Errorf("unknown export type %q", job.Type)
	}
	if err != nil {
		now := time.Now().UTC()
		if markErr := s.repo.MarkFailed(ctx, job.ID, err.Error(), now); markErr != nil {
			s.logger.Warn("failed to mark export job failed", zap.Error(markErr))
		}
		return err
	}

	relPath := fmt.Sprintf("exports/%s.%s", job.ID, ext)
	if _, err := s.files.Save(relPath, data); err != nil {
		now := time.Now().UTC()
		if markErr := s.repo.MarkFailed(ctx, job.ID, "failed to store export file", now); markErr != nil {
			s.logger.Warn("failed to mark export job failed", zap.Error(markErr))
		}
		return err
	}

	if err := s.repo.MarkFinished(ctx, job.ID, relPath, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark finished: %w", err)
	}
	s.logger.Info("export job finished", zap.String("job_id", job.ID), zap.String("type", job.Type))
	return nil
}

func (s *ExportService) buildComplaintsCSV(ctx context.Context) ([]byte, error) {
	complaints, err := s.complaints.ListAll(ctx, models.ComplaintFilter{})
	if err != nil {
		return nil, err
	}
	headers := []string{"ID", "Full Name", "Email", "Phone", "Category", "Status", "Message", "Submitted At"}
	rows := make([]map[string]string, 0, len(complaints))
	for _, c := range complaints {
		rows = append(rows, map[string]string{
			"ID":           c.ID,
			"Full Name":    c.FullName,
			"Email":        c.Email,
			"Phone":        c.Phone,
			"Category":     c.Category,
			"Status":       string(c.Status),
			"Message":      c.Message,
			"Submitted At": c.CreatedAt.Format(time.RFC3339),
		})
	}
	return s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
}

func (s *ExportService) buildMotorPriceList(ctx context.Context) ([]byte, error) {
	active := true
	headers := []string{"Name", "Area", "Period", "Price", "DP Amount"}
	for _, tenor := range models.AllowedTenors {
		headers = append(headers, fmt.Sprintf("%d mo", tenor))
	}

	var rows []map[string]string
	page := 1
	for {
		motors, total, err := s.motors.List(ctx, models.MotorFilter{
			Active:    &active,
			Page:      page,
			PageSize:  100,
			SortBy:    "name",
			SortOrder: "ASC",
		})
		if err != nil {
			return nil, err
		}
		for _, motor := range motors {
			for _, plan := range motor.InstallmentPlans {
				row := map[string]string{
					"Name":      motor.Name,
					"Area":      motor.Area,
					"Period":    motor.Period,
					"Price":     motor.Price.StringFixed(0),
					"DP Amount": plan.DPAmount.StringFixed(0),
				}
				for _, tenor := range models.AllowedTenors {
					if monthly, ok := plan.Installments[models.TenorKey(tenor)]; ok {
						row[fmt.Sprintf("%d mo", tenor)] = monthly.StringFixed(0)
					}
				}
				rows = append(rows, row)
			}
		}
		if page*100 >= total || len(motors) == 0 {
			break
		}
		page++
	}

	return s.pdf.RenderLandscape(export.Dataset{Headers: headers, Rows: rows}, "Motor Price List")
}

func (s *ExportService) toItem(job models.ExportJob) dto.ExportJobItem {
	item := dto.ExportJobItem{
		ID:         job.ID,
		Type:       string(job.Type),
		Status:     string(job.Status),
		CreatedAt:  job.CreatedAt,
		FinishedAt: job.FinishedAt,
	}
	if job.ErrorMessage != nil {
		item.ErrorMessage = *job.ErrorMessage
	}
	if job.Status == models.ExportStatusFinished && job.FilePath != nil {
		token, _, err := s.signer.Generate(job.ID, *job.FilePath)
		if err != nil {
			s.logger.Warn("failed to sign export download", zap.String("job_id", job.ID), zap.Error(err))
		} else {
			item.DownloadURL = "/api/v1/admin/exports/download?token=" + token
		}
	}
	return item
}
