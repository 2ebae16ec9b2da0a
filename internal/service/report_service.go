package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
)

type reportRepository interface {
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error)
	FindByID(ctx context.Context, id string) (*models.Report, error)
	Create(ctx context.Context, report *models.Report) error
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id string) error
}

// ReportService manages published PDF documents (annual reports, financial
// statements, OJK disclosures).
type ReportService struct {
	repo      reportRepository
	audit     contentAuditLogger
	assets    assetResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(repo reportRepository, audit contentAuditLogger, assets assetResolver, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, audit: audit, assets: assets, validator: validate, logger: logger}
}

// List returns reports for the admin panel.
func (s *ReportService) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, *models.Pagination, error) {
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	return reports, paginationFor(filter.Page, filter.PageSize, total), nil
}

// PublicList returns public reports in the requested language with resolved
// download URLs.
func (s *ReportService) PublicList(ctx context.Context, lang string, filter models.ReportFilter) ([]dto.PublicReportItem, *models.Pagination, error) {
	filter.PublicOnly = true
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}

	items := make([]dto.PublicReportItem, 0, len(reports))
	for _, report := range reports {
		items = append(items, dto.PublicReportItem{
			ID:          report.ID,
			Title:       models.Localize(lang, report.TitleID, report.TitleEN),
			Category:    string(report.Category),
			Period:      report.Period,
			DownloadURL: s.assets.URL(report.File),
			PublishedAt: report.PublishedAt,
		})
	}
	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get fetches a report by ID.
func (s *ReportService) Get(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	return report, nil
}

// GetPublic fetches a report only if it is publicly visible. Used by the
// public download endpoint.
func (s *ReportService) GetPublic(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !report.IsPublic {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	return report, nil
}

// Publish registers a stored PDF as a report.
func (s *ReportService) Publish(ctx context.Context, req dto.PublishReportRequest, actor *models.JWTClaims) (*models.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	publishedAt := time.Now().UTC()
	if req.PublishedAt != nil {
		publishedAt = req.PublishedAt.UTC()
	}
	report := &models.Report{
		TitleID:     req.TitleID,
		TitleEN:     req.TitleEN,
		Category:    models.ReportCategory(req.Category),
		Period:      req.Period,
		File:        req.File,
		IsPublic:    boolOrDefault(req.IsPublic, true),
		PublishedAt: publishedAt,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish report")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, report.ID, nil, report)
	return report, nil
}

// Update replaces a report's metadata. Swapping the file removes the old
// stored PDF.
func (s *ReportService) Update(ctx context.Context, id string, req dto.PublishReportRequest, actor *models.JWTClaims) (*models.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}

	report := &models.Report{
		ID:          existing.ID,
		TitleID:     req.TitleID,
		TitleEN:     req.TitleEN,
		Category:    models.ReportCategory(req.Category),
		Period:      req.Period,
		File:        req.File,
		IsPublic:    boolOrDefault(req.IsPublic, existing.IsPublic),
		PublishedAt: existing.PublishedAt,
		CreatedAt:   existing.CreatedAt,
	}
	if req.PublishedAt != nil {
		report.PublishedAt = req.PublishedAt.UTC()
	}
	if err := s.repo.Update(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update report")
	}

	if existing.File != "" && existing.File != report.File {
		if err := s.assets.Delete(existing.File); err != nil {
			s.logger.Warn("failed to delete replaced report file", zap.Error(err))
		}
	}
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, report.ID, existing, report)
	return report, nil
}

// Delete removes a report and its stored PDF.
func (s *ReportService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete report")
	}
	if existing.File != "" {
		if err := s.assets.Delete(existing.File); err != nil {
			s.logger.Warn("failed to delete report file", zap.Error(err))
		}
	}
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, id, existing, nil)
	return nil
}

func (s *ReportService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID string, oldValue, newValue interface{}) {
	if s.audit == nil {
		return
	}
	var oldBytes, newBytes []byte
	if oldValue != nil {
		oldBytes, _ = json.Marshal(oldValue)
	}
	if newValue != nil {
		newBytes, _ = json.Marshal(newValue)
	}
	log := &models.AuditLog{
		UserID:     userIDPtr(actor),
		Action:     action,
		Resource:   "report",
		ResourceID: &resourceID,
		OldValues:  oldBytes,
		NewValues:  newBytes,
		IPAddress:  "system",
		UserAgent:  "content-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record report audit", zap.Error(err))
	}
}
