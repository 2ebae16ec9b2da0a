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

type careerRepository interface {
	List(ctx context.Context, filter models.CareerFilter) ([]models.Career, int, error)
	FindByID(ctx context.Context, id string) (*models.Career, error)
	Create(ctx context.Context, career *models.Career) error
	Update(ctx context.Context, career *models.Career) error
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}

// CareerService manages job vacancies. Expired vacancies are swept to CLOSED
// lazily on public reads.
type CareerService struct {
	repo      careerRepository
	audit     contentAuditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCareerService constructs a CareerService.
func NewCareerService(repo careerRepository, audit contentAuditLogger, validate *validator.Validate, logger *zap.Logger) *CareerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CareerService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns vacancies for the admin panel.
func (s *CareerService) List(ctx context.Context, filter models.CareerFilter) ([]models.Career, *models.Pagination, error) {
	careers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list careers")
	}
	return careers, paginationFor(filter.Page, filter.PageSize, total), nil
}

// PublicList returns OPEN vacancies in the requested language, closing any
// whose deadline has passed first.
func (s *CareerService) PublicList(ctx context.Context, lang string, page, pageSize int) ([]dto.PublicCareerItem, *models.Pagination, error) {
	if _, err := s.repo.CloseExpired(ctx, time.Now()); err != nil {
		s.logger.Warn("failed to close expired careers", zap.Error(err))
	}

	filter := models.CareerFilter{Status: models.CareerStatusOpen, Page: page, PageSize: pageSize}
	careers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list careers")
	}

	items := make([]dto.PublicCareerItem, 0, len(careers))
	for _, career := range careers {
		items = append(items, dto.PublicCareerItem{
			ID:             career.ID,
			Title:          models.Localize(lang, career.TitleID, career.TitleEN),
			Description:    models.Localize(lang, career.DescriptionID, career.DescriptionEN),
			Location:       career.Location,
			EmploymentType: career.EmploymentType,
			ClosesAt:       career.ClosesAt,
		})
	}
	return items, paginationFor(page, pageSize, total), nil
}

// Get fetches a vacancy by ID.
func (s *CareerService) Get(ctx context.Context, id string) (*models.Career, error) {
	career, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "career not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}
	return career, nil
}

// Create inserts a vacancy. New vacancies default to OPEN.
func (s *CareerService) Create(ctx context.Context, req dto.UpsertCareerRequest, actor *models.JWTClaims) (*models.Career, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid career payload")
	}
	status := models.CareerStatus(req.Status)
	if status == "" {
		status = models.CareerStatusOpen
	}
	career := &models.Career{
		TitleID:        req.TitleID,
		TitleEN:        req.TitleEN,
		DescriptionID:  req.DescriptionID,
		DescriptionEN:  req.DescriptionEN,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		ClosesAt:       req.ClosesAt,
		Status:         status,
	}
	if err := s.repo.Create(ctx, career); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create career")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, career.ID, nil, career)
	return career, nil
}

// Update replaces a vacancy's editable fields.
func (s *CareerService) Update(ctx context.Context, id string, req dto.UpsertCareerRequest, actor *models.JWTClaims) (*models.Career, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid career payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "career not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}
	status := models.CareerStatus(req.Status)
	if status == "" {
		status = existing.Status
	}
	career := &models.Career{
		ID:             existing.ID,
		TitleID:        req.TitleID,
		TitleEN:        req.TitleEN,
		DescriptionID:  req.DescriptionID,
		DescriptionEN:  req.DescriptionEN,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		ClosesAt:       req.ClosesAt,
		Status:         status,
		CreatedAt:      existing.CreatedAt,
	}
	if err := s.repo.Update(ctx, career); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update career")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, career.ID, existing, career)
	return career, nil
}

// Delete removes a vacancy.
func (s *CareerService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "career not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete career")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, id, existing, nil)
	return nil
}

func (s *CareerService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID string, oldValue, newValue interface{}) {
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
		UserID:    userIDPtr(actor),
		Action:    action,
		Resource:  "career",
		OldValues: oldBytes,
		NewValues: newBytes,
		IPAddress: "system",
		UserAgent: "content-service",
	}
	if resourceID != "" {
		log.ResourceID = &resourceID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record career audit", zap.Error(err))
	}
}
