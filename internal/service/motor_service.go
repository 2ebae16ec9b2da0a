package service

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
)

type motorRepository interface {
	List(ctx context.Context, filter models.MotorFilter) ([]models.Motor, int, error)
	FindByID(ctx context.Context, id string) (*models.Motor, error)
	Create(ctx context.Context, motor *models.Motor) error
	Update(ctx context.Context, motor *models.Motor) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type contentAuditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// MotorService manages the financeable vehicle catalogue and its embedded
// installment plan tables.
type MotorService struct {
	repo      motorRepository
	audit     contentAuditLogger
	assets    assetResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMotorService constructs a MotorService.
func NewMotorService(repo motorRepository, audit contentAuditLogger, assets assetResolver, validate *validator.Validate, logger *zap.Logger) *MotorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MotorService{repo: repo, audit: audit, assets: assets, validator: validate, logger: logger}
}

// List returns motors with pagination metadata. Public callers should pass a
// filter with Active pointing at true.
func (s *MotorService) List(ctx context.Context, filter models.MotorFilter) ([]models.Motor, *models.Pagination, error) {
	motors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list motors")
	}
	for i := range motors {
		s.resolveImage(&motors[i])
	}
	return motors, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get fetches a single motor.
func (s *MotorService) Get(ctx context.Context, id string) (*models.Motor, error) {
	motor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "motor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load motor")
	}
	s.resolveImage(motor)
	return motor, nil
}

// Create registers a new motor with its plan table.
func (s *MotorService) Create(ctx context.Context, req dto.CreateMotorRequest, actor *models.JWTClaims) (*models.Motor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid motor payload")
	}
	motor := &models.Motor{
		Name:             req.Name,
		Price:            req.Price,
		Area:             req.Area,
		Period:           req.Period,
		Image:            optionalStr(req.Image),
		InstallmentPlans: plansFromPayload(req.Plans),
		IsActive:         true,
	}
	if err := s.repo.Create(ctx, motor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create motor")
	}
	s.emitContentAudit(ctx, actor, models.AuditActionContentCreate, "motor", motor.ID, nil, motor)
	s.resolveImage(motor)
	return motor, nil
}

// Update replaces a motor's attributes and plan table. A replaced image file
// is removed from the asset store.
func (s *MotorService) Update(ctx context.Context, id string, req dto.UpdateMotorRequest, actor *models.JWTClaims) (*models.Motor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid motor payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "motor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load motor")
	}

	motor := &models.Motor{
		ID:               existing.ID,
		Name:             req.Name,
		Price:            req.Price,
		Area:             req.Area,
		Period:           req.Period,
		Image:            optionalStr(req.Image),
		InstallmentPlans: plansFromPayload(req.Plans),
		IsActive:         existing.IsActive,
		CreatedAt:        existing.CreatedAt,
	}
	if req.IsActive != nil {
		motor.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, motor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update motor")
	}

	s.cleanupReplacedAsset(existing.Image, motor.Image)
	s.emitContentAudit(ctx, actor, models.AuditActionContentUpdate, "motor", motor.ID, existing, motor)
	s.resolveImage(motor)
	return motor, nil
}

// Delete removes a motor and its stored image.
func (s *MotorService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "motor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load motor")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete motor")
	}
	s.cleanupReplacedAsset(existing.Image, nil)
	s.emitContentAudit(ctx, actor, models.AuditActionContentDelete, "motor", id, existing, nil)
	return nil
}

func (s *MotorService) resolveImage(motor *models.Motor) {
	if motor.Image == nil || *motor.Image == "" {
		return
	}
	resolved := s.assets.URL(*motor.Image)
	motor.Image = &resolved
}

func (s *MotorService) cleanupReplacedAsset(old, current *string) {
	if old == nil || *old == "" {
		return
	}
	if current != nil && *current == *old {
		return
	}
	if err := s.assets.Delete(*old); err != nil {
		s.logger.Warn("failed to delete replaced motor image", zap.Error(err))
	}
}

func (s *MotorService) emitContentAudit(ctx context.Context, actor *models.JWTClaims, action, resource, resourceID string, oldValue, newValue interface{}) {
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
		Resource:   resource,
		ResourceID: &resourceID,
		OldValues:  oldBytes,
		NewValues:  newBytes,
		IPAddress:  "system",
		UserAgent:  "content-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record content audit", zap.Error(err))
	}
}

func plansFromPayload(payload []dto.InstallmentPlanPayload) models.InstallmentPlanList {
	plans := make(models.InstallmentPlanList, 0, len(payload))
	for _, p := range payload {
		plans = append(plans, models.InstallmentPlan{
			DPPercent:    p.DPPercent,
			DPAmount:     p.DPAmount,
			Installments: p.Installments,
		})
	}
	return plans
}

func optionalStr(value string) *string {
	if value == "" {
		return nil
	}
	result := value
	return &result
}

func paginationFor(page, pageSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
