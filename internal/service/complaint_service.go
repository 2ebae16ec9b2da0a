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

type complaintRepository interface {
	List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error)
	FindByID(ctx context.Context, id string) (*models.Complaint, error)
	Create(ctx context.Context, complaint *models.Complaint) error
	UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus, note *string, resolvedAt *time.Time) error
	CountByStatus(ctx context.Context) (map[models.ComplaintStatus]int, error)
}

// allowedComplaintTransitions encodes the intake workflow: NEW can enter
// review or be rejected outright, IN_REVIEW resolves or rejects, terminal
// states never move.
var allowedComplaintTransitions = map[models.ComplaintStatus][]models.ComplaintStatus{
	models.ComplaintStatusNew:      {models.ComplaintStatusInReview, models.ComplaintStatusRejected},
	models.ComplaintStatusInReview: {models.ComplaintStatusResolved, models.ComplaintStatusRejected},
}

// ComplaintService handles public complaint intake and the admin review
// workflow.
type ComplaintService struct {
	repo      complaintRepository
	audit     contentAuditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewComplaintService constructs a ComplaintService.
func NewComplaintService(repo complaintRepository, audit contentAuditLogger, validate *validator.Validate, logger *zap.Logger) *ComplaintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// Submit records a new complaint from the public form. All submissions start
// at NEW.
func (s *ComplaintService) Submit(ctx context.Context, req dto.CreateComplaintRequest) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid complaint payload")
	}
	complaint := &models.Complaint{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Category: req.Category,
		Message:  req.Message,
		Status:   models.ComplaintStatusNew,
	}
	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit complaint")
	}
	return complaint, nil
}

// List returns complaints for the admin panel.
func (s *ComplaintService) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, *models.Pagination, error) {
	complaints, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list complaints")
	}
	return complaints, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get fetches a complaint by ID.
func (s *ComplaintService) Get(ctx context.Context, id string) (*models.Complaint, error) {
	complaint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "complaint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load complaint")
	}
	return complaint, nil
}

// UpdateStatus transitions a complaint through the review workflow. Invalid
// transitions, including any move out of a terminal state, are rejected.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, req dto.UpdateComplaintStatusRequest, actor *models.JWTClaims) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "complaint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load complaint")
	}

	target := models.ComplaintStatus(req.Status)
	if !transitionAllowed(existing.Status, target) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "invalid complaint status transition")
	}

	note := optionalStr(req.Note)
	var resolvedAt *time.Time
	if target == models.ComplaintStatusResolved || target == models.ComplaintStatusRejected {
		now := time.Now().UTC()
		resolvedAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, target, note, resolvedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update complaint")
	}

	s.emitAudit(ctx, actor, id, existing.Status, target)

	updated := *existing
	updated.Status = target
	updated.Note = note
	updated.ResolvedAt = resolvedAt
	return &updated, nil
}

// Summary returns complaint counts grouped by workflow state.
func (s *ComplaintService) Summary(ctx context.Context) (map[models.ComplaintStatus]int, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise complaints")
	}
	return counts, nil
}

func transitionAllowed(from, to models.ComplaintStatus) bool {
	for _, allowed := range allowedComplaintTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *ComplaintService) emitAudit(ctx context.Context, actor *models.JWTClaims, id string, from, to models.ComplaintStatus) {
	if s.audit == nil {
		return
	}
	oldBytes, _ := json.Marshal(map[string]string{"status": string(from)})
	newBytes, _ := json.Marshal(map[string]string{"status": string(to)})
	log := &models.AuditLog{
		UserID:     userIDPtr(actor),
		Action:     models.AuditActionStatusChange,
		Resource:   "complaint",
		ResourceID: &id,
		OldValues:  oldBytes,
		NewValues:  newBytes,
		IPAddress:  "system",
		UserAgent:  "complaint-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record complaint audit", zap.Error(err))
	}
}
