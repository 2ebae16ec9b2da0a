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

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	BulkUpdateStatus(ctx context.Context, ids []string, status models.ContentStatus, publishedAt *time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}

// EventService manages bilingual event announcements.
type EventService struct {
	repo      eventRepository
	audit     contentAuditLogger
	assets    assetResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs an EventService.
func NewEventService(repo eventRepository, audit contentAuditLogger, assets assetResolver, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, audit: audit, assets: assets, validator: validate, logger: logger}
}

// List returns events for the admin panel.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, *models.Pagination, error) {
	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, paginationFor(filter.Page, filter.PageSize, total), nil
}

// PublicList returns published upcoming events in the requested language.
func (s *EventService) PublicList(ctx context.Context, lang string, page, pageSize int) ([]dto.PublicEventItem, *models.Pagination, error) {
	filter := models.EventFilter{
		Status:       models.ContentStatusPublished,
		UpcomingOnly: true,
		Page:         page,
		PageSize:     pageSize,
	}
	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	items := make([]dto.PublicEventItem, 0, len(events))
	for _, event := range events {
		item := dto.PublicEventItem{
			ID:       event.ID,
			Title:    models.Localize(lang, event.TitleID, event.TitleEN),
			Body:     models.Localize(lang, event.BodyID, event.BodyEN),
			Location: event.Location,
			StartsAt: event.StartsAt,
			EndsAt:   event.EndsAt,
		}
		if event.Image != nil && *event.Image != "" {
			item.ImageURL = s.assets.URL(*event.Image)
		}
		items = append(items, item)
	}
	return items, paginationFor(page, pageSize, total), nil
}

// Get fetches an event by ID.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return event, nil
}

// Create inserts an event.
func (s *EventService) Create(ctx context.Context, req dto.CreateEventRequest, actor *models.JWTClaims) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ends_at must not precede starts_at")
	}

	status := models.ContentStatus(req.Status)
	if status == "" {
		status = models.ContentStatusDraft
	}
	event := &models.Event{
		TitleID:  req.TitleID,
		TitleEN:  req.TitleEN,
		BodyID:   req.BodyID,
		BodyEN:   req.BodyEN,
		Location: req.Location,
		Image:    optionalStr(req.Image),
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Status:   status,
	}
	if status == models.ContentStatusPublished {
		now := time.Now().UTC()
		event.PublishedAt = &now
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, event.ID, nil, event)
	return event, nil
}

// Update replaces an event's editable fields.
func (s *EventService) Update(ctx context.Context, id string, req dto.UpdateEventRequest, actor *models.JWTClaims) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ends_at must not precede starts_at")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	status := models.ContentStatus(req.Status)
	if status == "" {
		status = existing.Status
	}
	event := &models.Event{
		ID:          existing.ID,
		TitleID:     req.TitleID,
		TitleEN:     req.TitleEN,
		BodyID:      req.BodyID,
		BodyEN:      req.BodyEN,
		Location:    req.Location,
		Image:       optionalStr(req.Image),
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Status:      status,
		PublishedAt: existing.PublishedAt,
		CreatedAt:   existing.CreatedAt,
	}
	if status == models.ContentStatusPublished && event.PublishedAt == nil {
		now := time.Now().UTC()
		event.PublishedAt = &now
	}
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}

	s.cleanupReplacedAsset(existing.Image, event.Image)
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, event.ID, existing, event)
	return event, nil
}

// BulkSetStatus transitions a set of events and returns the affected count.
func (s *EventService) BulkSetStatus(ctx context.Context, req dto.BulkStatusRequest, actor *models.JWTClaims) (int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk status payload")
	}
	status := models.ContentStatus(req.Status)
	var publishedAt *time.Time
	if status == models.ContentStatusPublished {
		now := time.Now().UTC()
		publishedAt = &now
	}
	affected, err := s.repo.BulkUpdateStatus(ctx, req.IDs, status, publishedAt)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event status")
	}
	s.emitAudit(ctx, actor, models.AuditActionStatusChange, "", req.IDs, map[string]interface{}{"status": status, "affected": affected})
	return affected, nil
}

// Delete removes an event and its stored image.
func (s *EventService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	s.cleanupReplacedAsset(existing.Image, nil)
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, id, existing, nil)
	return nil
}

func (s *EventService) cleanupReplacedAsset(old, current *string) {
	if old == nil || *old == "" {
		return
	}
	if current != nil && *current == *old {
		return
	}
	if err := s.assets.Delete(*old); err != nil {
		s.logger.Warn("failed to delete replaced event image", zap.Error(err))
	}
}

func (s *EventService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID string, oldValue, newValue interface{}) {
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
		Resource:  "event",
		OldValues: oldBytes,
		NewValues: newBytes,
		IPAddress: "system",
		UserAgent: "content-service",
	}
	if resourceID != "" {
		log.ResourceID = &resourceID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record event audit", zap.Error(err))
	}
}
