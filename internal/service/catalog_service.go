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

type serviceItemRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.ServiceItem, error)
	FindByID(ctx context.Context, id string) (*models.ServiceItem, error)
	Create(ctx context.Context, item *models.ServiceItem) error
	Update(ctx context.Context, item *models.ServiceItem) error
	Delete(ctx context.Context, id string) error
}

type partnerRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Partner, error)
	FindByID(ctx context.Context, id string) (*models.Partner, error)
	Create(ctx context.Context, partner *models.Partner) error
	Update(ctx context.Context, partner *models.Partner) error
	Delete(ctx context.Context, id string) error
}

type teamMemberRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.TeamMember, error)
	FindByID(ctx context.Context, id string) (*models.TeamMember, error)
	Create(ctx context.Context, member *models.TeamMember) error
	Update(ctx context.Context, member *models.TeamMember) error
	Delete(ctx context.Context, id string) error
}

// CatalogService manages the small ordered display collections: the
// financing-services catalogue, partner logos and team profiles. All three
// share the same sort-order driven list shape.
type CatalogService struct {
	services  serviceItemRepository
	partners  partnerRepository
	team      teamMemberRepository
	audit     contentAuditLogger
	assets    assetResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(services serviceItemRepository, partners partnerRepository, team teamMemberRepository, audit contentAuditLogger, assets assetResolver, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		services:  services,
		partners:  partners,
		team:      team,
		audit:     audit,
		assets:    assets,
		validator: validate,
		logger:    logger,
	}
}

// ListServiceItems returns catalogue entries for the admin panel.
func (s *CatalogService) ListServiceItems(ctx context.Context) ([]models.ServiceItem, error) {
	items, err := s.services.List(ctx, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list service items")
	}
	return items, nil
}

// PublicServiceItems returns active entries in the requested language.
func (s *CatalogService) PublicServiceItems(ctx context.Context, lang string) ([]dto.PublicServiceItem, error) {
	items, err := s.services.List(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list service items")
	}
	result := make([]dto.PublicServiceItem, 0, len(items))
	for _, item := range items {
		public := dto.PublicServiceItem{
			ID:      item.ID,
			Title:   models.Localize(lang, item.TitleID, item.TitleEN),
			Summary: models.Localize(lang, item.SummaryID, item.SummaryEN),
			Body:    models.Localize(lang, item.BodyID, item.BodyEN),
		}
		if item.Icon != nil && *item.Icon != "" {
			public.IconURL = s.assets.URL(*item.Icon)
		}
		result = append(result, public)
	}
	return result, nil
}

// CreateServiceItem inserts a catalogue entry.
func (s *CatalogService) CreateServiceItem(ctx context.Context, req dto.UpsertServiceItemRequest, actor *models.JWTClaims) (*models.ServiceItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid service item payload")
	}
	item := &models.ServiceItem{
		TitleID:   req.TitleID,
		TitleEN:   req.TitleEN,
		SummaryID: req.SummaryID,
		SummaryEN: req.SummaryEN,
		BodyID:    req.BodyID,
		BodyEN:    req.BodyEN,
		Icon:      optionalStr(req.Icon),
		SortOrder: req.SortOrder,
		IsActive:  boolOrDefault(req.IsActive, true),
	}
	if err := s.services.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create service item")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, "service_item", item.ID, nil, item)
	return item, nil
}

// UpdateServiceItem replaces a catalogue entry.
func (s *CatalogService) UpdateServiceItem(ctx context.Context, id string, req dto.UpsertServiceItemRequest, actor *models.JWTClaims) (*models.ServiceItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid service item payload")
	}
	existing, err := s.services.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service item")
	}
	item := &models.ServiceItem{
		ID:        existing.ID,
		TitleID:   req.TitleID,
		TitleEN:   req.TitleEN,
		SummaryID: req.SummaryID,
		SummaryEN: req.SummaryEN,
		BodyID:    req.BodyID,
		BodyEN:    req.BodyEN,
		Icon:      optionalStr(req.Icon),
		SortOrder: req.SortOrder,
		IsActive:  boolOrDefault(req.IsActive, existing.IsActive),
		CreatedAt: existing.CreatedAt,
	}
	if err := s.services.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update service item")
	}
	s.cleanupAsset(existing.Icon, item.Icon)
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, "service_item", item.ID, existing, item)
	return item, nil
}

// DeleteServiceItem removes a catalogue entry.
func (s *CatalogService) DeleteServiceItem(ctx context.Context, id string, actor *models.JWTClaims) error {
	existing, err := s.services.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "service item not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service item")
	}
	if err := s.services.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete service item")
	}
	s.cleanupAsset(existing.Icon, nil)
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, "service_item", id, existing, nil)
	return nil
}

// ListPartners returns partners for the admin panel.
func (s *CatalogService) ListPartners(ctx context.Context) ([]models.Partner, error) {
	partners, err := s.partners.List(ctx, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list partners")
	}
	return partners, nil
}

// PublicPartners returns active partner entries with resolved logo URLs.
func (s *CatalogService) PublicPartners(ctx context.Context) ([]dto.PublicPartnerItem, error) {
	partners, err := s.partners.List(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list partners")
	}
	result := make([]dto.PublicPartnerItem, 0, len(partners))
	for _, partner := range partners {
		public := dto.PublicPartnerItem{ID: partner.ID, Name: partner.Name}
		if partner.Logo != nil && *partner.Logo != "" {
			public.LogoURL = s.assets.URL(*partner.Logo)
		}
		if partner.WebsiteURL != nil {
			public.WebsiteURL = *partner.WebsiteURL
		}
		result = append(result, public)
	}
	return result, nil
}

// CreatePartner inserts a partner entry.
func (s *CatalogService) CreatePartner(ctx context.Context, req dto.UpsertPartnerRequest, actor *models.JWTClaims) (*models.Partner, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid partner payload")
	}
	partner := &models.Partner{
		Name:       req.Name,
		Logo:       optionalStr(req.Logo),
		WebsiteURL: optionalStr(req.WebsiteURL),
		SortOrder:  req.SortOrder,
		IsActive:   boolOrDefault(req.IsActive, true),
	}
	if err := s.partners.Create(ctx, partner); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create partner")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, "partner", partner.ID, nil, partner)
	return partner, nil
}

// UpdatePartner replaces a partner entry.
func (s *CatalogService) UpdatePartner(ctx context.Context, id string, req dto.UpsertPartnerRequest, actor *models.JWTClaims) (*models.Partner, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid partner payload")
	}
	existing, err := s.partners.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "partner not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load partner")
	}
	partner := &models.Partner{
		ID:         existing.ID,
		Name:       req.Name,
		Logo:       optionalStr(req.Logo),
		WebsiteURL: optionalStr(req.WebsiteURL),
		SortOrder:  req.SortOrder,
		IsActive:   boolOrDefault(req.IsActive, existing.IsActive),
		CreatedAt:  existing.CreatedAt,
	}
	if err := s.partners.Update(ctx, partner); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update partner")
	}
	s.cleanupAsset(existing.Logo, partner.Logo)
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, "partner", partner.ID, existing, partner)
	return partner, nil
}

// DeletePartner removes a partner entry.
func (s *CatalogService) DeletePartner(ctx context.Context, id string, actor *models.JWTClaims) error {
	existing, err := s.partners.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "partner not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load partner")
	}
	if err := s.partners.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete partner")
	}
	s.cleanupAsset(existing.Logo, nil)
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, "partner", id, existing, nil)
	return nil
}

// ListTeamMembers returns team profiles for the admin panel.
func (s *CatalogService) ListTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	members, err := s.team.List(ctx, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list team members")
	}
	return members, nil
}

// PublicTeamMembers returns active profiles in the requested language.
func (s *CatalogService) PublicTeamMembers(ctx context.Context, lang string) ([]dto.PublicTeamMember, error) {
	members, err := s.team.List(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list team members")
	}
	result := make([]dto.PublicTeamMember, 0, len(members))
	for _, member := range members {
		public := dto.PublicTeamMember{
			ID:       member.ID,
			Name:     member.Name,
			Position: models.Localize(lang, member.PositionID, member.PositionEN),
		}
		if member.Photo != nil && *member.Photo != "" {
			public.PhotoURL = s.assets.URL(*member.Photo)
		}
		result = append(result, public)
	}
	return result, nil
}

// CreateTeamMember inserts a team profile.
func (s *CatalogService) CreateTeamMember(ctx context.Context, req dto.UpsertTeamMemberRequest, actor *models.JWTClaims) (*models.TeamMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid team member payload")
	}
	member := &models.TeamMember{
		Name:       req.Name,
		PositionID: req.PositionID,
		PositionEN: req.PositionEN,
		Photo:      optionalStr(req.Photo),
		SortOrder:  req.SortOrder,
		IsActive:   boolOrDefault(req.IsActive, true),
	}
	if err := s.team.Create(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create team member")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, "team_member", member.ID, nil, member)
	return member, nil
}

// UpdateTeamMember replaces a team profile.
func (s *CatalogService) UpdateTeamMember(ctx context.Context, id string, req dto.UpsertTeamMemberRequest, actor *models.JWTClaims) (*models.TeamMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid team member payload")
	}
	existing, err := s.team.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "team member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load team member")
	}
	member := &models.TeamMember{
		ID:         existing.ID,
		Name:       req.Name,
		PositionID: req.PositionID,
		PositionEN: req.PositionEN,
		Photo:      optionalStr(req.Photo),
		SortOrder:  req.SortOrder,
		IsActive:   boolOrDefault(req.IsActive, existing.IsActive),
		CreatedAt:  existing.CreatedAt,
	}
	if err := s.team.Update(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update team member")
	}
	s.cleanupAsset(existing.Photo, member.Photo)
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, "team_member", member.ID, existing, member)
	return member, nil
}

// DeleteTeamMember removes a team profile.
func (s *CatalogService) DeleteTeamMember(ctx context.Context, id string, actor *models.JWTClaims) error {
	existing, err := s.team.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "team member not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load team member")
	}
	if err := s.team.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete team member")
	}
	s.cleanupAsset(existing.Photo, nil)
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, "team_member", id, existing, nil)
	return nil
}

func (s *CatalogService) cleanupAsset(old, current *string) {
	if old == nil || *old == "" {
		return
	}
	if current != nil && *current == *old {
		return
	}
	if err := s.assets.Delete(*old); err != nil {
		s.logger.Warn("failed to delete replaced catalog asset", zap.Error(err))
	}
}

func (s *CatalogService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, resource, resourceID string, oldValue, newValue interface{}) {
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
		s.logger.Warn("failed to record catalog audit", zap.Error(err))
	}
}

func boolOrDefault(value *bool, def bool) bool {
	if value == nil {
		return def
	}
	return *value
}
