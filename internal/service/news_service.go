package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
)

type newsRepository interface {
	List(ctx context.Context, filter models.NewsFilter) ([]models.NewsPost, int, error)
	FindByID(ctx context.Context, id string) (*models.NewsPost, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.NewsPost, error)
	ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, post *models.NewsPost) error
	Update(ctx context.Context, post *models.NewsPost) error
	BulkUpdateStatus(ctx context.Context, ids []string, status models.ContentStatus, publishedAt *time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}

type contentCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const newsCachePrefix = "content:news:"

// NewsService manages bilingual news posts through their publication
// lifecycle. When a cache is provided, public listings are cached per
// language and page and invalidated on every write.
type NewsService struct {
	repo      newsRepository
	cache     contentCache
	audit     contentAuditLogger
	assets    assetResolver
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewNewsService constructs a NewsService. A nil cache disables public list
// caching.
func NewNewsService(repo newsRepository, cache contentCache, audit contentAuditLogger, assets assetResolver, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *NewsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &NewsService{repo: repo, cache: cache, audit: audit, assets: assets, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// List returns news posts for the admin panel.
func (s *NewsService) List(ctx context.Context, filter models.NewsFilter) ([]models.NewsPost, *models.Pagination, error) {
	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list news posts")
	}
	return posts, paginationFor(filter.Page, filter.PageSize, total), nil
}

type cachedNewsPage struct {
	Items      []dto.PublicNewsItem `json:"items"`
	Pagination *models.Pagination   `json:"pagination"`
}

// PublicList returns published posts projected into the requested language.
func (s *NewsService) PublicList(ctx context.Context, lang string, page, pageSize int) ([]dto.PublicNewsItem, *models.Pagination, error) {
	cacheKey := fmt.Sprintf("%s%s:%d:%d", newsCachePrefix, lang, page, pageSize)
	if s.cache != nil {
		var cached cachedNewsPage
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached.Items, cached.Pagination, nil
		} else if !appErrors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("news cache read failed", zap.Error(err))
		}
	}

	filter := models.NewsFilter{
		Status:   models.ContentStatusPublished,
		Page:     page,
		PageSize: pageSize,
		SortBy:   "published_at",
	}
	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list news posts")
	}

	items := make([]dto.PublicNewsItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, s.toPublicItem(post, lang, false))
	}
	pagination := paginationFor(page, pageSize, total)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, cachedNewsPage{Items: items, Pagination: pagination}, s.cacheTTL); err != nil {
			s.logger.Warn("news cache write failed", zap.Error(err))
		}
	}
	return items, pagination, nil
}

// PublicGetBySlug returns one published post, body included.
func (s *NewsService) PublicGetBySlug(ctx context.Context, slug, lang string) (*dto.PublicNewsItem, error) {
	post, err := s.repo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load news post")
	}
	item := s.toPublicItem(*post, lang, true)
	return &item, nil
}

// Get fetches a post by ID for the admin panel.
func (s *NewsService) Get(ctx context.Context, id string) (*models.NewsPost, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load news post")
	}
	return post, nil
}

// Create inserts a news post. New posts default to DRAFT; publishing stamps
// published_at.
func (s *NewsService) Create(ctx context.Context, req dto.CreateNewsRequest, actor *models.JWTClaims) (*models.NewsPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid news payload")
	}
	taken, err := s.repo.ExistsBySlug(ctx, req.Slug, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slug already in use")
	}

	status := models.ContentStatus(req.Status)
	if status == "" {
		status = models.ContentStatusDraft
	}
	post := &models.NewsPost{
		Slug:      req.Slug,
		TitleID:   req.TitleID,
		TitleEN:   req.TitleEN,
		ExcerptID: req.ExcerptID,
		ExcerptEN: req.ExcerptEN,
		BodyID:    req.BodyID,
		BodyEN:    req.BodyEN,
		Image:     optionalStr(req.Image),
		Status:    status,
		CreatedBy: userIDPtr(actor),
	}
	if status == models.ContentStatusPublished {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create news post")
	}
	s.invalidatePublicPages(ctx)
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, post.ID, nil, post)
	return post, nil
}

// Update replaces a post's editable fields. Transitioning into PUBLISHED
// stamps published_at once; the original timestamp is kept on republish.
func (s *NewsService) Update(ctx context.Context, id string, req dto.UpdateNewsRequest, actor *models.JWTClaims) (*models.NewsPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid news payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load news post")
	}
	taken, err := s.repo.ExistsBySlug(ctx, req.Slug, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slug already in use")
	}

	status := models.ContentStatus(req.Status)
	if status == "" {
		status = existing.Status
	}
	post := &models.NewsPost{
		ID:          existing.ID,
		Slug:        req.Slug,
		TitleID:     req.TitleID,
		TitleEN:     req.TitleEN,
		ExcerptID:   req.ExcerptID,
		ExcerptEN:   req.ExcerptEN,
		BodyID:      req.BodyID,
		BodyEN:      req.BodyEN,
		Image:       optionalStr(req.Image),
		Status:      status,
		PublishedAt: existing.PublishedAt,
		CreatedBy:   existing.CreatedBy,
		CreatedAt:   existing.CreatedAt,
	}
	if status == models.ContentStatusPublished && post.PublishedAt == nil {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update news post")
	}

	s.cleanupReplacedAsset(existing.Image, post.Image)
	s.invalidatePublicPages(ctx)
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, post.ID, existing, post)
	return post, nil
}

// BulkSetStatus transitions a set of posts and returns the affected count.
func (s *NewsService) BulkSetStatus(ctx context.Context, req dto.BulkStatusRequest, actor *models.JWTClaims) (int64, error) {
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
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update news status")
	}
	s.invalidatePublicPages(ctx)
	s.emitAudit(ctx, actor, models.AuditActionStatusChange, "", req.IDs, map[string]interface{}{"status": status, "affected": affected})
	return affected, nil
}

// Delete removes a post and its stored image.
func (s *NewsService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "news post not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load news post")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete news post")
	}
	s.cleanupReplacedAsset(existing.Image, nil)
	s.invalidatePublicPages(ctx)
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, id, existing, nil)
	return nil
}

func (s *NewsService) invalidatePublicPages(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, newsCachePrefix+"*"); err != nil {
		s.logger.Warn("failed to invalidate news cache", zap.Error(err))
	}
}

func (s *NewsService) toPublicItem(post models.NewsPost, lang string, includeBody bool) dto.PublicNewsItem {
	item := dto.PublicNewsItem{
		ID:          post.ID,
		Slug:        post.Slug,
		Title:       models.Localize(lang, post.TitleID, post.TitleEN),
		Excerpt:     models.Localize(lang, post.ExcerptID, post.ExcerptEN),
		PublishedAt: post.PublishedAt,
	}
	if includeBody {
		item.Body = models.Localize(lang, post.BodyID, post.BodyEN)
	}
	if post.Image != nil && *post.Image != "" {
		item.ImageURL = s.assets.URL(*post.Image)
	}
	return item
}

func (s *NewsService) cleanupReplacedAsset(old, current *string) {
	if old == nil || *old == "" {
		return
	}
	if current != nil && *current == *old {
		return
	}
	if err := s.assets.Delete(*old); err != nil {
		s.logger.Warn("failed to delete replaced news image", zap.Error(err))
	}
}

func (s *NewsService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID string, oldValue, newValue interface{}) {
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
		Resource:  "news",
		OldValues: oldBytes,
		NewValues: newBytes,
		IPAddress: "system",
		UserAgent: "content-service",
	}
	if resourceID != "" {
		log.ResourceID = &resourceID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record news audit", zap.Error(err))
	}
}
