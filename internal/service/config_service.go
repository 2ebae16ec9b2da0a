package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
)

const publicConfigCacheKey = "config:public"

// imageListKeys are json-typed configuration keys whose array elements are
// stored asset references and must be rewritten into absolute URLs on read.
var imageListKeys = map[string]bool{
	"homepage_banners": true,
	"about_gallery":    true,
}

type configurationRepository interface {
	Get(ctx context.Context, key string) (*models.Configuration, error)
	ListByGroup(ctx context.Context, group models.ConfigGroup) ([]models.Configuration, error)
	ListPublic(ctx context.Context) ([]models.Configuration, error)
	ListAll(ctx context.Context) ([]models.Configuration, error)
	Upsert(ctx context.Context, cfg *models.Configuration) error
	BulkUpsert(ctx context.Context, cfgs []models.Configuration) error
	Delete(ctx context.Context, key string) error
}

type configCacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type configAuditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type assetResolver interface {
	URL(relPath string) string
	Delete(relPath string) error
}

// ConfigServiceConfig tunes runtime behaviour.
type ConfigServiceConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ConfigService owns the typed site configuration store: decoding raw values
// according to their declared type, rewriting stored asset references into
// public URLs, and caching the public snapshot.
type ConfigService struct {
	repo      configurationRepository
	cache     configCacheStore
	audit     configAuditLogger
	assets    assetResolver
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ConfigServiceConfig
}

// NewConfigService constructs a ConfigService.
func NewConfigService(repo configurationRepository, cache configCacheStore, audit configAuditLogger, assets assetResolver, validate *validator.Validate, logger *zap.Logger, cfg ConfigServiceConfig) *ConfigService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &ConfigService{
		repo:      repo,
		cache:     cache,
		audit:     audit,
		assets:    assets,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Get returns the decoded value for a key, falling back to def when the key
// is absent or the lookup fails. Decoding is total: malformed stored values
// decode to their type's zero shape rather than an error.
func (s *ConfigService) Get(ctx context.Context, key string, def interface{}) interface{} {
	cfg, err := s.repo.Get(ctx, key)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn("configuration lookup failed", zap.String("key", key), zap.Error(err))
		}
		return def
	}
	return s.decode(*cfg)
}

// GetString is a convenience accessor for string-shaped keys.
func (s *ConfigService) GetString(ctx context.Context, key, def string) string {
	value := s.Get(ctx, key, def)
	if str, ok := value.(string); ok {
		return str
	}
	return def
}

// GetBool is a convenience accessor for boolean keys.
func (s *ConfigService) GetBool(ctx context.Context, key string, def bool) bool {
	value := s.Get(ctx, key, def)
	if b, ok := value.(bool); ok {
		return b
	}
	return def
}

// GetByGroup returns the decoded values of one group keyed by configuration
// key. Intended for programmatic consumers; the admin API uses ListByGroup.
func (s *ConfigService) GetByGroup(ctx context.Context, group models.ConfigGroup) (map[string]interface{}, error) {
	if !validConfigGroup(group) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown configuration group %q", group))
	}
	rows, err := s.repo.ListByGroup(ctx, group)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load configuration group")
	}
	values := make(map[string]interface{}, len(rows))
	for _, row := range rows {
		values[row.Key] = s.decode(row)
	}
	return values, nil
}

// List returns every configuration entry with decoded values for the admin
// panel, ordered by group then key.
func (s *ConfigService) List(ctx context.Context) ([]dto.ConfigEntry, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list configurations")
	}
	return s.toEntries(rows), nil
}

// ListByGroup returns decoded entries for a single group.
func (s *ConfigService) ListByGroup(ctx context.Context, group models.ConfigGroup) ([]dto.ConfigEntry, error) {
	if !validConfigGroup(group) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown configuration group %q", group))
	}
	rows, err := s.repo.ListByGroup(ctx, group)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list configurations")
	}
	return s.toEntries(rows), nil
}

// ListGrouped returns the full annotated dump partitioned by group, the
// shape the admin settings screen renders directly.
func (s *ConfigService) ListGrouped(ctx context.Context) (map[string]map[string]dto.ConfigEntry, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list configurations")
	}
	grouped := make(map[string]map[string]dto.ConfigEntry)
	for _, row := range rows {
		entry := s.toEntry(row)
		if grouped[entry.Group] == nil {
			grouped[entry.Group] = make(map[string]dto.ConfigEntry)
		}
		grouped[entry.Group][entry.Key] = entry
	}
	return grouped, nil
}

// GetPublic returns the decoded public configuration snapshot keyed by
// configuration key. The snapshot is cached; cache failures fall through to
// the database.
func (s *ConfigService) GetPublic(ctx context.Context) (map[string]interface{}, error) {
	if s.cfg.CacheEnabled && s.cache != nil {
		var cached map[string]interface{}
		if err := s.cache.Get(ctx, publicConfigCacheKey, &cached); err == nil {
			return cached, nil
		} else if !appErrors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("public config cache read failed", zap.Error(err))
		}
	}

	rows, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load public configuration")
	}

	snapshot := make(map[string]interface{}, len(rows))
	for _, row := range rows {
		snapshot[row.Key] = s.decode(row)
	}

	if s.cfg.CacheEnabled && s.cache != nil {
		if err := s.cache.Set(ctx, publicConfigCacheKey, snapshot, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("public config cache write failed", zap.Error(err))
		}
	}
	return snapshot, nil
}

// Set upserts a configuration value. Description and visibility of an
// existing row survive the upsert. Replacing a file-typed value deletes the
// previously stored asset.
func (s *ConfigService) Set(ctx context.Context, req dto.SetConfigRequest, actor *models.JWTClaims) (*dto.ConfigEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid configuration payload")
	}
	group := models.ConfigGroup(req.Group)
	if !validConfigGroup(group) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown configuration group %q", req.Group))
	}

	prev, err := s.repo.Get(ctx, req.Key)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch configuration")
	}

	cfg := &models.Configuration{
		Key:       req.Key,
		Value:     req.Value,
		Type:      models.ConfigType(req.Type),
		Group:     group,
		UpdatedBy: userIDPtr(actor),
	}
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save configuration")
	}

	if prev != nil && prev.Type == models.ConfigTypeFile && prev.Value != "" && prev.Value != req.Value {
		if err := s.assets.Delete(prev.Value); err != nil {
			s.logger.Warn("failed to delete replaced config asset", zap.String("key", req.Key), zap.Error(err))
		}
	}

	s.invalidatePublicCache(ctx)
	s.emitAudit(ctx, actor, models.AuditActionConfigSet, req.Key, prevValue(prev), req.Value)

	stored := *cfg
	if prev != nil {
		stored.Description = prev.Description
		stored.IsPublic = prev.IsPublic
	}
	entry := s.toEntry(stored)
	return &entry, nil
}

// BulkSet applies multiple upserts in one transaction. Each item carries the
// same semantics as Set: description and visibility of existing rows survive,
// and replaced file-typed values delete the previously stored asset.
func (s *ConfigService) BulkSet(ctx context.Context, req dto.BulkSetConfigRequest, actor *models.JWTClaims) ([]dto.ConfigEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk payload")
	}

	toUpsert := make([]models.Configuration, 0, len(req.Items))
	prevs := make(map[string]*models.Configuration, len(req.Items))
	for _, item := range req.Items {
		group := models.ConfigGroup(item.Group)
		if !validConfigGroup(group) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown configuration group %q", item.Group))
		}
		prev, err := s.repo.Get(ctx, item.Key)
		if err != nil && err != sql.ErrNoRows {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch configuration")
		}
		prevs[item.Key] = prev
		toUpsert = append(toUpsert, models.Configuration{
			Key:       item.Key,
			Value:     item.Value,
			Type:      models.ConfigType(item.Type),
			Group:     group,
			UpdatedBy: userIDPtr(actor),
		})
	}

	if err := s.repo.BulkUpsert(ctx, toUpsert); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bulk save configurations")
	}

	s.invalidatePublicCache(ctx)
	entries := make([]dto.ConfigEntry, 0, len(toUpsert))
	for _, cfg := range toUpsert {
		prev := prevs[cfg.Key]
		if prev != nil && prev.Type == models.ConfigTypeFile && prev.Value != "" && prev.Value != cfg.Value {
			if err := s.assets.Delete(prev.Value); err != nil {
				s.logger.Warn("failed to delete replaced config asset", zap.String("key", cfg.Key), zap.Error(err))
			}
		}
		s.emitAudit(ctx, actor, models.AuditActionConfigSet, cfg.Key, prevValue(prev), cfg.Value)
		if prev != nil {
			cfg.Description = prev.Description
			cfg.IsPublic = prev.IsPublic
		}
		entries = append(entries, s.toEntry(cfg))
	}
	return entries, nil
}

// Delete hard-deletes a configuration entry. File-typed values also remove
// the stored asset.
func (s *ConfigService) Delete(ctx context.Context, key string, actor *models.JWTClaims) error {
	prev, err := s.repo.Get(ctx, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "configuration not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch configuration")
	}

	if err := s.repo.Delete(ctx, key); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete configuration")
	}

	if prev.Type == models.ConfigTypeFile && prev.Value != "" {
		if err := s.assets.Delete(prev.Value); err != nil {
			s.logger.Warn("failed to delete config asset", zap.String("key", key), zap.Error(err))
		}
	}

	s.invalidatePublicCache(ctx)
	s.emitAudit(ctx, actor, models.AuditActionConfigDelete, key, prev.Value, "")
	return nil
}

// decode interprets a raw stored value according to its declared type. It
// never fails: unparseable values collapse to the type's zero shape.
func (s *ConfigService) decode(cfg models.Configuration) interface{} {
	switch cfg.Type {
	case models.ConfigTypeInteger:
		n, err := strconv.Atoi(strings.TrimSpace(cfg.Value))
		if err != nil {
			return 0
		}
		return n
	case models.ConfigTypeBoolean:
		switch strings.ToLower(strings.TrimSpace(cfg.Value)) {
		case "1", "true", "on", "yes":
			return true
		}
		return false
	case models.ConfigTypeJSON:
		var decoded interface{}
		if err := json.Unmarshal([]byte(cfg.Value), &decoded); err != nil {
			return map[string]interface{}{}
		}
		if imageListKeys[cfg.Key] {
			return s.rewriteImageList(decoded)
		}
		return decoded
	case models.ConfigTypeFile:
		if cfg.Value == "" {
			return nil
		}
		return s.assets.URL(cfg.Value)
	default:
		return cfg.Value
	}
}

// rewriteImageList maps stored asset references inside a decoded JSON array
// to absolute URLs. String elements are rewritten directly; object elements
// get their "image" and "url" fields rewritten.
func (s *ConfigService) rewriteImageList(decoded interface{}) interface{} {
	items, ok := decoded.([]interface{})
	if !ok {
		return decoded
	}
	for i, item := range items {
		switch v := item.(type) {
		case string:
			items[i] = s.assets.URL(v)
		case map[string]interface{}:
			for _, field := range []string{"image", "url"} {
				if str, ok := v[field].(string); ok {
					v[field] = s.assets.URL(str)
				}
			}
		}
	}
	return items
}

func (s *ConfigService) toEntries(rows []models.Configuration) []dto.ConfigEntry {
	entries := make([]dto.ConfigEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, s.toEntry(row))
	}
	return entries
}

func (s *ConfigService) toEntry(cfg models.Configuration) dto.ConfigEntry {
	entry := dto.ConfigEntry{
		Key:      cfg.Key,
		Value:    s.decode(cfg),
		Type:     string(cfg.Type),
		Group:    string(cfg.Group),
		IsPublic: cfg.IsPublic,
	}
	if cfg.Description != nil {
		entry.Description = *cfg.Description
	}
	return entry
}

func (s *ConfigService) invalidatePublicCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publicConfigCacheKey); err != nil {
		s.logger.Warn("failed to invalidate public config cache", zap.Error(err))
	}
}

func (s *ConfigService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, key, oldValue, newValue string) {
	if s.audit == nil {
		return
	}
	oldBytes, _ := json.Marshal(map[string]string{"key": key, "value": oldValue})
	newBytes, _ := json.Marshal(map[string]string{"key": key, "value": newValue})
	log := &models.AuditLog{
		UserID:     userIDPtr(actor),
		Action:     action,
		Resource:   "configuration",
		ResourceID: &key,
		OldValues:  oldBytes,
		NewValues:  newBytes,
		IPAddress:  "system",
		UserAgent:  "config-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record configuration audit", zap.Error(err))
	}
}

func validConfigGroup(group models.ConfigGroup) bool {
	for _, g := range models.ConfigGroups {
		if g == group {
			return true
		}
	}
	return false
}

func prevValue(cfg *models.Configuration) string {
	if cfg == nil {
		return ""
	}
	return cfg.Value
}

func userIDPtr(actor *models.JWTClaims) *string {
	if actor == nil || actor.UserID == "" {
		return nil
	}
	return &actor.UserID
}
