package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tez-capital/cms-api/internal/dto"
	"github.com/tez-capital/cms-api/internal/models"
	appErrors "github.com/tez-capital/cms-api/pkg/errors"
)

type configRepoStub struct {
	items   map[string]models.Configuration
	deleted []string
	err     error
}

func (s *configRepoStub) Get(ctx context.Context, key string) (*models.Configuration, error) {
	if s.err != nil {
		return nil, s.err
	}
	if cfg, ok := s.items[key]; ok {
		return &cfg, nil
	}
	return nil, sql.ErrNoRows
}

func (s *configRepoStub) ListByGroup(ctx context.Context, group models.ConfigGroup) ([]models.Configuration, error) {
	result := []models.Configuration{}
	for _, cfg := range s.items {
		if cfg.Group == group {
			result = append(result, cfg)
		}
	}
	return result, nil
}

func (s *configRepoStub) ListPublic(ctx context.Context) ([]models.Configuration, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := []models.Configuration{}
	for _, cfg := range s.items {
		if cfg.IsPublic {
			result = append(result, cfg)
		}
	}
	return result, nil
}

func (s *configRepoStub) ListAll(ctx context.Context) ([]models.Configuration, error) {
	result := []models.Configuration{}
	for _, cfg := range s.items {
		result = append(result, cfg)
	}
	return result, nil
}

func (s *configRepoStub) Upsert(ctx context.Context, cfg *models.Configuration) error {
	if s.items == nil {
		s.items = make(map[string]models.Configuration)
	}
	s.items[cfg.Key] = *cfg
	return nil
}

func (s *configRepoStub) BulkUpsert(ctx context.Context, cfgs []models.Configuration) error {
	for i := range cfgs {
		if err := s.Upsert(ctx, &cfgs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *configRepoStub) Delete(ctx context.Context, key string) error {
	delete(s.items, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type cacheStoreStub struct {
	values   map[string]interface{}
	deletes  []string
	patterns []string
	getCalls int
}

func (s *cacheStoreStub) Get(ctx context.Context, key string, dest interface{}) error {
	s.getCalls++
	value, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if m, ok := dest.(*map[string]interface{}); ok {
		*m = value.(map[string]interface{})
	}
	return nil
}

func (s *cacheStoreStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.values == nil {
		s.values = make(map[string]interface{})
	}
	s.values[key] = value
	return nil
}

func (s *cacheStoreStub) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	delete(s.values, key)
	return nil
}

func (s *cacheStoreStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	return nil
}

type auditLoggerStub struct {
	logs []models.AuditLog
}

func (s *auditLoggerStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, *log)
	return nil
}

type assetResolverStub struct {
	deleted []string
}

func (s *assetResolverStub) URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return "https://cdn.example.com/" + relPath
}

func (s *assetResolverStub) Delete(relPath string) error {
	s.deleted = append(s.deleted, relPath)
	return nil
}

func strPtr(s string) *string { return &s }

func TestConfigDecodeTypes(t *testing.T) {
	repo := &configRepoStub{items: map[string]models.Configuration{
		"maintenance_mode": {Key: "maintenance_mode", Value: "on", Type: models.ConfigTypeBoolean},
		"flag_off":         {Key: "flag_off", Value: "nope", Type: models.ConfigTypeBoolean},
		"max_items":        {Key: "max_items", Value: "15", Type: models.ConfigTypeInteger},
		"bad_number":       {Key: "bad_number", Value: "abc", Type: models.ConfigTypeInteger},
		"broken_json":      {Key: "broken_json", Value: "{oops", Type: models.ConfigTypeJSON},
		"hero_image":       {Key: "hero_image", Value: "images/hero.jpg", Type: models.ConfigTypeFile},
		"empty_file":       {Key: "empty_file", Value: "", Type: models.ConfigTypeFile},
		"site_name":        {Key: "site_name", Value: "TEZ Capital", Type: models.ConfigTypeString},
	}}
	svc := NewConfigService(repo, nil, nil, &assetResolverStub{}, nil, nil, ConfigServiceConfig{})
	ctx := context.Background()

	assert.Equal(t, true, svc.Get(ctx, "maintenance_mode", false))
	assert.Equal(t, false, svc.Get(ctx, "flag_off", true))
	assert.Equal(t, 15, svc.Get(ctx, "max_items", 0))
	assert.Equal(t, 0, svc.Get(ctx, "bad_number", 7))
	assert.Equal(t, map[string]interface{}{}, svc.Get(ctx, "broken_json", nil))
	assert.Equal(t, "https://cdn.example.com/images/hero.jpg", svc.Get(ctx, "hero_image", nil))
	assert.Nil(t, svc.Get(ctx, "empty_file", nil))
	assert.Equal(t, "TEZ Capital", svc.GetString(ctx, "site_name", ""))
	assert.Equal(t, "fallback", svc.GetString(ctx, "missing_key", "fallback"))
}

func TestConfigDecodeImageList(t *testing.T) {
	repo := &configRepoStub{items: map[string]models.Configuration{
		"homepage_banners": {
			Key:      "homepage_banners",
			Value:    `["banners/a.jpg", {"image": "banners/b.jpg", "title": "Promo"}]`,
			Type:     models.ConfigTypeJSON,
			IsPublic: true,
		},
	}}
	svc := NewConfigService(repo, nil, nil, &assetResolverStub{}, nil, nil, ConfigServiceConfig{})

	decoded := svc.Get(context.Background(), "homepage_banners", nil)
	items, ok := decoded.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)

	assert.Equal(t, "https://cdn.example.com/banners/a.jpg", items[0])
	obj := items[1].(map[string]interface{})
	assert.Equal(t, "https://cdn.example.com/banners/b.jpg", obj["image"])
	assert.Equal(t, "Promo", obj["title"])
}

func TestConfigGetPublicCaching(t *testing.T) {
	repo := &configRepoStub{items: map[string]models.Configuration{
		"site_name": {Key: "site_name", Value: "TEZ Capital", Type: models.ConfigTypeString, IsPublic: true},
		"secret":    {Key: "secret", Value: "hidden", Type: models.ConfigTypeString, IsPublic: false},
	}}
	cache := &cacheStoreStub{}
	svc := NewConfigService(repo, cache, nil, &assetResolverStub{}, nil, nil, ConfigServiceConfig{
		CacheEnabled: true,
		CacheTTL:     time.Minute,
	})
	ctx := context.Background()

	snapshot, err := svc.GetPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TEZ Capital", snapshot["site_name"])
	_, hasSecret := snapshot["secret"]
	assert.False(t, hasSecret)

	// Second read is served from the cache.
	repo.err = sql.ErrConnDone
	snapshot, err = svc.GetPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TEZ Capital", snapshot["site_name"])
	assert.Equal(t, 2, cache.getCalls)
}

func TestConfigGroupedViews(t *testing.T) {
	repo := &configRepoStub{items: map[string]models.Configuration{
		"site_name":        {Key: "site_name", Value: "TEZ Capital", Type: models.ConfigTypeString, Group: models.ConfigGroupGeneral},
		"maintenance_mode": {Key: "maintenance_mode", Value: "true", Type: models.ConfigTypeBoolean, Group: models.ConfigGroupMaintenance},
	}}
	svc := NewConfigService(repo, nil, nil, &assetResolverStub{}, nil, nil, ConfigServiceConfig{})
	ctx := context.Background()

	values, err := svc.GetByGroup(ctx, models.ConfigGroupMaintenance)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"maintenance_mode": true}, values)

	_, err = svc.GetByGroup(ctx, models.ConfigGroup("nonsense"))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	grouped, err := svc.ListGrouped(ctx)
	require.NoError(t, err)
	require.Contains(t, grouped, "general")
	require.Contains(t, grouped, "maintenance")
	assert.Equal(t, "TEZ Capital", grouped["general"]["site_name"].Value)
	assert.Equal(t, true, grouped["maintenance"]["maintenance_mode"].Value)
}

func TestConfigSetPreservesMetadata(t *testing.T) {
	repo := &configRepoStub{items: map[string]models.Configuration{
		"site_name": {
			Key:         "site_name",
			Value:       "Old Name",
			Type:        models.ConfigTypeString,
			Group:       models.ConfigGroupGeneral,
			Description: strPtr("Displayed site title"),
			IsPublic:    true,
		},
	}}
	audit := &auditLoggerStub{}
	cache := &cacheStoreStub{values: map[string]interface{}{"config:public": map[string]interface{}{}}}
	svc := NewConfigService(repo, cache, audit, &assetResolverStub{}, nil, nil, ConfigServiceConfig{CacheEnabled: true})

	entry, err := svc.Set(context.Background(), dto.SetConfigRequest{
		Key:   "site_name",
		Value: "New Name",
		Type:  "string",
		Group: "general",
	}, &models.JWTClaims{UserID: "user-1"})
	require.NoError(t, err)

	assert.Equal(t, "New Name", entry.Value)
	assert.Equal(t, "Displayed site title", entry.Description)
	assert.True(t, entry.IsPublic)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionConfigSet, audit.logs[0].Action)
	assert.Contains(t, cache.deletes, "config:public")
}

func TestConfigBulkSetReplacesFileAsset(t *testing.T) {
	repo := &configRepoStub{items: map[string]models.Configuration{
		"hero_image": {
			Key:         "hero_image",
			Value:       "images/old.jpg",
			Type:        models.ConfigTypeFile,
			Group:       models.ConfigGroupHomepage,
			Description: strPtr("Homepage hero"),
			IsPublic:    true,
		},
	}}
	assets := &assetResolverStub{}
	svc := NewConfigService(repo, nil, nil, assets, nil, nil, ConfigServiceConfig{})

	entries, err := svc.BulkSet(context.Background(), dto.BulkSetConfigRequest{
		Items: []dto.SetConfigRequest{
			{Key: "hero_image", Value: "images/new.jpg", Type: "file", Group: "homepage"},
			{Key: "site_name", Value: "TEZ Capital", Type: "string", Group: "general"},
		},
	}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// The replaced file value no longer references its stored asset, so the
	// bulk path removes it just like a single Set would.
	assert.Contains(t, assets.deleted, "images/old.jpg")
	assert.Equal(t, "Homepage hero", entries[0].Description)
	assert.True(t, entries[0].IsPublic)

	// Writing the same file value again must not delete the live asset.
	assets.deleted = nil
	_, err = svc.BulkSet(context.Background(), dto.BulkSetConfigRequest{
		Items: []dto.SetConfigRequest{
			{Key: "hero_image", Value: "images/new.jpg", Type: "file", Group: "homepage"},
		},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, assets.deleted)
}

func TestConfigSetRejectsUnknownGroup(t *testing.T) {
	svc := NewConfigService(&configRepoStub{}, nil, nil, &assetResolverStub{}, nil, nil, ConfigServiceConfig{})

	_, err := svc.Set(context.Background(), dto.SetConfigRequest{
		Key:   "anything",
		Value: "x",
		Type:  "string",
		Group: "nonsense",
	}, nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestConfigDeleteRemovesFileAsset(t *testing.T) {
	repo := &configRepoStub{items: map[string]models.Configuration{
		"hero_image": {Key: "hero_image", Value: "images/hero.jpg", Type: models.ConfigTypeFile, Group: models.ConfigGroupHomepage},
	}}
	assets := &assetResolverStub{}
	svc := NewConfigService(repo, nil, nil, assets, nil, nil, ConfigServiceConfig{})

	require.NoError(t, svc.Delete(context.Background(), "hero_image", nil))
	assert.Contains(t, assets.deleted, "images/hero.jpg")
	assert.Contains(t, repo.deleted, "hero_image")

	err := svc.Delete(context.Background(), "hero_image", nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
