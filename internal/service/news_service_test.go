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

type newsRepoStub struct {
	posts       map[string]models.NewsPost
	bulkIDs     []string
	bulkStatus  models.ContentStatus
	bulkStamped *time.Time
}

func (s *newsRepoStub) List(ctx context.Context, filter models.NewsFilter) ([]models.NewsPost, int, error) {
	result := []models.NewsPost{}
	for _, post := range s.posts {
		if filter.Status != "" && post.Status != filter.Status {
			continue
		}
		result = append(result, post)
	}
	return result, len(result), nil
}

func (s *newsRepoStub) FindByID(ctx context.Context, id string) (*models.NewsPost, error) {
	if post, ok := s.posts[id]; ok {
		return &post, nil
	}
	return nil, sql.ErrNoRows
}

func (s *newsRepoStub) FindPublishedBySlug(ctx context.Context, slug string) (*models.NewsPost, error) {
	for _, post := range s.posts {
		if post.Slug == slug && post.Status == models.ContentStatusPublished {
			return &post, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *newsRepoStub) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	for _, post := range s.posts {
		if post.Slug == slug && post.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *newsRepoStub) Create(ctx context.Context, post *models.NewsPost) error {
	if s.posts == nil {
		s.posts = make(map[string]models.NewsPost)
	}
	s.posts[post.ID] = *post
	return nil
}

func (s *newsRepoStub) Update(ctx context.Context, post *models.NewsPost) error {
	s.posts[post.ID] = *post
	return nil
}

func (s *newsRepoStub) BulkUpdateStatus(ctx context.Context, ids []string, status models.ContentStatus, publishedAt *time.Time) (int64, error) {
	s.bulkIDs = ids
	s.bulkStatus = status
	s.bulkStamped = publishedAt
	return int64(len(ids)), nil
}

func (s *newsRepoStub) Delete(ctx context.Context, id string) error {
	delete(s.posts, id)
	return nil
}

func validNewsRequest() dto.CreateNewsRequest {
	return dto.CreateNewsRequest{
		Slug:    "laporan-kinerja-2026",
		TitleID: "Laporan Kinerja 2026",
		TitleEN: "2026 Performance Report",
		BodyID:  "Isi berita.",
	}
}

func TestNewsCreateDefaultsToDraft(t *testing.T) {
	repo := &newsRepoStub{}
	svc := NewNewsService(repo, nil, nil, &assetResolverStub{}, nil, nil, 0)

	post, err := svc.Create(context.Background(), validNewsRequest(), &models.JWTClaims{UserID: "editor-1"})
	require.NoError(t, err)

	assert.Equal(t, models.ContentStatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
	require.NotNil(t, post.CreatedBy)
	assert.Equal(t, "editor-1", *post.CreatedBy)
}

func TestNewsCreatePublishedStampsTimestamp(t *testing.T) {
	repo := &newsRepoStub{}
	svc := NewNewsService(repo, nil, nil, &assetResolverStub{}, nil, nil, 0)

	req := validNewsRequest()
	req.Status = "PUBLISHED"
	post, err := svc.Create(context.Background(), req, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ContentStatusPublished, post.Status)
	assert.NotNil(t, post.PublishedAt)
}

func TestNewsCreateSlugConflict(t *testing.T) {
	repo := &newsRepoStub{posts: map[string]models.NewsPost{
		"news-1": {ID: "news-1", Slug: "laporan-kinerja-2026"},
	}}
	svc := NewNewsService(repo, nil, nil, &assetResolverStub{}, nil, nil, 0)

	_, err := svc.Create(context.Background(), validNewsRequest(), nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestNewsRepublishKeepsOriginalTimestamp(t *testing.T) {
	published := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	repo := &newsRepoStub{posts: map[string]models.NewsPost{
		"news-1": {
			ID:          "news-1",
			Slug:        "laporan-kinerja-2026",
			TitleID:     "Laporan",
			BodyID:      "Isi",
			Status:      models.ContentStatusArchived,
			PublishedAt: &published,
		},
	}}
	svc := NewNewsService(repo, nil, nil, &assetResolverStub{}, nil, nil, 0)

	post, err := svc.Update(context.Background(), "news-1", dto.UpdateNewsRequest{
		Slug:    "laporan-kinerja-2026",
		TitleID: "Laporan",
		BodyID:  "Isi",
		Status:  "PUBLISHED",
	}, nil)
	require.NoError(t, err)

	require.NotNil(t, post.PublishedAt)
	assert.True(t, post.PublishedAt.Equal(published))
}

func TestNewsPublicListLocalizes(t *testing.T) {
	now := time.Now().UTC()
	repo := &newsRepoStub{posts: map[string]models.NewsPost{
		"news-1": {
			ID:          "news-1",
			Slug:        "laporan",
			TitleID:     "Judul Indonesia",
			TitleEN:     "English Title",
			BodyID:      "Isi",
			Status:      models.ContentStatusPublished,
			PublishedAt: &now,
		},
		"news-2": {ID: "news-2", Slug: "draft-post", TitleID: "Draf", Status: models.ContentStatusDraft},
	}}
	svc := NewNewsService(repo, nil, nil, &assetResolverStub{}, nil, nil, 0)

	items, _, err := svc.PublicList(context.Background(), "en", 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "English Title", items[0].Title)
	assert.Empty(t, items[0].Body)

	detail, err := svc.PublicGetBySlug(context.Background(), "laporan", "id")
	require.NoError(t, err)
	assert.Equal(t, "Judul Indonesia", detail.Title)
	assert.Equal(t, "Isi", detail.Body)

	_, err = svc.PublicGetBySlug(context.Background(), "draft-post", "id")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestNewsPublicListCaching(t *testing.T) {
	now := time.Now().UTC()
	repo := &newsRepoStub{posts: map[string]models.NewsPost{
		"news-1": {ID: "news-1", Slug: "laporan", TitleID: "Judul", Status: models.ContentStatusPublished, PublishedAt: &now},
	}}
	cache := &cacheStoreStub{}
	svc := NewNewsService(repo, cache, nil, &assetResolverStub{}, nil, nil, time.Minute)

	_, _, err := svc.PublicList(context.Background(), "en", 1, 20)
	require.NoError(t, err)
	assert.Contains(t, cache.values, "content:news:en:1:20")

	// Any write invalidates every cached public page.
	_, err = svc.Create(context.Background(), validNewsRequest(), nil)
	require.NoError(t, err)
	assert.Contains(t, cache.patterns, "content:news:*")
}

func TestNewsBulkStatusStampsPublish(t *testing.T) {
	repo := &newsRepoStub{}
	audit := &auditLoggerStub{}
	svc := NewNewsService(repo, nil, audit, &assetResolverStub{}, nil, nil, 0)

	affected, err := svc.BulkSetStatus(context.Background(), dto.BulkStatusRequest{
		IDs:    []string{"a", "b"},
		Status: "PUBLISHED",
	}, &models.JWTClaims{UserID: "admin-1"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), affected)
	assert.Equal(t, models.ContentStatusPublished, repo.bulkStatus)
	assert.NotNil(t, repo.bulkStamped)
	require.Len(t, audit.logs, 1)

	_, err = svc.BulkSetStatus(context.Background(), dto.BulkStatusRequest{
		IDs:    []string{"a"},
		Status: "ARCHIVED",
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, repo.bulkStamped)
}
