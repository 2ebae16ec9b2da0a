package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tez-capital/cms-api/internal/models"
)

// NewsRepository manages persistence for news posts.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository constructs a NewsRepository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

const newsColumns = `id, slug, title_id, title_en, excerpt_id, excerpt_en, body_id, body_en, image, status, published_at, created_by, created_at, updated_at`

// List returns news posts matching the provided filters.
func (r *NewsRepository) List(ctx context.Context, filter models.NewsFilter) ([]models.NewsPost, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(title_id) LIKE $%d OR LOWER(title_en) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	allowedSorts := map[string]string{
		"published_at": "published_at",
		"created_at":   "created_at",
		"title":        "title_id",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM news_posts WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		newsColumns, where, column, order, size, offset)

	var posts []models.NewsPost
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list news posts: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM news_posts WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count news posts: %w", err)
	}
	return posts, total, nil
}

// FindByID fetches a news post by ID.
func (r *NewsRepository) FindByID(ctx context.Context, id string) (*models.NewsPost, error) {
	query := fmt.Sprintf(`SELECT %s FROM news_posts WHERE id = $1`, newsColumns)
	var post models.NewsPost
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, err
	}
	return &post, nil
}

// FindPublishedBySlug fetches a published post by slug for the public site.
func (r *NewsRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.NewsPost, error) {
	query := fmt.Sprintf(`SELECT %s FROM news_posts WHERE slug = $1 AND status = $2`, newsColumns)
	var post models.NewsPost
	if err := r.db.GetContext(ctx, &post, query, slug, models.ContentStatusPublished); err != nil {
		return nil, err
	}
	return &post, nil
}

// ExistsBySlug checks slug uniqueness optionally excluding an ID.
func (r *NewsRepository) ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM news_posts WHERE slug = $1"
	args := []interface{}{slug}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check news slug: %w", err)
	}
	return true, nil
}

// Create inserts a new news post.
func (r *NewsRepository) Create(ctx context.Context, post *models.NewsPost) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	const query = `INSERT INTO news_posts (id, slug, title_id, title_en, excerpt_id, excerpt_en, body_id, body_en, image, status, published_at, created_by, created_at, updated_at)
        VALUES (:id, :slug, :title_id, :title_en, :excerpt_id, :excerpt_en, :body_id, :body_en, :image, :status, :published_at, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create news post: %w", err)
	}
	return nil
}

// Update replaces a news post's editable fields.
func (r *NewsRepository) Update(ctx context.Context, post *models.NewsPost) error {
	post.UpdatedAt = time.Now().UTC()
	const query = `UPDATE news_posts SET slug = :slug, title_id = :title_id, title_en = :title_en,
        excerpt_id = :excerpt_id, excerpt_en = :excerpt_en, body_id = :body_id, body_en = :body_en,
        image = :image, status = :status, published_at = :published_at, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("update news post: %w", err)
	}
	return nil
}

// BulkUpdateStatus moves the given posts to a new lifecycle status and
// returns how many rows were affected.
func (r *NewsRepository) BulkUpdateStatus(ctx context.Context, ids []string, status models.ContentStatus, publishedAt *time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := []interface{}{status, time.Now().UTC(), publishedAt}
	idArgs := make([]string, len(ids))
	for i, id := range ids {
		idArgs[i] = fmt.Sprintf("$%d", len(args)+1)
		args = append(args, id)
	}
	query := fmt.Sprintf(`UPDATE news_posts SET status = $1, updated_at = $2,
        published_at = COALESCE($3, published_at) WHERE id IN (%s)`, strings.Join(idArgs, ","))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update news status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk update news status rows: %w", err)
	}
	return affected, nil
}

// Delete removes a news post.
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM news_posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete news post: %w", err)
	}
	return nil
}
