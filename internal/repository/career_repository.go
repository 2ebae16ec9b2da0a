package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tez-capital/cms-api/internal/models"
)

// CareerRepository manages job vacancies.
type CareerRepository struct {
	db *sqlx.DB
}

// NewCareerRepository constructs a CareerRepository.
func NewCareerRepository(db *sqlx.DB) *CareerRepository {
	return &CareerRepository{db: db}
}

const careerColumns = `id, title_id, title_en, description_id, description_en, location, employment_type, closes_at, status, created_at, updated_at`

// List returns vacancies matching the provided filters.
func (r *CareerRepository) List(ctx context.Context, filter models.CareerFilter) ([]models.Career, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(title_id) LIKE $%d OR LOWER(title_en) LIKE $%d OR LOWER(location) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM careers WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		careerColumns, where, size, offset)

	var careers []models.Career
	if err := r.db.SelectContext(ctx, &careers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list careers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM careers WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count careers: %w", err)
	}
	return careers, total, nil
}

// FindByID fetches a vacancy by ID.
func (r *CareerRepository) FindByID(ctx context.Context, id string) (*models.Career, error) {
	query := fmt.Sprintf(`SELECT %s FROM careers WHERE id = $1`, careerColumns)
	var career models.Career
	if err := r.db.GetContext(ctx, &career, query, id); err != nil {
		return nil, err
	}
	return &career, nil
}

// Create inserts a new vacancy.
func (r *CareerRepository) Create(ctx context.Context, career *models.Career) error {
	if career.ID == "" {
		career.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	career.CreatedAt = now
	career.UpdatedAt = now
	const query = `INSERT INTO careers (id, title_id, title_en, description_id, description_en, location, employment_type, closes_at, status, created_at, updated_at)
        VALUES (:id, :title_id, :title_en, :description_id, :description_en, :location, :employment_type, :closes_at, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, career); err != nil {
		return fmt.Errorf("create career: %w", err)
	}
	return nil
}

// Update replaces a vacancy's editable fields.
func (r *CareerRepository) Update(ctx context.Context, career *models.Career) error {
	career.UpdatedAt = time.Now().UTC()
	const query = `UPDATE careers SET title_id = :title_id, title_en = :title_en,
        description_id = :description_id, description_en = :description_en, location = :location,
        employment_type = :employment_type, closes_at = :closes_at, status = :status, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, career); err != nil {
		return fmt.Errorf("update career: %w", err)
	}
	return nil
}

// CloseExpired marks OPEN vacancies whose closing date has passed as CLOSED
// and returns how many were affected.
func (r *CareerRepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `UPDATE careers SET status = $1, updated_at = $2 WHERE status = $3 AND closes_at IS NOT NULL AND closes_at < $2`
	result, err := r.db.ExecContext(ctx, query, models.CareerStatusClosed, now.UTC(), models.CareerStatusOpen)
	if err != nil {
		return 0, fmt.Errorf("close expired careers: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("close expired careers rows: %w", err)
	}
	return affected, nil
}

// Delete removes a vacancy.
func (r *CareerRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM careers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete career: %w", err)
	}
	return nil
}
