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

// MotorRepository manages persistence for financeable vehicles.
type MotorRepository struct {
	db *sqlx.DB
}

// NewMotorRepository constructs a MotorRepository.
func NewMotorRepository(db *sqlx.DB) *MotorRepository {
	return &MotorRepository{db: db}
}

const motorColumns = `id, name, price, area, period, image, installment_plans, is_active, created_at, updated_at`

// List returns motors matching the provided filters.
func (r *MotorRepository) List(ctx context.Context, filter models.MotorFilter) ([]models.Motor, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Area != "" {
		conditions = append(conditions, fmt.Sprintf("area = $%d", len(args)+1))
		args = append(args, filter.Area)
	}
	if filter.Period != "" {
		conditions = append(conditions, fmt.Sprintf("period = $%d", len(args)+1))
		args = append(args, filter.Period)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	allowedSorts := map[string]string{
		"name":       "name",
		"price":      "price",
		"created_at": "created_at",
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

	query := fmt.Sprintf(`SELECT %s FROM motors WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		motorColumns, where, column, order, size, offset)

	var motors []models.Motor
	if err := r.db.SelectContext(ctx, &motors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list motors: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM motors WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count motors: %w", err)
	}
	return motors, total, nil
}

// FindByID fetches a motor by ID.
func (r *MotorRepository) FindByID(ctx context.Context, id string) (*models.Motor, error) {
	query := fmt.Sprintf(`SELECT %s FROM motors WHERE id = $1`, motorColumns)
	var motor models.Motor
	if err := r.db.GetContext(ctx, &motor, query, id); err != nil {
		return nil, err
	}
	return &motor, nil
}

// Create inserts a new motor record.
func (r *MotorRepository) Create(ctx context.Context, motor *models.Motor) error {
	if motor.ID == "" {
		motor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	motor.CreatedAt = now
	motor.UpdatedAt = now
	const query = `INSERT INTO motors (id, name, price, area, period, image, installment_plans, is_active, created_at, updated_at)
        VALUES (:id, :name, :price, :area, :period, :image, :installment_plans, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, motor); err != nil {
		return fmt.Errorf("create motor: %w", err)
	}
	return nil
}

// Update replaces a motor's mutable fields including its plan table.
func (r *MotorRepository) Update(ctx context.Context, motor *models.Motor) error {
	motor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE motors SET name = :name, price = :price, area = :area, period = :period,
        image = :image, installment_plans = :installment_plans, is_active = :is_active, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, motor); err != nil {
		return fmt.Errorf("update motor: %w", err)
	}
	return nil
}

// SetActive toggles the listing flag.
func (r *MotorRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE motors SET is_active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("set motor active: %w", err)
	}
	return nil
}

// Delete removes a motor row.
func (r *MotorRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM motors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete motor: %w", err)
	}
	return nil
}
