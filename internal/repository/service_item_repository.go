package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tez-capital/cms-api/internal/models"
)

// ServiceItemRepository manages the financing-services catalogue.
type ServiceItemRepository struct {
	db *sqlx.DB
}

// NewServiceItemRepository constructs a ServiceItemRepository.
func NewServiceItemRepository(db *sqlx.DB) *ServiceItemRepository {
	return &ServiceItemRepository{db: db}
}

const serviceItemColumns = `id, title_id, title_en, summary_id, summary_en, body_id, body_en, icon, sort_order, is_active, created_at, updated_at`

// List returns catalogue entries ordered by sort_order. When activeOnly is
// set, inactive entries are excluded.
func (r *ServiceItemRepository) List(ctx context.Context, activeOnly bool) ([]models.ServiceItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_items`, serviceItemColumns)
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY sort_order ASC, created_at ASC`

	var items []models.ServiceItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list service items: %w", err)
	}
	return items, nil
}

// FindByID fetches a catalogue entry by ID.
func (r *ServiceItemRepository) FindByID(ctx context.Context, id string) (*models.ServiceItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_items WHERE id = $1`, serviceItemColumns)
	var item models.ServiceItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new catalogue entry.
func (r *ServiceItemRepository) Create(ctx context.Context, item *models.ServiceItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	const query = `INSERT INTO service_items (id, title_id, title_en, summary_id, summary_en, body_id, body_en, icon, sort_order, is_active, created_at, updated_at)
        VALUES (:id, :title_id, :title_en, :summary_id, :summary_en, :body_id, :body_en, :icon, :sort_order, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create service item: %w", err)
	}
	return nil
}

// Update replaces a catalogue entry's editable fields.
func (r *ServiceItemRepository) Update(ctx context.Context, item *models.ServiceItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE service_items SET title_id = :title_id, title_en = :title_en,
        summary_id = :summary_id, summary_en = :summary_en, body_id = :body_id, body_en = :body_en,
        icon = :icon, sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update service item: %w", err)
	}
	return nil
}

// Delete removes a catalogue entry.
func (r *ServiceItemRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM service_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete service item: %w", err)
	}
	return nil
}
