package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tez-capital/cms-api/internal/models"
)

// PartnerRepository manages cooperating-company records.
type PartnerRepository struct {
	db *sqlx.DB
}

// NewPartnerRepository constructs a PartnerRepository.
func NewPartnerRepository(db *sqlx.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

const partnerColumns = `id, name, logo, website_url, sort_order, is_active, created_at, updated_at`

// List returns partners ordered by sort_order.
func (r *PartnerRepository) List(ctx context.Context, activeOnly bool) ([]models.Partner, error) {
	query := fmt.Sprintf(`SELECT %s FROM partners`, partnerColumns)
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY sort_order ASC, created_at ASC`

	var partners []models.Partner
	if err := r.db.SelectContext(ctx, &partners, query); err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return partners, nil
}

// FindByID fetches a partner by ID.
func (r *PartnerRepository) FindByID(ctx context.Context, id string) (*models.Partner, error) {
	query := fmt.Sprintf(`SELECT %s FROM partners WHERE id = $1`, partnerColumns)
	var partner models.Partner
	if err := r.db.GetContext(ctx, &partner, query, id); err != nil {
		return nil, err
	}
	return &partner, nil
}

// Create inserts a new partner.
func (r *PartnerRepository) Create(ctx context.Context, partner *models.Partner) error {
	if partner.ID == "" {
		partner.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	partner.CreatedAt = now
	partner.UpdatedAt = now
	const query = `INSERT INTO partners (id, name, logo, website_url, sort_order, is_active, created_at, updated_at)
        VALUES (:id, :name, :logo, :website_url, :sort_order, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, partner); err != nil {
		return fmt.Errorf("create partner: %w", err)
	}
	return nil
}

// Update replaces a partner's editable fields.
func (r *PartnerRepository) Update(ctx context.Context, partner *models.Partner) error {
	partner.UpdatedAt = time.Now().UTC()
	const query = `UPDATE partners SET name = :name, logo = :logo, website_url = :website_url,
        sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, partner); err != nil {
		return fmt.Errorf("update partner: %w", err)
	}
	return nil
}

// Delete removes a partner.
func (r *PartnerRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM partners WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete partner: %w", err)
	}
	return nil
}
