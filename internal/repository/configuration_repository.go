package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tez-capital/cms-api/internal/models"
)

// ConfigurationRepository persists typed configuration entries.
type ConfigurationRepository struct {
	db *sqlx.DB
}

// NewConfigurationRepository constructs the repository.
func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

const configColumns = `key, value, type, "group", description, is_public, updated_by, updated_at`

// Get fetches a single configuration by key.
func (r *ConfigurationRepository) Get(ctx context.Context, key string) (*models.Configuration, error) {
	query := fmt.Sprintf(`SELECT %s FROM configurations WHERE key = $1`, configColumns)
	var cfg models.Configuration
	if err := r.db.GetContext(ctx, &cfg, query, key); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ListByGroup returns all configurations in the given group ordered by key.
func (r *ConfigurationRepository) ListByGroup(ctx context.Context, group models.ConfigGroup) ([]models.Configuration, error) {
	query := fmt.Sprintf(`SELECT %s FROM configurations WHERE "group" = $1 ORDER BY key ASC`, configColumns)
	var configs []models.Configuration
	if err := r.db.SelectContext(ctx, &configs, query, group); err != nil {
		return nil, fmt.Errorf("list configurations by group: %w", err)
	}
	return configs, nil
}

// ListPublic returns all entries flagged as publicly visible.
func (r *ConfigurationRepository) ListPublic(ctx context.Context) ([]models.Configuration, error) {
	query := fmt.Sprintf(`SELECT %s FROM configurations WHERE is_public = true ORDER BY key ASC`, configColumns)
	var configs []models.Configuration
	if err := r.db.SelectContext(ctx, &configs, query); err != nil {
		return nil, fmt.Errorf("list public configurations: %w", err)
	}
	return configs, nil
}

// ListAll returns every configuration row ordered by group then key.
func (r *ConfigurationRepository) ListAll(ctx context.Context) ([]models.Configuration, error) {
	query := fmt.Sprintf(`SELECT %s FROM configurations ORDER BY "group" ASC, key ASC`, configColumns)
	var configs []models.Configuration
	if err := r.db.SelectContext(ctx, &configs, query); err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	return configs, nil
}

// Upsert inserts or updates a configuration entry keyed on key. Value, type
// and group are replaced; description and is_public keep their stored values
// on conflict.
func (r *ConfigurationRepository) Upsert(ctx context.Context, cfg *models.Configuration) error {
	const query = `INSERT INTO configurations (key, value, type, "group", description, is_public, updated_by, updated_at)
VALUES (:key, :value, :type, :group, :description, :is_public, :updated_by, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type, "group" = EXCLUDED."group",
              updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	cfg.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("upsert configuration: %w", err)
	}
	return nil
}

// BulkUpsert performs upserts within a transaction.
func (r *ConfigurationRepository) BulkUpsert(ctx context.Context, cfgs []models.Configuration) error {
	if len(cfgs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk configuration tx: %w", err)
	}
	const query = `INSERT INTO configurations (key, value, type, "group", description, is_public, updated_by, updated_at)
VALUES (:key, :value, :type, :group, :description, :is_public, :updated_by, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type, "group" = EXCLUDED."group",
              updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	for i := range cfgs {
		cfgs[i].UpdatedAt = time.Now().UTC()
		if _, err := tx.NamedExecContext(ctx, query, cfgs[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bulk upsert configuration: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk configuration tx: %w", err)
	}
	return nil
}

// Delete hard-deletes a configuration row. Configurations are never
// soft-deleted.
func (r *ConfigurationRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM configurations WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete configuration: %w", err)
	}
	return nil
}
