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

// EventRepository manages persistence for events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title_id, title_en, body_id, body_en, location, image, starts_at, ends_at, status, published_at, created_at, updated_at`

// List returns events matching the provided filters. Upcoming filtering keeps
// events whose end (or start, when open ended) has not passed yet.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.UpcomingOnly {
		conditions = append(conditions, fmt.Sprintf("COALESCE(ends_at, starts_at) >= $%d", len(args)+1))
		args = append(args, time.Now().UTC())
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(title_id) LIKE $%d OR LOWER(title_en) LIKE $%d)", len(args)+1, len(args)+1))
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

	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY starts_at ASC LIMIT %d OFFSET %d`,
		eventColumns, where, size, offset)

	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM events WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	return events, total, nil
}

// FindByID fetches an event by ID.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	const query = `INSERT INTO events (id, title_id, title_en, body_id, body_en, location, image, starts_at, ends_at, status, published_at, created_at, updated_at)
        VALUES (:id, :title_id, :title_en, :body_id, :body_en, :location, :image, :starts_at, :ends_at, :status, :published_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update replaces an event's editable fields.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE events SET title_id = :title_id, title_en = :title_en, body_id = :body_id, body_en = :body_en,
        location = :location, image = :image, starts_at = :starts_at, ends_at = :ends_at,
        status = :status, published_at = :published_at, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// BulkUpdateStatus moves the given events to a new lifecycle status.
func (r *EventRepository) BulkUpdateStatus(ctx context.Context, ids []string, status models.ContentStatus, publishedAt *time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := []interface{}{status, time.Now().UTC(), publishedAt}
	idArgs := make([]string, len(ids))
	for i, id := range ids {
		idArgs[i] = fmt.Sprintf("$%d", len(args)+1)
		args = append(args, id)
	}
	query := fmt.Sprintf(`UPDATE events SET status = $1, updated_at = $2,
        published_at = COALESCE($3, published_at) WHERE id IN (%s)`, strings.Join(idArgs, ","))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update event status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk update event status rows: %w", err)
	}
	return affected, nil
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
