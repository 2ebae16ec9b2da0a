package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tez-capital/cms-api/internal/models"
)

// TeamMemberRepository manages management and board profiles.
type TeamMemberRepository struct {
	db *sqlx.DB
}

// NewTeamMemberRepository constructs a TeamMemberRepository.
func NewTeamMemberRepository(db *sqlx.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

const teamMemberColumns = `id, name, position_id, position_en, photo, sort_order, is_active, created_at, updated_at`

// List returns team members ordered by sort_order.
func (r *TeamMemberRepository) List(ctx context.Context, activeOnly bool) ([]models.TeamMember, error) {
	query := fmt.Sprintf(`SELECT %s FROM team_members`, teamMemberColumns)
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY sort_order ASC, created_at ASC`

	var members []models.TeamMember
	if err := r.db.SelectContext(ctx, &members, query); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return members, nil
}

// FindByID fetches a team member by ID.
func (r *TeamMemberRepository) FindByID(ctx context.Context, id string) (*models.TeamMember, error) {
	query := fmt.Sprintf(`SELECT %s FROM team_members WHERE id = $1`, teamMemberColumns)
	var member models.TeamMember
	if err := r.db.GetContext(ctx, &member, query, id); err != nil {
		return nil, err
	}
	return &member, nil
}

// Create inserts a new team member.
func (r *TeamMemberRepository) Create(ctx context.Context, member *models.TeamMember) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now
	const query = `INSERT INTO team_members (id, name, position_id, position_en, photo, sort_order, is_active, created_at, updated_at)
        VALUES (:id, :name, :position_id, :position_en, :photo, :sort_order, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("create team member: %w", err)
	}
	return nil
}

// Update replaces a team member's editable fields.
func (r *TeamMemberRepository) Update(ctx context.Context, member *models.TeamMember) error {
	member.UpdatedAt = time.Now().UTC()
	const query = `UPDATE team_members SET name = :name, position_id = :position_id, position_en = :position_en,
        photo = :photo, sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("update team member: %w", err)
	}
	return nil
}

// Delete removes a team member.
func (r *TeamMemberRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}
	return nil
}
