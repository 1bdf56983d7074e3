package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/blogem/crud-audit/database"
	"github.com/blogem/crud-audit/models"
	"github.com/blogem/crud-audit/userctx"
)

// TeamRepository interface defines team member database operations
type TeamRepository interface {
	GetAll(ctx context.Context) ([]models.TeamMember, error)
	GetByID(ctx context.Context, id int64) (*models.TeamMember, error)
	GetByEmail(ctx context.Context, email string) (*models.TeamMember, error)
	Create(ctx context.Context, member *models.TeamMember) error
	Update(ctx context.Context, member *models.TeamMember) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// teamRepository implements TeamRepository interface
type teamRepository struct {
	db *sql.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *sql.DB) TeamRepository {
	return &teamRepository{db: db}
}

const teamMemberColumns = `id, name, email, active, date_added, created_by, modified_by, modified_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeamMember(row rowScanner) (*models.TeamMember, error) {
	var member models.TeamMember
	var modifiedBy sql.NullInt64
	var modifiedAt sql.NullTime

	err := row.Scan(
		&member.ID,
		&member.Name,
		&member.Email,
		&member.Active,
		&member.DateAdded,
		&member.CreatedBy,
		&modifiedBy,
		&modifiedAt,
	)
	if err != nil {
		return nil, err
	}

	// Convert NULL values to zero/nil
	if modifiedBy.Valid {
		member.ModifiedBy = modifiedBy.Int64
	}
	if modifiedAt.Valid {
		member.ModifiedAt = &modifiedAt.Time
	}

	return &member, nil
}

// GetAll retrieves all team members
func (r *teamRepository) GetAll(ctx context.Context) ([]models.TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members ORDER BY name ASC`

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	defer rows.Close()

	members := []models.TeamMember{}
	for rows.Next() {
		member, err := scanTeamMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, *member)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team members: %w", err)
	}

	return members, nil
}

// GetByID retrieves a team member by ID
func (r *teamRepository) GetByID(ctx context.Context, id int64) (*models.TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members WHERE id = ?`

	member, err := scanTeamMember(database.Conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team member with ID %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}

	return member, nil
}

// GetByEmail retrieves a team member by email, case-insensitively
func (r *teamRepository) GetByEmail(ctx context.Context, email string) (*models.TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members WHERE email = ? COLLATE NOCASE LIMIT 1`

	member, err := scanTeamMember(database.Conn(ctx, r.db).QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team member with email %s: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}

	return member, nil
}

// Create creates a new team member
func (r *teamRepository) Create(ctx context.Context, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (name, email, active, date_added, created_by)
		VALUES (?, ?, ?, ?, ?)
	`

	if member.DateAdded.IsZero() {
		member.DateAdded = time.Now().UTC()
	}

	actorID, _ := userctx.GetActorID(ctx)

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		member.Name,
		member.Email,
		member.Active,
		member.DateAdded,
		actorID,
	)
	if err != nil {
		return fmt.Errorf("failed to create team member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	member.ID = id
	member.CreatedBy = actorID
	return nil
}

// Update updates an existing team member
func (r *teamRepository) Update(ctx context.Context, member *models.TeamMember) error {
	query := `
		UPDATE team_members
		SET name = ?, email = ?, active = ?,
		    modified_by = ?, modified_at = ?
		WHERE id = ?
	`

	actorID, _ := userctx.GetActorID(ctx)
	now := time.Now().UTC()

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		member.Name,
		member.Email,
		member.Active,
		actorID,
		now,
		member.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update team member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("team member with ID %d: %w", member.ID, models.ErrNotFound)
	}

	member.ModifiedBy = actorID
	member.ModifiedAt = &now
	return nil
}

// Delete deletes a team member by ID
func (r *teamRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM team_members WHERE id = ?`

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete team member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("team member with ID %d: %w", id, models.ErrNotFound)
	}

	return nil
}

// Count returns the total number of team members
func (r *teamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM team_members`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count team members: %w", err)
	}

	return count, nil
}
