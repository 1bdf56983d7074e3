package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/blogem/crud-audit/database"
	"github.com/blogem/crud-audit/models"
)

// UserRepository maps OIDC subjects to local user ids
type UserRepository interface {
	FindOrCreate(ctx context.Context, subject, displayName string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// FindOrCreate returns the user for subject, creating it on first login.
// The display name is refreshed on every call.
func (r *userRepository) FindOrCreate(ctx context.Context, subject, displayName string) (*models.User, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", models.ErrValidation)
	}

	query := `
		INSERT INTO users (subject, display_name, created_at) VALUES (?, ?, ?)
		ON CONFLICT (subject) DO UPDATE SET display_name = excluded.display_name
	`
	conn := database.Conn(ctx, r.db)
	if _, err := conn.ExecContext(ctx, query, subject, displayName, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	var user models.User
	err := conn.QueryRowContext(ctx,
		`SELECT id, subject, display_name, created_at FROM users WHERE subject = ?`, subject,
	).Scan(&user.ID, &user.Subject, &user.DisplayName, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, subject, display_name, created_at FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Subject, &user.DisplayName, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user with ID %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
