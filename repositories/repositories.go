package repositories

import (
	"database/sql"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Team  TeamRepository
	Users UserRepository
	Audit AuditRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Team:  NewTeamRepository(db),
		Users: NewUserRepository(db),
		Audit: NewAuditRepository(db),
	}
}
