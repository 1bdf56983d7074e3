package services

import (
	"log/slog"

	"github.com/blogem/crud-audit/repositories"
)

// Services holds all service instances
type Services struct {
	Auth  AuthService
	Team  TeamService
	Audit AuditRecorder
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, metrics *AuditMetrics, logger *slog.Logger) *Services {
	return &Services{
		Auth:  NewAuthService(repos.Users),
		Team:  NewTeamService(repos.Team),
		Audit: NewAuditRecorder(repos.Audit, metrics, logger),
	}
}
