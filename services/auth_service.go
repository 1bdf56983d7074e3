package services

import (
	"context"
	"fmt"

	"github.com/blogem/crud-audit/models"
	"github.com/blogem/crud-audit/repositories"
)

// AuthService turns identity provider claims into local users
type AuthService interface {
	ResolveUser(ctx context.Context, claims map[string]interface{}) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// ResolveUser finds or creates the user for the token subject. The display
// name falls back from nickname to name, email and finally the subject.
func (s *authService) ResolveUser(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", models.ErrValidation)
	}

	displayName := subject
	for _, key := range []string{"nickname", "name", "email"} {
		if v, ok := claims[key].(string); ok && v != "" {
			displayName = v
			break
		}
	}

	return s.userRepo.FindOrCreate(ctx, subject, displayName)
}
