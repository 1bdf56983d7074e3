package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blogem/crud-audit/models"
	"github.com/blogem/crud-audit/repositories"
)

// TeamService interface defines team management business logic
type TeamService interface {
	GetAllMembers(ctx context.Context) ([]models.TeamMember, error)
	GetMemberByID(ctx context.Context, id int64) (*models.TeamMember, error)
	CreateMember(ctx context.Context, form *models.TeamMemberForm) (*models.TeamMember, error)
	UpdateMember(ctx context.Context, id int64, form *models.TeamMemberForm) (*models.TeamMember, error)
	DeleteMember(ctx context.Context, id int64) error
	GetMemberCount(ctx context.Context) (int, error)
}

// teamService implements TeamService interface
type teamService struct {
	teamRepo repositories.TeamRepository
}

// NewTeamService creates a new team service
func NewTeamService(teamRepo repositories.TeamRepository) TeamService {
	return &teamService{teamRepo: teamRepo}
}

// GetAllMembers retrieves all team members
func (s *teamService) GetAllMembers(ctx context.Context) ([]models.TeamMember, error) {
	return s.teamRepo.GetAll(ctx)
}

// GetMemberByID retrieves a team member by ID
func (s *teamService) GetMemberByID(ctx context.Context, id int64) (*models.TeamMember, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid team member ID %d: %w", id, models.ErrNotFound)
	}
	return s.teamRepo.GetByID(ctx, id)
}

// CreateMember creates a new team member with validation
func (s *teamService) CreateMember(ctx context.Context, form *models.TeamMemberForm) (*models.TeamMember, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(errs, ", "))
	}

	email := strings.TrimSpace(form.Email)
	if err := s.ensureEmailAvailable(ctx, email, 0); err != nil {
		return nil, err
	}

	member := &models.TeamMember{
		Name:   strings.TrimSpace(form.Name),
		Email:  email,
		Active: form.IsActive(),
	}

	if err := s.teamRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create team member: %w", err)
	}

	return member, nil
}

// UpdateMember updates an existing team member
func (s *teamService) UpdateMember(ctx context.Context, id int64, form *models.TeamMemberForm) (*models.TeamMember, error) {
	member, err := s.GetMemberByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(errs, ", "))
	}

	email := strings.TrimSpace(form.Email)
	if !strings.EqualFold(email, member.Email) {
		if err := s.ensureEmailAvailable(ctx, email, id); err != nil {
			return nil, err
		}
	}

	member.Name = strings.TrimSpace(form.Name)
	member.Email = email
	member.Active = form.IsActive()

	if err := s.teamRepo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update team member: %w", err)
	}

	return member, nil
}

// DeleteMember permanently deletes a team member
func (s *teamService) DeleteMember(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid team member ID %d: %w", id, models.ErrNotFound)
	}

	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete team member: %w", err)
	}

	return nil
}

// GetMemberCount returns the total number of team members
func (s *teamService) GetMemberCount(ctx context.Context) (int, error) {
	return s.teamRepo.Count(ctx)
}

// ensureEmailAvailable fails with ErrConflict if another member uses email
func (s *teamService) ensureEmailAvailable(ctx context.Context, email string, selfID int64) error {
	if email == "" {
		return nil
	}

	existing, err := s.teamRepo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if existing.ID != selfID {
		return fmt.Errorf("team member with email %s already exists: %w", email, models.ErrConflict)
	}
	return nil
}
