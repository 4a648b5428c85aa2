package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/repository"
)

// ErrPlannerExists is returned when the email is already registered.
var ErrPlannerExists = errors.New("planner email already registered")

// PlannerService handles planner account logic.
type PlannerService struct {
	plannerRepo *repository.PlannerRepository
	authService *AuthService
}

// NewPlannerService creates a new PlannerService.
func NewPlannerService(plannerRepo *repository.PlannerRepository, authService *AuthService) *PlannerService {
	return &PlannerService{plannerRepo: plannerRepo, authService: authService}
}

// GetByID retrieves a planner by ID.
func (s *PlannerService) GetByID(ctx context.Context, id int) (*model.Planner, error) {
	return s.plannerRepo.GetByID(ctx, id)
}

// GetByEmail retrieves a planner by email.
func (s *PlannerService) GetByEmail(ctx context.Context, email string) (*model.Planner, error) {
	return s.plannerRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// Create hashes password and registers a new planner.
func (s *PlannerService) Create(ctx context.Context, email, name, password string) (*model.Planner, error) {
	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p := &model.Planner{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	}
	if err := s.plannerRepo.Create(ctx, p); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrPlannerExists
		}
		return nil, fmt.Errorf("create planner: %w", err)
	}
	return p, nil
}

// Authenticate returns the planner matching email and password.
func (s *PlannerService) Authenticate(ctx context.Context, email, password string) (*model.Planner, error) {
	p, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.authService.CheckPassword(p.PasswordHash, password); err != nil {
		return nil, err
	}
	return p, nil
}
