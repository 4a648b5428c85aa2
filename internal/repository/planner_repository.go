package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/timetable-backend/internal/model"
)

// PlannerRepository handles planner account data access.
type PlannerRepository struct {
	pool *pgxpool.Pool
}

// NewPlannerRepository creates a new PlannerRepository.
func NewPlannerRepository(pool *pgxpool.Pool) *PlannerRepository {
	return &PlannerRepository{pool: pool}
}

// GetByID retrieves a planner by ID.
func (r *PlannerRepository) GetByID(ctx context.Context, id int) (*model.Planner, error) {
	p := &model.Planner{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM planners WHERE id = $1`, id,
	).Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByEmail retrieves a planner by their unique email.
func (r *PlannerRepository) GetByEmail(ctx context.Context, email string) (*model.Planner, error) {
	p := &model.Planner{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM planners WHERE email = $1`, email,
	).Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new planner.
func (r *PlannerRepository) Create(ctx context.Context, p *model.Planner) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO planners (email, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		p.Email, p.Name, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// UpdatePassword replaces a planner's password hash.
func (r *PlannerRepository) UpdatePassword(ctx context.Context, id int, hash string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE planners SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		hash, id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
