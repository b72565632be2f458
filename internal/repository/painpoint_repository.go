package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cove-house/waitlist-service/internal/domain"
)

// PainPointRepository persists housing-story submissions.
type PainPointRepository interface {
	Insert(ctx context.Context, point *domain.PainPoint) error
}

type painPointRepository struct {
	pool *pgxpool.Pool
}

// NewPainPointRepository instantiates the repository.
func NewPainPointRepository(pool *pgxpool.Pool) PainPointRepository {
	return &painPointRepository{pool: pool}
}

func (r *painPointRepository) Insert(ctx context.Context, point *domain.PainPoint) error {
	point.ID = uuid.NewString()
	const query = `
        INSERT INTO pain_points (id, name, story, can_reach_out, contact_method, contact_info)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		point.ID,
		point.Name,
		point.Story,
		point.CanReachOut,
		string(point.ContactMethod),
		point.ContactInfo,
	).Scan(&point.CreatedAt)
}
