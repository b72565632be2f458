package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cove-house/waitlist-service/internal/domain"
)

// EventRepository appends analytics events. The log is append-only and
// never read back by the service.
type EventRepository interface {
	Append(ctx context.Context, event domain.AnalyticsEvent) error
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates the repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) Append(ctx context.Context, event domain.AnalyticsEvent) error {
	const query = `INSERT INTO waitlist_events (event_type, payload) VALUES ($1, $2)`
	payload := event.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	_, err := r.pool.Exec(ctx, query, event.EventType, payload)
	return err
}
