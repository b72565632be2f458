// Package events appends lightweight analytics events to the audit log.
// Recording is strictly best-effort: a persistence failure is logged and
// swallowed, and never affects the operation that emitted the event.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cove-house/waitlist-service/internal/domain"
	"github.com/cove-house/waitlist-service/internal/repository"
)

// Recorder writes analytics events through the event repository.
type Recorder struct {
	repo   repository.EventRepository
	logger *zap.Logger
}

// NewRecorder constructs a recorder.
func NewRecorder(repo repository.EventRepository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record appends one event. The append is bounded by its own timeout so a
// slow event store cannot stall the calling request.
func (r *Recorder) Record(ctx context.Context, eventType string, payload map[string]any) {
	if r == nil || r.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	event := domain.AnalyticsEvent{EventType: eventType, Payload: payload}
	if err := r.repo.Append(ctx, event); err != nil {
		r.logger.Warn("failed to record analytics event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
