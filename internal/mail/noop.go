package mail

import (
	"context"

	"go.uber.org/zap"
)

// noopSender stands in when no email credentials are configured. Skipping
// delivery is a supported configuration, not an error.
type noopSender struct {
	logger *zap.Logger
}

func (s noopSender) Name() string { return "noop" }

func (s noopSender) Send(ctx context.Context, msg Message) error {
	s.logger.Warn("email transport not configured; skipping send",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
