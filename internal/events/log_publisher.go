package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/realrohanroy/parknesting-sub000/internal/platform/cloudevent"
)

// LogPublisher writes events to the log instead of a broker. Used when
// notifications are configured with the log transport.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// PublishEvent implements application.EventPublisher.
func (p *LogPublisher) PublishEvent(_ context.Context, topic string, ce cloudevent.CloudEvent) error {
	p.logger.Info("event",
		zap.String("topic", topic),
		zap.String("type", ce.Type),
		zap.String("id", ce.ID),
		zap.String("subject", ce.Subject),
		zap.ByteString("data", ce.Data),
	)
	return nil
}
