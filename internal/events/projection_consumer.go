package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/realrohanroy/parknesting-sub000/internal/application"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/cloudevent"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/domain"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/kafka"
)

// Listing and profile event types consumed by this service.
const (
	ListingUpserted = "listing.upserted"
	ListingRemoved  = "listing.removed"
	ProfileUpserted = "profile.upserted"
)

// Projector applies catalogue events to the local read models.
type Projector interface {
	UpsertListing(ctx context.Context, evt application.ListingUpsertedEvent) error
	RemoveListing(ctx context.Context, evt application.ListingRemovedEvent) error
	UpsertProfile(ctx context.Context, evt application.ProfileUpsertedEvent) error
}

// ProjectionConsumer listens to listing and profile events and keeps the
// local projections current.
type ProjectionConsumer struct {
	consumer  *kafka.Consumer
	projector Projector
	logger    *zap.Logger
}

// NewProjectionConsumer creates a new ProjectionConsumer.
func NewProjectionConsumer(
	brokers []string,
	groupID string,
	topics []string,
	projector Projector,
	logger *zap.Logger,
) *ProjectionConsumer {
	return &ProjectionConsumer{
		consumer:  kafka.NewConsumer(brokers, groupID, topics, logger),
		projector: projector,
		logger:    logger,
	}
}

// Start begins consuming. This blocks until the context is cancelled.
func (c *ProjectionConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *ProjectionConsumer) Close() error {
	return c.consumer.Close()
}

func (c *ProjectionConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	ce, err := cloudevent.Parse(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event",
			zap.String("topic", msg.Topic),
			zap.Error(err),
		)
		return nil // Don't retry malformed messages
	}

	switch ce.Type {
	case ListingUpserted:
		var evt application.ListingUpsertedEvent
		if !c.decode(ce, &evt) {
			return nil
		}
		return c.skipInvalid(ce, c.projector.UpsertListing(ctx, evt))
	case ListingRemoved:
		var evt application.ListingRemovedEvent
		if !c.decode(ce, &evt) {
			return nil
		}
		return c.skipInvalid(ce, c.projector.RemoveListing(ctx, evt))
	case ProfileUpserted:
		var evt application.ProfileUpsertedEvent
		if !c.decode(ce, &evt) {
			return nil
		}
		return c.skipInvalid(ce, c.projector.UpsertProfile(ctx, evt))
	default:
		c.logger.Debug("ignoring unhandled event type", zap.String("type", ce.Type))
		return nil
	}
}

func (c *ProjectionConsumer) decode(ce cloudevent.CloudEvent, v interface{}) bool {
	if err := ce.ParseData(v); err != nil {
		c.logger.Error("failed to parse event data",
			zap.String("type", ce.Type),
			zap.String("event_id", ce.ID),
			zap.Error(err),
		)
		return false
	}
	return true
}

// skipInvalid drops events the projector rejects as invalid; other errors
// are returned so the consumer retries.
func (c *ProjectionConsumer) skipInvalid(ce cloudevent.CloudEvent, err error) error {
	if err != nil && domain.IsValidation(err) {
		c.logger.Warn("skipping invalid event",
			zap.String("type", ce.Type),
			zap.String("event_id", ce.ID),
			zap.Error(err),
		)
		return nil
	}
	return err
}
