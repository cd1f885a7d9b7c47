package kafka

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const defaultMaxAttempts = 3

// MessageHandler processes one message. Returning an error retries the same
// message; handlers return nil for messages that can never succeed.
type MessageHandler func(ctx context.Context, msg kafkago.Message) error

// Consumer reads one or more topics as part of a consumer group.
type Consumer struct {
	reader      *kafkago.Reader
	logger      *zap.Logger
	backoff     time.Duration
	maxAttempts int
}

// NewConsumer creates a group consumer subscribed to topics.
func NewConsumer(brokers []string, groupID string, topics []string, logger *zap.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
		StartOffset: kafkago.FirstOffset,
	})
	return &Consumer{
		reader:      reader,
		logger:      logger,
		backoff:     time.Second,
		maxAttempts: defaultMaxAttempts,
	}
}

// Consume fetches messages until ctx is cancelled. Each message is committed
// once handled, or once it has failed maxAttempts times.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		if err := c.handleWithRetry(ctx, handler, msg); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("failed to commit offset",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// handleWithRetry only returns an error when ctx is cancelled.
func (c *Consumer) handleWithRetry(ctx context.Context, handler MessageHandler, msg kafkago.Message) error {
	for attempt := 1; ; attempt++ {
		err := handler(ctx, msg)
		if err == nil {
			return nil
		}
		fields := []zap.Field{
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Error(err),
		}
		if attempt >= c.maxAttempts {
			c.logger.Error("giving up on message", fields...)
			return nil
		}
		c.logger.Warn("message handler failed, retrying", fields...)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}
}

// Close closes the reader and leaves the group.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
