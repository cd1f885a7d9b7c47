package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/booking"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/cloudevent"
)

// Booking event types published on the booking topic.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingRejected  = "booking.rejected"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
)

// EventSource is the CloudEvent source of everything this service emits.
const EventSource = "service-parking-booking"

// EventPublisher delivers a CloudEvent to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, ce cloudevent.CloudEvent) error
}

// Notifier accepts booking notifications without blocking.
type Notifier interface {
	Dispatch(n Notification)
}

// Notification tells one party about a booking change.
type Notification struct {
	Type        string
	RecipientID uuid.UUID
	Booking     BookingEventData
}

// BookingEventData is the CloudEvent payload for booking notifications.
type BookingEventData struct {
	BookingID      uuid.UUID           `json:"booking_id"`
	ListingID      uuid.UUID           `json:"listing_id"`
	RenterID       uuid.UUID           `json:"renter_id"`
	HostID         uuid.UUID           `json:"host_id"`
	RecipientID    uuid.UUID           `json:"recipient_id"`
	ActorID        uuid.UUID           `json:"actor_id"`
	Status         string              `json:"status"`
	PreviousStatus string              `json:"previous_status,omitempty"`
	StartTime      time.Time           `json:"start_time"`
	EndTime        time.Time           `json:"end_time"`
	TotalPrice     bookingDomain.Price `json:"total_price"`
	OccurredAt     time.Time           `json:"occurred_at"`
}

// DispatcherConfig sizes the dispatcher.
type DispatcherConfig struct {
	Topic          string
	QueueSize      int
	Workers        int
	PublishTimeout time.Duration
}

// NotificationDispatcher publishes notifications from a bounded queue on
// its own goroutines so a slow or failing transport never blocks a booking.
type NotificationDispatcher struct {
	publisher EventPublisher
	cfg       DispatcherConfig
	logger    *zap.Logger

	queue chan Notification
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewNotificationDispatcher creates a dispatcher. Call Start to begin publishing.
func NewNotificationDispatcher(publisher EventPublisher, cfg DispatcherConfig, logger *zap.Logger) *NotificationDispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	return &NotificationDispatcher{
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		queue:     make(chan Notification, cfg.QueueSize),
	}
}

// Start launches the worker goroutines.
func (d *NotificationDispatcher) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Dispatch enqueues n. A full queue or a closed dispatcher drops it with a warning.
func (d *NotificationDispatcher) Dispatch(n Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("notification dropped: dispatcher closed",
			zap.String("event_type", n.Type),
			zap.String("booking_id", n.Booking.BookingID.String()),
		)
		return
	}

	select {
	case d.queue <- n:
	default:
		d.logger.Warn("notification dropped: queue full",
			zap.String("event_type", n.Type),
			zap.String("booking_id", n.Booking.BookingID.String()),
			zap.Int("queue_size", d.cfg.QueueSize),
		)
	}
}

// Close stops accepting notifications and waits for queued ones to be
// published, or for ctx to expire.
func (d *NotificationDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.Warn("notification dispatcher did not drain before shutdown",
			zap.Int("pending", len(d.queue)),
		)
		return ctx.Err()
	}
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		d.publish(n)
	}
}

func (d *NotificationDispatcher) publish(n Notification) {
	data := n.Booking
	data.RecipientID = n.RecipientID

	ce, err := cloudevent.New(EventSource, n.Type, data)
	if err != nil {
		d.logger.Error("failed to create cloud event",
			zap.String("event_type", n.Type),
			zap.Error(err),
		)
		return
	}
	ce.Subject = data.BookingID.String()

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PublishTimeout)
	defer cancel()

	if err := d.publisher.PublishEvent(ctx, d.cfg.Topic, ce); err != nil {
		d.logger.Error("failed to publish notification",
			zap.String("topic", d.cfg.Topic),
			zap.String("event_type", n.Type),
			zap.String("booking_id", data.BookingID.String()),
			zap.Error(err),
		)
		return
	}
	d.logger.Debug("notification published",
		zap.String("event_type", n.Type),
		zap.String("booking_id", data.BookingID.String()),
		zap.String("recipient_id", n.RecipientID.String()),
	)
}
