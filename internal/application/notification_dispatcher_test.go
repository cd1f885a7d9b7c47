package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/realrohanroy/parknesting-sub000/internal/platform/cloudevent"
)

type fakePublisher struct {
	mu      sync.Mutex
	events  []cloudevent.CloudEvent
	topics  []string
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (p *fakePublisher) PublishEvent(ctx context.Context, topic string, ce cloudevent.CloudEvent) error {
	if p.entered != nil {
		p.entered <- struct{}{}
	}
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ce)
	p.topics = append(p.topics, topic)
	return p.err
}

func (p *fakePublisher) published() []cloudevent.CloudEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]cloudevent.CloudEvent(nil), p.events...)
}

func testNotification(eventType string) Notification {
	id := uuid.New()
	return Notification{
		Type:        eventType,
		RecipientID: uuid.New(),
		Booking:     BookingEventData{BookingID: id, Status: "pending", TotalPrice: 200},
	}
}

func TestNotificationDispatcher_PublishesCloudEvents(t *testing.T) {
	pub := &fakePublisher{}
	d := NewNotificationDispatcher(pub, DispatcherConfig{Topic: "booking.events", QueueSize: 8, Workers: 2}, zap.NewNop())
	d.Start()

	n := testNotification(EventBookingCreated)
	d.Dispatch(n)
	require.NoError(t, d.Close(context.Background()))

	events := pub.published()
	require.Len(t, events, 1)
	ce := events[0]
	assert.Equal(t, EventBookingCreated, ce.Type)
	assert.Equal(t, EventSource, ce.Source)
	assert.Equal(t, n.Booking.BookingID.String(), ce.Subject)
	assert.Equal(t, "booking.events", pub.topics[0])

	var data BookingEventData
	require.NoError(t, ce.ParseData(&data))
	assert.Equal(t, n.RecipientID, data.RecipientID)
	assert.Contains(t, string(ce.Data), `"total_price":200.00`)
}

func TestNotificationDispatcher_PublishErrorIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	d := NewNotificationDispatcher(pub, DispatcherConfig{Topic: "t", QueueSize: 4, Workers: 1}, zap.NewNop())
	d.Start()

	d.Dispatch(testNotification(EventBookingConfirmed))
	d.Dispatch(testNotification(EventBookingRejected))
	require.NoError(t, d.Close(context.Background()))

	assert.Len(t, pub.published(), 2)
}

func TestNotificationDispatcher_DropsWhenFull(t *testing.T) {
	pub := &fakePublisher{block: make(chan struct{}), entered: make(chan struct{}, 16)}
	d := NewNotificationDispatcher(pub, DispatcherConfig{Topic: "t", QueueSize: 1, Workers: 1, PublishTimeout: time.Minute}, zap.NewNop())
	d.Start()

	// First is taken by the worker and blocks, second fills the queue.
	d.Dispatch(testNotification(EventBookingCreated))
	<-pub.entered
	d.Dispatch(testNotification(EventBookingCreated))

	done := make(chan struct{})
	go func() {
		d.Dispatch(testNotification(EventBookingCreated))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}

	close(pub.block)
	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, pub.published(), 2)
}

func TestNotificationDispatcher_DispatchAfterCloseIsDropped(t *testing.T) {
	pub := &fakePublisher{}
	d := NewNotificationDispatcher(pub, DispatcherConfig{Topic: "t"}, zap.NewNop())
	d.Start()
	require.NoError(t, d.Close(context.Background()))

	assert.NotPanics(t, func() { d.Dispatch(testNotification(EventBookingCreated)) })
	assert.Empty(t, pub.published())
}

func TestNotificationDispatcher_CloseHonoursDeadline(t *testing.T) {
	pub := &fakePublisher{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	d := NewNotificationDispatcher(pub, DispatcherConfig{Topic: "t", QueueSize: 2, Workers: 1, PublishTimeout: time.Minute}, zap.NewNop())
	d.Start()
	d.Dispatch(testNotification(EventBookingCreated))
	<-pub.entered

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	close(pub.block)
}
