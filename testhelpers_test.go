//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/realrohanroy/parknesting-sub000/internal/application"
	bookingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/booking"
	"github.com/realrohanroy/parknesting-sub000/internal/events"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/cloudevent"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/kafka"
	"github.com/realrohanroy/parknesting-sub000/internal/repository"
)

const (
	bookingTopic = "booking.events"
	listingTopic = "listing.events"
	profileTopic = "profile.events"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// bookingStack holds wired-up booking service components.
type bookingStack struct {
	Service     *application.BookingService
	Queries     *application.BookingQueryService
	Projections *application.ProjectionService
	Consumer    *events.ProjectionConsumer
	Dispatcher  *application.NotificationDispatcher
	Cleanup     func()
}

// setupPostgres starts a PostgreSQL container and returns a migrated GORM DB.
func setupPostgres(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_parking",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_parking sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, repository.AutoMigrate(db))

	return db, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}
}

// setupContainers starts PostgreSQL and Kafka testcontainers.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	db, cleanupPG := setupPostgres(t)

	// confluent-local runs KRaft without a separate ZooKeeper.
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, bookingTopic, listingTopic, profileTopic)

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup: func() {
			if err := kafkaContainer.Terminate(ctx); err != nil {
				t.Logf("failed to terminate Kafka container: %v", err)
			}
			cleanupPG()
		},
	}
}

// setupBookingStack wires the services against Postgres. With brokers set,
// notifications go to Kafka and the projection consumer is created.
func setupBookingStack(t *testing.T, db *gorm.DB, brokers []string) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	sqlDB, err := db.DB()
	require.NoError(t, err)

	bookingRepo := repository.NewGormBookingRepository(db)
	listingRepo := repository.NewGormListingRepository(db)
	profileRepo := repository.NewGormProfileRepository(db)
	queryRepo := repository.NewSQLBookingQueryRepository(sqlx.NewDb(sqlDB, "pgx"))

	var publisher application.EventPublisher = events.NewLogPublisher(logger)
	closeProducer := func() {}
	if len(brokers) > 0 {
		producer := kafka.NewProducer(brokers, logger)
		publisher = producer
		closeProducer = func() { _ = producer.Close() }
	}

	dispatcher := application.NewNotificationDispatcher(publisher, application.DispatcherConfig{
		Topic:          bookingTopic,
		QueueSize:      64,
		Workers:        1,
		PublishTimeout: 10 * time.Second,
	}, logger)
	dispatcher.Start()

	projections := application.NewProjectionService(listingRepo, profileRepo, logger)
	stack := &bookingStack{
		Service: application.NewBookingService(
			bookingRepo, listingRepo, bookingDomain.NewHourlyPricingStrategy(), dispatcher, logger,
		),
		Queries:     application.NewBookingQueryService(queryRepo),
		Projections: projections,
		Dispatcher:  dispatcher,
	}
	if len(brokers) > 0 {
		groupID := fmt.Sprintf("test-booking-%s", uuid.New().String()[:8])
		stack.Consumer = events.NewProjectionConsumer(brokers, groupID, []string{listingTopic, profileTopic}, projections, logger)
	}
	stack.Cleanup = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = dispatcher.Close(ctx)
		closeProducer()
		if stack.Consumer != nil {
			_ = stack.Consumer.Close()
		}
	}
	return stack
}

// seedListing stores an active listing directly through the projection service.
func seedListing(t *testing.T, stack *bookingStack, ownerID uuid.UUID, rate float64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, stack.Projections.UpsertListing(context.Background(), application.ListingUpsertedEvent{
		ListingID:  id,
		OwnerID:    ownerID,
		Title:      "Covered bay",
		Address:    "1 Test Street",
		City:       "Testville",
		HourlyRate: rate,
		IsActive:   true,
		OccurredAt: time.Now().UTC(),
	}))
	return id
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := cloudevent.New(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) cloudevent.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := cloudevent.Parse(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
