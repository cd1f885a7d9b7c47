package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/realrohanroy/parknesting-sub000/internal/application"
	"github.com/realrohanroy/parknesting-sub000/internal/config"
	bookingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/booking"
	"github.com/realrohanroy/parknesting-sub000/internal/events"
	"github.com/realrohanroy/parknesting-sub000/internal/handler"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/auth"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/database"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/health"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/kafka"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/logger"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/middleware"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/rabbitmq"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/tracing"
	"github.com/realrohanroy/parknesting-sub000/internal/repository"
)

const serviceName = "service-parking-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
		zap.String("notify_transport", cfg.NotificationConfig.Transport),
	)

	shutdownTracing, err := tracing.Init(context.Background(), serviceName, cfg.TracingConfig, log)
	if err != nil {
		log.Fatal("failed to initialise tracing", zap.Error(err))
	}

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}
	readDB := sqlx.NewDb(sqlDB, "pgx")

	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		cfg.JWTConfig.Issuer,
		cfg.JWTConfig.AccessTTL,
		cfg.JWTConfig.RefreshTTL,
	)

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	queryRepo := repository.NewSQLBookingQueryRepository(readDB)
	listingRepo := repository.NewGormListingRepository(db)
	profileRepo := repository.NewGormProfileRepository(db)

	// Notification transport
	publisher, closePublisher, err := newPublisher(cfg, log)
	if err != nil {
		log.Fatal("failed to create event publisher", zap.Error(err))
	}

	dispatcher := application.NewNotificationDispatcher(publisher, application.DispatcherConfig{
		Topic:          cfg.KafkaConfig.BookingTopic,
		QueueSize:      cfg.NotificationConfig.QueueSize,
		Workers:        cfg.NotificationConfig.Workers,
		PublishTimeout: cfg.NotificationConfig.PublishTimeout,
	}, log)
	dispatcher.Start()

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		listingRepo,
		bookingDomain.NewHourlyPricingStrategy(),
		dispatcher,
		log,
	)
	queryService := application.NewBookingQueryService(queryRepo)
	projectionService := application.NewProjectionService(listingRepo, profileRepo, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Listing and profile projections
	var projectionConsumer *events.ProjectionConsumer
	consumerDone := make(chan struct{})
	if cfg.KafkaConfig.EnableConsume {
		projectionConsumer = events.NewProjectionConsumer(
			cfg.KafkaConfig.Brokers,
			cfg.KafkaConfig.GroupPrefix+"booking",
			[]string{cfg.KafkaConfig.ListingTopic, cfg.KafkaConfig.ProfileTopic},
			projectionService,
			log,
		)
		go func() {
			defer close(consumerDone)
			log.Info("starting projection consumer")
			if err := projectionConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("projection consumer error", zap.Error(err))
			}
		}()
	} else {
		close(consumerDone)
	}

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins...))
	router.Use(middleware.SecurityHeadersMiddleware())

	health.NewHandler(db, serviceName).RegisterRoutes(router)

	handler.NewBookingHandler(bookingService, queryService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	cancel()
	<-consumerDone
	if projectionConsumer != nil {
		if err := projectionConsumer.Close(); err != nil {
			log.Warn("failed to close projection consumer", zap.Error(err))
		}
	}

	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn("notification queue not fully drained", zap.Error(err))
	}
	if err := closePublisher(); err != nil {
		log.Warn("failed to close event publisher", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("failed to flush traces", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}

// newPublisher builds the notification transport selected in config.
func newPublisher(cfg *config.ServiceConfig, log *zap.Logger) (application.EventPublisher, func() error, error) {
	switch cfg.NotificationConfig.Transport {
	case config.TransportRabbitMQ:
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQConfig.URL, cfg.RabbitMQConfig.Exchange, log)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	case config.TransportLog:
		return events.NewLogPublisher(log), func() error { return nil }, nil
	default:
		p := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		return p, p.Close, nil
	}
}
