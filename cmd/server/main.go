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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"deadline_tracker/internal/config"
	"deadline_tracker/internal/data"
	"deadline_tracker/internal/db"
	"deadline_tracker/internal/handler"
	"deadline_tracker/internal/kafka"
	"deadline_tracker/internal/mailer"
	"deadline_tracker/internal/middleware"
	"deadline_tracker/internal/reminder"
	"deadline_tracker/internal/service"
	"deadline_tracker/internal/session"
	"deadline_tracker/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		panic(fmt.Sprintf("cannot create config: %v", err))
	}

	zapLogger, err := logging.NewZap(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	logger := logging.New(zapLogger)
	defer func() { _ = logger.Sync() }()

	pool, err := db.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal(ctx, "cannot connect to database", zap.Error(err))
	}
	defer pool.Close()

	redisConn := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = redisConn.Close() }()

	mail, err := mailer.New(mailer.Config{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Username:   cfg.SMTPUsername,
		Password:   cfg.SMTPPassword,
		From:       cfg.SMTPFrom,
		Retries:    cfg.SMTPRetries,
		RetryDelay: cfg.SMTPRetryDelay,
	}, logger)
	if err != nil {
		logger.Fatal(ctx, "cannot create mailer", zap.Error(err))
	}
	if !mail.Configured() {
		logger.Warn(ctx, "SMTP credentials not set, reminders will be recorded but not emailed")
	}

	var events reminder.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		sender := kafka.NewEventSender(cfg.KafkaBrokers, cfg.KafkaReminderTopic)
		defer func() { _ = sender.Close() }()
		events = sender
	}

	loc, err := time.LoadLocation(cfg.ReminderTimezone)
	if err != nil {
		logger.Fatal(ctx, "invalid reminder timezone", zap.Error(err))
	}

	userRepo := data.NewUserRepository(pool)
	assignmentRepo := data.NewAssignmentRepository(pool)
	notificationRepo := data.NewNotificationRepository(pool)

	scheduler := reminder.NewScheduler(reminder.Config{
		Interval:    cfg.ReminderInterval,
		Horizon:     cfg.ReminderHorizon,
		Backoff:     cfg.ReminderBackoff,
		Location:    loc,
		TaskTimeout: cfg.ReminderTaskTimeout,
		AppName:     cfg.AppName,
		AppURL:      cfg.AppURL,
	}, assignmentRepo, notificationRepo, mail, events, logger)

	userService := service.NewUserService(userRepo, session.NewRedisStore(redisConn, cfg.SessionTTL))
	assignmentService := service.NewAssignmentService(assignmentRepo)
	notificationService := service.NewNotificationService(notificationRepo, scheduler, mail.Configured(), scheduler.Config())

	authMiddleware := middleware.NewAuthMiddleware(userService)
	r := chi.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.Metrics)
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, 1<<20) // 1 MB
	})
	r.Get("/health", handler.HealthHandler(pool, mail.Configured()))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		handler.NewAuthHandler(userService).RegisterRoutes(r, authMiddleware)
		handler.NewAssignmentHandler(assignmentService, loc).RegisterRoutes(r, authMiddleware)
		handler.NewNotificationHandler(notificationService).RegisterRoutes(r, authMiddleware)
	})

	port := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:              port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "Starting server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("cannot start http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "server stopped with error", zap.Error(err))
		return
	}
	logger.Info(ctx, "Server stopped")
}
