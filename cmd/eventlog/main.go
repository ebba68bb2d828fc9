package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"deadline_tracker/internal/config"
	"deadline_tracker/internal/kafka"
	"deadline_tracker/pkg/logging"
)

// eventlog tails the reminder topic and writes every delivered reminder to the log.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

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

	if len(cfg.KafkaBrokers) == 0 {
		logger.Error(ctx, "KAFKA_BROKERS is not set")
		os.Exit(1)
	}

	logger.Info(ctx, "Starting reminder event consumer",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaReminderTopic),
		zap.String("group_id", cfg.KafkaGroupID),
	)

	reader := kafka.NewEventReader(cfg.KafkaBrokers, cfg.KafkaReminderTopic, cfg.KafkaGroupID, logger)
	defer func() { _ = reader.Close() }()

	err = reader.Consume(ctx, func(ctx context.Context, event kafka.ReminderEvent) error {
		logger.Info(ctx, "Received reminder event",
			zap.String("notification_id", event.NotificationID),
			zap.String("assignment_id", event.AssignmentID),
			zap.String("user_id", event.UserID),
			zap.String("reminder_type", event.ReminderType),
			zap.Time("due_date", event.DueDate),
			zap.Time("sent_at", event.SentAt),
		)
		return nil
	})
	if err != nil {
		logger.Error(ctx, "consumer stopped", zap.Error(err))
	}
	logger.Info(ctx, "Consumer shutting down")
}
