package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"deadline_tracker/pkg/logging"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	defaultRetryDelay = time.Second
	maxRetryDelay     = 30 * time.Second
)

type EventReader struct {
	reader     messageReader
	logger     *logging.Logger
	retryDelay time.Duration
}

func NewEventReader(brokers []string, topic, groupID string, logger *logging.Logger) *EventReader {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
	})
	return &EventReader{reader: reader, logger: logger, retryDelay: defaultRetryDelay}
}

func (r *EventReader) Close() error {
	return r.reader.Close()
}

// Consume hands every reminder event to handle until ctx is done. Malformed
// payloads are logged and committed. A failed handle is retried with backoff
// until it succeeds, so the offset never moves past an unhandled event.
func (r *EventReader) Consume(ctx context.Context, handle func(context.Context, ReminderEvent) error) error {
	for {
		msg, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// closed reader
			if errors.Is(err, io.EOF) {
				return nil
			}
			r.logger.Error(ctx, "Failed to fetch message", zap.Error(err))
			if !sleepCtx(ctx, r.retryDelay) {
				return nil
			}
			continue
		}

		event, err := decodeReminderEvent(msg)
		if err != nil {
			r.logger.Warn(ctx, "Failed to unmarshal message",
				zap.String("topic", msg.Topic),
				zap.ByteString("value", msg.Value),
				zap.Error(err),
			)
		} else if !r.handleUntilDone(ctx, event, handle) {
			return nil
		}

		if err := r.reader.CommitMessages(ctx, msg); err != nil {
			r.logger.Error(ctx, "Failed to commit message", zap.Error(err))
		}
	}
}

// handleUntilDone returns false only when ctx ends before handle succeeds.
func (r *EventReader) handleUntilDone(ctx context.Context, event ReminderEvent, handle func(context.Context, ReminderEvent) error) bool {
	delay := r.retryDelay
	for attempt := 1; ; attempt++ {
		err := handle(ctx, event)
		if err == nil {
			return true
		}
		r.logger.Error(ctx, "Failed to handle reminder event",
			zap.String("notification_id", event.NotificationID),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		if !sleepCtx(ctx, delay) {
			return false
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func decodeReminderEvent(msg kafka.Message) (ReminderEvent, error) {
	var event ReminderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return ReminderEvent{}, fmt.Errorf("failed to unmarshal reminder event: %w", err)
	}
	return event, nil
}
