// Package kafka publishes and consumes reminder delivery events.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// ReminderEvent announces a reminder that reached the user (sent or recorded
// while email is not configured).
type ReminderEvent struct {
	NotificationID string    `json:"notification_id"`
	AssignmentID   string    `json:"assignment_id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	DueDate        time.Time `json:"due_date"`
	ReminderType   string    `json:"reminder_type"`
	SentAt         time.Time `json:"sent_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type EventSender struct {
	writer messageWriter
}

// NewEventSender writes synchronously to topic. Messages are hashed by key so
// reminders for one assignment stay ordered on one partition.
func NewEventSender(brokers []string, topic string) *EventSender {
	return &EventSender{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

func (s *EventSender) Close() error {
	return s.writer.Close()
}

func (s *EventSender) SendReminderEvent(ctx context.Context, event ReminderEvent) error {
	msg, err := encodeReminderEvent(event)
	if err != nil {
		return err
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reminder event %s: %w", event.NotificationID, err)
	}
	return nil
}

func encodeReminderEvent(event ReminderEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal reminder event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.AssignmentID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "reminder_type", Value: []byte(event.ReminderType)},
		},
		Time: event.SentAt,
	}, nil
}
