package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"deadline_tracker/internal/kafka"
	"deadline_tracker/internal/mailer"
	"deadline_tracker/internal/model"
)

type AssignmentStore interface {
	FindDue(ctx context.Context, now time.Time, horizon time.Duration) ([]*model.DueAssignment, error)
	FindDueInWindow(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*model.DueAssignment, error)
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.DueAssignment, error)
}

type NotificationStore interface {
	Create(ctx context.Context, input *model.RepositoryCreateNotificationInput) (*model.NotificationRecord, error)
	MarkStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus, errDetail *string) error
	HasSentToday(ctx context.Context, assignmentID uuid.UUID, window model.DayWindow) (bool, error)
	BeginDelivery(ctx context.Context) (DeliveryTx, error)
}

// DeliveryTx marks a record sent and its assignment notified in one commit.
type DeliveryTx interface {
	MarkStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus, errDetail *string) error
	MarkNotified(ctx context.Context, assignmentID uuid.UUID, at time.Time) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Dispatcher interface {
	Send(ctx context.Context, message *mailer.Message) error
}

type EventPublisher interface {
	SendReminderEvent(ctx context.Context, event kafka.ReminderEvent) error
}
