package data

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"deadline_tracker/internal/errdefs"
	"deadline_tracker/internal/model"
	"deadline_tracker/internal/reminder"
)

const notificationColumns = `
	id, user_id, assignment_id, notification_type,
	recipient, subject, message,
	status, error_message, sent_at`

type NotificationRepository struct {
	db TxQuerier
}

func NewNotificationRepository(db TxQuerier) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, input *model.RepositoryCreateNotificationInput) (*model.NotificationRecord, error) {
	query := `
INSERT INTO notifications (
	id, user_id, assignment_id, notification_type,
	recipient, subject, message, status
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING` + notificationColumns

	var record model.NotificationRecord
	err := pgxscan.Get(ctx, r.db, &record, query,
		input.Id,
		input.UserId,
		input.AssignmentId,
		input.Type,
		input.Recipient,
		input.Subject,
		input.Message,
		input.Status,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &record, nil
}

func (r *NotificationRepository) MarkStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus, errDetail *string) error {
	return markStatus(ctx, r.db, id, status, errDetail)
}

// HasSentToday reports whether a sent record exists for the assignment inside window.
func (r *NotificationRepository) HasSentToday(ctx context.Context, assignmentID uuid.UUID, window model.DayWindow) (bool, error) {
	query := `
SELECT EXISTS (
	SELECT 1
	FROM notifications
	WHERE assignment_id = $1
		AND sent_at >= $2 AND sent_at < $3
		AND status = 'sent'
)
`
	var exists bool
	err := r.db.QueryRow(ctx, query, assignmentID, window.From.UTC(), window.To.UTC()).Scan(&exists)
	if err != nil {
		return false, handleError(err)
	}
	return exists, nil
}

// ListHistory returns the newest records of a user with the title of the
// assignment, if it still exists.
func (r *NotificationRepository) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*model.NotificationHistoryItem, error) {
	query := `
SELECT
	n.id, n.user_id, n.assignment_id, n.notification_type,
	n.recipient, n.subject, n.message,
	n.status, n.error_message, n.sent_at,
	a.title AS assignment_title
FROM notifications n
LEFT JOIN assignments a ON a.id = n.assignment_id
WHERE n.user_id = $1
ORDER BY n.sent_at DESC
LIMIT $2
`
	items := make([]*model.NotificationHistoryItem, 0)
	err := pgxscan.Select(ctx, r.db, &items, query, userID, limit)
	if err != nil {
		return nil, handleError(err)
	}
	return items, nil
}

func (r *NotificationRepository) BeginDelivery(ctx context.Context) (reminder.DeliveryTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleError(err)
	}
	return &DeliveryRepositoryTx{tx: tx}, nil
}

// DeliveryRepositoryTx finalizes a delivered notification and its assignment together.
type DeliveryRepositoryTx struct {
	tx pgx.Tx
}

func (r *DeliveryRepositoryTx) MarkStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus, errDetail *string) error {
	return markStatus(ctx, r.tx, id, status, errDetail)
}

func (r *DeliveryRepositoryTx) MarkNotified(ctx context.Context, assignmentID uuid.UUID, at time.Time) error {
	return markNotified(ctx, r.tx, assignmentID, at)
}

func (r *DeliveryRepositoryTx) Commit(ctx context.Context) error {
	return r.tx.Commit(ctx)
}

func (r *DeliveryRepositoryTx) Rollback(ctx context.Context) error {
	return r.tx.Rollback(ctx)
}

func markStatus(ctx context.Context, db Querier, id uuid.UUID, status model.NotificationStatus, errDetail *string) error {
	query := `
UPDATE notifications
SET status = $1, error_message = $2, sent_at = now()
WHERE id = $3
`
	tag, err := db.Exec(ctx, query, status, errDetail, id)
	if err != nil {
		return handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return errdefs.ErrNotFound
	}
	return nil
}
