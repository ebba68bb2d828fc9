package data

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deadline_tracker/internal/errdefs"
	"deadline_tracker/internal/model"
)

type AnyTime struct{}

func (a AnyTime) Match(v interface{}) bool {
	_, ok := v.(time.Time)
	return ok
}

var (
	userCols       = []string{"id", "email", "password_hash", "first_name", "last_name", "created_at", "edited_at"}
	assignmentCols = []string{
		"id", "user_id", "title", "description", "due_date", "priority", "status",
		"email_notification_sent", "email_notification_sent_at", "created_at", "edited_at",
	}
	dueCols          = append(append([]string{}, assignmentCols...), "owner_email", "owner_first_name", "owner_last_name")
	notificationCols = []string{
		"id", "user_id", "assignment_id", "notification_type", "recipient", "subject", "message",
		"status", "error_message", "sent_at",
	}
)

func assignmentRow(id, ownerID uuid.UUID, due time.Time) []any {
	now := time.Now()
	return []any{
		id, ownerID, "Essay", (*string)(nil), due, model.PriorityHigh, model.AssignmentStatusPending,
		false, (*time.Time)(nil), now, now,
	}
}

func TestUserRepo_CreateUser(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewUserRepository(mockPool)
	id := uuid.New()
	now := time.Now()

	mockPool.ExpectQuery("INSERT INTO users").
		WithArgs(id, "ann@example.com", "hash", "Ann", "Lee").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(id, "ann@example.com", "hash", "Ann", "Lee", now, now))

	user, err := repo.CreateUser(context.Background(), &model.RepositoryCreateUserInput{
		Id: id, Email: "ann@example.com", PasswordHash: "hash", FirstName: "Ann", LastName: "Lee",
	})
	require.NoError(t, err)
	assert.Equal(t, id, user.Id)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUserRepo_CreateUser_Duplicate(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewUserRepository(mockPool)
	mockPool.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = repo.CreateUser(context.Background(), &model.RepositoryCreateUserInput{Id: uuid.New(), Email: "a@b.c"})
	assert.ErrorIs(t, err, errdefs.ErrAlreadyExists)
}

func TestUserRepo_GetUserByEmail_NotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewUserRepository(mockPool)
	mockPool.ExpectQuery("SELECT .* FROM users WHERE email =").
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestUserRepo_GetUser(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewUserRepository(mockPool)
	id := uuid.New()
	now := time.Now()
	mockPool.ExpectQuery("SELECT .* FROM users WHERE id =").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(id, "ann@example.com", "hash", "Ann", "Lee", now, now))

	user, err := repo.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.FirstName)
}

func TestAssignmentRepo_CreateAssignment(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssignmentRepository(mockPool)
	id, ownerID := uuid.New(), uuid.New()
	due := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery("INSERT INTO assignments").
		WithArgs(id, ownerID, "Essay", (*string)(nil), due, model.PriorityHigh, model.AssignmentStatusPending).
		WillReturnRows(pgxmock.NewRows(assignmentCols).AddRow(assignmentRow(id, ownerID, due)...))

	a, err := repo.CreateAssignment(context.Background(), &model.RepositoryCreateAssignmentInput{
		Id: id, UserId: ownerID, Title: "Essay", DueDate: due,
		Priority: model.PriorityHigh, Status: model.AssignmentStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, id, a.Id)
	assert.False(t, a.NotificationSent)
}

func TestAssignmentRepo_GetForOwner_NotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssignmentRepository(mockPool)
	id, ownerID := uuid.New(), uuid.New()
	mockPool.ExpectQuery("JOIN users u ON u.id = a.user_id").
		WithArgs(id, ownerID).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetForOwner(context.Background(), id, ownerID)
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestAssignmentRepo_ListAssignments_WithStatus(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssignmentRepository(mockPool)
	ownerID := uuid.New()
	status := model.AssignmentStatusPending
	due := time.Now().Add(time.Hour)

	mockPool.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND status = $2")).
		WithArgs(ownerID, status).
		WillReturnRows(pgxmock.NewRows(assignmentCols).
			AddRow(assignmentRow(uuid.New(), ownerID, due)...).
			AddRow(assignmentRow(uuid.New(), ownerID, due.Add(time.Hour))...))

	list, err := repo.ListAssignments(context.Background(), ownerID, &status)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAssignmentRepo_UpdateAssignment_NoFields(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssignmentRepository(mockPool)
	_, err = repo.UpdateAssignment(context.Background(), uuid.New(), uuid.New(), &model.RepositoryUpdateAssignmentInput{})
	assert.ErrorIs(t, err, errdefs.ErrNoFieldsToUpdate)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestAssignmentRepo_UpdateAssignment_DueDateResetsFlagOnlyWhenMoved(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssignmentRepository(mockPool)
	id, ownerID := uuid.New(), uuid.New()
	due := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("email_notification_sent = CASE WHEN due_date IS DISTINCT FROM $1 THEN FALSE")).
		WithArgs(due, id, ownerID).
		WillReturnRows(pgxmock.NewRows(assignmentCols).AddRow(assignmentRow(id, ownerID, due)...))

	a, err := repo.UpdateAssignment(context.Background(), id, ownerID, &model.RepositoryUpdateAssignmentInput{DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, due, a.DueDate)
}

func TestAssignmentRepo_UpdateAssignment_SameDueDateKeepsFlag(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssignmentRepository(mockPool)
	id, ownerID := uuid.New(), uuid.New()
	title := "Essay v2"
	due := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	sentAt := due.Add(-24 * time.Hour)

	row := assignmentRow(id, ownerID, due)
	row[2], row[7], row[8] = title, true, &sentAt

	mockPool.ExpectQuery(regexp.QuoteMeta("ELSE email_notification_sent END")).
		WithArgs(title, due, id, ownerID).
		WillReturnRows(pgxmock.NewRows(assignmentCols).AddRow(row...))

	a, err := repo.UpdateAssignment(context.Background(), id, ownerID, &model.RepositoryUpdateAssignmentInput{
		Title:   &title,
		DueDate: &due,
	})
	require.NoError(t, err)
	assert.True(t, a.NotificationSent)
	require.NotNil(t, a.NotificationSentAt)
	assert.Equal(t, sentAt, *a.NotificationSentAt)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestAssignmentRepo_DeleteAssignment(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssignmentRepository(mockPool)
	id, ownerID := uuid.New(), uuid.New()

	mockPool.ExpectExec("DELETE FROM assignments").
		WithArgs(id, ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectExec("DELETE FROM assignments").
		WithArgs(id, ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.DeleteAssignment(context.Background(), id, ownerID))
	assert.ErrorIs(t, repo.DeleteAssignment(context.Background(), id, ownerID), errdefs.ErrNotFound)
}

func TestAssignmentRepo_FindDue(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssignmentRepository(mockPool)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	id, ownerID := uuid.New(), uuid.New()

	row := append(assignmentRow(id, ownerID, now.Add(2*time.Hour)), "ann@example.com", "Ann", "Lee")
	mockPool.ExpectQuery("a.email_notification_sent = FALSE").
		WithArgs(now, now.Add(72*time.Hour)).
		WillReturnRows(pgxmock.NewRows(dueCols).AddRow(row...))

	due, err := repo.FindDue(context.Background(), now, 72*time.Hour)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "ann@example.com", due[0].OwnerEmail)
	assert.Equal(t, "Ann Lee", due[0].OwnerName())
}

func TestAssignmentRepo_FindDueInWindow_FiltersOwner(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewAssignmentRepository(mockPool)
	ownerID := uuid.New()
	from := time.Date(2024, 3, 9, 21, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	mockPool.ExpectQuery(regexp.QuoteMeta("AND a.user_id = $3")).
		WithArgs(from, to, ownerID).
		WillReturnRows(pgxmock.NewRows(dueCols))

	due, err := repo.FindDueInWindow(context.Background(), ownerID, from, to)
	require.NoError(t, err)
	assert.Empty(t, due)
	assert.NotNil(t, due)
}

func TestNotificationRepo_Create(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewNotificationRepository(mockPool)
	id, userID, assignmentID := uuid.New(), uuid.New(), uuid.New()
	input := &model.RepositoryCreateNotificationInput{
		Id:           id,
		UserId:       userID,
		AssignmentId: &assignmentID,
		Type:         model.NotificationTypeDailyReminder,
		Recipient:    "ann@example.com",
		Subject:      "Deadline Reminder: Essay",
		Message:      "Assignment 'Essay' is due",
		Status:       model.NotificationStatusPending,
	}

	mockPool.ExpectQuery("INSERT INTO notifications").
		WithArgs(id, userID, &assignmentID, input.Type, input.Recipient, input.Subject, input.Message, input.Status).
		WillReturnRows(pgxmock.NewRows(notificationCols).AddRow(
			id, userID, &assignmentID, input.Type, input.Recipient, input.Subject, input.Message,
			input.Status, (*string)(nil), time.Now(),
		))

	record, err := repo.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusPending, record.Status)
}

func TestNotificationRepo_MarkStatus(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewNotificationRepository(mockPool)
	id := uuid.New()
	detail := "Email not configured"

	mockPool.ExpectExec("UPDATE notifications").
		WithArgs(model.NotificationStatusPending, &detail, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.MarkStatus(context.Background(), id, model.NotificationStatusPending, &detail))
}

func TestNotificationRepo_HasSentToday(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewNotificationRepository(mockPool)
	assignmentID := uuid.New()
	window := model.DayWindow{
		From: time.Date(2024, 3, 9, 21, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 10, 21, 0, 0, 0, time.UTC),
	}

	mockPool.ExpectQuery("SELECT EXISTS").
		WithArgs(assignmentID, window.From, window.To).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	sent, err := repo.HasSentToday(context.Background(), assignmentID, window)
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestNotificationRepo_ListHistory(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewNotificationRepository(mockPool)
	userID := uuid.New()
	title := "Essay"

	mockPool.ExpectQuery("LEFT JOIN assignments").
		WithArgs(userID, 50).
		WillReturnRows(pgxmock.NewRows(append(append([]string{}, notificationCols...), "assignment_title")).
			AddRow(uuid.New(), userID, (*uuid.UUID)(nil), model.NotificationTypeImmediateReminder,
				"ann@example.com", "s", "m", model.NotificationStatusSent, (*string)(nil), time.Now(), &title))

	items, err := repo.ListHistory(context.Background(), userID, 50)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Essay", *items[0].AssignmentTitle)
	assert.Nil(t, items[0].AssignmentId)
}

func TestDeliveryTx_Commit(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewNotificationRepository(mockPool)
	recordID, assignmentID := uuid.New(), uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectExec("UPDATE notifications").
		WithArgs(model.NotificationStatusSent, (*string)(nil), recordID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec("UPDATE assignments").
		WithArgs(AnyTime{}, assignmentID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	ctx := context.Background()
	tx, err := repo.BeginDelivery(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.MarkStatus(ctx, recordID, model.NotificationStatusSent, nil))
	require.NoError(t, tx.MarkNotified(ctx, assignmentID, time.Now()))
	require.NoError(t, tx.Commit(ctx))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestDeliveryTx_RollbackOnMissingAssignment(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewNotificationRepository(mockPool)
	assignmentID := uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectExec("UPDATE assignments").
		WithArgs(AnyTime{}, assignmentID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mockPool.ExpectRollback()

	ctx := context.Background()
	tx, err := repo.BeginDelivery(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, tx.MarkNotified(ctx, assignmentID, time.Now()), errdefs.ErrNotFound)
	require.NoError(t, tx.Rollback(ctx))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestNotificationRepo_BeginDeliveryError(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewNotificationRepository(mockPool)
	mockPool.ExpectBegin().WillReturnError(errors.New("pool closed"))

	_, err = repo.BeginDelivery(context.Background())
	assert.Error(t, err)
}

func TestHandleError(t *testing.T) {
	assert.ErrorIs(t, handleError(pgx.ErrNoRows), errdefs.ErrNotFound)
	assert.ErrorIs(t, handleError(&pgconn.PgError{Code: "23505"}), errdefs.ErrAlreadyExists)

	fk := handleError(&pgconn.PgError{Code: "23503", ConstraintName: "assignments_user_id_fkey"})
	assert.ErrorIs(t, fk, errdefs.ErrNotFound)
	assert.Contains(t, fk.Error(), "assignments_user_id_fkey")
	assert.ErrorIs(t, handleError(&pgconn.PgError{Code: "23514"}), errdefs.ErrValidation)

	raw := errors.New("boom")
	err := handleError(raw)
	assert.ErrorIs(t, err, raw)
	assert.Contains(t, err.Error(), "repository error")
}
