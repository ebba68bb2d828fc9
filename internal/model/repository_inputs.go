package model

import (
	"time"

	"github.com/google/uuid"
)

type RepositoryCreateUserInput struct {
	Id           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
}

type RepositoryCreateAssignmentInput struct {
	Id          uuid.UUID        `db:"id"`
	UserId      uuid.UUID        `db:"user_id"`
	Title       string           `db:"title"`
	Description *string          `db:"description"`
	DueDate     time.Time        `db:"due_date"`
	Priority    Priority         `db:"priority"`
	Status      AssignmentStatus `db:"status"`
}

type RepositoryUpdateAssignmentInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *Priority
	Status      *AssignmentStatus
	// ClearDescription sets description to NULL when Description is nil.
	ClearDescription bool
}

type RepositoryCreateNotificationInput struct {
	Id           uuid.UUID          `db:"id"`
	UserId       uuid.UUID          `db:"user_id"`
	AssignmentId *uuid.UUID         `db:"assignment_id"`
	Type         NotificationType   `db:"notification_type"`
	Recipient    string             `db:"recipient"`
	Subject      string             `db:"subject"`
	Message      string             `db:"message"`
	Status       NotificationStatus `db:"status"`
}
