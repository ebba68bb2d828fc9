package model

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type AssignmentStatus string

const (
	AssignmentStatusPending    AssignmentStatus = "pending"
	AssignmentStatusInProgress AssignmentStatus = "in-progress"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
)

func (s AssignmentStatus) String() string {
	return string(s)
}

func (s AssignmentStatus) IsValid() bool {
	return s == AssignmentStatusPending || s == AssignmentStatusInProgress || s == AssignmentStatusCompleted
}

type NotificationType string

const (
	NotificationTypeDailyReminder     NotificationType = "daily_reminder"
	NotificationTypeImmediateReminder NotificationType = "immediate_reminder"
)

func (t NotificationType) String() string {
	return string(t)
}

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

func (s NotificationStatus) String() string {
	return string(s)
}

func (s NotificationStatus) IsValid() bool {
	return s == NotificationStatusPending || s == NotificationStatusSent || s == NotificationStatusFailed
}

type User struct {
	Id           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	CreatedAt    time.Time `db:"created_at"`
	EditedAt     time.Time `db:"edited_at"`
}

type Assignment struct {
	Id                 uuid.UUID        `db:"id"`
	UserId             uuid.UUID        `db:"user_id"`
	Title              string           `db:"title"`
	Description        *string          `db:"description"`
	DueDate            time.Time        `db:"due_date"`
	Priority           Priority         `db:"priority"`
	Status             AssignmentStatus `db:"status"`
	NotificationSent   bool             `db:"email_notification_sent"`
	NotificationSentAt *time.Time       `db:"email_notification_sent_at"`
	CreatedAt          time.Time        `db:"created_at"`
	EditedAt           time.Time        `db:"edited_at"`
}

// DueAssignment is an assignment joined with the contact details of its owner.
type DueAssignment struct {
	Assignment
	OwnerEmail     string `db:"owner_email"`
	OwnerFirstName string `db:"owner_first_name"`
	OwnerLastName  string `db:"owner_last_name"`
}

func (d DueAssignment) OwnerName() string {
	switch {
	case d.OwnerFirstName != "" && d.OwnerLastName != "":
		return d.OwnerFirstName + " " + d.OwnerLastName
	case d.OwnerFirstName != "":
		return d.OwnerFirstName
	default:
		return d.OwnerEmail
	}
}

type NotificationRecord struct {
	Id           uuid.UUID          `db:"id"`
	UserId       uuid.UUID          `db:"user_id"`
	AssignmentId *uuid.UUID         `db:"assignment_id"`
	Type         NotificationType   `db:"notification_type"`
	Recipient    string             `db:"recipient"`
	Subject      string             `db:"subject"`
	Message      string             `db:"message"`
	Status       NotificationStatus `db:"status"`
	ErrorMessage *string            `db:"error_message"`
	SentAt       time.Time          `db:"sent_at"`
}

// NotificationHistoryItem not from a single table: joined with the assignment title.
type NotificationHistoryItem struct {
	NotificationRecord
	AssignmentTitle *string `db:"assignment_title"`
}

// DayWindow is the half-open interval [From, To) of one calendar day.
type DayWindow struct {
	From time.Time
	To   time.Time
}

func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}
