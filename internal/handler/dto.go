package handler

import (
	"time"

	"github.com/google/uuid"

	"deadline_tracker/internal/model"
	"deadline_tracker/internal/timeconv"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		Id:        u.Id,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

type AssignmentResponse struct {
	Id                      uuid.UUID  `json:"id"`
	Title                   string     `json:"title"`
	Description             *string    `json:"description"`
	DueDate                 string     `json:"due_date"`
	Priority                string     `json:"priority"`
	Status                  string     `json:"status"`
	EmailNotificationSent   bool       `json:"email_notification_sent"`
	EmailNotificationSentAt *time.Time `json:"email_notification_sent_at,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// toAssignmentResponse renders due_date in zone, or UTC when zone is empty.
func toAssignmentResponse(a *model.Assignment, zone string) *AssignmentResponse {
	dueDate := a.DueDate.UTC().Format(time.RFC3339)
	if zone != "" {
		dueDate = timeconv.ToZone(dueDate, zone)
	}
	return &AssignmentResponse{
		Id:                      a.Id,
		Title:                   a.Title,
		Description:             a.Description,
		DueDate:                 dueDate,
		Priority:                a.Priority.String(),
		Status:                  a.Status.String(),
		EmailNotificationSent:   a.NotificationSent,
		EmailNotificationSentAt: a.NotificationSentAt,
		CreatedAt:               a.CreatedAt,
		UpdatedAt:               a.EditedAt,
	}
}

type AssignmentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

type NotificationResponse struct {
	Id              uuid.UUID  `json:"id"`
	AssignmentId    *uuid.UUID `json:"assignment_id"`
	AssignmentTitle *string    `json:"assignment_title"`
	Type            string     `json:"type"`
	Recipient       string     `json:"recipient"`
	Subject         string     `json:"subject"`
	Message         string     `json:"message"`
	Status          string     `json:"status"`
	ErrorMessage    *string    `json:"error_message,omitempty"`
	SentAt          time.Time  `json:"sent_at"`
}

func toNotificationResponse(n *model.NotificationHistoryItem) NotificationResponse {
	return NotificationResponse{
		Id:              n.Id,
		AssignmentId:    n.AssignmentId,
		AssignmentTitle: n.AssignmentTitle,
		Type:            n.Type.String(),
		Recipient:       n.Recipient,
		Subject:         n.Subject,
		Message:         n.Message,
		Status:          n.Status.String(),
		ErrorMessage:    n.ErrorMessage,
		SentAt:          n.SentAt,
	}
}
