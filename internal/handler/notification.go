package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"deadline_tracker/internal/model"
	"deadline_tracker/internal/reminder"
	"deadline_tracker/internal/service"
)

type NotificationService interface {
	EmailConfigured() bool
	SendTest(ctx context.Context, assignmentID, userID uuid.UUID) (reminder.Outcome, error)
	CheckToday(ctx context.Context, userID uuid.UUID) (*reminder.DueTodayResult, error)
	History(ctx context.Context, userID uuid.UUID) ([]*model.NotificationHistoryItem, error)
	Settings() service.NotificationSettings
}

type NotificationHandler struct {
	notifications NotificationService
}

func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Route("/notifications", func(r chi.Router) {
		r.Post("/test", Handle(h.sendTest, true, http.StatusOK))
		r.Get("/check-today", Handle(h.checkToday, false, http.StatusOK))
		r.Get("/history", Handle(h.history, false, http.StatusOK))
		r.Get("/settings", Handle(h.settings, false, http.StatusOK))
	})
}

type TestNotificationRequest struct {
	AssignmentId string `json:"assignment_id"`
}

type TestNotificationResponse struct {
	Message      string    `json:"message"`
	AssignmentId uuid.UUID `json:"assignment_id"`
	Note         string    `json:"note,omitempty"`
}

func (h *NotificationHandler) sendTest(ctx context.Context, _ *http.Request, req *TestNotificationRequest) (*TestNotificationResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.AssignmentId == "" {
		return nil, &statusError{code: http.StatusBadRequest, msg: "Assignment ID is required"}
	}
	assignmentID, err := uuid.Parse(req.AssignmentId)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid assignment_id", ErrBadRequest)
	}

	outcome, err := h.notifications.SendTest(ctx, assignmentID, userID)
	if err != nil {
		return nil, err
	}
	if !outcome.OK() {
		return nil, &statusError{code: http.StatusInternalServerError, msg: "Failed to send test notification"}
	}

	if outcome == reminder.OutcomeNotConfigured {
		return &TestNotificationResponse{
			Message:      "Test notification processed (email not configured)",
			AssignmentId: assignmentID,
			Note:         "Configure SMTP credentials to deliver emails",
		}, nil
	}
	return &TestNotificationResponse{
		Message:      "Test notification sent successfully",
		AssignmentId: assignmentID,
	}, nil
}

type DueTodayItem struct {
	AssignmentId uuid.UUID `json:"assignment_id"`
	Title        string    `json:"title"`
	DueDate      time.Time `json:"due_date"`
}

type CheckTodayResponse struct {
	Message           string         `json:"message"`
	SentNotifications []DueTodayItem `json:"sent_notifications"`
	TotalAssignments  int            `json:"total_assignments"`
}

func (h *NotificationHandler) checkToday(ctx context.Context, _ *http.Request, _ *struct{}) (*CheckTodayResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.notifications.CheckToday(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &CheckTodayResponse{SentNotifications: []DueTodayItem{}, TotalAssignments: result.Total}
	if result.Total == 0 {
		resp.Message = "No assignments due today"
		return resp, nil
	}
	for _, a := range result.Processed {
		resp.SentNotifications = append(resp.SentNotifications, DueTodayItem{
			AssignmentId: a.Id,
			Title:        a.Title,
			DueDate:      a.DueDate,
		})
	}
	resp.Message = fmt.Sprintf("Processed %d assignments due today", result.Total)
	return resp, nil
}

type HistoryResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
}

func (h *NotificationHandler) history(ctx context.Context, _ *http.Request, _ *struct{}) (*HistoryResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	items, err := h.notifications.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &HistoryResponse{Notifications: make([]NotificationResponse, 0, len(items))}
	for _, item := range items {
		resp.Notifications = append(resp.Notifications, toNotificationResponse(item))
	}
	resp.Total = len(resp.Notifications)
	return resp, nil
}

type SettingsResponse struct {
	EmailNotifications bool   `json:"email_notifications"`
	DailyReminders     bool   `json:"daily_reminders"`
	Timezone           string `json:"timezone"`
	CheckInterval      string `json:"check_interval"`
	ReminderHorizon    string `json:"reminder_horizon"`
}

func (h *NotificationHandler) settings(_ context.Context, _ *http.Request, _ *struct{}) (*SettingsResponse, error) {
	s := h.notifications.Settings()
	return &SettingsResponse{
		EmailNotifications: s.EmailNotifications,
		DailyReminders:     s.DailyReminders,
		Timezone:           s.Timezone,
		CheckInterval:      s.Interval,
		ReminderHorizon:    s.Horizon,
	}, nil
}
