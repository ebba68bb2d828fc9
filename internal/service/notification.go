package service

import (
	"context"

	"github.com/google/uuid"

	"deadline_tracker/internal/model"
	"deadline_tracker/internal/reminder"
)

const historyLimit = 50

type NotificationRepository interface {
	ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*model.NotificationHistoryItem, error)
}

type ReminderSender interface {
	SendImmediateReminder(ctx context.Context, assignmentID, userID uuid.UUID) (reminder.Outcome, error)
	SendDueToday(ctx context.Context, userID uuid.UUID) (*reminder.DueTodayResult, error)
}

type NotificationSettings struct {
	EmailNotifications bool
	DailyReminders     bool
	Timezone           string
	Interval           string
	Horizon            string
}

type NotificationService struct {
	repo            NotificationRepository
	reminders       ReminderSender
	emailConfigured bool
	settings        NotificationSettings
}

func NewNotificationService(
	repo NotificationRepository,
	reminders ReminderSender,
	emailConfigured bool,
	cfg reminder.Config,
) *NotificationService {
	return &NotificationService{
		repo:            repo,
		reminders:       reminders,
		emailConfigured: emailConfigured,
		settings: NotificationSettings{
			EmailNotifications: emailConfigured,
			DailyReminders:     true,
			Timezone:           cfg.Location.String(),
			Interval:           cfg.Interval.String(),
			Horizon:            cfg.Horizon.String(),
		},
	}
}

func (s *NotificationService) EmailConfigured() bool {
	return s.emailConfigured
}

func (s *NotificationService) SendTest(ctx context.Context, assignmentID, userID uuid.UUID) (reminder.Outcome, error) {
	return s.reminders.SendImmediateReminder(ctx, assignmentID, userID)
}

func (s *NotificationService) CheckToday(ctx context.Context, userID uuid.UUID) (*reminder.DueTodayResult, error) {
	return s.reminders.SendDueToday(ctx, userID)
}

func (s *NotificationService) History(ctx context.Context, userID uuid.UUID) ([]*model.NotificationHistoryItem, error) {
	return s.repo.ListHistory(ctx, userID, historyLimit)
}

func (s *NotificationService) Settings() NotificationSettings {
	return s.settings
}
