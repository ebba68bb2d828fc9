package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"deadline_tracker/internal/model"
	"deadline_tracker/internal/reminder"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, input *model.RepositoryCreateUserInput) (*model.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) CreateAssignment(ctx context.Context, input *model.RepositoryCreateAssignmentInput) (*model.Assignment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetAssignment(ctx context.Context, id, ownerID uuid.UUID) (*model.Assignment, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListAssignments(ctx context.Context, ownerID uuid.UUID, status *model.AssignmentStatus) ([]*model.Assignment, error) {
	args := m.Called(ctx, ownerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) UpdateAssignment(ctx context.Context, id, ownerID uuid.UUID, input *model.RepositoryUpdateAssignmentInput) (*model.Assignment, error) {
	args := m.Called(ctx, id, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) DeleteAssignment(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*model.NotificationHistoryItem, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.NotificationHistoryItem), args.Error(1)
}

type MockReminderSender struct {
	mock.Mock
}

func (m *MockReminderSender) SendImmediateReminder(ctx context.Context, assignmentID, userID uuid.UUID) (reminder.Outcome, error) {
	args := m.Called(ctx, assignmentID, userID)
	return args.Get(0).(reminder.Outcome), args.Error(1)
}

func (m *MockReminderSender) SendDueToday(ctx context.Context, userID uuid.UUID) (*reminder.DueTodayResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reminder.DueTodayResult), args.Error(1)
}
