package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"deadline_tracker/internal/model"
	"deadline_tracker/internal/reminder"
	"deadline_tracker/internal/service"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, input *model.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, input *model.LoginInput) (*model.User, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) Create(ctx context.Context, ownerID uuid.UUID, input *model.CreateAssignmentInput) (*model.Assignment, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentService) Get(ctx context.Context, id, ownerID uuid.UUID) (*model.Assignment, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentService) List(ctx context.Context, ownerID uuid.UUID, status *model.AssignmentStatus) ([]*model.Assignment, error) {
	args := m.Called(ctx, ownerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Assignment), args.Error(1)
}

func (m *MockAssignmentService) Update(ctx context.Context, id, ownerID uuid.UUID, input *model.UpdateAssignmentInput, replace bool) (*model.Assignment, error) {
	args := m.Called(ctx, id, ownerID, input, replace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) EmailConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockNotificationService) SendTest(ctx context.Context, assignmentID, userID uuid.UUID) (reminder.Outcome, error) {
	args := m.Called(ctx, assignmentID, userID)
	return args.Get(0).(reminder.Outcome), args.Error(1)
}

func (m *MockNotificationService) CheckToday(ctx context.Context, userID uuid.UUID) (*reminder.DueTodayResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reminder.DueTodayResult), args.Error(1)
}

func (m *MockNotificationService) History(ctx context.Context, userID uuid.UUID) ([]*model.NotificationHistoryItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.NotificationHistoryItem), args.Error(1)
}

func (m *MockNotificationService) Settings() service.NotificationSettings {
	return m.Called().Get(0).(service.NotificationSettings)
}

type mockPinger struct {
	err error
}

func (p mockPinger) Ping(context.Context) error {
	return p.err
}
