package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"deadline_tracker/internal/kafka"
	"deadline_tracker/internal/mailer"
	"deadline_tracker/internal/model"
)

type MockAssignmentStore struct {
	mock.Mock
}

func (m *MockAssignmentStore) FindDue(ctx context.Context, now time.Time, horizon time.Duration) ([]*model.DueAssignment, error) {
	args := m.Called(ctx, now, horizon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DueAssignment), args.Error(1)
}

func (m *MockAssignmentStore) FindDueInWindow(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*model.DueAssignment, error) {
	args := m.Called(ctx, ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DueAssignment), args.Error(1)
}

func (m *MockAssignmentStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.DueAssignment, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DueAssignment), args.Error(1)
}

type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Create(ctx context.Context, input *model.RepositoryCreateNotificationInput) (*model.NotificationRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NotificationRecord), args.Error(1)
}

func (m *MockNotificationStore) MarkStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus, errDetail *string) error {
	args := m.Called(ctx, id, status, errDetail)
	return args.Error(0)
}

func (m *MockNotificationStore) HasSentToday(ctx context.Context, assignmentID uuid.UUID, window model.DayWindow) (bool, error) {
	args := m.Called(ctx, assignmentID, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationStore) BeginDelivery(ctx context.Context) (DeliveryTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(DeliveryTx), args.Error(1)
}

type MockDeliveryTx struct {
	mock.Mock
}

func (m *MockDeliveryTx) MarkStatus(ctx context.Context, id uuid.UUID, status model.NotificationStatus, errDetail *string) error {
	args := m.Called(ctx, id, status, errDetail)
	return args.Error(0)
}

func (m *MockDeliveryTx) MarkNotified(ctx context.Context, assignmentID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, assignmentID, at)
	return args.Error(0)
}

func (m *MockDeliveryTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Send(ctx context.Context, message *mailer.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) SendReminderEvent(ctx context.Context, event kafka.ReminderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
