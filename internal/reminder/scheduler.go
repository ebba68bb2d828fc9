package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deadline_tracker/internal/errdefs"
	"deadline_tracker/internal/kafka"
	"deadline_tracker/internal/mailer"
	"deadline_tracker/internal/metrics"
	"deadline_tracker/internal/model"
	"deadline_tracker/pkg/logging"
)

const notConfiguredDetail = "Email not configured"

type Outcome string

const (
	OutcomeSent          Outcome = "sent"
	OutcomeNotConfigured Outcome = "not_configured"
	OutcomeFailed        Outcome = "failed"
)

// OK reports whether the assignment counts as processed.
func (o Outcome) OK() bool {
	return o == OutcomeSent || o == OutcomeNotConfigured
}

type Config struct {
	Interval    time.Duration
	Horizon     time.Duration
	Backoff     time.Duration
	Location    *time.Location
	TaskTimeout time.Duration
	AppName     string
	AppURL      string
}

func DefaultConfig() Config {
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		loc = time.FixedZone("EAT", 3*60*60)
	}
	return Config{
		Interval:    time.Hour,
		Horizon:     72 * time.Hour,
		Backoff:     5 * time.Minute,
		Location:    loc,
		TaskTimeout: 30 * time.Second,
		AppName:     "Deadline Tracker",
	}
}

// TickReport summarizes one pass over the due assignments.
type TickReport struct {
	Candidates    int
	Skipped       int
	Sent          int
	NotConfigured int
	Failed        int
}

func (r *TickReport) add(o Outcome) {
	switch o {
	case OutcomeSent:
		r.Sent++
	case OutcomeNotConfigured:
		r.NotConfigured++
	default:
		r.Failed++
	}
}

func (r TickReport) fields() []zap.Field {
	return []zap.Field{
		zap.Int("candidates", r.Candidates),
		zap.Int("skipped", r.Skipped),
		zap.Int("sent", r.Sent),
		zap.Int("not_configured", r.NotConfigured),
		zap.Int("failed", r.Failed),
	}
}

// DueTodayResult lists the assignments an on-demand pass processed successfully.
type DueTodayResult struct {
	Report    TickReport
	Total     int
	Processed []*model.DueAssignment
}

type Scheduler struct {
	cfg           Config
	assignments   AssignmentStore
	notifications NotificationStore
	dispatcher    Dispatcher
	events        EventPublisher
	logger        *logging.Logger

	now   func() time.Time
	newID func() (uuid.UUID, error)
	sleep func(ctx context.Context, d time.Duration) bool
}

// NewScheduler builds a scheduler. events may be nil.
func NewScheduler(
	cfg Config,
	assignments AssignmentStore,
	notifications NotificationStore,
	dispatcher Dispatcher,
	events EventPublisher,
	logger *logging.Logger,
) *Scheduler {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = def.Horizon
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = def.Backoff
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = def.TaskTimeout
	}
	if cfg.AppName == "" {
		cfg.AppName = def.AppName
	}
	return &Scheduler{
		cfg:           cfg,
		assignments:   assignments,
		notifications: notifications,
		dispatcher:    dispatcher,
		events:        events,
		logger:        logger,
		now:           time.Now,
		newID:         uuid.NewV7,
		sleep:         sleepCtx,
	}
}

func (s *Scheduler) Config() Config {
	return s.cfg
}

// DayWindow returns [local midnight, next local midnight) around now in loc.
func DayWindow(now time.Time, loc *time.Location) model.DayWindow {
	local := now.In(loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 1)
	return model.DayWindow{From: from.UTC(), To: to.UTC()}
}

// Run ticks every interval until ctx is cancelled. A failed or panicking
// tick is followed by the backoff delay instead.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info(ctx, "reminder scheduler started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Duration("horizon", s.cfg.Horizon),
		zap.String("location", s.cfg.Location.String()),
	)
	for {
		delay := s.cfg.Interval
		if err := s.safeTick(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			metrics.ReminderTickErrors.Inc()
			s.logger.Error(ctx, "reminder tick failed", zap.Error(err), zap.Duration("backoff", s.cfg.Backoff))
			delay = s.cfg.Backoff
		}
		if !s.sleep(ctx, delay) {
			break
		}
	}
	s.logger.Info(ctx, "reminder scheduler stopped")
	return nil
}

func (s *Scheduler) safeTick(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reminder tick panicked: %v", r)
		}
	}()
	_, err = s.Tick(ctx)
	return err
}

// Tick sends reminders for every due assignment not yet reminded today.
// Per-assignment failures are counted in the report, only a failing due
// query is returned as an error.
func (s *Scheduler) Tick(ctx context.Context) (TickReport, error) {
	var report TickReport
	start := time.Now()
	defer func() {
		metrics.ReminderTickDuration.Observe(time.Since(start).Seconds())
	}()

	now := s.now()
	due, err := s.assignments.FindDue(ctx, now, s.cfg.Horizon)
	if err != nil {
		return report, &StoreError{Op: "find due assignments", Err: err}
	}
	report.Candidates = len(due)

	window := DayWindow(now, s.cfg.Location)
	for _, assignment := range due {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		s.processCandidate(ctx, assignment, window, &report)
	}

	s.logger.Info(ctx, "reminder tick finished", report.fields()...)
	return report, nil
}

// SendDueToday runs the dedup-and-send pass for one user's assignments due
// today in the scheduler location.
func (s *Scheduler) SendDueToday(ctx context.Context, userID uuid.UUID) (*DueTodayResult, error) {
	window := DayWindow(s.now(), s.cfg.Location)
	due, err := s.assignments.FindDueInWindow(ctx, userID, window.From, window.To)
	if err != nil {
		return nil, &StoreError{Op: "find assignments due today", Err: err}
	}

	result := &DueTodayResult{Total: len(due), Processed: make([]*model.DueAssignment, 0)}
	result.Report.Candidates = len(due)
	for _, assignment := range due {
		if s.processCandidate(ctx, assignment, window, &result.Report) {
			result.Processed = append(result.Processed, assignment)
		}
	}
	return result, nil
}

func (s *Scheduler) processCandidate(ctx context.Context, assignment *model.DueAssignment, window model.DayWindow, report *TickReport) bool {
	taskCtx, cancel := context.WithTimeout(ctx, s.cfg.TaskTimeout)
	defer cancel()

	sent, err := s.notifications.HasSentToday(taskCtx, assignment.Id, window)
	if err != nil {
		s.logger.Error(ctx, "failed to check today's notifications",
			zap.String("assignment_id", assignment.Id.String()),
			zap.Error(&StoreError{Op: "check sent today", Err: err}),
		)
		report.Failed++
		return false
	}
	if sent {
		report.Skipped++
		return false
	}

	outcome := s.deliver(taskCtx, assignment, model.NotificationTypeDailyReminder)
	report.add(outcome)
	return outcome.OK()
}

// SendReminder delivers the daily reminder for one assignment. It never
// returns an error: every failure ends up in the outcome and the log.
func (s *Scheduler) SendReminder(ctx context.Context, assignment *model.DueAssignment) Outcome {
	taskCtx, cancel := context.WithTimeout(ctx, s.cfg.TaskTimeout)
	defer cancel()
	return s.deliver(taskCtx, assignment, model.NotificationTypeDailyReminder)
}

// SendImmediateReminder sends a reminder for an assignment owned by userID
// regardless of earlier deliveries.
func (s *Scheduler) SendImmediateReminder(ctx context.Context, assignmentID, userID uuid.UUID) (Outcome, error) {
	taskCtx, cancel := context.WithTimeout(ctx, s.cfg.TaskTimeout)
	defer cancel()

	assignment, err := s.assignments.GetForOwner(taskCtx, assignmentID, userID)
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return OutcomeFailed, ErrAssignmentNotFound
		}
		return OutcomeFailed, &StoreError{Op: "get assignment", Err: err}
	}
	return s.deliver(taskCtx, assignment, model.NotificationTypeImmediateReminder), nil
}

func (s *Scheduler) deliver(ctx context.Context, assignment *model.DueAssignment, typ model.NotificationType) (outcome Outcome) {
	logger := s.logger.With(
		zap.String("assignment_id", assignment.Id.String()),
		zap.String("notification_type", typ.String()),
	)
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "reminder delivery panicked", zap.Any("panic", r))
			outcome = OutcomeFailed
		}
		metrics.RemindersTotal.WithLabelValues(typ.String(), string(outcome)).Inc()
	}()

	message, err := mailer.RenderReminder(assignment.OwnerEmail, s.reminderData(assignment))
	if err != nil {
		logger.Error(ctx, "failed to render reminder", zap.Error(err))
		return OutcomeFailed
	}

	id, err := s.newID()
	if err != nil {
		logger.Error(ctx, "failed to generate notification id", zap.Error(err))
		return OutcomeFailed
	}
	assignmentID := assignment.Id
	record, err := s.notifications.Create(ctx, &model.RepositoryCreateNotificationInput{
		Id:           id,
		UserId:       assignment.UserId,
		AssignmentId: &assignmentID,
		Type:         typ,
		Recipient:    assignment.OwnerEmail,
		Subject:      message.Subject,
		Message:      s.summary(assignment),
		Status:       model.NotificationStatusPending,
	})
	if err != nil {
		logger.Error(ctx, "failed to record notification", zap.Error(&StoreError{Op: "create notification", Err: err}))
		return OutcomeFailed
	}

	err = s.dispatcher.Send(ctx, message)
	switch {
	case errors.Is(err, mailer.ErrNotConfigured):
		if !s.finalize(ctx, logger, record.Id, model.NotificationStatusPending, notConfiguredDetail) {
			return OutcomeFailed
		}
		logger.Warn(ctx, "email not configured, reminder recorded as pending")
		return OutcomeNotConfigured
	case err != nil:
		dispatchErr := &DispatchError{Recipient: assignment.OwnerEmail, Err: err}
		logger.Error(ctx, "failed to send reminder", zap.Error(dispatchErr))
		s.finalize(ctx, logger, record.Id, model.NotificationStatusFailed, dispatchErr.Error())
		return OutcomeFailed
	}

	sentAt := s.now()
	if err := s.commitDelivery(ctx, record.Id, assignment.Id, sentAt); err != nil {
		logger.Error(ctx, "reminder sent but not recorded", zap.Error(err))
		return OutcomeFailed
	}
	logger.Info(ctx, "reminder sent", zap.String("recipient", assignment.OwnerEmail))

	s.publish(ctx, logger, record, assignment, sentAt)
	return OutcomeSent
}

func (s *Scheduler) finalize(ctx context.Context, logger *logging.Logger, id uuid.UUID, status model.NotificationStatus, detail string) bool {
	if err := s.notifications.MarkStatus(ctx, id, status, &detail); err != nil {
		logger.Error(ctx, "failed to finalize notification",
			zap.String("status", status.String()),
			zap.Error(&StoreError{Op: "mark notification", Err: err}),
		)
		return false
	}
	return true
}

func (s *Scheduler) commitDelivery(ctx context.Context, recordID, assignmentID uuid.UUID, at time.Time) error {
	tx, err := s.notifications.BeginDelivery(ctx)
	if err != nil {
		return &StoreError{Op: "begin delivery", Err: err}
	}
	defer func() {
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	if err := tx.MarkStatus(ctx, recordID, model.NotificationStatusSent, nil); err != nil {
		return &StoreError{Op: "mark notification sent", Err: err}
	}
	if err := tx.MarkNotified(ctx, assignmentID, at); err != nil {
		return &StoreError{Op: "mark assignment notified", Err: err}
	}
	if err := tx.Commit(ctx); err != nil {
		return &StoreError{Op: "commit delivery", Err: err}
	}
	return nil
}

func (s *Scheduler) publish(ctx context.Context, logger *logging.Logger, record *model.NotificationRecord, assignment *model.DueAssignment, sentAt time.Time) {
	if s.events == nil {
		return
	}
	err := s.events.SendReminderEvent(ctx, kafka.ReminderEvent{
		NotificationID: record.Id.String(),
		AssignmentID:   assignment.Id.String(),
		UserID:         assignment.UserId.String(),
		Title:          assignment.Title,
		DueDate:        assignment.DueDate.UTC(),
		ReminderType:   record.Type.String(),
		SentAt:         sentAt.UTC(),
	})
	if err != nil {
		logger.Warn(ctx, "failed to publish reminder event", zap.Error(err))
	}
}

func (s *Scheduler) reminderData(a *model.DueAssignment) mailer.ReminderData {
	var description string
	if a.Description != nil {
		description = *a.Description
	}
	firstName := a.OwnerFirstName
	if firstName == "" {
		firstName = a.OwnerName()
	}
	return mailer.ReminderData{
		AppName:     s.cfg.AppName,
		AppURL:      s.cfg.AppURL,
		FirstName:   firstName,
		Title:       a.Title,
		Description: description,
		DueDate:     a.DueDate.In(s.cfg.Location).Format("January 02, 2006 at 03:04 PM"),
		Priority:    a.Priority.String(),
		Status:      a.Status.String(),
	}
}

func (s *Scheduler) summary(a *model.DueAssignment) string {
	return fmt.Sprintf("Assignment '%s' is due at %s", a.Title, a.DueDate.In(s.cfg.Location).Format("2006-01-02 15:04:05 MST"))
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
