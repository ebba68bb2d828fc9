package data

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"deadline_tracker/internal/errdefs"
	"deadline_tracker/internal/model"
)

type AssignmentRepository struct {
	db Querier
}

func NewAssignmentRepository(db Querier) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) CreateAssignment(ctx context.Context, input *model.RepositoryCreateAssignmentInput) (*model.Assignment, error) {
	query := `
INSERT INTO assignments (id, user_id, title, description, due_date, priority, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING` + assignmentColumns

	var assignment model.Assignment
	err := pgxscan.Get(ctx, r.db, &assignment, query,
		input.Id,
		input.UserId,
		input.Title,
		input.Description,
		input.DueDate.UTC(),
		input.Priority,
		input.Status,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &assignment, nil
}

// GetForOwner returns ErrNotFound both for a missing id and for an assignment
// that belongs to someone else.
func (r *AssignmentRepository) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.DueAssignment, error) {
	query := `
SELECT
	a.id, a.user_id, a.title, a.description, a.due_date,
	a.priority, a.status,
	a.email_notification_sent, a.email_notification_sent_at,
	a.created_at, a.edited_at,
	u.email AS owner_email, u.first_name AS owner_first_name, u.last_name AS owner_last_name
FROM assignments a
JOIN users u ON u.id = a.user_id
WHERE a.id = $1 AND a.user_id = $2
`
	var assignment model.DueAssignment
	err := pgxscan.Get(ctx, r.db, &assignment, query, id, ownerID)
	if err != nil {
		return nil, handleError(err)
	}
	return &assignment, nil
}

func (r *AssignmentRepository) GetAssignment(ctx context.Context, id, ownerID uuid.UUID) (*model.Assignment, error) {
	query := `SELECT` + assignmentColumns + `
FROM assignments
WHERE id = $1 AND user_id = $2
`
	var assignment model.Assignment
	err := pgxscan.Get(ctx, r.db, &assignment, query, id, ownerID)
	if err != nil {
		return nil, handleError(err)
	}
	return &assignment, nil
}

func (r *AssignmentRepository) ListAssignments(ctx context.Context, ownerID uuid.UUID, status *model.AssignmentStatus) ([]*model.Assignment, error) {
	query, args := buildListAssignmentsQuery(ownerID, status)

	assignments := make([]*model.Assignment, 0)
	err := pgxscan.Select(ctx, r.db, &assignments, query, args...)
	if err != nil {
		return nil, handleError(err)
	}
	return assignments, nil
}

func (r *AssignmentRepository) UpdateAssignment(ctx context.Context, id, ownerID uuid.UUID, input *model.RepositoryUpdateAssignmentInput) (*model.Assignment, error) {
	query, args, err := buildAssignmentUpdateQuery(id, ownerID, input)
	if err != nil {
		return nil, err
	}

	var assignment model.Assignment
	err = pgxscan.Get(ctx, r.db, &assignment, query, args...)
	if err != nil {
		return nil, handleError(err)
	}
	return &assignment, nil
}

func (r *AssignmentRepository) DeleteAssignment(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM assignments WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return errdefs.ErrNotFound
	}
	return nil
}

// FindDue lists reminder candidates: due within [now, now+horizon], not
// completed and not yet notified, soonest first.
func (r *AssignmentRepository) FindDue(ctx context.Context, now time.Time, horizon time.Duration) ([]*model.DueAssignment, error) {
	return r.findDue(ctx, dueFilter{from: now.UTC(), to: now.Add(horizon).UTC()})
}

// FindDueInWindow is FindDue restricted to one owner and an explicit window.
func (r *AssignmentRepository) FindDueInWindow(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*model.DueAssignment, error) {
	return r.findDue(ctx, dueFilter{ownerID: ownerID, from: from.UTC(), to: to.UTC()})
}

type dueFilter struct {
	ownerID uuid.UUID
	from    time.Time
	to      time.Time
}

func (r *AssignmentRepository) findDue(ctx context.Context, f dueFilter) ([]*model.DueAssignment, error) {
	query := `
SELECT
	a.id, a.user_id, a.title, a.description, a.due_date,
	a.priority, a.status,
	a.email_notification_sent, a.email_notification_sent_at,
	a.created_at, a.edited_at,
	u.email AS owner_email, u.first_name AS owner_first_name, u.last_name AS owner_last_name
FROM assignments a
JOIN users u ON u.id = a.user_id
WHERE a.due_date >= $1
	AND a.due_date <= $2
	AND a.status <> 'completed'
	AND a.email_notification_sent = FALSE
`
	args := []any{f.from, f.to}
	if f.ownerID != uuid.Nil {
		query += "\tAND a.user_id = $3\n"
		args = append(args, f.ownerID)
	}
	query += "ORDER BY a.due_date ASC\n"

	due := make([]*model.DueAssignment, 0)
	err := pgxscan.Select(ctx, r.db, &due, query, args...)
	if err != nil {
		return nil, handleError(err)
	}
	return due, nil
}

// markNotified only ever moves the flag from false to true.
func markNotified(ctx context.Context, db Querier, id uuid.UUID, at time.Time) error {
	query := `
UPDATE assignments
SET email_notification_sent = TRUE, email_notification_sent_at = $1
WHERE id = $2
`
	tag, err := db.Exec(ctx, query, at.UTC(), id)
	if err != nil {
		return handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return errdefs.ErrNotFound
	}
	return nil
}
