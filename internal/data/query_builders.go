package data

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"deadline_tracker/internal/errdefs"
	"deadline_tracker/internal/model"
)

const assignmentColumns = `
	id, user_id, title, description, due_date,
	priority, status,
	email_notification_sent, email_notification_sent_at,
	created_at, edited_at`

// Moving the due date makes the assignment eligible for a reminder again.
// SET expressions see the old row, so the CASE compares against the stored date.
func buildAssignmentUpdateQuery(id, ownerID uuid.UUID, input *model.RepositoryUpdateAssignmentInput) (string, []any, error) {
	var set []string
	var args []any
	argIdx := 1

	if input.Title != nil {
		set = append(set, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *input.Title)
		argIdx++
	}
	if input.Description != nil {
		set = append(set, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *input.Description)
		argIdx++
	} else if input.ClearDescription {
		set = append(set, "description = NULL")
	}
	if input.DueDate != nil {
		set = append(set, fmt.Sprintf("due_date = $%d", argIdx))
		args = append(args, input.DueDate.UTC())
		set = append(set,
			fmt.Sprintf("email_notification_sent = CASE WHEN due_date IS DISTINCT FROM $%d THEN FALSE ELSE email_notification_sent END", argIdx),
			fmt.Sprintf("email_notification_sent_at = CASE WHEN due_date IS DISTINCT FROM $%d THEN NULL ELSE email_notification_sent_at END", argIdx),
		)
		argIdx++
	}
	if input.Priority != nil {
		set = append(set, fmt.Sprintf("priority = $%d", argIdx))
		args = append(args, *input.Priority)
		argIdx++
	}
	if input.Status != nil {
		set = append(set, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *input.Status)
		argIdx++
	}

	if len(set) == 0 {
		return "", nil, errdefs.ErrNoFieldsToUpdate
	}
	set = append(set, "edited_at = now()")

	query := fmt.Sprintf(`
UPDATE assignments
SET %s
WHERE id = $%d AND user_id = $%d
RETURNING %s
`, strings.Join(set, ", "), argIdx, argIdx+1, assignmentColumns)
	args = append(args, id, ownerID)

	return query, args, nil
}

// buildListAssignmentsQuery filters by owner and, optionally, by status.
func buildListAssignmentsQuery(ownerID uuid.UUID, status *model.AssignmentStatus) (string, []any) {
	where := []string{"user_id = $1"}
	args := []any{ownerID}

	if status != nil {
		where = append(where, "status = $2")
		args = append(args, *status)
	}

	query := "SELECT" + assignmentColumns + `
FROM assignments
WHERE ` + strings.Join(where, " AND ") + `
ORDER BY due_date ASC
`
	return query, args
}
