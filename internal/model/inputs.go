package model

import "time"

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type LoginInput struct {
	Email    string
	Password string
}

type CreateAssignmentInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    *Priority
	Status      *AssignmentStatus
}

// UpdateAssignmentInput carries only the fields present in the request.
type UpdateAssignmentInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *Priority
	Status      *AssignmentStatus
}

func (in UpdateAssignmentInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.DueDate == nil && in.Priority == nil && in.Status == nil
}
