package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"deadline_tracker/internal/errdefs"
	"deadline_tracker/internal/model"
)

type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, input *model.RepositoryCreateAssignmentInput) (*model.Assignment, error)
	GetAssignment(ctx context.Context, id, ownerID uuid.UUID) (*model.Assignment, error)
	ListAssignments(ctx context.Context, ownerID uuid.UUID, status *model.AssignmentStatus) ([]*model.Assignment, error)
	UpdateAssignment(ctx context.Context, id, ownerID uuid.UUID, input *model.RepositoryUpdateAssignmentInput) (*model.Assignment, error)
	DeleteAssignment(ctx context.Context, id, ownerID uuid.UUID) error
}

type AssignmentService struct {
	repo AssignmentRepository
}

func NewAssignmentService(repo AssignmentRepository) *AssignmentService {
	return &AssignmentService{repo: repo}
}

func (s *AssignmentService) Create(ctx context.Context, ownerID uuid.UUID, input *model.CreateAssignmentInput) (*model.Assignment, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", errdefs.ErrValidation)
	}
	if input.DueDate == nil || input.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", errdefs.ErrValidation)
	}

	priority := model.PriorityMedium
	if input.Priority != nil {
		priority = *input.Priority
	}
	status := model.AssignmentStatusPending
	if input.Status != nil {
		status = *input.Status
	}
	if err := validateEnums(&priority, &status); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	return s.repo.CreateAssignment(ctx, &model.RepositoryCreateAssignmentInput{
		Id:          id,
		UserId:      ownerID,
		Title:       title,
		Description: input.Description,
		DueDate:     input.DueDate.UTC(),
		Priority:    priority,
		Status:      status,
	})
}

func (s *AssignmentService) Get(ctx context.Context, id, ownerID uuid.UUID) (*model.Assignment, error) {
	return s.repo.GetAssignment(ctx, id, ownerID)
}

func (s *AssignmentService) List(ctx context.Context, ownerID uuid.UUID, status *model.AssignmentStatus) ([]*model.Assignment, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", errdefs.ErrValidation, *status)
	}
	return s.repo.ListAssignments(ctx, ownerID, status)
}

// Update applies the fields present in input. A replacing update also
// requires the title and the due date; omitted optional fields fall back to
// what Create would store (no description, medium priority, pending).
func (s *AssignmentService) Update(ctx context.Context, id, ownerID uuid.UUID, input *model.UpdateAssignmentInput, replace bool) (*model.Assignment, error) {
	if input.IsEmpty() {
		return nil, errdefs.ErrNoFieldsToUpdate
	}
	if replace && (input.Title == nil || input.DueDate == nil) {
		return nil, fmt.Errorf("%w: title and due date are required", errdefs.ErrValidation)
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", errdefs.ErrValidation)
		}
		input.Title = &title
	}
	if input.DueDate != nil && input.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date must not be empty", errdefs.ErrValidation)
	}
	if err := validateEnums(input.Priority, input.Status); err != nil {
		return nil, err
	}

	update := &model.RepositoryUpdateAssignmentInput{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Status:      input.Status,
	}
	if replace {
		update.ClearDescription = input.Description == nil
		if update.Priority == nil {
			update.Priority = ptrTo(model.PriorityMedium)
		}
		if update.Status == nil {
			update.Status = ptrTo(model.AssignmentStatusPending)
		}
	}
	return s.repo.UpdateAssignment(ctx, id, ownerID, update)
}

func (s *AssignmentService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.repo.DeleteAssignment(ctx, id, ownerID)
}

func ptrTo[T any](v T) *T {
	return &v
}

func validateEnums(priority *model.Priority, status *model.AssignmentStatus) error {
	if priority != nil && !priority.IsValid() {
		return fmt.Errorf("%w: invalid priority %q", errdefs.ErrValidation, *priority)
	}
	if status != nil && !status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", errdefs.ErrValidation, *status)
	}
	return nil
}
