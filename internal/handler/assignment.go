package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"deadline_tracker/internal/model"
	"deadline_tracker/internal/timeconv"
)

type AssignmentService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input *model.CreateAssignmentInput) (*model.Assignment, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (*model.Assignment, error)
	List(ctx context.Context, ownerID uuid.UUID, status *model.AssignmentStatus) ([]*model.Assignment, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, input *model.UpdateAssignmentInput, replace bool) (*model.Assignment, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type AssignmentHandler struct {
	assignments AssignmentService
	// naive due dates without an offset are read in this zone
	loc *time.Location
}

func NewAssignmentHandler(assignments AssignmentService, loc *time.Location) *AssignmentHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AssignmentHandler{assignments: assignments, loc: loc}
}

func (h *AssignmentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Route("/assignments", func(r chi.Router) {
		r.Get("/", Handle(h.list, false, http.StatusOK))
		r.Post("/", Handle(h.create, true, http.StatusCreated))
		r.Get("/{id}", Handle(h.get, false, http.StatusOK))
		r.Put("/{id}", Handle(h.replace, true, http.StatusOK))
		r.Patch("/{id}", Handle(h.patch, true, http.StatusOK))
		r.Delete("/{id}", Handle(h.delete, false, http.StatusOK))
	})
}

type AssignmentListResponse struct {
	Assignments []*AssignmentResponse `json:"assignments"`
	Total       int                   `json:"total"`
}

type AssignmentEnvelope struct {
	Message    string              `json:"message,omitempty"`
	Assignment *AssignmentResponse `json:"assignment"`
}

func (h *AssignmentHandler) list(ctx context.Context, r *http.Request, _ *struct{}) (*AssignmentListResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	var status *model.AssignmentStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := model.AssignmentStatus(raw)
		if !s.IsValid() {
			return nil, fmt.Errorf("%w: invalid status filter: %s", ErrBadRequest, raw)
		}
		status = &s
	}

	assignments, err := h.assignments.List(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	zone := r.URL.Query().Get("tz")
	resp := &AssignmentListResponse{Assignments: make([]*AssignmentResponse, 0, len(assignments))}
	for _, a := range assignments {
		resp.Assignments = append(resp.Assignments, toAssignmentResponse(a, zone))
	}
	resp.Total = len(resp.Assignments)
	return resp, nil
}

func (h *AssignmentHandler) create(ctx context.Context, r *http.Request, req *AssignmentRequest) (*AssignmentEnvelope, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	dueDate, err := h.parseDueDate(r, req.DueDate)
	if err != nil {
		return nil, err
	}

	input := &model.CreateAssignmentInput{
		Description: req.Description,
		DueDate:     dueDate,
		Priority:    (*model.Priority)(req.Priority),
		Status:      (*model.AssignmentStatus)(req.Status),
	}
	if req.Title != nil {
		input.Title = *req.Title
	}

	assignment, err := h.assignments.Create(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	return &AssignmentEnvelope{
		Message:    "Assignment created successfully",
		Assignment: toAssignmentResponse(assignment, r.URL.Query().Get("tz")),
	}, nil
}

func (h *AssignmentHandler) get(ctx context.Context, r *http.Request, _ *struct{}) (*AssignmentEnvelope, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		return nil, err
	}

	assignment, err := h.assignments.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return &AssignmentEnvelope{Assignment: toAssignmentResponse(assignment, r.URL.Query().Get("tz"))}, nil
}

func (h *AssignmentHandler) replace(ctx context.Context, r *http.Request, req *AssignmentRequest) (*AssignmentEnvelope, error) {
	return h.update(ctx, r, req, true)
}

func (h *AssignmentHandler) patch(ctx context.Context, r *http.Request, req *AssignmentRequest) (*AssignmentEnvelope, error) {
	return h.update(ctx, r, req, false)
}

func (h *AssignmentHandler) update(ctx context.Context, r *http.Request, req *AssignmentRequest, replace bool) (*AssignmentEnvelope, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		return nil, err
	}
	dueDate, err := h.parseDueDate(r, req.DueDate)
	if err != nil {
		return nil, err
	}

	assignment, err := h.assignments.Update(ctx, id, userID, &model.UpdateAssignmentInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Priority:    (*model.Priority)(req.Priority),
		Status:      (*model.AssignmentStatus)(req.Status),
	}, replace)
	if err != nil {
		return nil, err
	}
	return &AssignmentEnvelope{
		Message:    "Assignment updated successfully",
		Assignment: toAssignmentResponse(assignment, r.URL.Query().Get("tz")),
	}, nil
}

func (h *AssignmentHandler) delete(ctx context.Context, r *http.Request, _ *struct{}) (*MessageResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		return nil, err
	}
	if err := h.assignments.Delete(ctx, id, userID); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "Assignment deleted successfully"}, nil
}

// parseDueDate reads values without an offset in the tz query zone, falling
// back to the handler zone.
func (h *AssignmentHandler) parseDueDate(r *http.Request, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	loc := h.loc
	if zone := r.URL.Query().Get("tz"); zone != "" {
		l, err := time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown time zone: %s", ErrBadRequest, zone)
		}
		loc = l
	}
	t, err := timeconv.Parse(*raw, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid due_date: %s", ErrBadRequest, *raw)
	}
	t = t.UTC()
	return &t, nil
}
