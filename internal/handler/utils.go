package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"deadline_tracker/internal/errdefs"
	"deadline_tracker/internal/reminder"
	"deadline_tracker/pkg/ctxdata"
	"deadline_tracker/pkg/logging"
)

var ErrBadRequest = errors.New("bad request")

// statusError carries a fixed status code and client message.
type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string {
	return e.msg
}

// Method is an endpoint body: req is already decoded when the route parses JSON.
type Method[Req any, Resp any] func(ctx context.Context, r *http.Request, req *Req) (*Resp, error)

func mapErr(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.code
	}
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, errdefs.ErrValidation),
		errors.Is(err, errdefs.ErrNoFieldsToUpdate):
		return http.StatusBadRequest
	case errors.Is(err, errdefs.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, errdefs.ErrNotFound),
		errors.Is(err, reminder.ErrAssignmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, errdefs.ErrAlreadyExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func Handle[Req any, Resp any](method Method[Req, Resp], parseBody bool, successStatus int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req := new(Req)

		if parseBody {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					writeErrorJSON(w, http.StatusRequestEntityTooLarge,
						fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
					return
				}
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Error(ctx, "Failed to read request body", zap.Error(err))
				}
				writeErrorJSON(w, http.StatusInternalServerError, "failed to read request body")
				return
			}
			if err := json.Unmarshal(body, req); err != nil {
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Info(ctx, "Failed to parse request body", zap.Error(err))
				}
				writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		resp, err := method(ctx, r, req)
		if err != nil {
			statusCode := mapErr(err)
			if logger, ok := logging.GetFromContext(ctx); ok {
				if statusCode == http.StatusInternalServerError {
					logger.Error(ctx, "request failed", zap.String("path", r.URL.Path), zap.Error(err))
				} else {
					logger.Debug(ctx, "request rejected", zap.String("path", r.URL.Path), zap.Error(err))
				}
			}
			writeErrorJSON(w, statusCode, errorMessage(err, statusCode))
			return
		}

		if resp == nil {
			w.WriteHeader(successStatus)
			return
		}
		writeJSON(w, successStatus, resp)
	}
}

// Client errors carry their own text; server errors never leak details.
func errorMessage(err error, statusCode int) string {
	var se *statusError
	if errors.As(err, &se) {
		return se.msg
	}
	if statusCode >= http.StatusInternalServerError {
		return http.StatusText(statusCode)
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeErrorJSON(w, http.StatusInternalServerError, "failed to serialize response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data)
}

func writeErrorJSON(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp, _ := json.Marshal(map[string]string{"error": message})
	w.Write(resp)
}

func parsePathParam(r *http.Request, key string) (string, error) {
	val := chi.URLParam(r, key)
	if val == "" {
		return "", fmt.Errorf("%w: missing path param: %s", ErrBadRequest, key)
	}
	return val, nil
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val, err := parsePathParam(r, key)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", ErrBadRequest, key)
	}
	return id, nil
}

func currentUser(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctxdata.GetUserID(ctx)
	if !ok {
		return uuid.Nil, errdefs.ErrAuthentication
	}
	return userID, nil
}
