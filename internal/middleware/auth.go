package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deadline_tracker/internal/errdefs"
	"deadline_tracker/pkg/ctxdata"
	"deadline_tracker/pkg/logging"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

func NewAuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Info(ctx, "no bearer token", zap.String("path", r.URL.Path))
				}
				writeUnauthorized(w)
				return
			}

			userID, err := auth.Authenticate(ctx, token)
			if err != nil {
				if errors.Is(err, errdefs.ErrAuthentication) {
					if logger, ok := logging.GetFromContext(ctx); ok {
						logger.Info(ctx, "invalid session", zap.String("path", r.URL.Path))
					}
					writeUnauthorized(w)
					return
				}
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Error(ctx, "failed to resolve session",
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Error(err),
					)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
				return
			}

			ctx = ctxdata.WithUserID(ctx, userID)
			ctx = ctxdata.WithSessionToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Authentication required"}`))
}
