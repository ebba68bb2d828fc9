package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deadline_tracker/pkg/ctxdata"
	"deadline_tracker/pkg/logging"
)

const traceHeader = "X-Trace-Id"

// NewLoggingMiddleware puts the logger and a trace id into the request
// context and logs one line per request. An incoming X-Trace-Id is kept.
func NewLoggingMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			traceID := requestTraceID(r)

			ctx := ctxdata.WithTraceID(r.Context(), traceID)
			ctx = logging.ContextWithLogger(ctx, logger)
			w.Header().Set(traceHeader, traceID)

			rec := newResponseRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("duration", time.Since(start)),
			}
			if rec.status >= http.StatusInternalServerError {
				logger.Warn(ctx, "request failed", fields...)
				return
			}
			logger.Info(ctx, "request completed", fields...)
		})
	}
}

func requestTraceID(r *http.Request) string {
	if id := r.Header.Get(traceHeader); id != "" {
		return id
	}
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
