package handler

import (
	"context"
	"net/http"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler reports liveness. A failed database ping turns the status
// into 503.
func HealthHandler(db Pinger, emailConfigured bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok", Database: "up", Email: "configured", Timestamp: time.Now().UTC()}
		if !emailConfigured {
			resp.Email = "not_configured"
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		code := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "down"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	}
}
