package handlers

import (
	"context"
	"net/http"
	"time"

	applog "coffeeshop/internal/log"
)

type healthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Time     time.Time `json:"time"`
}

// Health returns a readiness handler suitable for infrastructure probes. A
// nil ping skips the database check.
func Health(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applog.Debug(r.Context(), "health check requested", "method", r.Method)
		resp := healthResponse{
			Status:   "ok",
			Database: "ok",
			Time:     time.Now().UTC(),
		}
		status := http.StatusOK

		if ping == nil {
			resp.Database = "unchecked"
		} else if err := ping(r.Context()); err != nil {
			applog.Error(r.Context(), "health check database ping failed", "error", err)
			resp.Status = "degraded"
			resp.Database = "unavailable"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, r, status, resp)
	}
}
