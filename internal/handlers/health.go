package handlers

import (
	"context"
	"net/http"
	"time"
)

const version = "0.1.0"

// Check represents the status of a health check.
type Check struct {
	Status  string `json:"status"`            // "pass" or "fail"
	Latency string `json:"latency,omitempty"` // e.g., "2ms"
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string           `json:"status"` // "healthy" or "degraded"
	Version     string           `json:"version"`
	Accounts    int64            `json:"accounts"`
	Messages    int64            `json:"messages"`
	Subscribers int              `json:"subscribers"`
	Checks      map[string]Check `json:"checks"`
	Timestamp   string           `json:"timestamp"`
}

// Health handles the health check endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]Check)
	allHealthy := true

	dbStart := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		checks["database"] = Check{Status: "fail", Message: "connection failed"}
		allHealthy = false
	} else {
		checks["database"] = Check{Status: "pass", Latency: time.Since(dbStart).String()}
	}

	// Redis is optional; only checked when configured
	if h.redis != nil {
		redisStart := time.Now()
		if err := h.redis.Ping(ctx); err != nil {
			checks["redis"] = Check{Status: "fail", Message: "connection failed"}
			allHealthy = false
		} else {
			checks["redis"] = Check{Status: "pass", Latency: time.Since(redisStart).String()}
		}
	}

	accounts, _ := h.store.CountAccounts(ctx)
	messages, _ := h.store.CountMessages(ctx)

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	h.JSON(w, statusCode, HealthResponse{
		Status:      status,
		Version:     version,
		Accounts:    accounts,
		Messages:    messages,
		Subscribers: h.hub.Subscribers(),
		Checks:      checks,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}
