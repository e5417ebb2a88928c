// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/shadpress-go/internal/version"
)

// readinessTimeout bounds the content API ping of a readiness check.
const readinessTimeout = 5 * time.Second

// Pinger checks that the content API is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pinger    Pinger
	version   version.Info
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pinger Pinger, info version.Info, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		pinger:    pinger,
		version:   info,
		startTime: time.Now(),
		logger:    logger,
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health: status, uptime, version and the content API check.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	check := h.checkContentAPI(r.Context())

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.Version,
		Checks:    map[string]Check{"content_api": check},
	}
	code := http.StatusOK
	if check.Status != "healthy" {
		status.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - ready when the content API answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if check := h.checkContentAPI(r.Context()); check.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// checkContentAPI pings the content API. Error details go to the log only.
func (h *HealthHandler) checkContentAPI(ctx context.Context) Check {
	if h.pinger == nil {
		return Check{Status: "unhealthy", Message: "not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	start := time.Now()
	err := h.pinger.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		h.logger.WarnContext(ctx, "content API health check failed", "error", err)
		return Check{
			Status:  "unhealthy",
			Message: "content API unreachable",
			Latency: latency.Round(time.Millisecond).String(),
		}
	}

	return Check{
		Status:  "healthy",
		Latency: latency.Round(time.Millisecond).String(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
