package api

import (
	"net/http"
	"time"
)

// HealthHandler answers liveness checks.
type HealthHandler struct {
	info    Info
	started time.Time
}

// Info identifies the running process in health answers.
type Info struct {
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
	Session string `json:"session,omitempty"`
}

// NewHealthHandler creates a health handler reporting info.
func NewHealthHandler(info Info) *HealthHandler {
	if info.Service == "" {
		info.Service = "sftpwire"
	}
	return &HealthHandler{info: info, started: time.Now()}
}

// Liveness handles GET /health. It succeeds while the server responds.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthyResponse(map[string]any{
		"service": h.info.Service,
		"version": h.info.Version,
		"session": h.info.Session,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}))
}
