// Package status serves a JSON health snapshot of the load service.
package status

import (
	"encoding/json"
	"net/http"

	"cpuload/internal/buildinfo"
	"cpuload/pkg/service"
)

// Provider exposes the status surface required by the health handler.
type Provider interface {
	Stats() service.Stats
	Mode() service.Mode
}

// Snapshot captures the service status returned by the handler.
type Snapshot struct {
	Version         string         `json:"version"`
	Mode            string         `json:"mode"`
	Active          int            `json:"active"`
	ByState         map[string]int `json:"byState"`
	WorkersBurning  int            `json:"workersBurning"`
	Completed       uint64         `json:"completed"`
	Disconnected    uint64         `json:"disconnected"`
	Failed          uint64         `json:"failed"`
	LastLaunchError string         `json:"lastLaunchError,omitempty"`
}

// Handler renders service health information as JSON.
type Handler struct {
	provider Provider
	info     func() buildinfo.Info
}

// NewHandler constructs a Handler that proxies service status.
func NewHandler(provider Provider) *Handler {
	return &Handler{provider: provider, info: buildinfo.Current}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(writer http.ResponseWriter, _ *http.Request) {
	if h == nil || h.provider == nil {
		http.Error(writer, "service unavailable", http.StatusServiceUnavailable)

		return
	}

	stats := h.provider.Stats()

	snapshot := Snapshot{
		Version:         h.info().Version,
		Mode:            string(h.provider.Mode()),
		Active:          stats.Active,
		ByState:         stats.ByState,
		WorkersBurning:  stats.WorkersBurning,
		Completed:       stats.Completed,
		Disconnected:    stats.Disconnected,
		Failed:          stats.Failed,
		LastLaunchError: stats.LastLaunchError,
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		http.Error(writer, "marshal status", http.StatusInternalServerError)

		return
	}

	writer.Header().Set("Content-Type", "application/json")
	_, _ = writer.Write(payload)
}
