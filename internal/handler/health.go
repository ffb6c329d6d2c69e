package handler

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	version   string
	network   string
	startTime time.Time
}

func NewHealthHandler(version, networkPassphrase string) *HealthHandler {
	return &HealthHandler{
		version:   version,
		network:   networkPassphrase,
		startTime: time.Now(),
	}
}

type HealthResponse struct {
	Status            string `json:"status"`
	Version           string `json:"version"`
	NetworkPassphrase string `json:"network_passphrase"`
	UptimeSeconds     int64  `json:"uptime_seconds"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, HealthResponse{
		Status:            "healthy",
		Version:           h.version,
		NetworkPassphrase: h.network,
		UptimeSeconds:     int64(time.Since(h.startTime).Seconds()),
	})
}
