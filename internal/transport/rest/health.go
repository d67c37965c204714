package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const checkTimeout = 3 * time.Second

// datasetChecker is what the health endpoints need from the dataset.
type datasetChecker interface {
	Ping(ctx context.Context) error
	ListDictionaries(ctx context.Context) ([]string, error)
}

// HealthHandler serves /live, /ready and /health.
type HealthHandler struct {
	data    datasetChecker
	backend string
	version string
}

// NewHealthHandler creates a HealthHandler. backend names the store
// component in /health.
func NewHealthHandler(data datasetChecker, backend, version string) *HealthHandler {
	return &HealthHandler{data: data, backend: backend, version: version}
}

// HealthResponse is the body of every health endpoint.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the state of one component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Count   int    `json:"count,omitempty"`
}

// Live always answers 200.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready answers 200 once the store is reachable and holds at least one
// dictionary, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.data.Ping(ctx); err != nil {
		status, code = "down", http.StatusServiceUnavailable
	} else if dicts, err := h.data.ListDictionaries(ctx); err != nil || len(dicts) == 0 {
		status, code = "empty", http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{Status: status, Timestamp: time.Now()})
}

// Health reports the store with its ping latency and the number of stored
// dictionaries.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:     "ok",
		Version:    h.version,
		Components: make(map[string]CompStatus, 2),
	}

	start := time.Now()
	if err := h.data.Ping(ctx); err != nil {
		resp.Status = "down"
		resp.Components[h.backend] = CompStatus{Status: "down"}
	} else {
		resp.Components[h.backend] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
	}

	switch dicts, err := h.data.ListDictionaries(ctx); {
	case err != nil:
		resp.Status = "down"
		resp.Components["dictionaries"] = CompStatus{Status: "down"}
	case len(dicts) == 0:
		if resp.Status == "ok" {
			resp.Status = "degraded"
		}
		resp.Components["dictionaries"] = CompStatus{Status: "empty"}
	default:
		resp.Components["dictionaries"] = CompStatus{Status: "ok", Count: len(dicts)}
	}

	code := http.StatusOK
	if resp.Status == "down" {
		code = http.StatusServiceUnavailable
	}
	resp.Timestamp = time.Now()
	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
