package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type datasetCheckerMock struct {
	pingErr error
	dicts   []string
	listErr error
}

func (m *datasetCheckerMock) Ping(context.Context) error { return m.pingErr }

func (m *datasetCheckerMock) ListDictionaries(context.Context) ([]string, error) {
	return m.dicts, m.listErr
}

func check(t *testing.T, h http.HandlerFunc, path string) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Timestamp.IsZero())
	return rec.Code, resp
}

func TestLive_Always200(t *testing.T) {
	h := NewHealthHandler(&datasetCheckerMock{pingErr: errors.New("down")}, "fs", "dev")

	code, resp := check(t, h.Live, "/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		data       *datasetCheckerMock
		wantCode   int
		wantStatus string
	}{
		{"dictionaries stored", &datasetCheckerMock{dicts: []string{"en-orc"}}, http.StatusOK, "ok"},
		{"store down", &datasetCheckerMock{pingErr: errors.New("connection refused")}, http.StatusServiceUnavailable, "down"},
		{"nothing built", &datasetCheckerMock{}, http.StatusServiceUnavailable, "empty"},
		{"list fails", &datasetCheckerMock{listErr: errors.New("corrupt")}, http.StatusServiceUnavailable, "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.data, "sqlite", "dev")

			code, resp := check(t, h.Ready, "/ready")
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
		})
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		data       *datasetCheckerMock
		wantCode   int
		wantStatus string
		wantStore  string
		wantDicts  CompStatus
	}{
		{
			name:       "healthy",
			data:       &datasetCheckerMock{dicts: []string{"en-orc", "orc-en"}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantStore:  "ok",
			wantDicts:  CompStatus{Status: "ok", Count: 2},
		},
		{
			name:       "no dictionaries yet",
			data:       &datasetCheckerMock{},
			wantCode:   http.StatusOK,
			wantStatus: "degraded",
			wantStore:  "ok",
			wantDicts:  CompStatus{Status: "empty"},
		},
		{
			name:       "store unreachable",
			data:       &datasetCheckerMock{pingErr: errors.New("connection refused"), listErr: errors.New("connection refused")},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "down",
			wantStore:  "down",
			wantDicts:  CompStatus{Status: "down"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.data, "postgres", "v1.2.0")

			code, resp := check(t, h.Health, "/health")
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "v1.2.0", resp.Version)

			require.Contains(t, resp.Components, "postgres")
			assert.Equal(t, tt.wantStore, resp.Components["postgres"].Status)
			if tt.wantStore == "ok" {
				assert.NotEmpty(t, resp.Components["postgres"].Latency)
			}
			assert.Equal(t, tt.wantDicts, resp.Components["dictionaries"])
		})
	}
}
