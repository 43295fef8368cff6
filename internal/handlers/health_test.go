package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy(context.Context) error { return nil }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		components     map[string]Pinger
		expectedStatus int
		expectedHealth string
		expectedRedis  string
	}{
		{
			name:           "no components",
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
		},
		{
			name:           "healthy redis",
			components:     map[string]Pinger{"redis": pingFunc(healthy)},
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
			expectedRedis:  "healthy",
		},
		{
			name: "unhealthy redis",
			components: map[string]Pinger{"redis": pingFunc(func(context.Context) error {
				return errors.New("connection refused")
			})},
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "degraded",
			expectedRedis:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gameID := uuid.New()
			handler := NewHealthHandler(gameID, tt.components, nil)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var response HealthResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.expectedHealth, response.Status)
			assert.Equal(t, "escape-room", response.Service)
			assert.Equal(t, gameID.String(), response.GameID)
			assert.False(t, response.Timestamp.IsZero())
			assert.Equal(t, tt.expectedRedis, response.Components["redis"])
		})
	}
}

func TestNewRouter(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("escape_games_started_total 1\n"))
	})
	srv := httptest.NewServer(NewRouter(NewHealthHandler(uuid.New(), nil, nil), metrics))
	defer srv.Close()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed},
		{http.MethodGet, "/games", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
