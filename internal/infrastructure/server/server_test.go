package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	cfg := config.Default()
	cfg.Storage.Backend = backend
	cfg.Storage.DataDir = t.TempDir()
	cfg.Logging.Level = "error"
	cfg.RateLimit.Enabled = false
	return cfg
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServerRestoresDefaultSession(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			s, err := NewServer(testConfig(t, backend), "test")
			require.NoError(t, err)
			require.NoError(t, s.Restore(context.Background()))

			w := get(t, s, "/health")
			require.Equal(t, http.StatusOK, w.Code)
			var health map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
			assert.EqualValues(t, 3, health["panes"])
			assert.Contains(t, health, "active_session")

			w = get(t, s, "/sessions")
			require.Equal(t, http.StatusOK, w.Code)
			var list types.SessionList
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
			assert.Len(t, list.Items, 1)

			assert.NoError(t, s.Close())
		})
	}
}

func TestServerPersistsAcrossRestarts(t *testing.T) {
	cfg := testConfig(t, "file")

	first, err := NewServer(cfg, "test")
	require.NoError(t, err)
	require.NoError(t, first.Restore(context.Background()))
	active, ok := first.Sessions().ActiveID()
	require.True(t, ok)
	require.NoError(t, first.Close())

	second, err := NewServer(cfg, "test")
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Restore(context.Background()))

	again, ok := second.Sessions().ActiveID()
	require.True(t, ok)
	assert.Equal(t, active, again)
	assert.Len(t, second.Sessions().State().Items, 1)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t, "file")
	cfg.Server.Port = "0"

	s, err := NewServer(cfg, "test")
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Run(ctx))
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "chatty"
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}
