package main

import (
	"bytes"
	"testing"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/session"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/storage"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/paths"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) config.StorageConfig {
	t.Helper()
	cfg := config.StorageConfig{Backend: storage.KindFile, DataDir: t.TempDir()}

	backend, err := storage.Open(cfg)
	require.NoError(t, err)
	defer backend.Close()
	doc, err := backend.Document(paths.SessionsDocument)
	require.NoError(t, err)

	s := types.NewSessionState()
	s.Items["a"] = types.SessionMeta{ID: "a", Title: "Alpha", UpdatedAt: 2}
	s.Items["b"] = types.SessionMeta{ID: "b", Title: "Beta", UpdatedAt: 1, Pinned: true}
	s.Layouts["a"] = types.SessionLayout{Tabs: []types.TabState{{Provider: types.ProviderClaude, URL: "https://claude.ai/chat/a", Zoom: 1}}}
	s.Layouts["b"] = types.SessionLayout{Tabs: []types.TabState{}}
	s.Order = []id.SessionID{"a", "b"}
	s.Pinned = []id.SessionID{"b"}
	s.SetActive("a")
	require.NoError(t, session.NewStore(doc).Save(s))
	return cfg
}

func TestOfflineRenameKeepsLayout(t *testing.T) {
	cfg := seedStore(t)

	require.NoError(t, runOffline(cfg, func(c *session.Controller) error {
		return c.RenameSession("a", "Renamed")
	}))

	require.NoError(t, runOffline(cfg, func(c *session.Controller) error {
		state := c.State()
		assert.Equal(t, "Renamed", state.Items["a"].Title)
		assert.Len(t, state.Layouts["a"].Tabs, 1, "offline edits leave layouts alone")
		return nil
	}))
}

func TestOfflineDelete(t *testing.T) {
	cfg := seedStore(t)

	require.NoError(t, runOffline(cfg, func(c *session.Controller) error {
		return c.DeleteSession("a")
	}))

	require.NoError(t, runOffline(cfg, func(c *session.Controller) error {
		_, ok := c.ActiveID()
		assert.False(t, ok)
		assert.NotContains(t, c.State().Items, id.SessionID("a"))
		return nil
	}))
}

func TestPrintSessions(t *testing.T) {
	cfg := seedStore(t)

	var buf bytes.Buffer
	require.NoError(t, runOffline(cfg, func(c *session.Controller) error {
		return printSessions(&buf, c.ListSessions())
	}))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Beta")), bytes.Index(buf.Bytes(), []byte("Alpha")), "pinned first")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "pinned")
}

func TestPrintSessionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSessions(&buf, types.SessionList{}))
	assert.Equal(t, "No sessions\n", buf.String())
}

func TestParseSessionID(t *testing.T) {
	_, err := parseSessionID("../etc")
	assert.Error(t, err)

	sid, err := parseSessionID("sess_01J9ZQ4M3V6X2Y8T7R5N0K1P2A")
	require.NoError(t, err)
	assert.Equal(t, id.SessionID("sess_01J9ZQ4M3V6X2Y8T7R5N0K1P2A"), sid)
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "polychat dev\n", versionString())
}
