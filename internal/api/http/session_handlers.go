package http

import (
	"net/http"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/session"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// sessionID reads and validates the :id path parameter
func sessionID(c *gin.Context) (id.SessionID, bool) {
	raw := c.Param("id")
	if err := utils.ValidateID(raw, "session_id", true); err != nil {
		badRequest(c, err)
		return "", false
	}
	return id.SessionID(raw), true
}

// ListSessions lists sessions, pinned first
func (h *Handlers) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessions.ListSessions())
}

// GetSession returns one session with its saved layout
func (h *Handlers) GetSession(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	layout, err := h.sessions.Layout(sid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session": h.sessions.State().Items[sid],
		"layout":  layout,
	})
}

// CreateSession creates and activates a session
func (h *Handlers) CreateSession(c *gin.Context) {
	var req types.CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	if err := utils.ValidateTitle(req.Title); err != nil {
		badRequest(c, err)
		return
	}

	timer := monitoring.NewTimer(h.metrics, "session", "create")
	meta, err := h.sessions.CreateNewSession(c.Request.Context(), req.Title, req.UseDefaultLayout)
	timer.StopErr(err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, meta)
}

// OpenSession activates a session and restores its panes
func (h *Handlers) OpenSession(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	timer := monitoring.NewTimer(h.metrics, "session", "open")
	err := h.sessions.OpenSession(c.Request.Context(), sid)
	timer.StopErr(err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": sid})
}

// UpdateSession renames and/or pins a session
func (h *Handlers) UpdateSession(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req types.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Title != nil {
		if err := utils.ValidateTitle(*req.Title); err != nil {
			badRequest(c, err)
			return
		}
		if err := h.sessions.RenameSession(sid, *req.Title); err != nil {
			fail(c, err)
			return
		}
	}
	if req.Pinned != nil {
		if err := h.sessions.SetPinned(sid, *req.Pinned); err != nil {
			fail(c, err)
			return
		}
	}

	state := h.sessions.State()
	meta, exists := state.Items[sid]
	if !exists {
		fail(c, session.ErrSessionNotFound)
		return
	}
	c.JSON(http.StatusOK, meta)
}

// DeleteSession removes a session. Unknown ids succeed.
func (h *Handlers) DeleteSession(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.sessions.DeleteSession(sid); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": sid})
}

// SaveSession overwrites a session's layout with the live panes
func (h *Handlers) SaveSession(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.sessions.SaveSessionLayout(sid); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": sid})
}

// ResetSession rewrites a session to the default providers
func (h *Handlers) ResetSession(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.sessions.ResetSessionTabs(c.Request.Context(), sid); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": sid})
}

// FreshContext leaves the active session
func (h *Handlers) FreshContext(c *gin.Context) {
	var req types.FreshContextRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	if err := h.sessions.StartFreshContext(c.Request.Context(), req.Mode); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "panes": h.panes.List()})
}
