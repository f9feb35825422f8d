package http

import (
	"context"
	"net/http"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/provider"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/session"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// ListPanes returns the live panes and the geometry they were laid out for
func (h *Handlers) ListPanes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"panes":    h.panes.List(),
		"layout":   h.panes.Layout(),
		"geometry": h.panes.Geometry(),
		"window":   h.window.State(),
	})
}

// ListProviders returns the provider registry
func (h *Handlers) ListProviders(c *gin.Context) {
	list := h.providers.Providers()
	infos := make([]provider.Info, len(list))
	for i, p := range list {
		infos[i] = p.Info()
	}
	c.JSON(http.StatusOK, gin.H{"providers": infos})
}

func providerParam(c *gin.Context) (types.ProviderID, bool) {
	raw := c.Param("provider")
	if err := utils.ValidateProvider(raw); err != nil {
		badRequest(c, err)
		return "", false
	}
	return types.ProviderID(raw), true
}

// OpenProvider opens a pane for a provider unless one is open
func (h *Handlers) OpenProvider(c *gin.Context) {
	p, ok := providerParam(c)
	if !ok {
		return
	}

	info, err := h.sessions.OpenProvider(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// CloseProvider closes every pane of a provider
func (h *Handlers) CloseProvider(c *gin.Context) {
	p, ok := providerParam(c)
	if !ok {
		return
	}

	closed := h.sessions.CloseProvider(p)
	c.JSON(http.StatusOK, gin.H{"closed": closed, "provider": p})
}

// ResetAutomation closes a provider's automation breaker so the next
// prompt is delivered again
func (h *Handlers) ResetAutomation(c *gin.Context) {
	p, ok := providerParam(c)
	if !ok {
		return
	}

	h.dispatcher.ResetBreaker(p)
	c.JSON(http.StatusOK, gin.H{"provider": p, "automation_breakers": h.dispatcher.BreakerStates()})
}

// ReportChrome records the space taken by the shell's own UI
func (h *Handlers) ReportChrome(c *gin.Context) {
	var chrome types.Chrome
	if err := c.ShouldBindJSON(&chrome); err != nil {
		badRequest(c, err)
		return
	}

	h.window.ReportChrome(chrome)
	c.JSON(http.StatusOK, gin.H{"layout": h.panes.Layout()})
}

// SendPrompt broadcasts a prompt to every pane
func (h *Handlers) SendPrompt(c *gin.Context) {
	var req types.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidatePrompt(req.Text); err != nil {
		badRequest(c, err)
		return
	}
	submit := req.Submit == nil || *req.Submit

	var result session.SendResult
	err := h.tracer.Trace(c.Request.Context(), "prompt.broadcast", func(ctx context.Context) error {
		var err error
		result, err = h.sessions.SendPrompt(ctx, req.Text, submit)
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
