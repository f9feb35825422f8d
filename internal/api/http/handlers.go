package http

import (
	"errors"
	"net/http"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/pane"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/prompt"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/provider"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/session"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/window"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/tracing"
	"github.com/gin-gonic/gin"
)

// Deps are the components the handlers drive
type Deps struct {
	Sessions   *session.Controller
	Panes      *pane.Manager
	Providers  *provider.Registry
	Window     *window.Controller
	Templates  *prompt.Templates
	Dispatcher *prompt.Dispatcher
	Metrics    *monitoring.Metrics
	Tracer     *tracing.Tracer
	// Clients reports connected WebSocket clients, optional
	Clients func() int
	Version string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions   *session.Controller
	panes      *pane.Manager
	providers  *provider.Registry
	window     *window.Controller
	templates  *prompt.Templates
	dispatcher *prompt.Dispatcher
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
	clients    func() int
	version    string
}

// NewHandlers creates a new handler set
func NewHandlers(deps Deps) *Handlers {
	clients := deps.Clients
	if clients == nil {
		clients = func() int { return 0 }
	}
	return &Handlers{
		sessions:   deps.Sessions,
		panes:      deps.Panes,
		providers:  deps.Providers,
		window:     deps.Window,
		templates:  deps.Templates,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		tracer:     deps.Tracer,
		clients:    clients,
		version:    deps.Version,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "PolyChat core",
		"version": h.version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	active, hasActive := h.sessions.ActiveID()
	body := gin.H{
		"status":       "healthy",
		"version":      h.version,
		"panes":        h.panes.Len(),
		"sessions":     len(h.sessions.State().Items),
		"initializing": h.sessions.Initializing(),
		"ws_clients":   h.clients(),
	}
	if hasActive {
		body["active_session"] = active
	}
	if h.dispatcher != nil {
		body["automation_breakers"] = h.dispatcher.BreakerStates()
	}
	c.JSON(http.StatusOK, body)
}

// MetricsJSON returns the domain counters as JSON
func (h *Handlers) MetricsJSON(c *gin.Context) {
	body := gin.H{"metrics": h.metrics.Snapshot()}
	if h.dispatcher != nil {
		body["automation_breakers"] = h.dispatcher.BreakerStates()
	}
	c.JSON(http.StatusOK, body)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// fail maps domain errors onto status codes
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrUnknownProvider),
		errors.Is(err, prompt.ErrTemplateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrInvalidMode),
		errors.Is(err, session.ErrEmptyPrompt),
		errors.Is(err, prompt.ErrBadPattern):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
