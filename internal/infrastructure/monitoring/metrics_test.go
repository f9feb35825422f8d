package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsAreIndependent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.IncLayoutSaves("explicit")
	assert.Equal(t, 1.0, testutil.ToFloat64(a.LayoutSaves.WithLabelValues("explicit")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.LayoutSaves.WithLabelValues("explicit")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SetPanesOpen(2)
		m.IncRelayouts()
		m.RecordStoreError("sessions", "write")
		m.RecordPromptDispatch("chatgpt", "ok")
		m.IncWSConnections()
		NewTimer(m, "store", "save").StopErr(errors.New("boom"))
	})
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}

func TestSnapshotTracksCounters(t *testing.T) {
	m := NewMetrics()
	m.SetPanesOpen(3)
	m.SetSessions(5)
	m.RecordStoreError("sessions", "read")
	m.RecordHTTPRequest("GET", "/sessions", "200", 10*time.Millisecond, 0, 10)
	m.RecordHTTPRequest("GET", "/sessions/:id", "404", 30*time.Millisecond, 0, 10)
	m.IncWSConnections()
	m.IncWSConnections()
	m.DecWSConnections()

	s := m.Snapshot()
	assert.Equal(t, int64(3), s.OpenPanes)
	assert.Equal(t, int64(5), s.Sessions)
	assert.Equal(t, int64(1), s.StoreErrors)
	assert.Equal(t, int64(2), s.TotalRequests)
	assert.Equal(t, int64(1), s.TotalErrors)
	assert.Equal(t, int64(1), s.ActiveConnections)
	assert.InDelta(t, 0.02, s.AvgRequestSeconds, 1e-9)
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	r := gin.New()
	r.Use(Middleware(m))
	r.GET("/sessions/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/sess_1", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/sessions/:id", "204")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "polychat_http_requests_total")
	assert.Contains(t, w.Body.String(), "polychat_uptime_seconds")
}
