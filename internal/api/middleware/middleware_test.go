package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return router
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"app://polychat"}
	router := setupTestRouter(CORS(cfg))

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantHeader bool
	}{
		{"loopback GET", "GET", "http://localhost:5173", http.StatusOK, true},
		{"loopback ip preflight", "OPTIONS", "http://127.0.0.1:3000", http.StatusNoContent, true},
		{"ipv6 loopback", "GET", "http://[::1]:8080", http.StatusOK, true},
		{"explicit origin", "GET", "app://polychat", http.StatusOK, true},
		{"remote origin", "GET", "https://evil.example", http.StatusForbidden, false},
		{"no origin header", "GET", "", http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == "OPTIONS" {
				req.Header.Set("Access-Control-Request-Method", "GET")
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantHeader {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestIsLoopbackOrigin(t *testing.T) {
	assert.True(t, isLoopbackOrigin("http://localhost"))
	assert.True(t, isLoopbackOrigin("https://127.0.0.2:9000"))
	assert.False(t, isLoopbackOrigin("file://localhost"))
	assert.False(t, isLoopbackOrigin("http://192.168.1.10"))
	assert.False(t, isLoopbackOrigin("::"))
}

func serve(router *gin.Engine, remote string) int {
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit(t *testing.T) {
	router := setupTestRouter(RateLimit(RateLimitConfig{RequestsPerSecond: 2, Burst: 2}))

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(router, "192.168.1.1:1234"), "request %d within burst", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(router, "192.168.1.1:1234"))
}

func TestRateLimitDifferentClients(t *testing.T) {
	router := setupTestRouter(RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 1}))

	assert.Equal(t, http.StatusOK, serve(router, "192.168.1.1:1234"))
	assert.Equal(t, http.StatusOK, serve(router, "192.168.1.2:1234"))
	assert.Equal(t, http.StatusTooManyRequests, serve(router, "192.168.1.1:1234"))
}

func TestDefaultConfigs(t *testing.T) {
	cors := DefaultCORSConfig()
	assert.True(t, cors.AllowLoopback)
	assert.Contains(t, cors.AllowMethods, "PATCH")
	assert.Equal(t, 12*time.Hour, cors.MaxAge)

	rate := DefaultRateLimitConfig()
	assert.Equal(t, 50, rate.RequestsPerSecond)
	assert.Equal(t, 100, rate.Burst)
}
