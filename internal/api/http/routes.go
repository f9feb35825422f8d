package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every REST endpoint on router
func RegisterRoutes(router gin.IRouter, h *Handlers) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	// Sessions
	router.GET("/sessions", h.ListSessions)
	router.POST("/sessions", h.CreateSession)
	router.GET("/sessions/:id", h.GetSession)
	router.PATCH("/sessions/:id", h.UpdateSession)
	router.DELETE("/sessions/:id", h.DeleteSession)
	router.POST("/sessions/:id/open", h.OpenSession)
	router.POST("/sessions/:id/save", h.SaveSession)
	router.POST("/sessions/:id/reset", h.ResetSession)
	router.POST("/context/fresh", h.FreshContext)

	// Panes and providers
	router.GET("/panes", h.ListPanes)
	router.GET("/providers", h.ListProviders)
	router.POST("/providers/:provider/open", h.OpenProvider)
	router.POST("/providers/:provider/close", h.CloseProvider)
	router.POST("/chrome", h.ReportChrome)
	router.POST("/automation/:provider/reset", h.ResetAutomation)

	// Prompt
	router.POST("/prompt", h.SendPrompt)
	router.GET("/templates", h.ListTemplates)
	router.GET("/templates/*key", h.GetTemplate)
	router.PUT("/templates/*key", h.PutTemplate)
	router.DELETE("/templates/*key", h.DeleteTemplate)

	// Metrics
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	router.GET("/metrics/json", h.MetricsJSON)
}
