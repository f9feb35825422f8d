// Package http provides the REST control API of the core.
//
// This package implements the endpoints the shell's sidebar, prompt bar
// and settings screens call, using the Gin framework.
//
// Endpoints:
//   - Health: / and /health
//   - Sessions: /sessions, /sessions/:id, /sessions/:id/open|save|reset
//   - Context: /context/fresh
//   - Panes: /panes, /providers, /providers/:provider/open|close
//   - Layout: /chrome
//   - Automation: /automation/:provider/reset
//   - Prompt: /prompt, /templates, /templates/*key
//   - Metrics: /metrics (prometheus), /metrics/json
//
// Errors are returned as {"error": "..."} with 400 for invalid input and
// 404 for unknown sessions, providers and templates.
//
// Example Usage:
//
//	handlers := http.NewHandlers(http.Deps{Sessions: controller, Panes: panes, ...})
//	http.RegisterRoutes(router, handlers)
package http
