// Package config provides 12-factor configuration management for the shell core.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP/WebSocket listener (port, host)
//   - Storage: document backend (file or sqlite) and data directory
//   - Logging: Log level, output format and rotating file
//   - RateLimit: Per-IP rate limiting configuration
//   - Layout: header strip height and debounce timings
//   - Providers: default pane set and registry override file
//   - Automation: per-provider circuit breaker tuning
//
// Example Usage:
//
//	cfg, err := config.Load()
//	fmt.Printf("Listening on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, STORAGE_BACKEND, DATA_DIR
//   - LOG_LEVEL, LOG_DEV, LOG_FILE
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - LAYOUT_HEADER_HEIGHT, LAYOUT_RESIZE_DEBOUNCE, LAYOUT_SIDEBAR_SETTLE,
//     LAYOUT_MOVE_DEBOUNCE, LAYOUT_SAVE_DEBOUNCE, LAYOUT_SEND_SETTLE
//   - PROVIDERS_DEFAULT, PROVIDERS_FILE
//   - AUTOMATION_MAX_FAILURES, AUTOMATION_COOLDOWN
package config
