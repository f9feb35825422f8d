package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
	Layout     LayoutConfig
	Providers  ProvidersConfig
	Automation AutomationConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8765"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// StorageConfig selects where the session and prompt documents live.
type StorageConfig struct {
	Backend string `envconfig:"STORAGE_BACKEND" default:"file"` // "file" or "sqlite"
	DataDir string `envconfig:"DATA_DIR"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	File        string `envconfig:"LOG_FILE"`
	MaxSizeMB   int    `envconfig:"LOG_MAX_SIZE_MB" default:"10"`
	MaxBackups  int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	MaxAgeDays  int    `envconfig:"LOG_MAX_AGE_DAYS" default:"14"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// LayoutConfig holds pane geometry and debounce timings.
type LayoutConfig struct {
	HeaderHeight   int           `envconfig:"LAYOUT_HEADER_HEIGHT" default:"32"`
	ResizeDebounce time.Duration `envconfig:"LAYOUT_RESIZE_DEBOUNCE" default:"200ms"`
	SidebarSettle  time.Duration `envconfig:"LAYOUT_SIDEBAR_SETTLE" default:"300ms"`
	MoveDebounce   time.Duration `envconfig:"LAYOUT_MOVE_DEBOUNCE" default:"50ms"`
	SaveDebounce   time.Duration `envconfig:"LAYOUT_SAVE_DEBOUNCE" default:"800ms"`
	SendSettle     time.Duration `envconfig:"LAYOUT_SEND_SETTLE" default:"2s"`
}

// ProvidersConfig holds the default pane set and optional registry overrides.
type ProvidersConfig struct {
	Default []string `envconfig:"PROVIDERS_DEFAULT" default:"chatgpt,gemini,perplexity"`
	File    string   `envconfig:"PROVIDERS_FILE"`
}

// AutomationConfig tunes the per-provider automation circuit breaker.
type AutomationConfig struct {
	MaxFailures uint32        `envconfig:"AUTOMATION_MAX_FAILURES" default:"3"`
	Cooldown    time.Duration `envconfig:"AUTOMATION_COOLDOWN" default:"30s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the rest of the system cannot work with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q (want file or sqlite)", c.Storage.Backend)
	}
	if c.Layout.HeaderHeight < 0 {
		return fmt.Errorf("LAYOUT_HEADER_HEIGHT must not be negative")
	}
	if len(c.Providers.Default) == 0 {
		return fmt.Errorf("PROVIDERS_DEFAULT must name at least one provider")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8765",
			Host: "127.0.0.1",
		},
		Storage: StorageConfig{
			Backend: "file",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
			MaxSizeMB:   10,
			MaxBackups:  3,
			MaxAgeDays:  14,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
		Layout: LayoutConfig{
			HeaderHeight:   32,
			ResizeDebounce: 200 * time.Millisecond,
			SidebarSettle:  300 * time.Millisecond,
			MoveDebounce:   50 * time.Millisecond,
			SaveDebounce:   800 * time.Millisecond,
			SendSettle:     2 * time.Second,
		},
		Providers: ProvidersConfig{
			Default: []string{"chatgpt", "gemini", "perplexity"},
		},
		Automation: AutomationConfig{
			MaxFailures: 3,
			Cooldown:    30 * time.Second,
		},
	}
}
