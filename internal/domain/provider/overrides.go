package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// overrideFile is the on-disk shape of a provider override file
type overrideFile struct {
	Providers []overrideEntry `json:"providers" yaml:"providers" toml:"providers"`
}

type overrideEntry struct {
	ID      string   `json:"id" yaml:"id" toml:"id"`
	Name    string   `json:"name" yaml:"name" toml:"name"`
	BaseURL string   `json:"baseUrl" yaml:"baseUrl" toml:"baseUrl"`
	Hosts   []string `json:"hosts" yaml:"hosts" toml:"hosts"`
}

// LoadOverrides reads provider entries from path and registers them.
// The format follows the extension: .yaml/.yml, .toml or .json.
// Returns the number of entries applied.
func (r *Registry) LoadOverrides(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read provider overrides: %w", err)
	}
	return r.ApplyOverrides(filepath.Ext(path), data)
}

// ApplyOverrides parses data in the format named by ext and registers
// every entry. Nothing is registered if any entry is invalid.
func (r *Registry) ApplyOverrides(ext string, data []byte) (int, error) {
	var file overrideFile

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return 0, fmt.Errorf("failed to parse YAML overrides: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return 0, fmt.Errorf("failed to parse TOML overrides: %w", err)
		}
	case "json":
		if err := sonic.Unmarshal(data, &file); err != nil {
			return 0, fmt.Errorf("failed to parse JSON overrides: %w", err)
		}
	default:
		return 0, fmt.Errorf("unsupported override format %q", ext)
	}

	entries := make([]Provider, 0, len(file.Providers))
	for _, e := range file.Providers {
		p := Provider{
			ID:      types.ProviderID(strings.ToLower(strings.TrimSpace(e.ID))),
			Name:    e.Name,
			BaseURL: e.BaseURL,
		}
		for _, pattern := range e.Hosts {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return 0, fmt.Errorf("provider %s: bad host pattern %q: %w", p.ID, pattern, err)
			}
			p.Hosts = append(p.Hosts, re)
		}
		entries = append(entries, p)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Apply to a scratch copy so a bad entry leaves r untouched
	scratch := &Registry{providers: append([]Provider(nil), r.providers...)}
	for _, p := range entries {
		if err := scratch.Register(p); err != nil {
			return 0, err
		}
	}
	r.providers = scratch.providers

	return len(entries), nil
}
