package provider

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/utils"
)

// Provider is one registry entry
type Provider struct {
	ID      types.ProviderID
	Name    string
	BaseURL string
	Hosts   []*regexp.Regexp
}

// Info is the serializable view of a Provider
type Info struct {
	ID      types.ProviderID `json:"id"`
	Name    string           `json:"name"`
	BaseURL string           `json:"baseUrl"`
	Hosts   []string         `json:"hosts"`
}

// Info returns the serializable view
func (p Provider) Info() Info {
	hosts := make([]string, len(p.Hosts))
	for i, re := range p.Hosts {
		hosts[i] = re.String()
	}
	return Info{ID: p.ID, Name: p.Name, BaseURL: p.BaseURL, Hosts: hosts}
}

func (p Provider) matches(host string) bool {
	for _, re := range p.Hosts {
		if re.MatchString(host) {
			return true
		}
	}
	return false
}

var builtins = []Provider{
	{
		ID:      types.ProviderChatGPT,
		Name:    "ChatGPT",
		BaseURL: "https://chatgpt.com/",
		Hosts: []*regexp.Regexp{
			regexp.MustCompile(`(^|\.)chatgpt\.com$`),
			regexp.MustCompile(`(^|\.)chat\.openai\.com$`),
		},
	},
	{
		ID:      types.ProviderGemini,
		Name:    "Gemini",
		BaseURL: "https://gemini.google.com/app",
		Hosts:   []*regexp.Regexp{regexp.MustCompile(`(^|\.)gemini\.google\.com$`)},
	},
	{
		ID:      types.ProviderPerplexity,
		Name:    "Perplexity",
		BaseURL: "https://www.perplexity.ai/",
		Hosts:   []*regexp.Regexp{regexp.MustCompile(`(^|\.)perplexity\.ai$`)},
	},
	{
		ID:      types.ProviderClaude,
		Name:    "Claude",
		BaseURL: "https://claude.ai/new",
		Hosts:   []*regexp.Regexp{regexp.MustCompile(`(^|\.)claude\.ai$`)},
	},
	{
		ID:      types.ProviderGrok,
		Name:    "Grok",
		BaseURL: "https://grok.com/",
		Hosts:   []*regexp.Regexp{regexp.MustCompile(`(^|\.)grok\.com$`)},
	},
	{
		ID:      types.ProviderDeepSeek,
		Name:    "DeepSeek",
		BaseURL: "https://chat.deepseek.com/",
		Hosts:   []*regexp.Regexp{regexp.MustCompile(`(^|\.)deepseek\.com$`)},
	},
	{
		ID:      types.ProviderLMArena,
		Name:    "LMArena",
		BaseURL: "https://lmarena.ai/",
		Hosts:   []*regexp.Regexp{regexp.MustCompile(`(^|\.)lmarena\.ai$`)},
	},
}

// Registry is the ordered provider table. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
}

// NewRegistry returns a registry holding the built-in providers
func NewRegistry() *Registry {
	r := &Registry{providers: make([]Provider, len(builtins))}
	copy(r.providers, builtins)
	return r
}

// Infer resolves the provider of rawURL
func (r *Registry) Infer(rawURL string) types.ProviderID {
	host := hostOf(rawURL)
	if host == "" {
		return types.ProviderID(rawURL)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.matches(host) {
			return p.ID
		}
	}
	return types.ProviderID(host)
}

// BaseURL returns the canonical start page of a known provider
func (r *Registry) BaseURL(id types.ProviderID) (string, bool) {
	p, ok := r.Get(id)
	if !ok || p.BaseURL == "" {
		return "", false
	}
	return p.BaseURL, true
}

// ResolveURL returns BaseURL for known providers and the provider string
// itself otherwise (hostname fallback providers become https URLs).
func (r *Registry) ResolveURL(id types.ProviderID) string {
	if base, ok := r.BaseURL(id); ok {
		return base
	}
	s := string(id)
	if s != "" && !strings.Contains(s, "://") && utils.ValidateProvider(s) == nil && strings.Contains(s, ".") {
		return "https://" + s + "/"
	}
	return s
}

// Get returns a registry entry
func (r *Registry) Get(id types.ProviderID) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

// Known reports whether id is a registry entry (not a hostname fallback)
func (r *Registry) Known(id types.ProviderID) bool {
	_, ok := r.Get(id)
	return ok
}

// Providers returns the entries in match order
func (r *Registry) Providers() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Register adds p, or replaces the entry with the same id in place
func (r *Registry) Register(p Provider) error {
	if err := utils.ValidateProvider(string(p.ID)); err != nil {
		return err
	}
	if p.BaseURL != "" {
		if _, err := url.ParseRequestURI(p.BaseURL); err != nil {
			return fmt.Errorf("provider %s: invalid base url: %w", p.ID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.providers {
		if existing.ID == p.ID {
			if p.Name == "" {
				p.Name = existing.Name
			}
			if p.BaseURL == "" {
				p.BaseURL = existing.BaseURL
			}
			if len(p.Hosts) == 0 {
				p.Hosts = existing.Hosts
			}
			r.providers[i] = p
			return nil
		}
	}
	if len(p.Hosts) == 0 {
		return fmt.Errorf("provider %s: at least one host pattern is required", p.ID)
	}
	r.providers = append(r.providers, p)
	return nil
}

// hostOf returns the lowercased hostname of rawURL, or "" if it has none
func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
