package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfer(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		url  string
		want types.ProviderID
	}{
		{"https://chatgpt.com/c/abc", types.ProviderChatGPT},
		{"https://chat.openai.com/", types.ProviderChatGPT},
		{"https://gemini.google.com/app/123", types.ProviderGemini},
		{"https://www.perplexity.ai/search?q=x", types.ProviderPerplexity},
		{"https://claude.ai/chat/1", types.ProviderClaude},
		{"https://GROK.com/", types.ProviderGrok},
		{"https://chat.deepseek.com/a/chat", types.ProviderDeepSeek},
		{"https://lmarena.ai/?mode=direct", types.ProviderLMArena},
		{"https://example.org:8443/path", "example.org"},
		{"https://notchatgpt.com.evil.io/", "notchatgpt.com.evil.io"},
		{"not a url", "not a url"},
		{"", ""},
		{"http://[::1", "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Infer(tt.url))
		})
	}
}

func TestBaseURL(t *testing.T) {
	r := NewRegistry()

	base, ok := r.BaseURL(types.ProviderGemini)
	assert.True(t, ok)
	assert.Equal(t, "https://gemini.google.com/app", base)

	_, ok = r.BaseURL("example.org")
	assert.False(t, ok)

	// Every built-in base URL infers back to its own provider
	for _, p := range r.Providers() {
		assert.Equal(t, p.ID, r.Infer(p.BaseURL), p.ID)
	}
}

func TestResolveURL(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "https://claude.ai/new", r.ResolveURL(types.ProviderClaude))
	assert.Equal(t, "https://example.org/", r.ResolveURL("example.org"))
	assert.Equal(t, "about:blank", r.ResolveURL("about:blank"))
}

func TestProvidersOrderAndKnown(t *testing.T) {
	r := NewRegistry()
	ids := make([]types.ProviderID, 0)
	for _, p := range r.Providers() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []types.ProviderID{"chatgpt", "gemini", "perplexity", "claude", "grok", "deepseek", "lmarena"}, ids)
	assert.True(t, r.Known(types.ProviderGrok))
	assert.False(t, r.Known("example.org"))

	info := r.Providers()[0].Info()
	assert.Equal(t, "ChatGPT", info.Name)
	assert.Len(t, info.Hosts, 2)
}

func TestApplyOverridesYAML(t *testing.T) {
	r := NewRegistry()

	n, err := r.ApplyOverrides(".yaml", []byte(`
providers:
  - id: claude
    baseUrl: https://claude.ai/projects
  - id: mistral
    name: Le Chat
    baseUrl: https://chat.mistral.ai/chat
    hosts: ['(^|\.)chat\.mistral\.ai$']
`))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	base, _ := r.BaseURL(types.ProviderClaude)
	assert.Equal(t, "https://claude.ai/projects", base)
	assert.Equal(t, types.ProviderClaude, r.Infer("https://claude.ai/x"), "hosts kept when not overridden")

	assert.Equal(t, types.ProviderID("mistral"), r.Infer("https://chat.mistral.ai/chat/1"))
	providers := r.Providers()
	assert.Equal(t, types.ProviderID("mistral"), providers[len(providers)-1].ID)
}

func TestApplyOverridesTOML(t *testing.T) {
	r := NewRegistry()

	_, err := r.ApplyOverrides("toml", []byte(`
[[providers]]
id = "copilot"
baseUrl = "https://copilot.microsoft.com/"
hosts = ['(^|\.)copilot\.microsoft\.com$']
`))
	require.NoError(t, err)
	assert.Equal(t, types.ProviderID("copilot"), r.Infer("https://copilot.microsoft.com/chats/1"))
}

func TestApplyOverridesIsAllOrNothing(t *testing.T) {
	r := NewRegistry()

	_, err := r.ApplyOverrides(".json", []byte(`{"providers":[
		{"id":"good","baseUrl":"https://good.example/","hosts":["good\\.example$"]},
		{"id":"bad","baseUrl":"https://bad.example/","hosts":["("]}
	]}`))
	require.Error(t, err)
	assert.False(t, r.Known("good"))

	_, err = r.ApplyOverrides(".json", []byte(`{"providers":[{"id":"nohosts","baseUrl":"https://x.example/"}]}`))
	assert.Error(t, err, "new providers need a host pattern")

	_, err = r.ApplyOverrides(".ini", nil)
	assert.Error(t, err)
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yml")
	require.NoError(t, os.WriteFile(path, []byte("providers:\n  - id: grok\n    name: xAI Grok\n"), 0o644))

	r := NewRegistry()
	n, err := r.LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p, ok := r.Get(types.ProviderGrok)
	require.True(t, ok)
	assert.Equal(t, "xAI Grok", p.Name)
	assert.Equal(t, "https://grok.com/", p.BaseURL)

	_, err = r.LoadOverrides(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
