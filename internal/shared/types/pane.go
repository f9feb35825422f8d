package types

import "github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"

// ProviderID identifies a chat site. Unknown sites are identified by their
// bare hostname.
type ProviderID string

const (
	ProviderChatGPT    ProviderID = "chatgpt"
	ProviderGemini     ProviderID = "gemini"
	ProviderPerplexity ProviderID = "perplexity"
	ProviderClaude     ProviderID = "claude"
	ProviderGrok       ProviderID = "grok"
	ProviderDeepSeek   ProviderID = "deepseek"
	ProviderLMArena    ProviderID = "lmarena"
)

// Rect is a rectangle in window coordinates
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Point is a screen position
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is the host window content size
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Chrome is the screen space reserved around the panes
type Chrome struct {
	PromptBarHeight int `json:"promptBarHeight"`
	SidebarWidth    int `json:"sidebarWidth"`
	RightDockWidth  int `json:"rightDockWidth"`
}

// PaneInfo is a read-only copy of a live pane
type PaneInfo struct {
	ID         id.PaneID  `json:"id"`
	Provider   ProviderID `json:"provider"`
	InitialURL string     `json:"initialUrl"`
	URL        string     `json:"url"`
	Zoom       float64    `json:"zoom"`
	Bounds     Rect       `json:"bounds"`
}

// ViewLayout is what per-pane chrome (address bars) needs to render
type ViewLayout struct {
	PaneID   id.PaneID  `json:"paneId"`
	Provider ProviderID `json:"provider"`
	URL      string     `json:"url"`
	Bounds   Rect       `json:"bounds"`
	Header   Rect       `json:"header"`
}

// WindowState describes the host window after a window event
type WindowState struct {
	Size       Size   `json:"size"`
	Position   Point  `json:"position"`
	Maximized  bool   `json:"maximized"`
	Fullscreen bool   `json:"fullscreen"`
	Chrome     Chrome `json:"chrome"`
}
