package types

import "encoding/json"

// CreateSessionRequest creates a session from the live panes
type CreateSessionRequest struct {
	Title            string `json:"title"`
	UseDefaultLayout bool   `json:"useDefaultLayout"`
}

// UpdateSessionRequest renames and/or pins a session
type UpdateSessionRequest struct {
	Title  *string `json:"title,omitempty"`
	Pinned *bool   `json:"pinned,omitempty"`
}

// FreshContextRequest starts an unsaved workspace
type FreshContextRequest struct {
	Mode string `json:"mode"` // "default" or "empty"
}

// PromptRequest broadcasts text to every pane
type PromptRequest struct {
	Text   string `json:"text" binding:"required"`
	Submit *bool  `json:"submit,omitempty"`
}

// TemplateRequest stores a prompt template
type TemplateRequest struct {
	Text string `json:"text" binding:"required"`
}

// WSMessage is the WebSocket envelope in both directions
type WSMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
