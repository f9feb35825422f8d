// Package types provides shared data structures for the shell core.
//
// Core Types:
//   - SessionState: the persisted session catalog document
//   - SessionMeta, SessionLayout, TabState: one saved session
//   - PaneInfo: read-only copy of a live pane
//   - Rect, Size, Chrome: window and pane geometry
//
// Request Types:
//   - CreateSessionRequest, UpdateSessionRequest, PromptRequest...: HTTP bodies
//   - WSMessage: WebSocket envelope
//
// Example Usage:
//
//	tab := types.TabState{Provider: types.ProviderChatGPT, URL: "", Zoom: 1}
//	layout := types.SessionLayout{Tabs: []types.TabState{tab}}
package types
