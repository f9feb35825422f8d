// Package session persists named sessions and swaps the live panes
// between them.
//
// Store is a thin accessor over the SessionState document: Load always
// returns a structurally valid state, Save overwrites the whole document.
//
// Controller is the orchestration layer. Every operation runs as one
// serialized turn under the controller lock: read the in-memory state,
// mutate it, write the whole document, notify observers. Debounced saves
// (800ms after provider toggles and restores, 2s after a prompt is sent)
// run on timer goroutines that take the same lock.
//
// Restore precedence for each saved tab:
//
//  1. layout.lastUrlByProvider[provider], if non-empty
//  2. tab.url, if non-empty
//  3. the provider's base URL, if known
//  4. tab.url as given
//
// State machine: no active session until the first prompt, an explicit
// create or an open; back to no active session only through a fresh
// context or by deleting the active session.
package session
