// Package events defines the notifications the core emits to its
// observers (the WebSocket hub in production, a Recorder in tests).
package events

import (
	"sync"

	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
)

// Event types
const (
	TypeSessionsChanged = "sessions.changed"
	TypeSessionActive   = "session.active"
	TypePanesLayout     = "panes.layout"
	TypeWindowState     = "window.state"
)

// Event is one outward notification.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// SessionsChanged lists the session ids touched by a mutation.
type SessionsChanged struct {
	IDs []id.SessionID `json:"ids"`
}

// SessionActive carries the active session id, nil when none.
type SessionActive struct {
	ActiveID *id.SessionID `json:"activeId"`
}

// PanesLayout is the full per-pane layout after a relayout or navigation.
type PanesLayout struct {
	Views []types.ViewLayout `json:"views"`
}

// Publisher receives events. Implementations must not call back into the
// publishing component.
type Publisher interface {
	Publish(Event)
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(Event)

// Publish implements Publisher
func (f PublisherFunc) Publish(e Event) { f(e) }

// Nop discards events
type Nop struct{}

// Publish implements Publisher
func (Nop) Publish(Event) {}

// OrNop returns p, or Nop when p is nil
func OrNop(p Publisher) Publisher {
	if p == nil {
		return Nop{}
	}
	return p
}

// Recorder keeps every published event.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher
func (r *Recorder) Publish(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of everything recorded
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType returns recorded events of one type, in order
func (r *Recorder) OfType(typ string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the most recent event of typ
func (r *Recorder) Last(typ string) (Event, bool) {
	matches := r.OfType(typ)
	if len(matches) == 0 {
		return Event{}, false
	}
	return matches[len(matches)-1], true
}

// Reset drops everything recorded
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
