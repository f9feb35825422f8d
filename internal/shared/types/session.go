package types

import "github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"

// TabState is one saved pane within a session layout. An empty URL means
// "use the provider's base URL at restore time".
type TabState struct {
	Provider ProviderID `json:"provider"`
	URL      string     `json:"url"`
	Zoom     float64    `json:"zoom"`
}

// SessionLayout is the ordered list of tabs that rebuilds a session's panes
type SessionLayout struct {
	Tabs []TabState `json:"tabs"`
	// LastURLByProvider tracks live navigation and wins over Tabs[].URL
	LastURLByProvider map[ProviderID]string `json:"lastUrlByProvider,omitempty"`
}

// SessionMeta is the catalog entry for a session
type SessionMeta struct {
	ID        id.SessionID `json:"id"`
	Title     string       `json:"title"`
	Pinned    bool         `json:"pinned"`
	CreatedAt int64        `json:"createdAt"` // epoch millis
	UpdatedAt int64        `json:"updatedAt"` // epoch millis
}

// SessionState is the root persisted document
type SessionState struct {
	ActiveID *id.SessionID                  `json:"activeId"`
	Order    []id.SessionID                 `json:"order"`  // unpinned, most recent first
	Pinned   []id.SessionID                 `json:"pinned"` // always listed first
	Items    map[id.SessionID]SessionMeta   `json:"items"`
	Layouts  map[id.SessionID]SessionLayout `json:"layouts"`
}

// NewSessionState returns a structurally complete empty state
func NewSessionState() *SessionState {
	return &SessionState{
		Order:   []id.SessionID{},
		Pinned:  []id.SessionID{},
		Items:   map[id.SessionID]SessionMeta{},
		Layouts: map[id.SessionID]SessionLayout{},
	}
}

// Active returns the active session id and whether one is set
func (s *SessionState) Active() (id.SessionID, bool) {
	if s.ActiveID == nil {
		return "", false
	}
	return *s.ActiveID, true
}

// SetActive marks sessionID active; an empty id clears it
func (s *SessionState) SetActive(sessionID id.SessionID) {
	if sessionID == "" {
		s.ActiveID = nil
		return
	}
	active := sessionID
	s.ActiveID = &active
}

// Clone returns a deep copy so callers can hand the state out safely
func (s *SessionState) Clone() *SessionState {
	out := NewSessionState()
	if s.ActiveID != nil {
		out.SetActive(*s.ActiveID)
	}
	out.Order = append(out.Order, s.Order...)
	out.Pinned = append(out.Pinned, s.Pinned...)
	for k, v := range s.Items {
		out.Items[k] = v
	}
	for k, v := range s.Layouts {
		out.Layouts[k] = v.Clone()
	}
	return out
}

// Clone returns a deep copy of the layout
func (l SessionLayout) Clone() SessionLayout {
	out := SessionLayout{Tabs: append([]TabState{}, l.Tabs...)}
	if l.LastURLByProvider != nil {
		out.LastURLByProvider = make(map[ProviderID]string, len(l.LastURLByProvider))
		for k, v := range l.LastURLByProvider {
			out.LastURLByProvider[k] = v
		}
	}
	return out
}

// SessionList is the ordered listing handed to the UI
type SessionList struct {
	Items    []SessionMeta `json:"items"`
	ActiveID *id.SessionID `json:"activeId"`
}
