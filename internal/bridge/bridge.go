package bridge

import (
	"context"
	"errors"
	"sync"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/pane"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Command types sent to the shell
const (
	CmdViewCreate       = "view.create"
	CmdViewBounds       = "view.bounds"
	CmdViewNavigate     = "view.navigate"
	CmdViewZoom         = "view.zoom"
	CmdViewDestroy      = "view.destroy"
	CmdStyleApply       = "style.apply"
	CmdAutomationInsert = "automation.insert"
	CmdAutomationSubmit = "automation.submit"
	CmdCompanionDock    = "companion.dock"
)

// ErrViewDestroyed is returned by calls on a destroyed view
var ErrViewDestroyed = errors.New("view destroyed")

// Sender delivers one command to the shell
type Sender interface {
	Send(msgType, msgID string, payload any) error
}

// SenderFunc adapts a function to Sender
type SenderFunc func(msgType, msgID string, payload any) error

// Send implements Sender
func (f SenderFunc) Send(msgType, msgID string, payload any) error {
	return f(msgType, msgID, payload)
}

// Discard drops every command. Used when no shell will ever connect.
var Discard Sender = SenderFunc(func(string, string, any) error { return nil })

// ViewPayload is the body of view.* commands
type ViewPayload struct {
	PaneID id.PaneID   `json:"paneId"`
	URL    string      `json:"url,omitempty"`
	Bounds *types.Rect `json:"bounds,omitempty"`
	Zoom   float64     `json:"zoom,omitempty"`
}

// StylePayload is the body of style.apply
type StylePayload struct {
	PaneID   id.PaneID        `json:"paneId"`
	Provider types.ProviderID `json:"provider"`
}

// AutomationPayload is the body of automation.* commands
type AutomationPayload struct {
	PaneID id.PaneID `json:"paneId"`
	Text   string    `json:"text,omitempty"`
}

// Bridge is a pane.ViewFactory, pane.Styler and prompt.Automation backed
// by a Sender
type Bridge struct {
	sender Sender
	logger *zap.Logger
}

// New creates a bridge over sender
func New(sender Sender) *Bridge {
	if sender == nil {
		sender = Discard
	}
	return &Bridge{sender: sender, logger: zap.NewNop()}
}

// WithLogger sets the component logger
func (b *Bridge) WithLogger(logger *zap.Logger) *Bridge {
	if logger != nil {
		b.logger = logger
	}
	return b
}

func (b *Bridge) send(msgType string, payload any) error {
	if err := b.sender.Send(msgType, uuid.NewString(), payload); err != nil {
		b.logger.Warn("failed to send command", zap.String("type", msgType), zap.Error(err))
		return err
	}
	return nil
}

// CreateView implements pane.ViewFactory
func (b *Bridge) CreateView(_ context.Context, paneID id.PaneID, url string, bounds types.Rect) (pane.View, error) {
	if err := b.send(CmdViewCreate, ViewPayload{PaneID: paneID, URL: url, Bounds: &bounds}); err != nil {
		return nil, err
	}
	return &View{bridge: b, paneID: paneID, url: url}, nil
}

// Resync re-creates every live pane on a newly connected shell
func (b *Bridge) Resync(panes []types.PaneInfo) {
	for _, p := range panes {
		bounds := p.Bounds
		_ = b.send(CmdViewCreate, ViewPayload{PaneID: p.ID, URL: p.URL, Bounds: &bounds, Zoom: p.Zoom})
	}
}

// Apply implements pane.Styler
func (b *Bridge) Apply(_ context.Context, paneID id.PaneID, provider types.ProviderID) error {
	return b.send(CmdStyleApply, StylePayload{PaneID: paneID, Provider: provider})
}

// InsertText implements prompt.Automation
func (b *Bridge) InsertText(_ context.Context, paneID id.PaneID, text string) error {
	return b.send(CmdAutomationInsert, AutomationPayload{PaneID: paneID, Text: text})
}

// Submit implements prompt.Automation
func (b *Bridge) Submit(_ context.Context, paneID id.PaneID) error {
	return b.send(CmdAutomationSubmit, AutomationPayload{PaneID: paneID})
}

// Dock implements window.Companion. The shell positions its companion
// panel against the window rect.
func (b *Bridge) Dock(_ context.Context, window types.Rect) error {
	return b.send(CmdCompanionDock, window)
}

// View is a pane.View living in the shell
type View struct {
	bridge *Bridge
	paneID id.PaneID

	mu        sync.Mutex
	url       string
	destroyed bool
}

// Navigate implements pane.View
func (v *View) Navigate(_ context.Context, url string) error {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return ErrViewDestroyed
	}
	v.url = url
	v.mu.Unlock()

	return v.bridge.send(CmdViewNavigate, ViewPayload{PaneID: v.paneID, URL: url})
}

// URL implements pane.View
func (v *View) URL() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.url
}

// SetBounds implements pane.View
func (v *View) SetBounds(bounds types.Rect) error {
	if v.isDestroyed() {
		return ErrViewDestroyed
	}
	return v.bridge.send(CmdViewBounds, ViewPayload{PaneID: v.paneID, Bounds: &bounds})
}

// SetZoom implements pane.View
func (v *View) SetZoom(zoom float64) error {
	if v.isDestroyed() {
		return ErrViewDestroyed
	}
	return v.bridge.send(CmdViewZoom, ViewPayload{PaneID: v.paneID, Zoom: zoom})
}

// Destroy implements pane.View. Destroying twice is a no-op.
func (v *View) Destroy() error {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return nil
	}
	v.destroyed = true
	v.mu.Unlock()

	return v.bridge.send(CmdViewDestroy, ViewPayload{PaneID: v.paneID})
}

func (v *View) isDestroyed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.destroyed
}
