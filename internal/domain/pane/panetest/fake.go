// Package panetest provides in-memory views for tests of code that drives
// a pane.Manager.
package panetest

import (
	"context"
	"errors"
	"sync"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/pane"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
)

// ErrCreateFailed is returned by a Factory told to fail
var ErrCreateFailed = errors.New("view creation failed")

// View records every call made to it
type View struct {
	PaneID id.PaneID

	mu         sync.Mutex
	url        string
	bounds     []types.Rect
	zoom       float64
	navigated  []string
	destroyed  bool
	destroyErr error
}

// Navigate implements pane.View
func (v *View) Navigate(_ context.Context, url string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.url = url
	v.navigated = append(v.navigated, url)
	return nil
}

// URL implements pane.View
func (v *View) URL() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.url
}

// SetBounds implements pane.View
func (v *View) SetBounds(b types.Rect) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bounds = append(v.bounds, b)
	return nil
}

// SetZoom implements pane.View
func (v *View) SetZoom(z float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.zoom = z
	return nil
}

// Destroy implements pane.View
func (v *View) Destroy() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.destroyed = true
	return v.destroyErr
}

// Bounds returns every rect applied, oldest first
func (v *View) Bounds() []types.Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]types.Rect(nil), v.bounds...)
}

// Destroyed reports whether Destroy was called
func (v *View) Destroyed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.destroyed
}

// Zoom returns the last zoom applied
func (v *View) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

// Factory creates Views and remembers them in creation order
type Factory struct {
	// Redirect, when set, rewrites the URL a view reports after creation
	Redirect func(url string) string

	mu      sync.Mutex
	views   []*View
	urls    []string
	failing bool
}

// CreateView implements pane.ViewFactory
func (f *Factory) CreateView(_ context.Context, paneID id.PaneID, url string, bounds types.Rect) (pane.View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failing {
		return nil, ErrCreateFailed
	}
	loaded := url
	if f.Redirect != nil {
		loaded = f.Redirect(url)
	}
	v := &View{PaneID: paneID, url: loaded, bounds: []types.Rect{bounds}}
	f.views = append(f.views, v)
	f.urls = append(f.urls, url)
	return v, nil
}

// Fail makes following CreateView calls fail (or succeed again)
func (f *Factory) Fail(fail bool) {
	f.mu.Lock()
	f.failing = fail
	f.mu.Unlock()
}

// Views returns every view ever created
func (f *Factory) Views() []*View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*View(nil), f.views...)
}

// CreatedURLs returns the URL of every CreateView call, in order
func (f *Factory) CreatedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

// Live returns views not yet destroyed
func (f *Factory) Live() []*View {
	var out []*View
	for _, v := range f.Views() {
		if !v.Destroyed() {
			out = append(out, v)
		}
	}
	return out
}

// Styler counts Apply calls per pane
type Styler struct {
	mu    sync.Mutex
	calls map[id.PaneID]int
}

// Apply implements pane.Styler
func (s *Styler) Apply(_ context.Context, paneID id.PaneID, _ types.ProviderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[id.PaneID]int)
	}
	s.calls[paneID]++
	return nil
}

// Calls returns how often paneID was styled
func (s *Styler) Calls(paneID id.PaneID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[paneID]
}
