package pane

import (
	"context"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/events"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"go.uber.org/zap"
)

// DefaultZoom is the zoom factor of a freshly opened pane
const DefaultZoom = 1.0

type pane struct {
	id         id.PaneID
	provider   types.ProviderID
	initialURL string
	url        string
	zoom       float64
	slot       Slot
	view       View
}

func (p *pane) info() types.PaneInfo {
	return types.PaneInfo{
		ID:         p.id,
		Provider:   p.provider,
		InitialURL: p.initialURL,
		URL:        p.url,
		Zoom:       p.zoom,
		Bounds:     p.slot.Bounds,
	}
}

func (p *pane) viewLayout() types.ViewLayout {
	return types.ViewLayout{
		PaneID:   p.id,
		Provider: p.provider,
		URL:      p.url,
		Bounds:   p.slot.Bounds,
		Header:   p.slot.Header,
	}
}

// Manager owns the live panes. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	panes    []*pane // Protected by mu, left-to-right
	geometry Geometry

	factory   ViewFactory
	styler    Styler
	inferer   Inferer
	publisher events.Publisher
	ids       *id.Generator
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// NewManager creates a pane manager
func NewManager(factory ViewFactory, inferer Inferer) *Manager {
	return &Manager{
		factory:   factory,
		inferer:   inferer,
		publisher: events.Nop{},
		ids:       id.Default(),
		logger:    zap.NewNop(),
	}
}

// WithStyler sets the styling collaborator
func (m *Manager) WithStyler(styler Styler) *Manager {
	m.styler = styler
	return m
}

// WithPublisher sets where layout events go
func (m *Manager) WithPublisher(p events.Publisher) *Manager {
	m.publisher = events.OrNop(p)
	return m
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithLogger sets the component logger
func (m *Manager) WithLogger(logger *zap.Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithIDGenerator overrides pane id generation
func (m *Manager) WithIDGenerator(g *id.Generator) *Manager {
	m.ids = g
	return m
}

// WithGeometry sets the initial geometry without touching views
func (m *Manager) WithGeometry(g Geometry) *Manager {
	m.geometry = g
	return m
}

// Open appends a pane at url with the default zoom
func (m *Manager) Open(ctx context.Context, url string) (types.PaneInfo, error) {
	return m.OpenTab(ctx, url, DefaultZoom)
}

// OpenTab appends a pane at url, loads it, styles it and relayouts all
// panes with the new one rightmost. The view is created without holding
// the manager lock.
func (m *Manager) OpenTab(ctx context.Context, url string, zoom float64) (types.PaneInfo, error) {
	if zoom <= 0 {
		zoom = DefaultZoom
	}

	m.mu.Lock()
	slots := Compute(m.geometry, len(m.panes)+1)
	m.mu.Unlock()

	p := &pane{
		id:         m.ids.Pane(),
		provider:   m.inferer.Infer(url),
		initialURL: url,
		url:        url,
		zoom:       zoom,
		slot:       slots[len(slots)-1],
	}

	view, err := m.factory.CreateView(ctx, p.id, url, p.slot.Bounds)
	if err != nil {
		return types.PaneInfo{}, fmt.Errorf("failed to create view for %s: %w", url, err)
	}
	p.view = view
	if loaded := view.URL(); loaded != "" && loaded != url {
		p.url = loaded
		p.provider = m.inferer.Infer(loaded)
	}
	if zoom != DefaultZoom {
		if err := view.SetZoom(zoom); err != nil {
			m.logger.Warn("failed to set zoom", zap.String("pane_id", p.id.String()), zap.Error(err))
		}
	}

	// Other panes may have opened or closed while the view loaded
	m.mu.Lock()
	m.panes = append(m.panes, p)
	m.applyLocked(Compute(m.geometry, len(m.panes)))
	info := p.info()
	layout := m.layoutLocked()
	count := len(m.panes)
	m.mu.Unlock()

	m.style(ctx, info.ID, info.Provider)
	m.metrics.SetPanesOpen(count)
	m.publish(layout)

	m.logger.Debug("pane opened",
		zap.String("pane_id", info.ID.String()),
		zap.String("provider", string(info.Provider)),
		zap.Int("panes", count),
	)
	return info, nil
}

// Close removes one pane and gives its width back to the others.
// Unknown ids are a no-op returning false.
func (m *Manager) Close(paneID id.PaneID) bool {
	m.mu.Lock()

	idx := m.indexLocked(paneID)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}

	p := m.panes[idx]
	m.panes = append(m.panes[:idx], m.panes[idx+1:]...)
	m.destroyLocked(p)
	m.applyLocked(Compute(m.geometry, len(m.panes)))
	layout := m.layoutLocked()
	count := len(m.panes)
	m.mu.Unlock()

	m.metrics.SetPanesOpen(count)
	m.publish(layout)
	return true
}

// CloseAll tears every pane down, left to right, and returns how many
// were closed
func (m *Manager) CloseAll() int {
	m.mu.Lock()
	closed := m.panes
	m.panes = nil
	for _, p := range closed {
		m.destroyLocked(p)
	}
	m.mu.Unlock()

	m.metrics.SetPanesOpen(0)
	if len(closed) > 0 {
		m.publish(nil)
	}
	return len(closed)
}

// Relayout stores g and recomputes every pane's rect. Idempotent.
func (m *Manager) Relayout(g Geometry) []types.ViewLayout {
	m.mu.Lock()
	m.geometry = g
	m.applyLocked(Compute(g, len(m.panes)))
	layout := m.layoutLocked()
	m.mu.Unlock()

	m.metrics.IncRelayouts()
	m.publish(layout)
	return layout
}

// Geometry returns the geometry of the last relayout
func (m *Manager) Geometry() Geometry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.geometry
}

// Snapshot returns provider/url/zoom of every live pane, in order
func (m *Manager) Snapshot() []types.TabState {
	m.mu.Lock()
	defer m.mu.Unlock()

	tabs := make([]types.TabState, len(m.panes))
	for i, p := range m.panes {
		tabs[i] = types.TabState{Provider: p.provider, URL: p.url, Zoom: p.zoom}
	}
	return tabs
}

// HandleNavigation records a did-navigate notification from the view
// host. Returns the updated pane, false for unknown ids.
func (m *Manager) HandleNavigation(ctx context.Context, paneID id.PaneID, url string) (types.PaneInfo, bool) {
	m.mu.Lock()
	idx := m.indexLocked(paneID)
	if idx < 0 {
		m.mu.Unlock()
		return types.PaneInfo{}, false
	}
	p := m.panes[idx]
	p.url = url
	p.provider = m.inferer.Infer(url)
	info := p.info()
	layout := m.layoutLocked()
	m.mu.Unlock()

	m.style(ctx, info.ID, info.Provider)
	m.publish(layout)
	return info, true
}

// HandleZoom records a zoom change reported by the view host
func (m *Manager) HandleZoom(paneID id.PaneID, zoom float64) bool {
	if zoom <= 0 {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(paneID)
	if idx < 0 {
		return false
	}
	m.panes[idx].zoom = zoom
	return true
}

// Get returns one pane
func (m *Manager) Get(paneID id.PaneID) (types.PaneInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(paneID)
	if idx < 0 {
		return types.PaneInfo{}, false
	}
	return m.panes[idx].info(), true
}

// Find returns the leftmost pane whose derived provider is exactly provider
func (m *Manager) Find(provider types.ProviderID) (types.PaneInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.panes {
		if p.provider == provider {
			return p.info(), true
		}
	}
	return types.PaneInfo{}, false
}

// List returns copies of every pane, in order
func (m *Manager) List() []types.PaneInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.PaneInfo, len(m.panes))
	for i, p := range m.panes {
		out[i] = p.info()
	}
	return out
}

// Layout returns the per-pane view layout, in order
func (m *Manager) Layout() []types.ViewLayout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layoutLocked()
}

// Len returns the number of live panes
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.panes)
}

func (m *Manager) indexLocked(paneID id.PaneID) int {
	for i, p := range m.panes {
		if p.id == paneID {
			return i
		}
	}
	return -1
}

// applyLocked pushes changed rects to the views
func (m *Manager) applyLocked(slots []Slot) {
	for i, p := range m.panes {
		if i >= len(slots) {
			break
		}
		changed := p.slot.Bounds != slots[i].Bounds
		p.slot = slots[i]
		if !changed || p.view == nil {
			continue
		}
		if err := p.view.SetBounds(p.slot.Bounds); err != nil {
			m.logger.Warn("failed to set pane bounds",
				zap.String("pane_id", p.id.String()),
				zap.Error(err),
			)
		}
	}
}

func (m *Manager) destroyLocked(p *pane) {
	if p.view == nil {
		return
	}
	if err := p.view.Destroy(); err != nil {
		m.logger.Warn("failed to destroy view",
			zap.String("pane_id", p.id.String()),
			zap.Error(err),
		)
	}
	p.view = nil
}

func (m *Manager) layoutLocked() []types.ViewLayout {
	out := make([]types.ViewLayout, len(m.panes))
	for i, p := range m.panes {
		out[i] = p.viewLayout()
	}
	return out
}

func (m *Manager) style(ctx context.Context, paneID id.PaneID, provider types.ProviderID) {
	if m.styler == nil {
		return
	}
	if err := m.styler.Apply(ctx, paneID, provider); err != nil {
		m.logger.Debug("styling failed", zap.String("pane_id", paneID.String()), zap.Error(err))
	}
}

func (m *Manager) publish(layout []types.ViewLayout) {
	if layout == nil {
		layout = []types.ViewLayout{}
	}
	m.publisher.Publish(events.Event{
		Type:    events.TypePanesLayout,
		Payload: events.PanesLayout{Views: layout},
	})
}
