package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/events"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/pane"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/debounce"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned for operations on an unknown session id
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownProvider is returned when a provider has no URL to open
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrInvalidMode is returned by StartFreshContext for unknown modes
	ErrInvalidMode = errors.New("invalid fresh context mode")
	// ErrEmptyPrompt is returned by SendPrompt for blank text
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// MaxTitleRunes bounds titles derived from prompt text
const MaxTitleRunes = 80

// Fresh context modes
const (
	FreshDefault = "default"
	FreshEmpty   = "empty"
)

// Save reasons, used as the metrics label
const (
	ReasonExplicit      = "explicit"
	ReasonSwitch        = "switch"
	ReasonRestore       = "restore"
	ReasonPromptSettle  = "prompt-settle"
	ReasonLayoutSettle  = "layout-settle"
	ReasonProviderOpen  = "provider-open"
	ReasonProviderClose = "provider-close"
	ReasonZoom          = "zoom"
	ReasonShutdown      = "shutdown"
)

// Panes is the part of the pane manager the controller drives
type Panes interface {
	OpenTab(ctx context.Context, url string, zoom float64) (types.PaneInfo, error)
	Close(paneID id.PaneID) bool
	CloseAll() int
	Relayout(g pane.Geometry) []types.ViewLayout
	Geometry() pane.Geometry
	Snapshot() []types.TabState
	HandleNavigation(ctx context.Context, paneID id.PaneID, url string) (types.PaneInfo, bool)
	HandleZoom(paneID id.PaneID, zoom float64) bool
	Find(provider types.ProviderID) (types.PaneInfo, bool)
	List() []types.PaneInfo
}

// URLResolver maps providers to URLs. BaseURL knows registry entries
// only; ResolveURL also turns hostname providers into https URLs.
type URLResolver interface {
	BaseURL(provider types.ProviderID) (string, bool)
	ResolveURL(provider types.ProviderID) string
}

// Broadcaster delivers a prompt to every pane, best effort
type Broadcaster interface {
	Broadcast(ctx context.Context, panes []types.PaneInfo, text string, submit bool) []types.PromptDelivery
}

// Options tunes a Controller
type Options struct {
	DefaultProviders []types.ProviderID
	SaveDebounce     time.Duration
	SendSettle       time.Duration
	Now              func() time.Time
}

// DefaultOptions returns the stock provider set and timings
func DefaultOptions() Options {
	return Options{
		DefaultProviders: []types.ProviderID{types.ProviderChatGPT, types.ProviderGemini, types.ProviderPerplexity},
		SaveDebounce:     800 * time.Millisecond,
		SendSettle:       2 * time.Second,
		Now:              time.Now,
	}
}

// SendResult reports what SendPrompt did
type SendResult struct {
	SessionID  id.SessionID           `json:"sessionId"`
	Created    bool                   `json:"created"`
	Deliveries []types.PromptDelivery `json:"deliveries"`
}

// Controller ties the pane manager and the session store together
type Controller struct {
	mu     sync.Mutex
	state  *types.SessionState // Protected by mu, loaded on first use
	closed bool                // Protected by mu

	initializing atomic.Bool

	store       *Store
	panes       Panes
	urls        URLResolver
	broadcaster Broadcaster
	publisher   events.Publisher
	ids         *id.Generator
	opts        Options

	saveTimer   *debounce.Timer
	settleTimer *debounce.Timer

	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewController creates a controller
func NewController(store *Store, panes Panes, urls URLResolver, opts Options) *Controller {
	defaults := DefaultOptions()
	if len(opts.DefaultProviders) == 0 {
		opts.DefaultProviders = defaults.DefaultProviders
	}
	if opts.SaveDebounce <= 0 {
		opts.SaveDebounce = defaults.SaveDebounce
	}
	if opts.SendSettle <= 0 {
		opts.SendSettle = defaults.SendSettle
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}

	return &Controller{
		store:       store,
		panes:       panes,
		urls:        urls,
		publisher:   events.Nop{},
		ids:         id.Default(),
		opts:        opts,
		saveTimer:   debounce.New("layout-save", opts.SaveDebounce),
		settleTimer: debounce.New("send-settle", opts.SendSettle),
		logger:      zap.NewNop(),
	}
}

// WithBroadcaster sets the prompt delivery collaborator
func (c *Controller) WithBroadcaster(b Broadcaster) *Controller {
	c.broadcaster = b
	return c
}

// WithPublisher sets where session events go
func (c *Controller) WithPublisher(p events.Publisher) *Controller {
	c.publisher = events.OrNop(p)
	return c
}

// WithMetrics adds metrics tracking to the controller
func (c *Controller) WithMetrics(metrics *monitoring.Metrics) *Controller {
	c.metrics = metrics
	return c
}

// WithLogger sets the component logger
func (c *Controller) WithLogger(logger *zap.Logger) *Controller {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithIDGenerator overrides session id generation
func (c *Controller) WithIDGenerator(g *id.Generator) *Controller {
	c.ids = g
	return c
}

// Initializing reports whether startup restore is in progress
func (c *Controller) Initializing() bool {
	return c.initializing.Load()
}

// State returns a copy of the current state
func (c *Controller) State() *types.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked().Clone()
}

// ActiveID returns the active session id
func (c *Controller) ActiveID() (id.SessionID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked().Active()
}

// ListSessions returns sessions pinned first, then most recent first
func (c *Controller) ListSessions() types.SessionList {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.loadLocked()
	items := make([]types.SessionMeta, 0, len(s.Pinned)+len(s.Order))
	for _, sid := range s.Pinned {
		if meta, ok := s.Items[sid]; ok {
			items = append(items, meta)
		}
	}
	for _, sid := range s.Order {
		if meta, ok := s.Items[sid]; ok {
			items = append(items, meta)
		}
	}

	list := types.SessionList{Items: items}
	if active, ok := s.Active(); ok {
		list.ActiveID = &active
	}
	return list
}

// Layout returns the saved layout of a session
func (c *Controller) Layout(sessionID id.SessionID) (types.SessionLayout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	layout, ok := c.loadLocked().Layouts[sessionID]
	if !ok {
		return types.SessionLayout{}, ErrSessionNotFound
	}
	return layout.Clone(), nil
}

// EnsureDefaultSession creates and activates a session when none exist,
// from the open panes or the default provider set. Idempotent.
func (c *Controller) EnsureDefaultSession() (id.SessionID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureDefaultLocked()
}

func (c *Controller) ensureDefaultLocked() (id.SessionID, bool) {
	s := c.loadLocked()
	if len(s.Items) > 0 {
		active, _ := s.Active()
		return active, false
	}

	tabs := c.panes.Snapshot()
	var last map[types.ProviderID]string
	if len(tabs) == 0 {
		tabs = c.defaultTabs()
	} else {
		last = lastURLs(nil, tabs)
	}

	meta := c.insertLocked(deriveTitle("", c.opts.Now()), types.SessionLayout{Tabs: tabs, LastURLByProvider: last})
	s.SetActive(meta.ID)
	c.persistLocked()
	c.publishChanged(meta.ID)
	c.publishActiveLocked()

	c.logger.Info("created default session", zap.String("session_id", meta.ID.String()), zap.Int("tabs", len(tabs)))
	return meta.ID, true
}

// RestoreAtStartup ensures a session exists, resolves the active one and
// restores its layout. Navigation events are not recorded while it runs.
func (c *Controller) RestoreAtStartup(ctx context.Context) (id.SessionID, error) {
	c.initializing.Store(true)
	defer c.initializing.Store(false)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureDefaultLocked()

	s := c.loadLocked()
	active, ok := s.Active()
	if !ok {
		switch {
		case len(s.Pinned) > 0:
			active = s.Pinned[0]
		case len(s.Order) > 0:
			active = s.Order[0]
		default:
			return "", nil
		}
		s.SetActive(active)
		c.persistLocked()
		c.publishActiveLocked()
	}

	layout := s.Layouts[active]
	c.restoreLayoutLocked(ctx, layout.Tabs, layout.LastURLByProvider)

	c.logger.Info("restored session at startup",
		zap.String("session_id", active.String()),
		zap.Int("tabs", len(layout.Tabs)),
	)
	return active, nil
}

// RestoreLayout replaces every open pane with the given tabs
func (c *Controller) RestoreLayout(ctx context.Context, tabs []types.TabState, lastURLByProvider map[types.ProviderID]string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restoreLayoutLocked(ctx, tabs, lastURLByProvider)
}

// restoreLayoutLocked closes all panes, then opens one per tab in order.
// Returns the number of panes opened.
func (c *Controller) restoreLayoutLocked(ctx context.Context, tabs []types.TabState, last map[types.ProviderID]string) int {
	c.panes.CloseAll()

	opened := 0
	for _, tab := range tabs {
		url := c.resolveURL(tab, last)
		if url == "" {
			c.logger.Warn("skipping tab without url", zap.String("provider", string(tab.Provider)))
			continue
		}
		if _, err := c.panes.OpenTab(ctx, url, tab.Zoom); err != nil {
			c.logger.Warn("failed to restore pane",
				zap.String("provider", string(tab.Provider)),
				zap.Error(err),
			)
			continue
		}
		opened++
	}

	c.panes.Relayout(c.panes.Geometry())
	c.metrics.IncSessionsRestored()
	c.scheduleSave(ReasonRestore)
	return opened
}

// resolveURL applies lastUrl -> tab.url -> base URL -> raw tab.url
func (c *Controller) resolveURL(tab types.TabState, last map[types.ProviderID]string) string {
	if u := last[tab.Provider]; u != "" {
		return u
	}
	if tab.URL != "" {
		return tab.URL
	}
	if base, ok := c.urls.BaseURL(tab.Provider); ok {
		return base
	}
	return tab.URL
}

// SaveActiveLayoutSnapshot captures the live panes into the active
// session. Returns false when there is no active session.
func (c *Controller) SaveActiveLayoutSnapshot(reason string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveActiveLocked(reason)
}

func (c *Controller) saveActiveLocked(reason string) bool {
	s := c.loadLocked()
	active, ok := s.Active()
	if !ok {
		return false
	}
	meta, ok := s.Items[active]
	if !ok {
		return false
	}

	live := c.panes.Snapshot()
	prev := s.Layouts[active]

	s.Layouts[active] = types.SessionLayout{
		Tabs:              mergeTabs(prev.Tabs, live),
		LastURLByProvider: lastURLs(prev.LastURLByProvider, live),
	}
	meta.UpdatedAt = c.opts.Now().UnixMilli()
	s.Items[active] = meta

	c.persistLocked()
	c.metrics.IncLayoutSaves(reason)
	c.publishChanged(active)

	c.logger.Debug("saved active layout",
		zap.String("session_id", active.String()),
		zap.String("reason", reason),
		zap.Int("tabs", len(live)),
	)
	return true
}

// mergeTabs keeps the previously saved URL for providers that are still
// open (matched in order per provider) and takes the live URL otherwise.
func mergeTabs(prev, live []types.TabState) []types.TabState {
	saved := make(map[types.ProviderID][]string)
	for _, t := range prev {
		saved[t.Provider] = append(saved[t.Provider], t.URL)
	}

	out := make([]types.TabState, len(live))
	for i, t := range live {
		out[i] = t
		urls := saved[t.Provider]
		if len(urls) == 0 {
			continue
		}
		saved[t.Provider] = urls[1:]
		if urls[0] != "" {
			out[i].URL = urls[0]
		}
	}
	return out
}

// lastURLs returns prev updated with the live URL of the first pane of
// each provider
func lastURLs(prev map[types.ProviderID]string, live []types.TabState) map[types.ProviderID]string {
	out := make(map[types.ProviderID]string, len(prev)+len(live))
	for k, v := range prev {
		out[k] = v
	}
	seen := make(map[types.ProviderID]bool, len(live))
	for _, t := range live {
		if seen[t.Provider] || t.URL == "" {
			continue
		}
		seen[t.Provider] = true
		out[t.Provider] = t.URL
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// CreateNewSession allocates, activates and persists a new session. With
// useDefaultLayout the open providers are kept but reset to their base
// URLs and the panes are restored to match.
func (c *Controller) CreateNewSession(ctx context.Context, titleSeed string, useDefaultLayout bool) (types.SessionMeta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkOpenLocked(); err != nil {
		return types.SessionMeta{}, err
	}
	c.saveActiveLocked(ReasonSwitch)
	return c.createLocked(ctx, titleSeed, useDefaultLayout), nil
}

func (c *Controller) createLocked(ctx context.Context, titleSeed string, useDefaultLayout bool) types.SessionMeta {
	live := c.panes.Snapshot()

	var layout types.SessionLayout
	if useDefaultLayout {
		layout.Tabs = clearURLs(live)
		if len(layout.Tabs) == 0 {
			layout.Tabs = c.defaultTabs()
		}
	} else {
		layout.Tabs = live
		layout.LastURLByProvider = lastURLs(nil, live)
	}

	meta := c.insertLocked(deriveTitle(titleSeed, c.opts.Now()), layout)
	s := c.loadLocked()
	s.SetActive(meta.ID)
	c.persistLocked()
	c.publishChanged(meta.ID)
	c.publishActiveLocked()

	if useDefaultLayout {
		c.restoreLayoutLocked(ctx, layout.Tabs, nil)
	}

	c.logger.Info("created session",
		zap.String("session_id", meta.ID.String()),
		zap.String("title", meta.Title),
		zap.Bool("default_layout", useDefaultLayout),
	)
	return meta
}

// insertLocked adds a new session at the front of the unpinned order
func (c *Controller) insertLocked(title string, layout types.SessionLayout) types.SessionMeta {
	s := c.loadLocked()
	now := c.opts.Now().UnixMilli()

	meta := types.SessionMeta{
		ID:        c.ids.Session(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if layout.Tabs == nil {
		layout.Tabs = []types.TabState{}
	}

	s.Items[meta.ID] = meta
	s.Layouts[meta.ID] = layout
	s.Order = append([]id.SessionID{meta.ID}, s.Order...)
	return meta
}

// OpenSession activates a saved session and restores its panes
func (c *Controller) OpenSession(ctx context.Context, sessionID id.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.loadLocked()
	if _, ok := s.Layouts[sessionID]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	if active, ok := s.Active(); ok && active != sessionID {
		c.saveActiveLocked(ReasonSwitch)
	}

	s.SetActive(sessionID)
	c.persistLocked()
	c.publishActiveLocked()

	layout := s.Layouts[sessionID].Clone()
	c.restoreLayoutLocked(ctx, layout.Tabs, layout.LastURLByProvider)

	c.logger.Info("opened session", zap.String("session_id", sessionID.String()))
	return nil
}

// RenameSession sets a session's title. Blank titles are ignored.
func (c *Controller) RenameSession(sessionID id.SessionID, title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.loadLocked()
	meta, ok := s.Items[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	meta.Title = title
	meta.UpdatedAt = c.opts.Now().UnixMilli()
	s.Items[sessionID] = meta
	c.persistLocked()
	c.publishChanged(sessionID)
	return nil
}

// DeleteSession removes a session from every collection. Deleting the
// active session leaves no session active. Unknown ids are a no-op.
func (c *Controller) DeleteSession(sessionID id.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.loadLocked()
	if _, ok := s.Items[sessionID]; !ok {
		return nil
	}

	delete(s.Items, sessionID)
	delete(s.Layouts, sessionID)
	s.Order = without(s.Order, sessionID)
	s.Pinned = without(s.Pinned, sessionID)

	wasActive := false
	if active, ok := s.Active(); ok && active == sessionID {
		s.SetActive("")
		wasActive = true
	}

	c.persistLocked()
	c.publishChanged(sessionID)
	if wasActive {
		c.publishActiveLocked()
	}

	c.logger.Info("deleted session", zap.String("session_id", sessionID.String()), zap.Bool("was_active", wasActive))
	return nil
}

// StartFreshContext leaves the active session and restores either no
// panes or the open providers at their base URLs.
func (c *Controller) StartFreshContext(ctx context.Context, mode string) error {
	if mode == "" {
		mode = FreshDefault
	}
	if mode != FreshDefault && mode != FreshEmpty {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.saveActiveLocked(ReasonSwitch)

	s := c.loadLocked()
	s.SetActive("")
	c.persistLocked()
	c.publishActiveLocked()

	var tabs []types.TabState
	if mode == FreshDefault {
		tabs = clearURLs(c.panes.Snapshot())
		if len(tabs) == 0 {
			tabs = c.defaultTabs()
		}
	}
	c.restoreLayoutLocked(ctx, tabs, nil)

	c.logger.Info("started fresh context", zap.String("mode", mode))
	return nil
}

// SendPrompt broadcasts text to every pane, creating a session titled
// from the text first when none is active. A layout save follows after
// the send-settle delay.
func (c *Controller) SendPrompt(ctx context.Context, text string, submit bool) (SendResult, error) {
	if strings.TrimSpace(text) == "" {
		return SendResult{}, ErrEmptyPrompt
	}

	c.mu.Lock()
	if err := c.checkOpenLocked(); err != nil {
		c.mu.Unlock()
		return SendResult{}, err
	}

	var result SendResult
	s := c.loadLocked()
	if active, ok := s.Active(); ok {
		result.SessionID = active
	} else {
		meta := c.createLocked(ctx, text, false)
		result.SessionID = meta.ID
		result.Created = true
	}
	panes := c.panes.List()
	c.mu.Unlock()

	if c.broadcaster != nil {
		result.Deliveries = c.broadcaster.Broadcast(ctx, panes, text, submit)
	}

	c.settleTimer.Trigger(func() { c.savePending(ReasonPromptSettle) })
	return result, nil
}

// SaveSessionLayout overwrites a session's layout with the live panes
func (c *Controller) SaveSessionLayout(sessionID id.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.loadLocked()
	meta, ok := s.Items[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	live := c.panes.Snapshot()
	s.Layouts[sessionID] = types.SessionLayout{
		Tabs:              live,
		LastURLByProvider: lastURLs(s.Layouts[sessionID].LastURLByProvider, live),
	}
	meta.UpdatedAt = c.opts.Now().UnixMilli()
	s.Items[sessionID] = meta

	c.persistLocked()
	c.metrics.IncLayoutSaves(ReasonExplicit)
	c.publishChanged(sessionID)
	return nil
}

// SetPinned moves a session between the pinned and unpinned lists
func (c *Controller) SetPinned(sessionID id.SessionID, pinned bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.loadLocked()
	meta, ok := s.Items[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if meta.Pinned == pinned {
		return nil
	}

	if pinned {
		s.Order = without(s.Order, sessionID)
		s.Pinned = append(s.Pinned, sessionID)
	} else {
		s.Pinned = without(s.Pinned, sessionID)
		s.Order = append([]id.SessionID{sessionID}, s.Order...)
	}
	meta.Pinned = pinned
	s.Items[sessionID] = meta

	c.persistLocked()
	c.publishChanged(sessionID)
	return nil
}

// ResetSessionTabs rewrites a session to the default providers at their
// base URLs and forgets its last-known URLs. The panes follow when the
// session is active.
func (c *Controller) ResetSessionTabs(ctx context.Context, sessionID id.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.loadLocked()
	meta, ok := s.Items[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	tabs := c.defaultTabs()
	s.Layouts[sessionID] = types.SessionLayout{Tabs: tabs}
	meta.UpdatedAt = c.opts.Now().UnixMilli()
	s.Items[sessionID] = meta

	c.persistLocked()
	c.publishChanged(sessionID)

	if active, ok := s.Active(); ok && active == sessionID {
		c.restoreLayoutLocked(ctx, tabs, nil)
	}
	return nil
}

// OpenProvider opens a pane for provider unless one is already open.
// The active session's last URL for the provider wins over its base URL;
// hostname providers open at https://<host>/.
func (c *Controller) OpenProvider(ctx context.Context, provider types.ProviderID) (types.PaneInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.panes.Find(provider); ok {
		return existing, nil
	}

	var last map[types.ProviderID]string
	s := c.loadLocked()
	if active, ok := s.Active(); ok {
		last = s.Layouts[active].LastURLByProvider
	}

	url := last[provider]
	if url == "" {
		url = c.urls.ResolveURL(provider)
	}
	if !strings.Contains(url, "://") {
		return types.PaneInfo{}, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	info, err := c.panes.OpenTab(ctx, url, pane.DefaultZoom)
	if err != nil {
		return types.PaneInfo{}, err
	}
	c.scheduleSave(ReasonProviderOpen)
	return info, nil
}

// CloseProvider closes every pane of provider. Returns how many closed.
func (c *Controller) CloseProvider(provider types.ProviderID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	closed := 0
	for _, p := range c.panes.List() {
		if p.Provider == provider && c.panes.Close(p.ID) {
			closed++
		}
	}
	if closed > 0 {
		c.scheduleSave(ReasonProviderClose)
	}
	return closed
}

// HandleNavigation forwards a did-navigate notification to the panes and
// records the URL as the active session's last URL for that provider.
// Recording is skipped during startup restore.
func (c *Controller) HandleNavigation(ctx context.Context, paneID id.PaneID, url string) bool {
	// The pane update and the lastUrl write share one critical section so
	// a concurrent session switch cannot retarget the write.
	c.mu.Lock()
	defer c.mu.Unlock()

	info, ok := c.panes.HandleNavigation(ctx, paneID, url)
	if !ok || url == "" || c.initializing.Load() {
		return ok
	}

	s := c.loadLocked()
	active, hasActive := s.Active()
	if !hasActive {
		return true
	}
	layout := s.Layouts[active]
	if layout.LastURLByProvider[info.Provider] == url {
		return true
	}
	if layout.LastURLByProvider == nil {
		layout.LastURLByProvider = map[types.ProviderID]string{}
	}
	layout.LastURLByProvider[info.Provider] = url
	s.Layouts[active] = layout
	c.persistLocked()
	return true
}

// HandleZoom records a pane zoom change and schedules a save
func (c *Controller) HandleZoom(paneID id.PaneID, zoom float64) bool {
	if !c.panes.HandleZoom(paneID, zoom) {
		return false
	}
	c.ScheduleLayoutSave(ReasonZoom)
	return true
}

// ScheduleLayoutSave saves the active layout once the save debounce has
// passed without another request
func (c *Controller) ScheduleLayoutSave(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduleSave(reason)
}

func (c *Controller) scheduleSave(reason string) {
	if c.closed {
		return
	}
	c.saveTimer.Trigger(func() { c.savePending(reason) })
}

// savePending runs a debounced save as its own turn
func (c *Controller) savePending(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.saveActiveLocked(reason)
}

// Flush runs pending debounced saves now. Returns true if any ran.
func (c *Controller) Flush() bool {
	ranSave := c.saveTimer.Flush()
	ranSettle := c.settleTimer.Flush()
	return ranSave || ranSettle
}

// Pending reports whether a debounced save is waiting
func (c *Controller) Pending() bool {
	return c.saveTimer.Pending() || c.settleTimer.Pending()
}

// Close stops the timers and saves the active layout one last time
func (c *Controller) Close() {
	c.saveTimer.Cancel()
	c.settleTimer.Cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.state != nil {
		c.saveActiveLocked(ReasonShutdown)
	}
	c.closed = true
}

func (c *Controller) checkOpenLocked() error {
	if c.closed {
		return errors.New("session controller is closed")
	}
	return nil
}

// loadLocked returns the in-memory state, loading it on first use
func (c *Controller) loadLocked() *types.SessionState {
	if c.state == nil {
		c.state = c.store.Load()
		c.metrics.SetSessions(len(c.state.Items))
	}
	return c.state
}

// persistLocked writes the whole document. Failures are logged by the
// store and otherwise ignored.
func (c *Controller) persistLocked() {
	_ = c.store.Save(c.state)
	c.metrics.SetSessions(len(c.state.Items))
}

func (c *Controller) publishChanged(ids ...id.SessionID) {
	c.publisher.Publish(events.Event{
		Type:    events.TypeSessionsChanged,
		Payload: events.SessionsChanged{IDs: ids},
	})
}

func (c *Controller) publishActiveLocked() {
	payload := events.SessionActive{}
	if active, ok := c.state.Active(); ok {
		payload.ActiveID = &active
	}
	c.publisher.Publish(events.Event{Type: events.TypeSessionActive, Payload: payload})
}

func (c *Controller) defaultTabs() []types.TabState {
	tabs := make([]types.TabState, len(c.opts.DefaultProviders))
	for i, p := range c.opts.DefaultProviders {
		tabs[i] = types.TabState{Provider: p, URL: "", Zoom: pane.DefaultZoom}
	}
	return tabs
}

// clearURLs keeps providers and zoom but forces base-URL resolution
func clearURLs(tabs []types.TabState) []types.TabState {
	out := make([]types.TabState, len(tabs))
	for i, t := range tabs {
		out[i] = types.TabState{Provider: t.Provider, Zoom: t.Zoom}
	}
	return out
}

func without(ids []id.SessionID, target id.SessionID) []id.SessionID {
	out := ids[:0]
	for _, sid := range ids {
		if sid != target {
			out = append(out, sid)
		}
	}
	return out
}

// deriveTitle collapses whitespace in seed and cuts it to MaxTitleRunes,
// falling back to a timestamp
func deriveTitle(seed string, now time.Time) string {
	title := strings.Join(strings.Fields(seed), " ")
	if title == "" {
		return now.Format("Session 2006-01-02 15:04")
	}
	if utf8.RuneCountInString(title) > MaxTitleRunes {
		title = string([]rune(title)[:MaxTitleRunes])
	}
	return title
}
