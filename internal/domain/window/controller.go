package window

import (
	"context"
	"sync"
	"time"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/events"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/pane"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/debounce"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"go.uber.org/zap"
)

// ReasonLayoutSettle is the save reason passed to the LayoutSaver
const ReasonLayoutSettle = "layout-settle"

// Panes is the part of the pane manager the window drives
type Panes interface {
	Relayout(g pane.Geometry) []types.ViewLayout
	Geometry() pane.Geometry
}

// LayoutSaver schedules a debounced layout save
type LayoutSaver interface {
	ScheduleLayoutSave(reason string)
}

// Companion is an optional panel docked beside the window
type Companion interface {
	Dock(ctx context.Context, window types.Rect) error
}

// Options holds the debounce delays
type Options struct {
	ResizeDebounce time.Duration
	SidebarSettle  time.Duration
	MoveDebounce   time.Duration
	HeaderHeight   int
}

// DefaultOptions returns the stock delays
func DefaultOptions() Options {
	return Options{
		ResizeDebounce: 200 * time.Millisecond,
		SidebarSettle:  300 * time.Millisecond,
		MoveDebounce:   50 * time.Millisecond,
		HeaderHeight:   32,
	}
}

// Controller tracks window geometry and relayouts panes
type Controller struct {
	mu    sync.Mutex
	state types.WindowState

	panes     Panes
	saver     LayoutSaver
	companion Companion
	publisher events.Publisher
	opts      Options

	resize  *debounce.Timer
	sidebar *debounce.Timer
	move    *debounce.Timer

	logger *zap.Logger
}

// NewController creates a window controller starting from the pane
// manager's current geometry
func NewController(panes Panes, saver LayoutSaver, opts Options) *Controller {
	defaults := DefaultOptions()
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = defaults.ResizeDebounce
	}
	if opts.SidebarSettle <= 0 {
		opts.SidebarSettle = defaults.SidebarSettle
	}
	if opts.MoveDebounce <= 0 {
		opts.MoveDebounce = defaults.MoveDebounce
	}

	g := panes.Geometry()
	if opts.HeaderHeight <= 0 {
		opts.HeaderHeight = g.HeaderHeight
	}

	return &Controller{
		state:     types.WindowState{Size: g.Window, Chrome: g.Chrome},
		panes:     panes,
		saver:     saver,
		publisher: events.Nop{},
		opts:      opts,
		resize:    debounce.New("resize", opts.ResizeDebounce),
		sidebar:   debounce.New("sidebar-settle", opts.SidebarSettle),
		move:      debounce.New("move", opts.MoveDebounce),
		logger:    zap.NewNop(),
	}
}

// WithCompanion sets the panel re-docked on window moves
func (c *Controller) WithCompanion(companion Companion) *Controller {
	c.companion = companion
	return c
}

// WithPublisher sets where window.state events go
func (c *Controller) WithPublisher(p events.Publisher) *Controller {
	c.publisher = events.OrNop(p)
	return c
}

// WithLogger sets the component logger
func (c *Controller) WithLogger(logger *zap.Logger) *Controller {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// State returns the last known window state
func (c *Controller) State() types.WindowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Resize records a new content size and relayouts once resizing stops
func (c *Controller) Resize(width, height int) {
	c.mu.Lock()
	c.state.Size = types.Size{Width: width, Height: height}
	c.mu.Unlock()

	c.resize.Trigger(func() { c.settle("resize") })
}

// Maximize relayouts for the maximized size
func (c *Controller) Maximize(width, height int) {
	c.transition(width, height, func(s *types.WindowState) { s.Maximized = true })
}

// Unmaximize relayouts for the restored size
func (c *Controller) Unmaximize(width, height int) {
	c.transition(width, height, func(s *types.WindowState) { s.Maximized = false })
}

// EnterFullscreen relayouts for the fullscreen size
func (c *Controller) EnterFullscreen(width, height int) {
	c.transition(width, height, func(s *types.WindowState) { s.Fullscreen = true })
}

// LeaveFullscreen relayouts for the windowed size
func (c *Controller) LeaveFullscreen(width, height int) {
	c.transition(width, height, func(s *types.WindowState) { s.Fullscreen = false })
}

func (c *Controller) transition(width, height int, apply func(*types.WindowState)) {
	c.resize.Cancel()

	c.mu.Lock()
	if width > 0 && height > 0 {
		c.state.Size = types.Size{Width: width, Height: height}
	}
	apply(&c.state)
	c.mu.Unlock()

	c.settle("transition")
}

// Move records the window position and re-docks the companion panel
// once the window stops moving. Panes are not relaid out.
func (c *Controller) Move(x, y int) {
	c.mu.Lock()
	c.state.Position = types.Point{X: x, Y: y}
	c.mu.Unlock()

	c.move.Trigger(c.dock)
}

func (c *Controller) dock() {
	if c.companion == nil {
		return
	}
	state := c.State()
	bounds := types.Rect{
		X:      state.Position.X,
		Y:      state.Position.Y,
		Width:  state.Size.Width,
		Height: state.Size.Height,
	}
	if err := c.companion.Dock(context.Background(), bounds); err != nil {
		c.logger.Warn("failed to dock companion", zap.Error(err))
	}
}

// ReportChrome records the space taken by the prompt bar, sidebar and
// right dock. A sidebar width change relayouts now and again after the
// sidebar settle delay.
func (c *Controller) ReportChrome(chrome types.Chrome) {
	c.mu.Lock()
	if chrome.PromptBarHeight < 0 {
		chrome.PromptBarHeight = 0
	}
	if chrome.SidebarWidth < 0 {
		chrome.SidebarWidth = 0
	}
	if chrome.RightDockWidth < 0 {
		chrome.RightDockWidth = 0
	}
	sidebarChanged := chrome.SidebarWidth != c.state.Chrome.SidebarWidth
	unchanged := chrome == c.state.Chrome
	c.state.Chrome = chrome
	c.mu.Unlock()

	if unchanged {
		return
	}

	c.relayout()
	if sidebarChanged {
		c.sidebar.Trigger(func() { c.settle("sidebar") })
	}
}

// Flush runs pending debounced work now
func (c *Controller) Flush() {
	c.resize.Flush()
	c.sidebar.Flush()
	c.move.Flush()
}

// Close drops pending debounced work
func (c *Controller) Close() {
	c.resize.Cancel()
	c.sidebar.Cancel()
	c.move.Cancel()
}

// settle relayouts and asks for a layout save
func (c *Controller) settle(cause string) {
	views := c.relayout()
	if c.saver != nil {
		c.saver.ScheduleLayoutSave(ReasonLayoutSettle)
	}
	c.logger.Debug("window settled", zap.String("cause", cause), zap.Int("panes", len(views)))
}

func (c *Controller) relayout() []types.ViewLayout {
	state := c.State()
	views := c.panes.Relayout(pane.Geometry{
		Window:       state.Size,
		Chrome:       state.Chrome,
		HeaderHeight: c.opts.HeaderHeight,
	})
	c.publisher.Publish(events.Event{Type: events.TypeWindowState, Payload: state})
	return views
}
