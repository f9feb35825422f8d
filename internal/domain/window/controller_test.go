package window_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/events"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/pane"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/pane/panetest"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/provider"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/window"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSaver struct {
	mu      sync.Mutex
	reasons []string
}

func (s *countingSaver) ScheduleLayoutSave(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reasons = append(s.reasons, reason)
}

func (s *countingSaver) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reasons)
}

type dockRecorder struct {
	mu    sync.Mutex
	docks []types.Rect
	err   error
}

func (d *dockRecorder) Dock(_ context.Context, r types.Rect) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.docks = append(d.docks, r)
	return d.err
}

type fixture struct {
	panes    *pane.Manager
	saver    *countingSaver
	recorder *events.Recorder
	window   *window.Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{saver: &countingSaver{}, recorder: &events.Recorder{}}
	f.panes = pane.NewManager(&panetest.Factory{}, provider.NewRegistry()).WithGeometry(pane.Geometry{
		Window:       types.Size{Width: 1000, Height: 700},
		Chrome:       types.Chrome{PromptBarHeight: 100},
		HeaderHeight: 30,
	})
	f.window = window.NewController(f.panes, f.saver, window.Options{
		ResizeDebounce: time.Hour,
		SidebarSettle:  time.Hour,
		MoveDebounce:   time.Hour,
	}).WithPublisher(f.recorder)
	t.Cleanup(f.window.Close)

	ctx := context.Background()
	for _, url := range []string{"https://chatgpt.com/", "https://claude.ai/new"} {
		_, err := f.panes.Open(ctx, url)
		require.NoError(t, err)
	}
	return f
}

func widths(m *pane.Manager) []int {
	var out []int
	for _, p := range m.List() {
		out = append(out, p.Bounds.Width)
	}
	return out
}

func TestResizeIsDebounced(t *testing.T) {
	f := newFixture(t)

	f.window.Resize(800, 600)
	f.window.Resize(900, 600)
	f.window.Resize(1200, 600)

	assert.Equal(t, []int{500, 500}, widths(f.panes), "no relayout before settle")
	assert.Empty(t, f.recorder.OfType(events.TypeWindowState))

	f.window.Flush()

	assert.Equal(t, []int{600, 600}, widths(f.panes))
	assert.Len(t, f.recorder.OfType(events.TypeWindowState), 1)
	assert.Equal(t, []string{window.ReasonLayoutSettle}, f.saver.reasons)
}

func TestResizeFiresAfterDelay(t *testing.T) {
	f := &fixture{saver: &countingSaver{}}
	f.panes = pane.NewManager(&panetest.Factory{}, provider.NewRegistry())
	f.window = window.NewController(f.panes, f.saver, window.Options{ResizeDebounce: 10 * time.Millisecond})
	defer f.window.Close()

	f.window.Resize(640, 480)

	assert.Eventually(t, func() bool { return f.saver.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, types.Size{Width: 640, Height: 480}, f.panes.Geometry().Window)
}

func TestTransitionsRelayoutImmediately(t *testing.T) {
	tests := []struct {
		name       string
		apply      func(c *window.Controller)
		maximized  bool
		fullscreen bool
	}{
		{"maximize", func(c *window.Controller) { c.Maximize(1600, 900) }, true, false},
		{"unmaximize", func(c *window.Controller) { c.Unmaximize(1600, 900) }, false, false},
		{"enter fullscreen", func(c *window.Controller) { c.EnterFullscreen(1600, 900) }, false, true},
		{"leave fullscreen", func(c *window.Controller) { c.LeaveFullscreen(1600, 900) }, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			tt.apply(f.window)

			assert.Equal(t, []int{800, 800}, widths(f.panes))
			state := f.window.State()
			assert.Equal(t, tt.maximized, state.Maximized)
			assert.Equal(t, tt.fullscreen, state.Fullscreen)
			assert.Equal(t, 1, f.saver.count())

			last, ok := f.recorder.Last(events.TypeWindowState)
			require.True(t, ok)
			assert.Equal(t, state, last.Payload)
		})
	}
}

func TestTransitionCancelsPendingResize(t *testing.T) {
	f := newFixture(t)

	f.window.Resize(400, 400)
	f.window.Maximize(1600, 900)
	f.window.Flush()

	assert.Equal(t, []int{800, 800}, widths(f.panes))
	assert.Equal(t, 1, f.saver.count())
}

func TestReportChromeSidebarSettles(t *testing.T) {
	f := newFixture(t)

	f.window.ReportChrome(types.Chrome{PromptBarHeight: 100, SidebarWidth: 200})

	assert.Equal(t, []int{400, 400}, widths(f.panes), "immediate relayout")
	assert.Zero(t, f.saver.count())

	f.window.Flush()
	assert.Equal(t, 1, f.saver.count(), "settled relayout schedules a save")
	assert.Len(t, f.recorder.OfType(events.TypeWindowState), 2)
}

func TestReportChromeWithoutSidebarChange(t *testing.T) {
	f := newFixture(t)

	f.window.ReportChrome(types.Chrome{PromptBarHeight: 200, RightDockWidth: 100})
	f.window.Flush()

	assert.Equal(t, []int{450, 450}, widths(f.panes))
	assert.Equal(t, 470, f.panes.List()[0].Bounds.Height)
	assert.Zero(t, f.saver.count(), "no settle without a sidebar change")

	f.window.ReportChrome(types.Chrome{PromptBarHeight: 200, RightDockWidth: 100})
	assert.Len(t, f.recorder.OfType(events.TypeWindowState), 1, "unchanged chrome ignored")
}

func TestMoveDocksCompanion(t *testing.T) {
	f := newFixture(t)
	dock := &dockRecorder{err: errors.New("panel closed")}
	f.window.WithCompanion(dock)

	f.window.Move(10, 20)
	f.window.Move(30, 40)
	f.window.Flush()

	require.Len(t, dock.docks, 1)
	assert.Equal(t, types.Rect{X: 30, Y: 40, Width: 1000, Height: 700}, dock.docks[0])
	assert.Zero(t, f.saver.count(), "moves never relayout")
	assert.Equal(t, []int{500, 500}, widths(f.panes))
}
