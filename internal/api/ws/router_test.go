package ws

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/session"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	mu        sync.Mutex
	navigated map[id.PaneID]string
	zoomed    map[id.PaneID]float64
	prompts   []string
	submits   []bool
	sendErr   error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{navigated: map[id.PaneID]string{}, zoomed: map[id.PaneID]float64{}}
}

func (f *fakeSessions) HandleNavigation(_ context.Context, paneID id.PaneID, url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if paneID == "pane_missing" {
		return false
	}
	f.navigated[paneID] = url
	return true
}

func (f *fakeSessions) HandleZoom(paneID id.PaneID, zoom float64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zoomed[paneID] = zoom
	return zoom > 0
}

func (f *fakeSessions) SendPrompt(_ context.Context, text string, submit bool) (session.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return session.SendResult{}, f.sendErr
	}
	f.prompts = append(f.prompts, text)
	f.submits = append(f.submits, submit)
	return session.SendResult{SessionID: "sess_1", Created: true}, nil
}

type fakeWindow struct {
	mu     sync.Mutex
	calls  []string
	size   types.Size
	pos    types.Point
	chrome types.Chrome
}

func (w *fakeWindow) record(name string, width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, name)
	w.size = types.Size{Width: width, Height: height}
}

func (w *fakeWindow) Resize(width, height int)          { w.record("resize", width, height) }
func (w *fakeWindow) Maximize(width, height int)        { w.record("maximize", width, height) }
func (w *fakeWindow) Unmaximize(width, height int)      { w.record("unmaximize", width, height) }
func (w *fakeWindow) EnterFullscreen(width, height int) { w.record("fullscreen.enter", width, height) }
func (w *fakeWindow) LeaveFullscreen(width, height int) { w.record("fullscreen.leave", width, height) }

func (w *fakeWindow) Move(x, y int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, "move")
	w.pos = types.Point{X: x, Y: y}
}

func (w *fakeWindow) ReportChrome(chrome types.Chrome) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, "chrome")
	w.chrome = chrome
}

func message(msgType, msgID, payload string) types.WSMessage {
	msg := types.WSMessage{Type: msgType, ID: msgID}
	if payload != "" {
		msg.Payload = []byte(payload)
	}
	return msg
}

func TestRouterWindowMessages(t *testing.T) {
	tests := []struct {
		msgType string
		call    string
	}{
		{MsgWindowResize, "resize"},
		{MsgWindowMaximize, "maximize"},
		{MsgWindowUnmaximize, "unmaximize"},
		{MsgFullscreenEnter, "fullscreen.enter"},
		{MsgFullscreenLeave, "fullscreen.leave"},
	}

	for _, tt := range tests {
		t.Run(tt.msgType, func(t *testing.T) {
			window := &fakeWindow{}
			r := NewRouter(newFakeSessions(), window)

			_, replied := r.Handle(context.Background(), nil, message(tt.msgType, "", `{"width":1440,"height":900}`))

			assert.False(t, replied, "no ack without an id")
			assert.Equal(t, []string{tt.call}, window.calls)
			assert.Equal(t, types.Size{Width: 1440, Height: 900}, window.size)
		})
	}
}

func TestRouterMoveAndChrome(t *testing.T) {
	window := &fakeWindow{}
	r := NewRouter(newFakeSessions(), window)
	ctx := context.Background()

	r.Handle(ctx, nil, message(MsgWindowMove, "", `{"x":5,"y":7}`))
	reply, replied := r.Handle(ctx, nil, message(MsgChrome, "c1", `{"promptBarHeight":120,"sidebarWidth":60,"rightDockWidth":0}`))

	assert.Equal(t, types.Point{X: 5, Y: 7}, window.pos)
	assert.Equal(t, types.Chrome{PromptBarHeight: 120, SidebarWidth: 60}, window.chrome)
	require.True(t, replied)
	assert.Equal(t, Outbound{Type: "chrome.ok", ID: "c1"}, reply)
}

func TestRouterNavigation(t *testing.T) {
	sessions := newFakeSessions()
	r := NewRouter(sessions, &fakeWindow{})
	ctx := context.Background()

	_, replied := r.Handle(ctx, nil, message(MsgViewNavigated, "", `{"paneId":"pane_1","url":"https://claude.ai/chat/9"}`))
	assert.False(t, replied)
	assert.Equal(t, "https://claude.ai/chat/9", sessions.navigated["pane_1"])

	reply, replied := r.Handle(ctx, nil, message(MsgViewNavigated, "n2", `{"paneId":"pane_missing","url":"https://x.test/"}`))
	require.True(t, replied)
	assert.Equal(t, "error", reply.Type)
	assert.Equal(t, "n2", reply.ID)

	reply, _ = r.Handle(ctx, nil, message(MsgViewNavigated, "", `{"paneId":"../etc","url":"https://x.test/"}`))
	assert.Equal(t, "error", reply.Type)
}

func TestRouterZoom(t *testing.T) {
	sessions := newFakeSessions()
	r := NewRouter(sessions, &fakeWindow{})

	_, replied := r.Handle(context.Background(), nil, message(MsgViewZoomed, "", `{"paneId":"pane_1","zoom":1.5}`))
	assert.False(t, replied)
	assert.Equal(t, 1.5, sessions.zoomed["pane_1"])
}

func TestRouterPromptSend(t *testing.T) {
	sessions := newFakeSessions()
	r := NewRouter(sessions, &fakeWindow{})
	ctx := context.Background()

	reply, replied := r.Handle(ctx, nil, message(MsgPromptSend, "p1", `{"text":"compare these"}`))
	require.True(t, replied)
	assert.Equal(t, "prompt.send.ok", reply.Type)
	assert.Equal(t, session.SendResult{SessionID: "sess_1", Created: true}, reply.Payload)
	assert.Equal(t, []bool{true}, sessions.submits, "submit defaults to true")

	r.Handle(ctx, nil, message(MsgPromptSend, "", `{"text":"draft","submit":false}`))
	assert.Equal(t, []bool{true, false}, sessions.submits)

	reply, _ = r.Handle(ctx, nil, message(MsgPromptSend, "", `{"text":"   "}`))
	assert.Equal(t, "error", reply.Type)

	sessions.sendErr = errors.New("closed")
	reply, _ = r.Handle(ctx, nil, message(MsgPromptSend, "", `{"text":"late"}`))
	assert.Equal(t, "closed", reply.Error)
}

func TestRouterErrors(t *testing.T) {
	r := NewRouter(newFakeSessions(), &fakeWindow{})
	ctx := context.Background()

	tests := []struct {
		name string
		msg  types.WSMessage
	}{
		{"unknown type", message("teleport", "", `{}`)},
		{"missing payload", message(MsgWindowResize, "", "")},
		{"malformed payload", message(MsgWindowResize, "", `{"width":"wide"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, replied := r.Handle(ctx, nil, tt.msg)
			require.True(t, replied)
			assert.Equal(t, "error", reply.Type)
			assert.NotEmpty(t, reply.Error)
		})
	}
}

func TestRouterPing(t *testing.T) {
	r := NewRouter(newFakeSessions(), &fakeWindow{})

	reply, replied := r.Handle(context.Background(), nil, message(MsgPing, "k", ""))
	require.True(t, replied)
	assert.Equal(t, Outbound{Type: "pong", ID: "k"}, reply)
}
