package ws

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/session"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/utils"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Inbound message types
const (
	MsgViewNavigated    = "view.navigated"
	MsgViewZoomed       = "view.zoomed"
	MsgWindowResize     = "window.resize"
	MsgWindowMaximize   = "window.maximize"
	MsgWindowUnmaximize = "window.unmaximize"
	MsgFullscreenEnter  = "window.fullscreen.enter"
	MsgFullscreenLeave  = "window.fullscreen.leave"
	MsgWindowMove       = "window.move"
	MsgChrome           = "chrome"
	MsgPromptSend       = "prompt.send"
	MsgPing             = "ping"
)

var errUnknownPane = errors.New("unknown pane")

// Sessions is the session controller as seen from the socket
type Sessions interface {
	HandleNavigation(ctx context.Context, paneID id.PaneID, url string) bool
	HandleZoom(paneID id.PaneID, zoom float64) bool
	SendPrompt(ctx context.Context, text string, submit bool) (session.SendResult, error)
}

// Window is the host window controller as seen from the socket
type Window interface {
	Resize(width, height int)
	Maximize(width, height int)
	Unmaximize(width, height int)
	EnterFullscreen(width, height int)
	LeaveFullscreen(width, height int)
	Move(x, y int)
	ReportChrome(chrome types.Chrome)
}

type navigatedPayload struct {
	PaneID id.PaneID `json:"paneId"`
	URL    string    `json:"url"`
}

type zoomedPayload struct {
	PaneID id.PaneID `json:"paneId"`
	Zoom   float64   `json:"zoom"`
}

// Router dispatches inbound messages. Handlers run on the reading
// connection's goroutine.
type Router struct {
	handlers map[string]func(ctx context.Context, payload []byte) (any, error)
	logger   *zap.Logger
}

// NewRouter wires every inbound message type
func NewRouter(sessions Sessions, window Window) *Router {
	r := &Router{logger: zap.NewNop()}

	windowSize := func(apply func(w, h int)) func(context.Context, []byte) (any, error) {
		return func(_ context.Context, payload []byte) (any, error) {
			var size types.Size
			if err := decode(payload, &size); err != nil {
				return nil, err
			}
			apply(size.Width, size.Height)
			return nil, nil
		}
	}

	r.handlers = map[string]func(context.Context, []byte) (any, error){
		MsgViewNavigated: func(ctx context.Context, payload []byte) (any, error) {
			var p navigatedPayload
			if err := decode(payload, &p); err != nil {
				return nil, err
			}
			if err := utils.ValidateID(string(p.PaneID), "paneId", true); err != nil {
				return nil, err
			}
			if !sessions.HandleNavigation(ctx, p.PaneID, p.URL) {
				return nil, fmt.Errorf("%w: %s", errUnknownPane, p.PaneID)
			}
			return nil, nil
		},
		MsgViewZoomed: func(_ context.Context, payload []byte) (any, error) {
			var p zoomedPayload
			if err := decode(payload, &p); err != nil {
				return nil, err
			}
			if !sessions.HandleZoom(p.PaneID, p.Zoom) {
				return nil, fmt.Errorf("%w: %s", errUnknownPane, p.PaneID)
			}
			return nil, nil
		},
		MsgWindowResize:     windowSize(window.Resize),
		MsgWindowMaximize:   windowSize(window.Maximize),
		MsgWindowUnmaximize: windowSize(window.Unmaximize),
		MsgFullscreenEnter:  windowSize(window.EnterFullscreen),
		MsgFullscreenLeave:  windowSize(window.LeaveFullscreen),
		MsgWindowMove: func(_ context.Context, payload []byte) (any, error) {
			var p types.Point
			if err := decode(payload, &p); err != nil {
				return nil, err
			}
			window.Move(p.X, p.Y)
			return nil, nil
		},
		MsgChrome: func(_ context.Context, payload []byte) (any, error) {
			var chrome types.Chrome
			if err := decode(payload, &chrome); err != nil {
				return nil, err
			}
			window.ReportChrome(chrome)
			return nil, nil
		},
		MsgPromptSend: func(ctx context.Context, payload []byte) (any, error) {
			var p types.PromptRequest
			if err := decode(payload, &p); err != nil {
				return nil, err
			}
			if err := utils.ValidatePrompt(p.Text); err != nil {
				return nil, err
			}
			submit := p.Submit == nil || *p.Submit
			return sessions.SendPrompt(ctx, p.Text, submit)
		},
	}
	return r
}

// Handle runs one message. Returns the reply to send back, if any:
// errors always get one, successes only when the message carried an id
// or produced a result.
func (r *Router) Handle(ctx context.Context, tracer *tracing.Tracer, msg types.WSMessage) (Outbound, bool) {
	if msg.Type == MsgPing {
		return Outbound{Type: "pong", ID: msg.ID}, true
	}

	handler, ok := r.handlers[msg.Type]
	if !ok {
		return Outbound{Type: "error", ID: msg.ID, Error: "unknown message type: " + msg.Type}, true
	}

	var result any
	err := tracer.Trace(ctx, "ws "+msg.Type, func(ctx context.Context) error {
		var err error
		result, err = handler(ctx, msg.Payload)
		return err
	})
	if err != nil {
		r.logger.Warn("websocket message failed", zap.String("type", msg.Type), zap.Error(err))
		return Outbound{Type: "error", ID: msg.ID, Error: err.Error()}, true
	}

	if msg.ID == "" && result == nil {
		return Outbound{}, false
	}
	return Outbound{Type: msg.Type + ".ok", ID: msg.ID, Payload: result}, true
}

func decode(payload []byte, v any) error {
	if len(payload) == 0 {
		return errors.New("missing payload")
	}
	if err := sonic.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
