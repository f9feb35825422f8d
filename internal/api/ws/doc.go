// Package ws is the WebSocket surface between the core and the shell.
//
// One Handler serves every connection. Outbound, it fans out domain
// events (it is an events.Publisher) and view/automation commands (it is
// a bridge.Sender) to all connected clients. Inbound, it routes shell
// notifications to the session and window controllers.
//
// Message Types (Shell → Core):
//   - view.navigated: {paneId, url} a pane finished a navigation
//   - view.zoomed: {paneId, zoom} a pane's zoom changed
//   - window.resize: {width, height}
//   - window.maximize, window.unmaximize: {width, height}
//   - window.fullscreen.enter, window.fullscreen.leave: {width, height}
//   - window.move: {x, y}
//   - chrome: {promptBarHeight, sidebarWidth, rightDockWidth}
//   - prompt.send: {text, submit?}
//   - ping: keep-alive
//
// Message Types (Core → Shell):
//   - sessions.changed, session.active, panes.layout, window.state
//   - view.*, style.apply, automation.*
//   - <type>.ok: acknowledgement of a message that carried an id
//   - pong, error
//
// Example Usage:
//
//	handler := ws.NewHandler(controller, windows).WithLogger(log)
//	router.GET("/ws", handler.HandleConnection)
package ws
