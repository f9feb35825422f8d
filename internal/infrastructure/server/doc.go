// Package server wires the core together and serves it.
//
// NewServer builds, in order: logger, metrics, tracer, storage backend,
// provider registry, shell bridge, pane manager, prompt dispatcher,
// session and window controllers, template store and the WebSocket hub,
// then mounts the REST routes and /ws on a gin engine.
//
// Run restores the last active session before listening and shuts the
// HTTP server down when its context is cancelled. Close performs the
// final layout save and releases storage and the log file.
package server
