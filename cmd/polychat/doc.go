// Command polychat runs the PolyChat core: the session and pane service
// behind the multi-pane chat shell.
//
// The shell connects to /ws for view commands and notifications and
// calls the REST API for everything the sidebar and prompt bar do.
//
// Usage:
//
//	# Start the core (default command)
//	polychat serve --port 8765
//
//	# Development mode (colored logs, debug level)
//	polychat serve --debug
//
//	# Offline catalog edits
//	polychat sessions list
//	polychat sessions rename <id> "New title"
//	polychat sessions delete <id>
//
// Configuration comes from environment variables (see internal/infrastructure/config);
// flags override them.
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
