// Package paths provides the on-disk layout of the shell core's data.
//
// # Directory Structure
//
//	<data dir>/
//	  ├── sessions.json      (session catalog and layouts)
//	  ├── sessions.json.bak  (last-known-good copy)
//	  ├── prompts.json       (prompt templates)
//	  ├── polychat.db        (sqlite backend, when selected)
//	  └── logs/
//
// The data dir defaults to <user config dir>/polychat and can be
// overridden with DATA_DIR or --data-dir.
package paths
