// Package storage persists whole JSON documents by name.
//
// A document is loaded wholesale and rewritten wholesale. Both backends
// keep the previous good body next to the current one and fall back to it
// when the current body is missing or not valid JSON:
//
//   - file: <root>/<name>.json plus <name>.json.bak, written through a
//     temp file, fsync and rename
//   - sqlite: one row per document in a documents table (mattn/go-sqlite3)
package storage
