// Package pane owns the live, ordered list of embedded chat-site panes.
//
// The Manager is the only component that creates or destroys views. Pane
// order is the left-to-right column order. Every pane carries a stable
// pane_<ULID> identity assigned at creation; its provider is derived from
// the current URL and recomputed on every navigation.
//
// Geometry: panes share the area right of the sidebar, left of the right
// dock, below the header strip and above the prompt bar. Each gets
// availableWidth/n columns and the last column absorbs the remainder. A
// header rect of the same width sits directly above each pane.
package pane
