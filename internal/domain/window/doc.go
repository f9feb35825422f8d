// Package window turns host window events into pane relayouts.
//
// Resize and move events arrive in bursts while the user drags, so both
// are debounced (200ms and 50ms). Maximize and fullscreen transitions
// relayout immediately. A sidebar width change relayouts immediately and
// once more after the sidebar animation settles. Every settled relayout
// asks the session controller for a debounced layout save.
package window
