// Package prompt stores reusable prompt templates and delivers a typed
// prompt to every open pane.
//
// Templates is a flat key -> text document. Keys are slash-separated
// paths ("code/review") and List accepts doublestar globs ("code/**").
//
// Dispatcher drives the per-site Automation for each pane. Delivery is
// best effort: failures are logged, counted and fed to a breaker per
// provider so a site whose automation keeps failing is skipped until
// its cooldown passes.
package prompt
