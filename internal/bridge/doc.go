// Package bridge implements the embedded-view, styling and automation
// boundaries as commands sent to the connected shell.
//
// The shell owns the real web views. The core only tells it what to do:
//
//	view.create        {paneId, url, bounds}
//	view.bounds        {paneId, bounds}
//	view.navigate      {paneId, url}
//	view.zoom          {paneId, zoom}
//	view.destroy       {paneId}
//	style.apply        {paneId, provider}
//	automation.insert  {paneId, text}
//	automation.submit  {paneId}
//	companion.dock     {x, y, width, height}
//
// Every command carries a uuid so the shell can correlate its logs.
// Commands are fire-and-forget; navigation and zoom changes come back
// as inbound view.navigated and view.zoomed messages.
package bridge
