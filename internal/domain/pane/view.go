package pane

import (
	"context"

	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
)

// View is one embedded, navigable site surface
type View interface {
	Navigate(ctx context.Context, url string) error
	URL() string
	SetBounds(bounds types.Rect) error
	SetZoom(zoom float64) error
	Destroy() error
}

// ViewFactory creates views; the created view starts loading url at once
type ViewFactory interface {
	CreateView(ctx context.Context, paneID id.PaneID, url string, bounds types.Rect) (View, error)
}

// Styler applies theme and custom CSS side effects to a pane
type Styler interface {
	Apply(ctx context.Context, paneID id.PaneID, provider types.ProviderID) error
}

// Inferer derives a provider from a URL
type Inferer interface {
	Infer(rawURL string) types.ProviderID
}
