package types

import "github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"

// Delivery statuses
const (
	DeliveryOK      = "ok"
	DeliveryFailed  = "failed"
	DeliverySkipped = "skipped"
)

// PromptDelivery is the best-effort outcome of sending a prompt to one pane
type PromptDelivery struct {
	PaneID   id.PaneID  `json:"paneId"`
	Provider ProviderID `json:"provider"`
	Status   string     `json:"status"`
	Error    string     `json:"error,omitempty"`
}

// Template is one saved prompt
type Template struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}
