package prompt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"go.uber.org/zap"
)

// Automation is the per-site script host that types into a pane
type Automation interface {
	InsertText(ctx context.Context, paneID id.PaneID, text string) error
	Submit(ctx context.Context, paneID id.PaneID) error
}

// BreakerSettings returns breaker settings that open after maxFailures
// consecutive failures and try again after cooldown
func BreakerSettings(maxFailures uint32, cooldown time.Duration) resilience.Settings {
	return resilience.Settings{
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: resilience.TripAfter(maxFailures),
	}
}

// Dispatcher broadcasts prompts through an Automation
type Dispatcher struct {
	automation Automation
	breakers   *resilience.Group

	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher with one breaker per provider
func NewDispatcher(automation Automation, settings resilience.Settings) *Dispatcher {
	d := &Dispatcher{automation: automation, logger: zap.NewNop()}

	onChange := settings.OnStateChange
	settings.OnStateChange = func(name string, from, to resilience.State) {
		d.logger.Info("automation breaker state changed",
			zap.String("provider", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
		if onChange != nil {
			onChange(name, from, to)
		}
	}
	d.breakers = resilience.NewGroup(settings)
	return d
}

// WithMetrics adds metrics tracking
func (d *Dispatcher) WithMetrics(metrics *monitoring.Metrics) *Dispatcher {
	d.metrics = metrics
	return d
}

// WithLogger sets the component logger
func (d *Dispatcher) WithLogger(logger *zap.Logger) *Dispatcher {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// Broadcast delivers text to every pane concurrently and reports one
// delivery per pane, in pane order. Never fails as a whole.
func (d *Dispatcher) Broadcast(ctx context.Context, panes []types.PaneInfo, text string, submit bool) []types.PromptDelivery {
	out := make([]types.PromptDelivery, len(panes))

	var wg sync.WaitGroup
	for i, p := range panes {
		wg.Add(1)
		go func(i int, p types.PaneInfo) {
			defer wg.Done()
			out[i] = d.deliver(ctx, p, text, submit)
		}(i, p)
	}
	wg.Wait()

	return out
}

func (d *Dispatcher) deliver(ctx context.Context, p types.PaneInfo, text string, submit bool) types.PromptDelivery {
	delivery := types.PromptDelivery{PaneID: p.ID, Provider: p.Provider}

	err := d.breakers.Do(string(p.Provider), func() error {
		if err := d.automation.InsertText(ctx, p.ID, text); err != nil {
			return fmt.Errorf("insert text: %w", err)
		}
		if !submit {
			return nil
		}
		if err := d.automation.Submit(ctx, p.ID); err != nil {
			return fmt.Errorf("submit: %w", err)
		}
		return nil
	})

	switch {
	case err == nil:
		delivery.Status = types.DeliveryOK
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		delivery.Status = types.DeliverySkipped
		delivery.Error = err.Error()
	default:
		delivery.Status = types.DeliveryFailed
		delivery.Error = err.Error()
		d.logger.Warn("prompt delivery failed",
			zap.String("pane_id", p.ID.String()),
			zap.String("provider", string(p.Provider)),
			zap.Error(err),
		)
	}

	d.metrics.RecordPromptDispatch(string(p.Provider), delivery.Status)
	return delivery
}

// BreakerStates returns the breaker state of every provider seen so far
func (d *Dispatcher) BreakerStates() map[string]resilience.State {
	return d.breakers.States()
}

// ResetBreaker closes a provider's breaker
func (d *Dispatcher) ResetBreaker(provider types.ProviderID) {
	d.breakers.Get(string(provider)).Reset()
}
