package prompt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/id"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAutomation struct {
	mu        sync.Mutex
	inserted  map[id.PaneID]string
	submitted map[id.PaneID]int
	failing   map[id.PaneID]error
}

func newFakeAutomation() *fakeAutomation {
	return &fakeAutomation{
		inserted:  map[id.PaneID]string{},
		submitted: map[id.PaneID]int{},
		failing:   map[id.PaneID]error{},
	}
}

func (a *fakeAutomation) InsertText(_ context.Context, paneID id.PaneID, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.failing[paneID]; err != nil {
		return err
	}
	a.inserted[paneID] = text
	return nil
}

func (a *fakeAutomation) Submit(_ context.Context, paneID id.PaneID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.submitted[paneID]++
	return nil
}

var testPanes = []types.PaneInfo{
	{ID: "pane_a", Provider: types.ProviderChatGPT},
	{ID: "pane_b", Provider: types.ProviderClaude},
	{ID: "pane_c", Provider: types.ProviderGemini},
}

func TestBroadcastDeliversToEveryPane(t *testing.T) {
	automation := newFakeAutomation()
	metrics := monitoring.NewMetrics()
	d := NewDispatcher(automation, BreakerSettings(3, time.Minute)).WithMetrics(metrics)

	got := d.Broadcast(context.Background(), testPanes, "hello", true)

	require.Len(t, got, 3)
	for i, delivery := range got {
		assert.Equal(t, testPanes[i].ID, delivery.PaneID)
		assert.Equal(t, types.DeliveryOK, delivery.Status)
		assert.Equal(t, "hello", automation.inserted[delivery.PaneID])
		assert.Equal(t, 1, automation.submitted[delivery.PaneID])
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PromptDispatches.WithLabelValues("claude", types.DeliveryOK)))
}

func TestBroadcastWithoutSubmit(t *testing.T) {
	automation := newFakeAutomation()
	d := NewDispatcher(automation, BreakerSettings(3, time.Minute))

	d.Broadcast(context.Background(), testPanes[:1], "draft", false)

	assert.Equal(t, "draft", automation.inserted["pane_a"])
	assert.Zero(t, automation.submitted["pane_a"])
}

func TestBroadcastFailureIsIsolated(t *testing.T) {
	automation := newFakeAutomation()
	automation.failing["pane_b"] = errors.New("composer not found")
	d := NewDispatcher(automation, BreakerSettings(3, time.Minute))

	got := d.Broadcast(context.Background(), testPanes, "hello", true)

	assert.Equal(t, types.DeliveryOK, got[0].Status)
	assert.Equal(t, types.DeliveryFailed, got[1].Status)
	assert.Contains(t, got[1].Error, "composer not found")
	assert.Equal(t, types.DeliveryOK, got[2].Status)
}

func TestBreakerSkipsFailingProvider(t *testing.T) {
	automation := newFakeAutomation()
	automation.failing["pane_b"] = errors.New("timeout")
	metrics := monitoring.NewMetrics()
	d := NewDispatcher(automation, BreakerSettings(2, time.Hour)).WithMetrics(metrics)
	ctx := context.Background()
	claude := testPanes[1:2]

	d.Broadcast(ctx, claude, "one", true)
	d.Broadcast(ctx, claude, "two", true)
	got := d.Broadcast(ctx, claude, "three", true)

	assert.Equal(t, types.DeliverySkipped, got[0].Status)
	assert.Equal(t, resilience.StateOpen, d.BreakerStates()["claude"])
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.PromptDispatches.WithLabelValues("claude", types.DeliveryFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PromptDispatches.WithLabelValues("claude", types.DeliverySkipped)))

	delete(automation.failing, "pane_b")
	d.ResetBreaker(types.ProviderClaude)
	got = d.Broadcast(ctx, claude, "four", true)
	assert.Equal(t, types.DeliveryOK, got[0].Status)
}

func TestBroadcastNoPanes(t *testing.T) {
	d := NewDispatcher(newFakeAutomation(), BreakerSettings(1, time.Second))
	assert.Empty(t, d.Broadcast(context.Background(), nil, "hello", true))
}
