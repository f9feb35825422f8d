package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var errFailed = errors.New("failed")

func run(b *Breaker, success bool) error {
	return b.Do(func() error {
		if success {
			return nil
		}
		return errFailed
	})
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		requests      []bool // true = success, false = failure
		expectedState State
	}{
		{"stays closed on successes", []bool{true, true, true}, StateClosed},
		{"stays closed below threshold", []bool{false, false, true, false}, StateClosed},
		{"opens after consecutive failures", []bool{false, false, false}, StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			breaker := New("chatgpt", Settings{
				Timeout:     time.Minute,
				ReadyToTrip: TripAfter(3),
				Now:         clock.Now,
			})

			for _, success := range tt.requests {
				_ = run(breaker, success)
			}

			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerFailsFastWhenOpen(t *testing.T) {
	clock := newFakeClock()
	breaker := New("gemini", Settings{ReadyToTrip: TripAfter(1), Now: clock.Now})

	require.ErrorIs(t, run(breaker, false), errFailed)
	assert.False(t, breaker.Allow())

	called := false
	err := breaker.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	clock := newFakeClock()
	var transitions []string
	breaker := New("claude", Settings{
		Timeout:     30 * time.Second,
		ReadyToTrip: TripAfter(2),
		Now:         clock.Now,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = run(breaker, false)
	_ = run(breaker, false)
	require.Equal(t, StateOpen, breaker.State())

	clock.Advance(31 * time.Second)
	assert.Equal(t, StateHalfOpen, breaker.State())
	assert.True(t, breaker.Allow())

	require.NoError(t, run(breaker, true))
	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := newFakeClock()
	breaker := New("grok", Settings{Timeout: time.Second, ReadyToTrip: TripAfter(1), Now: clock.Now})

	_ = run(breaker, false)
	clock.Advance(2 * time.Second)
	require.Equal(t, StateHalfOpen, breaker.State())

	_ = run(breaker, false)
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerIntervalClearsCounts(t *testing.T) {
	clock := newFakeClock()
	breaker := New("perplexity", Settings{Interval: time.Minute, ReadyToTrip: TripAfter(3), Now: clock.Now})

	_ = run(breaker, false)
	_ = run(breaker, false)
	assert.Equal(t, uint32(2), breaker.Counts().ConsecutiveFailures)

	clock.Advance(2 * time.Minute)
	_ = run(breaker, false)
	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, uint32(1), breaker.Counts().ConsecutiveFailures)
}

func TestBreakerReset(t *testing.T) {
	breaker := New("deepseek", Settings{ReadyToTrip: TripAfter(1)})
	_ = run(breaker, false)
	require.Equal(t, StateOpen, breaker.State())

	breaker.Reset()
	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, Counts{}, breaker.Counts())
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	breaker := New("lmarena", Settings{ReadyToTrip: TripAfter(1)})

	assert.Panics(t, func() {
		_ = breaker.Do(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, breaker.State())
}

func TestGroupIsolatesKeys(t *testing.T) {
	group := NewGroup(Settings{ReadyToTrip: TripAfter(1)})

	_ = group.Do("chatgpt", func() error { return errFailed })
	require.NoError(t, group.Do("gemini", func() error { return nil }))

	assert.Same(t, group.Get("chatgpt"), group.Get("chatgpt"))
	assert.Equal(t, map[string]State{
		"chatgpt": StateOpen,
		"gemini":  StateClosed,
	}, group.States())
}

func TestStateMarshalText(t *testing.T) {
	text, err := StateHalfOpen.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "half-open", string(text))
}
