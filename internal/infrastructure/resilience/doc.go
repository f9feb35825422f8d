/*
Package resilience provides a circuit breaker for best-effort collaborators.

# Overview

Prompt delivery to a chat site goes through the connected shell and can
fail for reasons outside the core's control (page still loading, input
box moved). A Breaker per provider stops hammering a site that keeps
failing and tries it again after a cooldown.

# Usage

	group := resilience.NewGroup(resilience.Settings{
		Timeout:     30 * time.Second,
		ReadyToTrip: resilience.TripAfter(3),
	})

	err := group.Do("chatgpt", func() error {
		return automation.InsertText(ctx, pane, text)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		// provider skipped until the cooldown elapses
	}

# States

  - Closed: calls pass through; failures are counted
  - Open: calls fail fast with ErrCircuitOpen
  - Half-Open: up to MaxRequests trial calls decide whether to close again
*/
package resilience
