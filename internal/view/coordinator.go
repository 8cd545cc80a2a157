// Package view holds the client-side state of the paginated customer
// browser: the current page of records, the loading-indicator policy and
// the delete-confirmation flow.
package view

import (
	"context"
	"sync"
	"time"
)

// MinVisibleLoading is how long the loading indicator stays up even when
// the fetch settles faster, so quick responses don't flicker it.
const MinVisibleLoading = 300 * time.Millisecond

// LoadCoordinator wraps fetches with the minimum-visible-loading rule.
// The fetch result is handed back as soon as it settles; only the
// indicator transition is deferred. Starting a new fetch replaces any
// deferred transition a previous one left behind, so rapid repeated
// loads keep a single indicator up until the latest one finishes.
type LoadCoordinator struct {
	minVisible time.Duration

	mu      sync.Mutex
	gen     uint64
	loading bool
	timer   *time.Timer
	notify  func()
}

// NewLoadCoordinator creates a coordinator with the standard minimum
// visible duration
func NewLoadCoordinator() *LoadCoordinator {
	return &LoadCoordinator{minVisible: MinVisibleLoading}
}

// NewLoadCoordinatorWithMin creates a coordinator with a custom minimum,
// used by tests to keep timings short
func NewLoadCoordinatorWithMin(min time.Duration) *LoadCoordinator {
	return &LoadCoordinator{minVisible: min}
}

// SetNotify registers a callback invoked whenever the loading flag flips.
// The callback runs with the coordinator unlocked.
func (c *LoadCoordinator) SetNotify(fn func()) {
	c.mu.Lock()
	c.notify = fn
	c.mu.Unlock()
}

// Loading reports whether the indicator should be visible
func (c *LoadCoordinator) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Run executes fetch, returning its error unchanged. The loading flag
// goes up before the fetch and comes down once both the fetch and the
// minimum visible duration have elapsed.
func (c *LoadCoordinator) Run(ctx context.Context, fetch func(context.Context) error) error {
	gen := c.begin()
	start := time.Now()

	err := fetch(ctx)

	c.settle(gen, time.Since(start))
	return err
}

// begin raises the loading flag, cancels any deferred finish left by a
// previous run and returns this run's generation
func (c *LoadCoordinator) begin() uint64 {
	c.mu.Lock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	gen := c.gen

	changed := !c.loading
	c.loading = true
	notify := c.notify

	c.mu.Unlock()

	if changed && notify != nil {
		notify()
	}
	return gen
}

// settle lowers the loading flag now or after the remaining minimum
// duration, whichever is later. A run superseded by a newer one leaves
// the flag alone.
func (c *LoadCoordinator) settle(gen uint64, elapsed time.Duration) {
	c.mu.Lock()

	if gen != c.gen {
		c.mu.Unlock()
		return
	}

	remaining := c.minVisible - elapsed
	if remaining <= 0 {
		c.finishLocked(gen)
		return
	}

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(remaining, func() {
		c.mu.Lock()
		c.finishLocked(gen)
	})

	c.mu.Unlock()
}

// finishLocked lowers the flag for gen if it is still the latest run.
// Called with the mutex held; releases it.
func (c *LoadCoordinator) finishLocked(gen uint64) {
	if gen != c.gen {
		c.mu.Unlock()
		return
	}

	c.timer = nil
	changed := c.loading
	c.loading = false
	notify := c.notify

	c.mu.Unlock()

	if changed && notify != nil {
		notify()
	}
}
