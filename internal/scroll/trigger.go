// Package scroll decides when a scrolling list is close enough to its end to load the next page.
package scroll

import (
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/sirupsen/logrus"
)

const (
	DefaultThreshold = 200
	DefaultWait      = 150 * time.Millisecond
)

// Position is a snapshot of a scroll container's geometry.
type Position struct {
	ScrollTop    int
	ClientHeight int
	ScrollHeight int
}

// Remaining is the distance between the bottom of the viewport and the end of the content.
func (p Position) Remaining() int {
	return p.ScrollHeight - (p.ScrollTop + p.ClientHeight)
}

// ShouldLoad reports whether the viewport is within threshold of the end of the content.
func ShouldLoad(pos Position, threshold int) bool {
	return pos.Remaining() <= threshold
}

// State is the loader status consulted before requesting more data.
type State interface {
	Loading() bool
	HasMore() bool
}

// Trigger debounces scroll events and calls load once the settled position
// is near the end, no load is in flight and more data is available.
type Trigger struct {
	state     State
	load      func()
	threshold int
	debounced func(f func())

	mu      sync.Mutex
	last    Position
	stopped bool
}

// NewTrigger creates a new trigger. A negative threshold or a non-positive wait falls back
// to the default. A zero threshold loads only at the very bottom.
func NewTrigger(state State, load func(), threshold int, wait time.Duration) *Trigger {
	if threshold < 0 {
		threshold = DefaultThreshold
	}

	if wait <= 0 {
		wait = DefaultWait
	}

	return &Trigger{
		state:     state,
		load:      load,
		threshold: threshold,
		debounced: debounce.New(wait),
	}
}

// OnScroll records the latest position. Only the last event of a burst is evaluated.
func (t *Trigger) OnScroll(pos Position) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()

		return
	}
	t.last = pos
	t.mu.Unlock()

	t.debounced(t.evaluate)
}

// Stop detaches the trigger. Pending evaluations become no-ops.
func (t *Trigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
}

func (t *Trigger) evaluate() {
	t.mu.Lock()
	pos, stopped := t.last, t.stopped
	t.mu.Unlock()

	if stopped {
		return
	}

	if !ShouldLoad(pos, t.threshold) {
		return
	}

	if t.state.Loading() || !t.state.HasMore() {
		logrus.WithFields(logrus.Fields{
			"loading":  t.state.Loading(),
			"has_more": t.state.HasMore(),
		}).Debug("scroll near end, load skipped")

		return
	}

	t.load()
}
