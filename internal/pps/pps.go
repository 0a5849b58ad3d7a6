// Package pps tracks pulse-per-second edges from the receiver's timing
// output. The pulse marks the exact top of each UTC second; comparing
// its arrival against the host clock exposes host clock drift.
package pps

import (
	"sync"
	"time"
)

type Watcher struct {
	mu    sync.Mutex
	last  time.Time
	count uint64

	closeFn func()
}

func NewWatcher() *Watcher {
	return &Watcher{}
}

// pulse records one rising edge. Called from the GPIO event handler.
func (w *Watcher) pulse(t time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = t
	w.count++
}

// Last returns the host timestamp of the most recent pulse, zero if
// none has been seen.
func (w *Watcher) Last() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Count returns the number of pulses observed since Start.
func (w *Watcher) Count() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// SecondOffset reports how far the last pulse landed from the nearest
// whole second of the host clock. Positive means the host clock ticked
// the second before the pulse arrived. Returns false before the first
// pulse.
func (w *Watcher) SecondOffset() (time.Duration, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last.IsZero() {
		return 0, false
	}
	off := time.Duration(w.last.Nanosecond())
	if off > 500*time.Millisecond {
		off -= time.Second
	}
	return off, true
}

// Close releases the GPIO line if Start acquired one.
func (w *Watcher) Close() {
	w.mu.Lock()
	fn := w.closeFn
	w.closeFn = nil
	w.mu.Unlock()
	if fn != nil {
		fn()
	}
}
