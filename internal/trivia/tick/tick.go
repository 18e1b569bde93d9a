// Package tick supplies the monotone counter that bounds commitment windows.
//
// The engine only ever needs a non-decreasing integer; how it advances is an
// environment decision. Wall derives ticks from elapsed wall time, Manual is
// driven explicitly and is the deterministic choice for tests and replay.
package tick

import (
	"context"
	"sync"
	"time"
)

// Source yields the current tick value.
type Source interface {
	Current(ctx context.Context) (uint64, error)
}

// Manual is an explicitly driven tick source.
type Manual struct {
	mu  sync.Mutex
	now uint64
}

// NewManual creates a manual tick source starting at start.
func NewManual(start uint64) *Manual {
	return &Manual{now: start}
}

// Current returns the currently set tick.
func (m *Manual) Current(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now, nil
}

// Advance moves the tick forward by delta.
func (m *Manual) Advance(delta uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += delta
}

// Set moves the tick to value. Values behind the current tick are ignored so
// the source stays monotone.
func (m *Manual) Set(value uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value > m.now {
		m.now = value
	}
}

// Wall derives ticks from wall time elapsed since a fixed epoch, one tick per
// interval. Go's monotonic clock readings keep the result non-decreasing.
type Wall struct {
	epoch    time.Time
	interval time.Duration
	nowFn    func() time.Time
}

// NewWall creates a wall-clock tick source. A non-positive interval defaults
// to one second.
func NewWall(epoch time.Time, interval time.Duration) *Wall {
	if interval <= 0 {
		interval = time.Second
	}
	return &Wall{epoch: epoch, interval: interval, nowFn: time.Now}
}

// Current returns the number of whole intervals elapsed since the epoch.
func (w *Wall) Current(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	now := w.nowFn()
	if !now.After(w.epoch) {
		return 0, nil
	}
	return uint64(now.Sub(w.epoch) / w.interval), nil
}
