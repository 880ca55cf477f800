package phonebook

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrBusy is returned when no render slot frees up within the wait time.
var ErrBusy = errors.New("too many phone books being generated, try again later")

// Limiter bounds how many documents are rendered at once.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewLimiter allows max concurrent renders; callers wait at most maxWait for
// a slot.
func NewLimiter(max int, maxWait time.Duration) *Limiter {
	if max <= 0 {
		max = 1
	}
	return &Limiter{
		slots:   make(chan struct{}, max),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must Release it when done.
func (l *Limiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrBusy
	}
}

// Release returns a slot taken by Acquire.
func (l *Limiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Active is the number of renders in progress.
func (l *Limiter) Active() int {
	return int(l.active.Load())
}

// Drain blocks until no render is in progress or ctx is done.
func (l *Limiter) Drain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
