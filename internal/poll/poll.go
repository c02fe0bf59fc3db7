// Package poll runs a function on a fixed interval until it is stopped.
package poll

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRunning is returned by Start on a poller that is already running.
var ErrRunning = errors.New("poll: already running")

// Poller calls fn once per interval from a single goroutine. The ticker is
// tied to the context given to Start and is always released.
type Poller struct {
	interval time.Duration
	fn       func(context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a stopped poller.
func New(interval time.Duration, fn func(context.Context)) *Poller {
	return &Poller{interval: interval, fn: fn}
}

// Start launches the polling goroutine. The first call to fn happens one
// interval after Start. Cancelling ctx has the same effect as Stop.
func (p *Poller) Start(ctx context.Context) error {
	if p.interval <= 0 {
		return errors.New("poll: interval must be positive")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		select {
		case <-p.done:
		default:
			return ErrRunning
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// a tick can race with cancellation
				if ctx.Err() != nil {
					return
				}
				p.fn(ctx)
			}
		}
	}()
	return nil
}

// Stop cancels the poller and waits for the goroutine to exit. fn is never
// called after Stop returns. Stop is safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the polling goroutine is alive.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}
