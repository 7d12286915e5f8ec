// Package poll runs a background task on a fixed interval, bound to the
// lifetime of the component that started it. The dashboard uses one
// process-wide poller for the unread-notification counter; cancelling
// on teardown is mandatory so no timer or goroutine outlives the shell.
package poll

import (
	"context"
	"sync"
	"time"

	"careerdesk/internal/logging"
)

// Task is one poll execution. It must respect ctx; failures are the
// task's own business (background polling fails silently).
type Task func(ctx context.Context)

// Poller re-runs a Task on a fixed interval until stopped.
type Poller struct {
	interval time.Duration
	task     Task

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a poller. interval must be positive.
func New(interval time.Duration, task Task) *Poller {
	return &Poller{interval: interval, task: task}
}

// Start launches the polling goroutine. The task runs once immediately,
// then on every tick. The returned channel closes when the goroutine
// has fully exited. Start is idempotent while running.
func (p *Poller) Start(ctx context.Context) <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done != nil {
		return p.done
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	done := make(chan struct{})
	p.done = done

	go func() {
		defer close(done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		logging.Poll("poller started, interval=%v", p.interval)
		p.task(ctx)

		for {
			select {
			case <-ctx.Done():
				logging.Poll("poller stopped")
				return
			case <-ticker.C:
				p.task(ctx)
			}
		}
	}()

	return done
}

// Stop cancels the poller and waits for the goroutine to exit, with a
// grace timeout so a wedged task cannot hang teardown. Safe to call
// multiple times and before Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
