package app

import (
	"context"
	"sync"

	"github.com/miteshsondhi/swagger-stats/internal/domain"
)

// inflight tracks detached background work so shutdown can wait for it.
// Go and Wait may be called concurrently from any goroutine.
type inflight struct {
	mu sync.Mutex
	n  int
	// idle is closed when n drops back to zero; nil while nothing runs.
	idle chan struct{}
}

// Go runs fn on its own goroutine and tracks it until it returns.
func (f *inflight) Go(fn func()) {
	f.mu.Lock()
	f.n++
	if f.n == 1 {
		f.idle = make(chan struct{})
	}
	f.mu.Unlock()

	go func() {
		defer f.done()
		fn()
	}()
}

func (f *inflight) done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n--
	if f.n == 0 {
		close(f.idle)
		f.idle = nil
	}
}

// Wait blocks until the work tracked when it was called, and anything
// started before that work finished, is done or ctx is done.
// Returns ErrShutdownTimeout if ctx ends first.
func (f *inflight) Wait(ctx context.Context) error {
	f.mu.Lock()
	idle := f.idle
	f.mu.Unlock()
	if idle == nil {
		return nil
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return domain.ErrShutdownTimeout
	}
}
