package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/miteshsondhi/swagger-stats/internal/domain"
	"github.com/miteshsondhi/swagger-stats/internal/ports"
)

// ShutdownTimeout is the default time Stop waits for in-flight work.
const ShutdownTimeout = 30 * time.Second

// ShipperConfig contains configuration for the shipping loop.
type ShipperConfig struct {
	// TickInterval is how often Tick is driven. Defaults to FlushInterval.
	TickInterval time.Duration

	// ShutdownTimeout bounds Stop. Defaults to ShutdownTimeout.
	ShutdownTimeout time.Duration
}

// Shipper feeds records from a source into a sink and drives its
// periodic Tick. It plays the role of the host around the emitter.
type Shipper struct {
	config    ShipperConfig
	sink      ports.RecordSink
	source    ports.RecordSource
	logger    ports.Logger
	lifecycle *Lifecycle

	mu      sync.Mutex
	cancel  context.CancelFunc
	workers inflight
	done    chan struct{}
	err     error
}

// NewShipper wires source to sink, usually an *Emitter or the public
// emitter wrapping one.
func NewShipper(config ShipperConfig, sink ports.RecordSink, source ports.RecordSource, logger ports.Logger) *Shipper {
	if config.TickInterval <= 0 {
		config.TickInterval = FlushInterval
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = ShutdownTimeout
	}
	return &Shipper{
		config:    config,
		sink:      sink,
		source:    source,
		logger:    logger,
		lifecycle: NewLifecycle(logger),
	}
}

// Start launches the read and tick loops and returns immediately.
func (s *Shipper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := s.lifecycle.TransitionTo(StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.err = nil

	started := time.Now()
	done := s.done
	s.workers.Go(func() {
		defer close(done)
		s.readLoop(runCtx)
	})
	s.workers.Go(func() {
		s.tickLoop(runCtx, started)
	})

	return s.lifecycle.TransitionTo(StateRunning, "loops started")
}

// Done is closed when the source is exhausted or fails.
func (s *Shipper) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// State returns the lifecycle state.
func (s *Shipper) State() State {
	return s.lifecycle.State()
}

// Stop cancels the loops, closes the source and closes the sink, which
// flushes what is buffered. It returns the source error, if the read loop
// ended on one, or ErrShutdownTimeout when in-flight work outlives the
// shutdown timeout.
func (s *Shipper) Stop() error {
	s.mu.Lock()
	if !s.lifecycle.CanStop() {
		s.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := s.lifecycle.TransitionTo(StateStopping, "Stop() called"); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	err := s.workers.Wait(ctx)
	if cerr := s.source.Close(); cerr != nil {
		s.logger.Warn("close source", ports.Err(cerr))
	}
	if cerr := s.sink.Close(ctx); err == nil {
		err = cerr
	}

	s.mu.Lock()
	if err == nil {
		err = s.err
	}
	s.mu.Unlock()

	if err != nil {
		_ = s.lifecycle.TransitionTo(StateCrashed, err.Error())
		return err
	}
	_ = s.lifecycle.TransitionTo(StateStopped, "graceful shutdown")
	return nil
}

func (s *Shipper) readLoop(ctx context.Context) {
	for {
		r, err := s.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, io.EOF) {
				s.logger.Info("input exhausted")
				return
			}
			s.logger.Error("read error", ports.Err(err))
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			return
		}
		s.sink.ProcessRecord(r)
	}
}

func (s *Shipper) tickLoop(ctx context.Context, started time.Time) {
	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sink.Tick(now, now.Sub(started))
		}
	}
}
