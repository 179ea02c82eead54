package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Evictor removes expired entries and reports how many were removed.
// services.SessionRegistry satisfies it.
type Evictor interface {
	EvictIdle() int
}

// Sweeper periodically evicts idle search sessions so abandoned views do not
// hold their result sets until the next session is created.
type Sweeper struct {
	evictor  Evictor
	interval time.Duration
	logger   *slog.Logger

	// Internal state
	mu        sync.RWMutex
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	lastSweep time.Time
	evicted   int
}

// SweeperConfig holds configuration for the sweeper.
type SweeperConfig struct {
	Evictor  Evictor
	Interval time.Duration // defaults to one minute
	Logger   *slog.Logger
}

// NewSweeper creates a new session sweeper.
func NewSweeper(cfg SweeperConfig) *Sweeper {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	return &Sweeper{
		evictor:  cfg.Evictor,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the sweep loop.
// It runs until Stop is called or context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	s.logger.Info("session sweeper starting", "interval", s.interval)

	go func() {
		defer func() {
			// running is cleared before doneCh closes so a returned Stop or a
			// cancelled context always allows a fresh Start
			s.mu.Lock()
			s.running = false
			s.stopCh = nil
			s.mu.Unlock()
			close(doneCh)
		}()
		s.loop(ctx, stopCh)
	}()
}

// Stop stops the loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	doneCh := s.doneCh
	s.mu.Unlock()

	<-doneCh

	s.logger.Info("session sweeper stopped")
}

func (s *Sweeper) loop(ctx context.Context, stopCh <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("session sweeper context cancelled")
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs one eviction pass and returns the number of sessions removed.
func (s *Sweeper) Sweep() int {
	n := s.evictor.EvictIdle()

	s.mu.Lock()
	s.lastSweep = time.Now()
	s.evicted += n
	s.mu.Unlock()

	if n > 0 {
		s.logger.Info("evicted idle search sessions", "count", n)
	}
	return n
}

// Health reports the sweeper state.
type Health struct {
	Running   bool      `json:"running"`
	LastSweep time.Time `json:"last_sweep,omitempty"`
	Evicted   int       `json:"evicted"`
}

// Health returns the health status of the sweeper.
func (s *Sweeper) Health() Health {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Health{
		Running:   s.running,
		LastSweep: s.lastSweep,
		Evicted:   s.evicted,
	}
}

// ErrNotRunning is returned by Ping when the sweep loop has exited
var ErrNotRunning = errors.New("session sweeper not running")

// Ping reports whether the loop is alive, for readiness checks.
func (s *Sweeper) Ping(context.Context) error {
	if !s.Health().Running {
		return ErrNotRunning
	}
	return nil
}
