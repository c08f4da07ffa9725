package room

import (
	"sync"
	"time"

	"github.com/ashev87/safechat/shared/logger"
)

// Default sweeper cadence and retention window. The retention window only
// matters for rooms that somehow survived their last leave empty.
const (
	DefaultSweepInterval = 1 * time.Minute
	DefaultRoomRetention = 10 * time.Minute
)

// Sweeper periodically reaps empty rooms older than the retention window.
// Its cadence is independent of message traffic; each sweep takes the
// registry lock only for the removal itself and never pauses delivery.
type Sweeper struct {
	registry  *Registry
	interval  time.Duration
	retention time.Duration

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSweeper creates a sweeper over the registry. Zero durations fall back
// to the defaults.
func NewSweeper(registry *Registry, interval, retention time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if retention <= 0 {
		retention = DefaultRoomRetention
	}
	return &Sweeper{
		registry:  registry,
		interval:  interval,
		retention: retention,
		done:      make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop terminates the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.registry.Sweep(s.retention); removed > 0 {
				logger.Infof("Room sweeper reaped %d empty room(s)", removed)
			}
		case <-s.done:
			return
		}
	}
}
