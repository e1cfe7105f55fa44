// Package eviction implements the sweep controller that reconciles the
// element cache against the mount tracker.
package eviction

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/memo/internal/adapters/navigation"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// Stats is a snapshot of controller activity.
type Stats struct {
	Sweeps          int
	EmergencySweeps int
	EvictedElements int
	LastSweep       time.Time
}

// Controller deletes element cache entries whose keys are no longer
// mounted. Sweeps are triggered by navigation signals, debounced so a
// burst coalesces into one pass, and optionally by memory pressure.
type Controller struct {
	elements    ports.ElementCache
	resolutions ports.ResolutionCache
	tracker     ports.MountTracker
	nav         ports.NavigationSource
	monitor     ports.MemoryMonitor
	logger      ports.Logger
	telemetry   ports.Telemetry
	settings    domain.EvictionSettings

	mu          sync.Mutex
	running     bool
	ownsDefault bool
	cancelNav   func()
	signals     chan struct{}
	stop        chan struct{}
	group       *errgroup.Group
	stats       Stats
	sweepNow    chan chan int
}

// Config carries the controller's collaborators. Nav and Monitor are
// optional: a nil Nav falls back to the process-wide default hub, a nil
// Monitor disables memory-pressure sweeps.
type Config struct {
	Elements    ports.ElementCache
	Resolutions ports.ResolutionCache
	Tracker     ports.MountTracker
	Nav         ports.NavigationSource
	Monitor     ports.MemoryMonitor
	Logger      ports.Logger
	Telemetry   ports.Telemetry
	Settings    domain.EvictionSettings
}

// NewController creates a stopped controller.
func NewController(cfg Config) *Controller {
	return &Controller{
		elements:    cfg.Elements,
		resolutions: cfg.Resolutions,
		tracker:     cfg.Tracker,
		nav:         cfg.Nav,
		monitor:     cfg.Monitor,
		logger:      cfg.Logger,
		telemetry:   cfg.Telemetry,
		settings:    cfg.Settings,
	}
}

// Start subscribes to navigation signals and launches the sweep workers.
// Repeated Start calls are no-ops; a Stop/Start cycle never leaves a
// duplicate subscription behind.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}

	nav := c.nav
	if nav == nil {
		// The default hub installs at most once, guarded process-wide,
		// no matter how many start/stop cycles run.
		hub, fresh := navigation.InstallDefault()
		nav = hub
		c.ownsDefault = fresh
	}

	c.signals = make(chan struct{}, 1)
	c.stop = make(chan struct{})
	c.sweepNow = make(chan chan int)
	c.group = &errgroup.Group{}

	signals := c.signals
	c.cancelNav = nav.Subscribe(func(domain.NavigationEvent) {
		// Non-blocking: a signal during a pending one is already
		// coalesced by the debounce window.
		select {
		case signals <- struct{}{}:
		default:
		}
	})

	stop := c.stop
	c.group.Go(func() error {
		c.debounceLoop(signals, stop)
		return nil
	})
	if c.monitor != nil && c.settings.MemoryInterval > 0 {
		c.group.Go(func() error {
			c.memoryLoop(stop)
			return nil
		})
	}

	c.running = true
	c.logger.Debug("eviction controller started")
}

// Stop cancels pending timers, removes the navigation subscription, and
// releases the default hub if Start installed it. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	cancelNav := c.cancelNav
	c.cancelNav = nil
	close(c.stop)
	group := c.group
	ownsDefault := c.ownsDefault
	c.ownsDefault = false
	c.mu.Unlock()

	cancelNav()
	_ = group.Wait()
	if ownsDefault {
		navigation.UninstallDefault()
	}
	c.logger.Debug("eviction controller stopped")
}

// debounceLoop coalesces signal bursts: the first signal arms a timer and
// any signal within the window rides along with the eventual sweep.
func (c *Controller) debounceLoop(signals chan struct{}, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case reply := <-c.sweepNow:
			reply <- c.sweep(false)
		case <-signals:
			timer := time.NewTimer(c.settings.Debounce)
		waiting:
			for {
				select {
				case <-stop:
					timer.Stop()
					return
				case <-signals:
					// Burst member; already covered by the armed timer.
				case reply := <-c.sweepNow:
					reply <- c.sweep(false)
				case <-timer.C:
					c.sweep(false)
					break waiting
				}
			}
		}
	}
}

// memoryLoop polls the monitor and runs an emergency sweep above the
// high-water mark.
func (c *Controller) memoryLoop(stop chan struct{}) {
	ticker := time.NewTicker(c.settings.MemoryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats, ok := c.monitor.Usage()
			if !ok {
				continue
			}
			if stats.HeapInUse > c.settings.HighWaterBytes {
				c.logger.Warn("memory high-water mark exceeded, emergency sweep",
					"heap_in_use", stats.HeapInUse,
					"high_water", c.settings.HighWaterBytes)
				c.sweep(true)
			}
		}
	}
}

// sweep deletes every element cache entry whose key is not mounted.
// Mount membership is read here, at sweep time: a key that remounted
// between the signal and the sweep must survive.
func (c *Controller) sweep(emergency bool) int {
	started := time.Now()
	evicted := 0
	for _, key := range c.elements.Keys() {
		if c.tracker.IsMounted(key) {
			continue
		}
		if c.elements.Delete(key) {
			evicted++
		}
	}

	if emergency {
		c.resolutions.Clear()
	}

	elapsed := time.Since(started)
	c.telemetry.RecordSweep(elapsed, evicted)

	c.mu.Lock()
	c.stats.Sweeps++
	if emergency {
		c.stats.EmergencySweeps++
	}
	c.stats.EvictedElements += evicted
	c.stats.LastSweep = started
	c.mu.Unlock()

	if evicted > 0 {
		c.logger.Debug("eviction sweep", "evicted", evicted, "emergency", emergency, "elapsed", elapsed)
	}
	return evicted
}

// ForceSweep runs a sweep immediately on the controller goroutine when
// running, or inline when stopped. Returns the number of evicted entries.
func (c *Controller) ForceSweep() int {
	c.mu.Lock()
	running := c.running
	sweepNow := c.sweepNow
	stop := c.stop
	c.mu.Unlock()

	if !running {
		return c.sweep(false)
	}
	reply := make(chan int, 1)
	select {
	case sweepNow <- reply:
		return <-reply
	case <-stop:
		return 0
	}
}

// Stats returns a snapshot of controller activity.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Running reports whether the controller is started.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
