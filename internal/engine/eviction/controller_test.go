package eviction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/internal/adapters/cache"
	"go.trai.ch/memo/internal/adapters/lifecycle"
	"go.trai.ch/memo/internal/adapters/logger"
	"go.trai.ch/memo/internal/adapters/navigation"
	"go.trai.ch/memo/internal/adapters/telemetry"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/engine/eviction"
)

type fixture struct {
	elements    *cache.ElementCache
	resolutions *cache.ResolutionCache
	tracker     *lifecycle.Tracker
	hub         *navigation.Hub
	controller  *eviction.Controller
}

func newFixture(t *testing.T, monitor ports.MemoryMonitor, settings domain.EvictionSettings) *fixture {
	t.Helper()

	f := &fixture{
		elements: cache.NewElementCache(),
		resolutions: cache.NewResolutionCache(domain.ResolutionCacheSettings{
			Limit: 16, Batch: 4, Enabled: true,
		}, telemetry.NewNoop()),
		tracker: lifecycle.NewTracker(logger.Nop()),
		hub:     navigation.NewHub(),
	}
	f.controller = eviction.NewController(eviction.Config{
		Elements:    f.elements,
		Resolutions: f.resolutions,
		Tracker:     f.tracker,
		Nav:         f.hub,
		Monitor:     monitor,
		Logger:      logger.Nop(),
		Telemetry:   telemetry.NewNoop(),
		Settings:    settings,
	})
	t.Cleanup(f.controller.Stop)
	return f
}

func (f *fixture) store(key domain.StableKey, mounted bool) {
	f.elements.Store(&domain.Handle{
		Key:       key,
		Signature: "sig",
		Artifact:  &domain.Artifact{ElementType: "box"},
		Boundary:  lifecycle.NewBoundary(key, f.tracker),
	})
	if mounted {
		f.tracker.TrackMount(key)
	}
}

func quickSettings() domain.EvictionSettings {
	return domain.EvictionSettings{Debounce: 10 * time.Millisecond}
}

func TestController_SweepEvictsOnlyUnmounted(t *testing.T) {
	f := newFixture(t, nil, quickSettings())
	f.store("live", true)
	f.store("gone", false)
	f.controller.Start()

	f.hub.Notify(domain.NavigationEvent{Kind: domain.NavigationActive})

	require.Eventually(t, func() bool {
		_, ok := f.elements.Entry("gone")
		return !ok
	}, 2*time.Second, 5*time.Millisecond)

	_, ok := f.elements.Entry("live")
	assert.True(t, ok, "mounted entries must survive a sweep")
}

func TestController_RemountBeforeSweepSurvives(t *testing.T) {
	f := newFixture(t, nil, domain.EvictionSettings{Debounce: 100 * time.Millisecond})
	f.store("flick", false)
	f.controller.Start()

	f.hub.Notify(domain.NavigationEvent{Kind: domain.NavigationActive})

	// Remount inside the debounce window. Membership is read at sweep
	// time, so the entry must survive.
	f.tracker.TrackMount("flick")

	require.Eventually(t, func() bool {
		return f.controller.Stats().Sweeps >= 1
	}, 2*time.Second, 10*time.Millisecond)

	_, ok := f.elements.Entry("flick")
	assert.True(t, ok)
}

func TestController_SignalBurstCoalesces(t *testing.T) {
	f := newFixture(t, nil, domain.EvictionSettings{Debounce: 50 * time.Millisecond})
	f.store("gone", false)
	f.controller.Start()

	for range 10 {
		f.hub.Notify(domain.NavigationEvent{Kind: domain.NavigationPassive})
	}

	require.Eventually(t, func() bool {
		return f.controller.Stats().Sweeps >= 1
	}, 2*time.Second, 10*time.Millisecond)

	// Let any stray follow-up sweep fire before counting.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, f.controller.Stats().Sweeps, "a burst must collapse into one sweep")
}

func TestController_StartStopIdempotent(t *testing.T) {
	f := newFixture(t, nil, quickSettings())

	f.controller.Start()
	f.controller.Start()
	assert.True(t, f.controller.Running())
	assert.Equal(t, 1, f.hub.SubscriberCount(), "restart must not duplicate subscriptions")

	f.controller.Stop()
	f.controller.Stop()
	assert.False(t, f.controller.Running())
	assert.Zero(t, f.hub.SubscriberCount())

	// A full cycle later the subscription count is still exactly one.
	f.controller.Start()
	assert.Equal(t, 1, f.hub.SubscriberCount())
	f.controller.Stop()
	assert.Zero(t, f.hub.SubscriberCount())
}

func TestController_ForceSweep(t *testing.T) {
	f := newFixture(t, nil, quickSettings())
	f.store("a", false)
	f.store("b", true)

	// Stopped: runs inline.
	assert.Equal(t, 1, f.controller.ForceSweep())

	// Running: routed through the controller goroutine.
	f.store("c", false)
	f.controller.Start()
	assert.Equal(t, 1, f.controller.ForceSweep())
	assert.Zero(t, f.controller.ForceSweep())

	stats := f.controller.Stats()
	assert.Equal(t, 3, stats.Sweeps)
	assert.Equal(t, 2, stats.EvictedElements)
	assert.False(t, stats.LastSweep.IsZero())
}

type fakeMonitor struct {
	heap uint64
}

func (m fakeMonitor) Usage() (domain.MemoryStats, bool) {
	return domain.MemoryStats{HeapInUse: m.heap, HeapSys: m.heap}, true
}

func TestController_MemoryPressureTriggersEmergencySweep(t *testing.T) {
	settings := domain.EvictionSettings{
		Debounce:       10 * time.Millisecond,
		MemoryInterval: 5 * time.Millisecond,
		HighWaterBytes: 1 << 20,
	}
	f := newFixture(t, fakeMonitor{heap: 2 << 20}, settings)
	f.store("gone", false)
	f.resolutions.Set(cache.KeyDigest("g"), "resolved")
	f.controller.Start()

	require.Eventually(t, func() bool {
		return f.controller.Stats().EmergencySweeps >= 1
	}, 2*time.Second, 5*time.Millisecond)

	_, ok := f.elements.Entry("gone")
	assert.False(t, ok)
	assert.Zero(t, f.resolutions.Len(), "an emergency sweep drops resolutions too")
}

func TestController_BelowHighWaterDoesNothing(t *testing.T) {
	settings := domain.EvictionSettings{
		Debounce:       10 * time.Millisecond,
		MemoryInterval: 5 * time.Millisecond,
		HighWaterBytes: 1 << 30,
	}
	f := newFixture(t, fakeMonitor{heap: 1 << 20}, settings)
	f.store("gone", false)
	f.controller.Start()

	time.Sleep(50 * time.Millisecond)
	_, ok := f.elements.Entry("gone")
	assert.True(t, ok)
	assert.Zero(t, f.controller.Stats().EmergencySweeps)
}

func TestController_NilNavUsesDefaultHub(t *testing.T) {
	navigation.UninstallDefault()
	t.Cleanup(navigation.UninstallDefault)

	f := newFixture(t, nil, quickSettings())
	c := eviction.NewController(eviction.Config{
		Elements:    f.elements,
		Resolutions: f.resolutions,
		Tracker:     f.tracker,
		Logger:      logger.Nop(),
		Telemetry:   telemetry.NewNoop(),
		Settings:    quickSettings(),
	})
	t.Cleanup(c.Stop)

	c.Start()
	assert.True(t, navigation.DefaultInstalled())

	f.store("gone", false)
	navigation.NotifyDefault(domain.NavigationEvent{Kind: domain.NavigationActive})
	require.Eventually(t, func() bool {
		_, ok := f.elements.Entry("gone")
		return !ok
	}, 2*time.Second, 5*time.Millisecond)

	// Stopping the controller releases the hub it installed.
	c.Stop()
	assert.False(t, navigation.DefaultInstalled())
}
