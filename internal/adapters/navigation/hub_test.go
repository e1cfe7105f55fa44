package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/internal/adapters/navigation"
	"go.trai.ch/memo/internal/core/domain"
)

func TestHub_NotifyReachesAllSubscribers(t *testing.T) {
	hub := navigation.NewHub()

	var a, b []domain.NavigationEvent
	hub.Subscribe(func(ev domain.NavigationEvent) { a = append(a, ev) })
	hub.Subscribe(func(ev domain.NavigationEvent) { b = append(b, ev) })

	ev := domain.NavigationEvent{Kind: domain.NavigationActive, Path: "/settings"}
	hub.Notify(ev)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, ev, a[0])
	assert.Equal(t, ev, b[0])
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	hub := navigation.NewHub()

	var got int
	cancel := hub.Subscribe(func(domain.NavigationEvent) { got++ })
	other := hub.Subscribe(func(domain.NavigationEvent) {})
	require.Equal(t, 2, hub.SubscriberCount())

	cancel()
	cancel()
	assert.Equal(t, 1, hub.SubscriberCount())

	hub.Notify(domain.NavigationEvent{Kind: domain.NavigationPassive})
	assert.Zero(t, got)

	other()
	assert.Zero(t, hub.SubscriberCount())
}

func TestInstallDefault_IsIdempotent(t *testing.T) {
	navigation.UninstallDefault()
	t.Cleanup(navigation.UninstallDefault)

	hub, fresh := navigation.InstallDefault()
	require.NotNil(t, hub)
	assert.True(t, fresh)
	assert.True(t, navigation.DefaultInstalled())

	again, fresh := navigation.InstallDefault()
	assert.Same(t, hub, again)
	assert.False(t, fresh, "a second install must not attach a second adapter")
}

func TestNotifyDefault_DropsWhenUninstalled(t *testing.T) {
	navigation.UninstallDefault()
	t.Cleanup(navigation.UninstallDefault)

	hub, _ := navigation.InstallDefault()
	var got int
	cancel := hub.Subscribe(func(domain.NavigationEvent) { got++ })
	t.Cleanup(cancel)

	navigation.NotifyDefault(domain.NavigationEvent{Kind: domain.NavigationActive})
	assert.Equal(t, 1, got)

	navigation.UninstallDefault()
	navigation.NotifyDefault(domain.NavigationEvent{Kind: domain.NavigationActive})
	assert.Equal(t, 1, got, "signals are dropped while uninstalled")
}
