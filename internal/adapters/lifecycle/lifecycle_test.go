package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/internal/adapters/lifecycle"
	"go.trai.ch/memo/internal/adapters/logger"
)

func newTracker() *lifecycle.Tracker {
	return lifecycle.NewTracker(logger.Nop())
}

func TestTracker_TrackUntrack(t *testing.T) {
	tracker := newTracker()

	tracker.TrackMount("card")
	assert.True(t, tracker.IsMounted("card"))
	assert.Equal(t, 1, tracker.Len())

	assert.True(t, tracker.UntrackMount("card"))
	assert.False(t, tracker.IsMounted("card"))
	assert.Zero(t, tracker.Len())
}

func TestTracker_DoubleUntrackIsSafe(t *testing.T) {
	tracker := newTracker()

	tracker.TrackMount("card")
	require.True(t, tracker.UntrackMount("card"))
	assert.False(t, tracker.UntrackMount("card"))
	assert.False(t, tracker.UntrackMount("never-mounted"))
}

func TestBoundary_FiresOncePerTransition(t *testing.T) {
	tracker := newTracker()
	b := lifecycle.NewBoundary("card", tracker)

	assert.False(t, b.Unmount(), "unmount before mount reports not live")

	b.Mount()
	b.Mount()
	assert.True(t, tracker.IsMounted("card"))
	assert.Equal(t, 1, tracker.Len())

	assert.True(t, b.Unmount())
	assert.False(t, b.Unmount())
	assert.False(t, tracker.IsMounted("card"))

	// A fresh transition works again.
	b.Mount()
	assert.True(t, tracker.IsMounted("card"))
}

func TestBoundary_RebindMovesLiveness(t *testing.T) {
	tracker := newTracker()
	b := lifecycle.NewBoundary("old", tracker)
	b.Mount()

	b.Rebind("new")
	assert.Equal(t, "new", b.Key().String())
	assert.False(t, tracker.IsMounted("old"))
	assert.True(t, tracker.IsMounted("new"))

	// Unmount after rebind releases the current key, not the original.
	assert.True(t, b.Unmount())
	assert.False(t, tracker.IsMounted("new"))
}

func TestBoundary_RebindWhileUnmountedDefersTracking(t *testing.T) {
	tracker := newTracker()
	b := lifecycle.NewBoundary("old", tracker)

	b.Rebind("new")
	assert.Zero(t, tracker.Len())

	b.Mount()
	assert.True(t, tracker.IsMounted("new"))
	assert.False(t, tracker.IsMounted("old"))
}

func TestDetached_TracksNothing(t *testing.T) {
	b := lifecycle.Detached()
	b.Mount()
	assert.False(t, b.Unmount())
	assert.Empty(t, b.Key().String())
}
