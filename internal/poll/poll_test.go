package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerTicks(t *testing.T) {
	var n atomic.Int32
	p := New(5*time.Millisecond, func(context.Context) { n.Add(1) })

	require.NoError(t, p.Start(context.Background()))
	assert.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)
	p.Stop()
	assert.False(t, p.Running())
}

func TestPollerNoCallsAfterStop(t *testing.T) {
	var n atomic.Int32
	p := New(time.Millisecond, func(context.Context) { n.Add(1) })

	require.NoError(t, p.Start(context.Background()))
	time.Sleep(10 * time.Millisecond)
	p.Stop()

	after := n.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, n.Load())
}

func TestPollerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(time.Millisecond, func(context.Context) {})

	require.NoError(t, p.Start(ctx))
	assert.True(t, p.Running())
	cancel()
	assert.Eventually(t, func() bool { return !p.Running() }, time.Second, time.Millisecond)
	p.Stop()
}

func TestPollerDoubleStartAndStop(t *testing.T) {
	p := New(time.Hour, func(context.Context) {})

	require.NoError(t, p.Start(context.Background()))
	assert.ErrorIs(t, p.Start(context.Background()), ErrRunning)

	p.Stop()
	p.Stop()

	// restart after stop
	require.NoError(t, p.Start(context.Background()))
	p.Stop()
}

func TestPollerStopBeforeStart(t *testing.T) {
	p := New(time.Second, func(context.Context) {})
	p.Stop()
	assert.False(t, p.Running())
}

func TestPollerRejectsBadInterval(t *testing.T) {
	assert.Error(t, New(0, func(context.Context) {}).Start(context.Background()))
}
