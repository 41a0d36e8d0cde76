package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle_SpacesCalls(t *testing.T) {
	th := New(40 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, th.Wait(ctx))
	assert.Less(t, time.Since(start), 20*time.Millisecond, "first call should not wait")

	require.NoError(t, th.Wait(ctx))
	require.NoError(t, th.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestThrottle_ZeroDelayNeverBlocks(t *testing.T) {
	th := New(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, th.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestThrottle_NilAndCancel(t *testing.T) {
	var th *Throttle
	assert.NoError(t, th.Wait(context.Background()))
	assert.Zero(t, th.Delay())

	slow := New(time.Hour)
	require.NoError(t, slow.Wait(context.Background()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, slow.Wait(ctx))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, Clamp(10*time.Millisecond, 250*time.Millisecond))
	assert.Equal(t, time.Second, Clamp(time.Second, 250*time.Millisecond))
}
