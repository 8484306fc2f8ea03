package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCache struct{ purges atomic.Int32 }

func (c *countingCache) Purge()      { c.purges.Add(1) }
func (c *countingCache) Cached() int { return 1 }

func TestScheduleEvery(t *testing.T) {
	t.Run("returns job id for valid interval", func(t *testing.T) {
		s, err := New(nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Stop(context.Background()) })

		id, err := s.ScheduleEvery("test", 10*time.Second, func() {})
		require.NoError(t, err)
		require.NotEmpty(t, id)
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		s, err := New(nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Stop(context.Background()) })

		_, err = s.ScheduleEvery("test", 0, func() {})
		require.Error(t, err)
	})
}

func TestSchedulePurgeRunsAllCaches(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	a, b := &countingCache{}, &countingCache{}
	_, err = s.SchedulePurge(20*time.Millisecond, a, b)
	require.NoError(t, err)
	s.Start()

	require.Eventually(t, func() bool {
		return a.purges.Load() >= 2 && b.purges.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, a.purges.Load() > 0, b.purges.Load() > 0)
}
