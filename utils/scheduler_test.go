package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetrainSchedulerValidatesExpression(t *testing.T) {
	_, err := NewRetrainScheduler("not a cron expr", func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron expression")

	scheduler, err := NewRetrainScheduler("0 3 * * *", func() error { return nil })
	require.NoError(t, err)
	assert.NotNil(t, scheduler)
}

func TestRetrainSchedulerStartStop(t *testing.T) {
	var runs int64
	scheduler, err := NewRetrainScheduler("@every 10ms", func() error {
		atomic.AddInt64(&runs, 1)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, scheduler.Start())
	assert.Error(t, scheduler.Start(), "second Start should fail while running")

	time.Sleep(50 * time.Millisecond)
	scheduler.Stop()

	assert.Greater(t, atomic.LoadInt64(&runs), int64(0))

	// Stop is idempotent.
	scheduler.Stop()
}
