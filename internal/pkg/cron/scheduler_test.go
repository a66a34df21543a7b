package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddJobIgnoresNonPositiveInterval(t *testing.T) {
	s := NewScheduler()

	// Act
	s.AddJob(Job{Name: "disabled", Interval: 0, Fn: func(context.Context) error { return nil }})
	s.AddJob(Job{Name: "enabled", Interval: time.Minute, Fn: func(context.Context) error { return nil }})

	// Assert
	assert.Equal(t, []string{"enabled"}, s.Jobs())
}

func TestScheduler_RunOnceCollectsFailures(t *testing.T) {
	s := NewScheduler()
	boom := errors.New("boom")
	var ran int32
	s.AddJob(Job{Name: "ok", Interval: time.Minute, Fn: func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	}})
	s.AddJob(Job{Name: "fails", Interval: time.Minute, Fn: func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return boom
	}})

	// Act
	failures := s.RunOnce(context.Background())

	// Assert
	assert.Equal(t, int32(2), atomic.LoadInt32(&ran))
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures["fails"], boom)
}

func TestScheduler_TimeoutBoundsRun(t *testing.T) {
	s := NewScheduler()
	s.AddJob(Job{Name: "slow", Interval: time.Minute, Timeout: 10 * time.Millisecond, Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	// Act
	failures := s.RunOnce(context.Background())

	// Assert
	assert.ErrorIs(t, failures["slow"], context.DeadlineExceeded)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	started := make(chan struct{}, 1)
	s.AddJob(Job{Name: "tick", Interval: time.Hour, Fn: func(context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	}})

	// Act
	s.Start()

	// Assert
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
