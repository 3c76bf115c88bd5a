package cron

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSweeper_RunNow(t *testing.T) {
	var ran int32
	var sawTime time.Time

	s := NewSweeper(time.Hour, Job{
		Name: "count",
		Run: func(now time.Time) (int, error) {
			atomic.AddInt32(&ran, 1)
			sawTime = now
			return 3, nil
		},
	})

	s.RunNow()
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
	assert.WithinDuration(t, time.Now(), sawTime, time.Second)
}

func TestSweeper_FailedJobDoesNotStopOthers(t *testing.T) {
	var secondRan bool

	s := NewSweeper(time.Hour,
		Job{
			Name: "broken",
			Run: func(now time.Time) (int, error) {
				return 0, errors.New("db unavailable")
			},
		},
		Job{
			Name: "healthy",
			Run: func(now time.Time) (int, error) {
				secondRan = true
				return 0, nil
			},
		},
	)

	s.RunNow()
	assert.True(t, secondRan)
}

func TestSweeper_StartRunsImmediately(t *testing.T) {
	done := make(chan struct{})
	var once int32

	s := NewSweeper(time.Hour, Job{
		Name: "immediate",
		Run: func(now time.Time) (int, error) {
			if atomic.CompareAndSwapInt32(&once, 0, 1) {
				close(done)
			}
			return 0, nil
		},
	})

	s.Start()
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run on start")
	}
}
