package cron

import (
	"log"
	"time"
)

// Sweeper runs the periodic lifecycle sweeps: expiring lapsed subscriptions
// and closing out abandoned pending payments.
type Sweeper struct {
	interval time.Duration
	jobs     []Job
	stopChan chan struct{}
}

// Job is one named sweep. It reports how many rows it touched.
type Job struct {
	Name string
	Run  func(now time.Time) (int, error)
}

func NewSweeper(interval time.Duration, jobs ...Job) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		interval: interval,
		jobs:     jobs,
		stopChan: make(chan struct{}),
	}
}

// Start launches the sweep loop. One pass runs immediately.
func (s *Sweeper) Start() {
	go func() {
		s.RunNow()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.RunNow()
			case <-s.stopChan:
				return
			}
		}
	}()
}

// RunNow executes every job once.
func (s *Sweeper) RunNow() {
	now := time.Now()
	for _, job := range s.jobs {
		n, err := job.Run(now)
		if err != nil {
			log.Printf("Sweep %s failed: %v", job.Name, err)
			continue
		}
		if n > 0 {
			log.Printf("Sweep %s touched %d rows", job.Name, n)
		}
	}
}

func (s *Sweeper) Stop() {
	close(s.stopChan)
}
