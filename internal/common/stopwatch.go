package common

import (
	"time"
)

// This stopwatch keeps track of the time elapsed since it was started
type Stopwatch struct {
	startTime time.Time
	Running   bool
}

func StartStopwatch() Stopwatch {
	return Stopwatch{time.Now(), true}
}

func (s *Stopwatch) Start() {
	s.Running = true
	s.startTime = time.Now()
}

// Stop the stopwatch and return the time it was running
func (s *Stopwatch) Stop() time.Duration {
	elapsed := s.Elapsed()
	s.Running = false
	return elapsed
}

// Time elapsed since the stopwatch started, zero if it is not running
func (s *Stopwatch) Elapsed() time.Duration {
	if !s.Running {
		return 0
	}
	return time.Since(s.startTime)
}
