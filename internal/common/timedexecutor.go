package common

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Give the timed executor a task and an interval.
// Every interval the task is started in the background, unless the
// previous run is still in flight, in which case the tick is dropped.
// There is no queue: at most one run is active at any time
type TimedExecutor struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context)
	guard    Guard
	wg       sync.WaitGroup
}

// Create a timed executor provided an interval and a task
func NewTimedExecutor(name string, interval time.Duration, task func(ctx context.Context)) *TimedExecutor {
	return &TimedExecutor{name: name, interval: interval, task: task}
}

// Start one run of the task unless another one is in flight or the
// context is already done. Reports whether a run was started
func (te *TimedExecutor) Tick(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if !te.guard.TryAcquire() {
		return false
	}
	te.wg.Add(1)
	go func() {
		defer te.wg.Done()
		defer te.guard.Release()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("executor", te.name).Interface("panic", r).Msg("Task panicked")
			}
		}()
		stopwatch := StartStopwatch()
		te.task(ctx)
		log.Debug().Str("executor", te.name).Dur("took", stopwatch.Stop()).Msg("Task finished")
	}()
	return true
}

// Tick every interval until the context is done, then wait for
// the run in flight to finish
func (te *TimedExecutor) Run(ctx context.Context) {
	ticker := time.NewTicker(te.interval)
	defer ticker.Stop()

	log.Info().Str("executor", te.name).Dur("interval", te.interval).Msg("Timed executor started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("executor", te.name).Msg("Timed executor shutting down")
			te.wg.Wait()
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			if !te.Tick(ctx) {
				log.Debug().Str("executor", te.name).Msg("Previous run still in flight, dropping tick")
			}
		}
	}
}

// Wait for the run in flight, if any. Must not be called while Run
// may still start a new one
func (te *TimedExecutor) Wait() {
	te.wg.Wait()
}

func (te *TimedExecutor) Busy() bool {
	return te.guard.Busy()
}
