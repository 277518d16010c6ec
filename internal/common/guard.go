package common

import "sync/atomic"

// Guard is a non blocking try-lock over a single task slot.
// The zero value is free.
type Guard struct {
	busy atomic.Bool
}

// Take the slot if it is free. Reports whether the caller now owns it
func (g *Guard) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *Guard) Release() {
	g.busy.Store(false)
}

func (g *Guard) Busy() bool {
	return g.busy.Load()
}
