package sim

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

var errZeroRate = errors.New("sim timer: zero rate")

// Timer is a software periodic timer. In realtime mode Run calls the
// interrupt handler from a wall-clock ticker; otherwise ticks are driven
// by Device.Step.
type Timer struct {
	rate   uint32
	rearms uint32
	acks   uint32
}

// Configure implements core.TimerDriver
func (t *Timer) Configure(rateHz uint32) error {
	if rateHz == 0 {
		return errZeroRate
	}
	t.rate = rateHz
	return nil
}

// Rearm implements core.TimerDriver
func (t *Timer) Rearm() {
	atomic.AddUint32(&t.rearms, 1)
}

// AckInterrupt implements core.TimerDriver
func (t *Timer) AckInterrupt() {
	atomic.AddUint32(&t.acks, 1)
}

// Interrupts returns how many interrupts were acknowledged
func (t *Timer) Interrupts() uint32 {
	return atomic.LoadUint32(&t.acks)
}

// Period returns the wall-clock tick period
func (t *Timer) Period() time.Duration {
	if t.rate == 0 {
		return 0
	}
	return time.Second / time.Duration(t.rate)
}

// Run calls isr once per period until ctx is done
func (t *Timer) Run(ctx context.Context, isr func()) {
	period := t.Period()
	if period <= 0 {
		return
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isr()
		}
	}
}
