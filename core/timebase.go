package core

import (
	"errors"
	"sync/atomic"
)

// Timing reference for the PBD3517 driver board the firmware was sized for.
// The tick runs at twice the motor's maximum pulse rate so one full step
// spans two observable tick boundaries.
const (
	MaxStepRate     = 790             // Maximum rated pulse rate (Hz)
	DefaultTickRate = 2 * MaxStepRate // 1580 Hz
)

// Tick is one time base interrupt period. It wraps; compare ticks with ==
// or by unsigned difference (see Elapsed), never with < or >.
type Tick uint32

// Elapsed returns the number of ticks from 'from' to 'to', tolerating wrap
func Elapsed(from, to Tick) Tick {
	return to - from
}

// TimerDriver is the periodic interrupt source behind the time base.
// Platform-specific implementations program the hardware countdown.
type TimerDriver interface {
	// Configure programs the interrupt to fire rateHz times per second
	// and enables it
	Configure(rateHz uint32) error

	// Rearm reloads the hardware countdown for the next period
	Rearm()

	// AckInterrupt clears the interrupt-pending condition
	AckInterrupt()
}

// Clock is the read side of the time base
type Clock interface {
	Now() Tick
}

// Waiter blocks for a number of ticks
type Waiter interface {
	Wait(n Tick)
}

var ErrInvalidTickRate = errors.New("tick rate must be non-zero")

// TimeBase owns the tick counter. OnInterrupt is the only writer; the
// control loop reads through Now. The counter is accessed atomically so
// that a read from the main context is never torn on targets wider than
// the reference hardware.
type TimeBase struct {
	ticks uint32
	rate  uint32
	timer TimerDriver
}

// NewTimeBase creates a time base driven by timer at rateHz
func NewTimeBase(timer TimerDriver, rateHz uint32) *TimeBase {
	return &TimeBase{
		timer: timer,
		rate:  rateHz,
	}
}

// Init resets the tick counter and starts the periodic interrupt
func (tb *TimeBase) Init() error {
	if tb.rate == 0 {
		return ErrInvalidTickRate
	}

	state := maskInterrupts()
	atomic.StoreUint32(&tb.ticks, 0)
	var err error
	if tb.timer != nil {
		err = tb.timer.Configure(tb.rate)
	}
	unmaskInterrupts(state)

	if err != nil {
		DebugPrintln("[TIME] timer configure failed: " + err.Error())
		return err
	}
	DebugPrintln("[TIME] tick rate " + Utoa(tb.rate) + " Hz")
	return nil
}

// OnInterrupt must be called from the timer ISR. It advances the tick by
// exactly one, re-arms the countdown and acknowledges the interrupt.
func (tb *TimeBase) OnInterrupt() {
	atomic.AddUint32(&tb.ticks, 1)
	if tb.timer != nil {
		tb.timer.Rearm()
		tb.timer.AckInterrupt()
	}
}

// Now returns the current tick
func (tb *TimeBase) Now() Tick {
	return Tick(atomic.LoadUint32(&tb.ticks))
}

// Rate returns the configured tick rate in Hz
func (tb *TimeBase) Rate() uint32 {
	return tb.rate
}

// Wait spins until n ticks have elapsed. Only for one-shot init delays and
// the step settle delay; never call it from the per-iteration hot path.
func (tb *TimeBase) Wait(n Tick) {
	start := tb.Now()
	for Elapsed(start, tb.Now()) < n {
	}
}

// SetTicks forces the tick counter (hardware bring-up and tests)
func (tb *TimeBase) SetTicks(t Tick) {
	atomic.StoreUint32(&tb.ticks, uint32(t))
}

// TicksFromMS converts milliseconds to ticks at the configured rate
func (tb *TimeBase) TicksFromMS(ms uint32) Tick {
	return Tick(uint64(ms) * uint64(tb.rate) / 1000)
}
