//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"stepctl/core"
)

// RP2040 Timer peripheral memory map. Alarm 0 belongs to the TinyGo
// runtime, the time base uses alarm 3.
const (
	timerBase     = 0x40054000
	timerALARM3   = timerBase + 0x1C
	timerTIMERAWL = timerBase + 0x28
	timerINTR     = timerBase + 0x34
	timerINTE     = timerBase + 0x38

	alarmBit = 1 << 3

	timerHz = 1000000 // the timer counts microseconds
)

var (
	alarmReg  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerALARM3)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
	intrReg   = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTR)))
	inteReg   = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTE)))
)

var errRateTooHigh = errors.New("tick rate above timer resolution")

// AlarmTimer implements core.TimerDriver on the microsecond timer
type AlarmTimer struct {
	schedule core.AlarmSchedule
	late     uint32
}

var (
	alarm     AlarmTimer
	timeBase  *core.TimeBase
	alarmIntr interrupt.Interrupt
)

func timerISR(interrupt.Interrupt) {
	timeBase.OnInterrupt()
}

// Configure implements core.TimerDriver
func (t *AlarmTimer) Configure(rateHz uint32) error {
	if rateHz == 0 || rateHz > timerHz/2 {
		return errRateTooHigh
	}
	t.schedule = core.NewAlarmSchedule(timerHz, rateHz, timerRAWL.Get())
	t.Rearm()

	inteReg.SetBits(alarmBit)
	alarmIntr = interrupt.New(rp.IRQ_TIMER_IRQ_3, timerISR)
	alarmIntr.Enable()
	return nil
}

// Rearm implements core.TimerDriver
func (t *AlarmTimer) Rearm() {
	next, skipped := t.schedule.Next(timerRAWL.Get())
	t.late += skipped
	alarmReg.Set(next)
}

// Late returns how many deadlines were skipped because the interrupt was
// serviced after them
func (t *AlarmTimer) Late() uint32 {
	return t.late
}

// AckInterrupt implements core.TimerDriver
func (t *AlarmTimer) AckInterrupt() {
	intrReg.Set(alarmBit)
}
