//go:build tinygo

package core

import "runtime/interrupt"

type irqState = interrupt.State

// maskInterrupts disables interrupts and returns the previous mask
func maskInterrupts() irqState {
	return interrupt.Disable()
}

// unmaskInterrupts restores a mask returned by maskInterrupts
func unmaskInterrupts(state irqState) {
	interrupt.Restore(state)
}
