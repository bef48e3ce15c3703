//go:build !tinygo

package core

// irqState stands in for the saved interrupt mask on regular Go
type irqState uintptr

// maskInterrupts is a no-op on regular Go (host builds and tests)
func maskInterrupts() irqState {
	return 0
}

// unmaskInterrupts is a no-op on regular Go
func unmaskInterrupts(irqState) {}
