package pio

import "errors"

// ErrNoStateMachine is returned when every PIO state machine is taken
var ErrNoStateMachine = errors.New("pio: no free state machine")

var (
	// PIO allocation tracking
	// RP2040 has 2 PIO blocks (PIO0, PIO1) with 4 state machines each
	pioAllocations = [2][4]bool{} // [pioNum][smNum]
	nextPIONum     = uint8(0)
	nextSMNum      = uint8(0)
)

// allocatePIO allocates a PIO state machine
// Returns (pioNum, smNum, ok)
func allocatePIO() (uint8, uint8, bool) {
	// Round-robin allocation across PIO blocks and state machines
	for i := 0; i < 8; i++ { // 2 PIO × 4 SM = 8 total
		pioNum := nextPIONum
		smNum := nextSMNum

		nextSMNum++
		if nextSMNum >= 4 {
			nextSMNum = 0
			nextPIONum = (nextPIONum + 1) % 2
		}

		if !pioAllocations[pioNum][smNum] {
			pioAllocations[pioNum][smNum] = true
			return pioNum, smNum, true
		}
	}

	return 0, 0, false
}

// releasePIO returns a state machine to the pool
func releasePIO(pioNum, smNum uint8) {
	pioAllocations[pioNum&1][smNum&3] = false
}

// ResetPIOAllocations resets all PIO allocations (for testing)
func ResetPIOAllocations() {
	pioAllocations = [2][4]bool{}
	nextPIONum = 0
	nextSMNum = 0
}

// pulseCycles is the length of the step-high phase in PIO cycles:
// one set instruction plus its 31-cycle delay
const pulseCycles = 32

// clockDivider returns the state machine clock divider (16.8 fixed point)
// that makes the step-high phase last pulseTicks ticks of the time base.
// The divider saturates at the hardware limits.
func clockDivider(cpuHz, tickRate, pulseTicks uint32) (whole uint16, frac uint8) {
	if tickRate == 0 {
		return 0, 0 // 0 selects the slowest divider (65536)
	}
	if pulseTicks == 0 {
		pulseTicks = 1
	}
	div256 := uint64(cpuHz) * 256 * uint64(pulseTicks) / (uint64(pulseCycles) * uint64(tickRate))
	if div256 < 256 {
		return 1, 0
	}
	if div256 >= 65536*256 {
		return 0, 0
	}
	return uint16(div256 >> 8), uint8(div256 & 0xff)
}

// commandWord packs a pulse for the out-pins instruction. Bit 0 drives the
// step-size pin and bit 1 the direction pin.
func commandWord(fullStep, counterClockwise bool) uint32 {
	var w uint32
	if fullStep {
		w |= 1
	}
	if counterClockwise {
		w |= 2
	}
	return w
}
