//go:build rp2040

package pio

// PIO pulse backend using tinygo-org/pio package
// The state machine latches step size and direction, then holds the step
// line high for a hardware-timed interval, so the CPU never busy-waits.

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"stepctl/core"
)

// Command word format:
//
//	Bit 0: step size (1 = full)
//	Bit 1: direction (1 = counter clockwise)
//
// Program flow:
//  1. Pull 32-bit command from FIFO
//  2. Drive the step-size and direction pins from the low two bits
//  3. Raise the step pin for 32 cycles
//  4. Lower the step pin and wait for the next command
//
// buildPulseProgram creates the pulse PIO program using AssemblerV0
func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),                    // 0: pull block
		asm.Out(rp2pio.OutDestPins, 2).Encode(),           // 1: out pins, 2 (size, dir)
		asm.Set(rp2pio.SetDestPins, 1).Delay(31).Encode(), // 2: set pins, 1 [31]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),           // 3: set pins, 0
		// .wrap
	}
}

const pulsePIOOrigin = 0 // Load at offset 0; the program has no jumps but keeps a fixed slot

// PulseBackend implements core.StepperBackend on a PIO state machine
type PulseBackend struct {
	pio     *rp2pio.PIO
	sm      rp2pio.StateMachine
	stepPin machine.Pin
	sizePin machine.Pin // direction pin is sizePin+1
	offset  uint8
	pioNum  uint8
	smNum   uint8
}

// NewPulseBackend claims a free state machine
func NewPulseBackend() (*PulseBackend, error) {
	pioNum, smNum, ok := allocatePIO()
	if !ok {
		return nil, ErrNoStateMachine
	}

	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &PulseBackend{
		pio:    pioHW,
		sm:     pioHW.StateMachine(smNum),
		pioNum: pioNum,
		smNum:  smNum,
	}, nil
}

// Init loads the program and starts the state machine. sizePin and
// sizePin+1 carry step size and direction; the pulse lasts pulseTicks
// ticks at tickRate.
func (b *PulseBackend) Init(sizePin, stepPin uint8, tickRate, pulseTicks uint32) error {
	b.sizePin = machine.Pin(sizePin)
	b.stepPin = machine.Pin(stepPin)

	// Claim the state machine before touching it
	if !b.sm.TryClaim() {
		releasePIO(b.pioNum, b.smNum)
		return ErrNoStateMachine
	}

	program := buildPulseProgram()
	offset, err := b.pio.AddProgram(program, pulsePIOOrigin)
	if err != nil {
		releasePIO(b.pioNum, b.smNum)
		return err
	}
	b.offset = offset

	b.sizePin.Configure(machine.PinConfig{Mode: b.pio.PinMode()})
	(b.sizePin + 1).Configure(machine.PinConfig{Mode: b.pio.PinMode()})
	b.stepPin.Configure(machine.PinConfig{Mode: b.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()

	// SET drives the step line, OUT the size/direction pair
	cfg.SetSetPins(b.stepPin, 1)
	cfg.SetOutPins(b.sizePin, 2)

	// Shift right, autopull disabled (explicit PULL), 32-bit threshold
	cfg.SetOutShift(true, false, 32)

	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	whole, frac := clockDivider(machine.CPUFrequency(), tickRate, pulseTicks)
	cfg.SetClkDivIntFrac(whole, frac)

	// Initialize state machine first, pin directions must follow Init
	b.sm.Init(offset, cfg)

	b.sm.SetPindirsConsecutive(b.sizePin, 2, true)
	b.sm.SetPindirsConsecutive(b.stepPin, 1, true)

	b.sm.SetPinsConsecutive(b.sizePin, 2, false)
	b.sm.SetPinsConsecutive(b.stepPin, 1, false)

	b.sm.SetEnabled(true)

	core.DebugPrintln("[PIO] pulse backend on PIO" + core.Utoa(uint32(b.pioNum)) +
		" SM" + core.Utoa(uint32(b.smNum)) +
		" clkdiv " + core.Utoa(uint32(whole)) + "+" + core.Utoa(uint32(frac)) + "/256")
	return nil
}

// Pulse implements core.StepperBackend
func (b *PulseBackend) Pulse(size core.StepSize, dir core.Direction) {
	cmd := commandWord(size == core.FullStep, dir == core.CounterClockwise)

	// The FIFO holds four pulses; one period is always longer than a pulse
	for b.sm.IsTxFIFOFull() {
	}
	b.sm.TxPut(cmd)
}

// Name implements core.StepperBackend
func (b *PulseBackend) Name() string {
	return "PIO"
}
