package core

// SerialDriver is the byte-level serial link. Every call is non-blocking.
type SerialDriver interface {
	// TryReadByte returns the next received byte, or false when none is pending
	TryReadByte() (byte, bool)

	// WriteByte hands one byte to the transmitter.
	// Callers check ReadyToTransmit first.
	WriteByte(b byte) error

	// ReadyToTransmit reports whether the transmitter can accept a byte
	ReadyToTransmit() bool

	// RxPending reports whether received data is waiting
	RxPending() bool
}

// MotorPins drives the three motor-driver outputs: step granularity,
// direction and the step pulse line.
type MotorPins interface {
	SetPins(size StepSize, dir Direction, pulse bool)
}

// ActivityIndicator mirrors a liveness signal (usually an LED)
type ActivityIndicator interface {
	SetActivity(on bool)
}

// StepperBackend generates one physical step. Implementations must latch
// size and direction before the pulse edge and hold the pulse for the
// driver's minimum assertion time.
type StepperBackend interface {
	Pulse(size StepSize, dir Direction)

	// Name returns the backend implementation name
	Name() string
}

// PinStepper is the GPIO step backend: it sequences MotorPins and holds
// the pulse for one settle period using the time base.
type PinStepper struct {
	pins   MotorPins
	settle Waiter
	hold   Tick
}

// NewPinStepper creates a GPIO backend. hold is the pulse width in ticks.
func NewPinStepper(pins MotorPins, settle Waiter, hold Tick) *PinStepper {
	if hold == 0 {
		hold = 1
	}
	return &PinStepper{pins: pins, settle: settle, hold: hold}
}

// Pulse latches size and direction, then asserts and releases the step line
func (p *PinStepper) Pulse(size StepSize, dir Direction) {
	p.pins.SetPins(size, dir, false)
	p.pins.SetPins(size, dir, true)
	if p.settle != nil {
		p.settle.Wait(p.hold)
	}
	p.pins.SetPins(size, dir, false)
}

// Name returns the backend name
func (p *PinStepper) Name() string {
	return "GPIO"
}
