package core

// Single-axis cadence scheduler. The motor steps at a constant period
// (in ticks) either continuously or for a finite number of steps.

const (
	// MinPeriod is the shortest accepted period. Anything faster is above
	// the motor's rated pulse rate at DefaultTickRate.
	MinPeriod = 3

	// DefaultPeriod is half a second at DefaultTickRate
	DefaultPeriod = 790
)

// Direction of rotation
type Direction uint8

const (
	Clockwise        Direction = 0
	CounterClockwise Direction = 1
)

func (d Direction) String() string {
	if d == CounterClockwise {
		return "counter clockwise"
	}
	return "clockwise"
}

// StepSize is the step granularity latched into the driver
type StepSize uint8

const (
	HalfStep StepSize = 0
	FullStep StepSize = 1
)

func (s StepSize) String() string {
	if s == FullStep {
		return "full"
	}
	return "half"
}

// Mode is the motor's operating mode
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeContinuous
	ModeStepping
)

func (m Mode) String() string {
	switch m {
	case ModeContinuous:
		return "continuous"
	case ModeStepping:
		return "stepping"
	default:
		return "idle"
	}
}

// Motor holds the motor configuration and the cadence counter.
// It is owned by the control loop; the interrupt never touches it.
type Motor struct {
	enabled   bool   // continuous run until stop or step
	remaining uint32 // pending finite steps
	period    uint32 // ticks between step pulses, >= MinPeriod
	cadence   uint32 // ticks since the last period boundary
	direction Direction
	size      StepSize

	fired   uint32 // total pulses since boot
	backend StepperBackend
}

// NewMotor creates an idle motor at DefaultPeriod, clockwise, full steps
func NewMotor(backend StepperBackend) *Motor {
	return &Motor{
		period:    DefaultPeriod,
		direction: Clockwise,
		size:      FullStep,
		backend:   backend,
	}
}

// Start enters continuous mode and drops any pending finite run
func (m *Motor) Start() {
	m.enabled = true
	m.remaining = 0
	RecordEvent(EvtModeChange, 0, uint32(ModeContinuous), 0)
}

// Stop halts the motor and clears pending steps
func (m *Motor) Stop() {
	m.enabled = false
	m.remaining = 0
	RecordEvent(EvtModeChange, 0, uint32(ModeIdle), 0)
}

// StepN schedules exactly n steps and leaves continuous mode.
// n == 0 changes nothing and returns false.
func (m *Motor) StepN(n uint32) bool {
	if n == 0 {
		return false
	}
	m.remaining = n
	m.enabled = false
	RecordEvent(EvtModeChange, 0, uint32(ModeStepping), n)
	return true
}

// SetPeriod sets the step period. Periods below MinPeriod are rejected and
// the previous period is kept. On success the cadence restarts so the new
// period applies from the next tick.
func (m *Motor) SetPeriod(p uint32) bool {
	if p < MinPeriod {
		return false
	}
	m.period = p
	m.cadence = 0
	return true
}

// SetDirection sets the direction latched on the next pulse
func (m *Motor) SetDirection(d Direction) {
	m.direction = d
}

// SetStepSize sets the granularity latched on the next pulse
func (m *Motor) SetStepSize(s StepSize) {
	m.size = s
}

// Advance runs one tick of the cadence. Call it once per newly observed
// tick. When both a continuous run and a finite run are pending on the
// same boundary, each contributes its own pulse.
func (m *Motor) Advance(now Tick) {
	m.cadence++
	if m.cadence != m.period {
		return
	}
	m.cadence = 0

	if m.enabled {
		m.fire(now)
	}
	if m.remaining > 0 {
		m.remaining--
		m.fire(now)
	}
}

func (m *Motor) fire(now Tick) {
	m.fired++
	RecordEvent(EvtStepFire, uint32(now), uint32(m.direction), m.remaining)
	if m.backend != nil {
		m.backend.Pulse(m.size, m.direction)
	}
}

// Mode reports the current operating mode
func (m *Motor) Mode() Mode {
	switch {
	case m.enabled:
		return ModeContinuous
	case m.remaining > 0:
		return ModeStepping
	default:
		return ModeIdle
	}
}

// IsOn reports whether the motor is running in either mode
func (m *Motor) IsOn() bool {
	return m.enabled || m.remaining > 0
}

func (m *Motor) Enabled() bool          { return m.enabled }
func (m *Motor) RemainingSteps() uint32 { return m.remaining }
func (m *Motor) Period() uint32         { return m.period }
func (m *Motor) Cadence() uint32        { return m.cadence }
func (m *Motor) Direction() Direction   { return m.direction }
func (m *Motor) StepSize() StepSize     { return m.size }

// Fired returns the number of step pulses generated since creation
func (m *Motor) Fired() uint32 {
	return m.fired
}
