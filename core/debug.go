package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a control-loop event for post-mortem analysis
type Event struct {
	Type   uint8  // Event type code
	Clock  uint32 // Tick (or line length) at event
	Value1 uint32 // Context-dependent value
	Value2 uint32 // Context-dependent value
}

// Event type codes
const (
	EvtStepFire     = 1 // Step pulse fired: clock, direction, remaining
	EvtModeChange   = 2 // Motor mode changed: mode, step count
	EvtCommand      = 3 // Command dispatched: line length, kind
	EvtLineOverflow = 4 // Input line wrapped before a terminator
	EvtTxDrop       = 5 // Output queue overflowed while flushing
	EvtFault        = 6 // Control loop recovered from a panic: clock, count, late alarms
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event capture ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]Event
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, a host logger, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent captures an event in the ring buffer.
// Always non-blocking; the oldest entry is overwritten.
func RecordEvent(eventType uint8, clock, value1, value2 uint32) {
	idx := eventRingHead
	eventRing[idx] = Event{
		Type:   eventType,
		Clock:  clock,
		Value1: value1,
		Value2: value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first
func Events() []Event {
	out := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Type == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// DumpEvents writes the event ring through the debug writer regardless of
// the debug enable flag
func DumpEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENT] === Event Ring Dump ===")
	for _, evt := range Events() {
		var name string
		switch evt.Type {
		case EvtStepFire:
			name = "STEP"
		case EvtModeChange:
			name = "MODE"
		case EvtCommand:
			name = "COMMAND"
		case EvtLineOverflow:
			name = "OVERFLOW"
		case EvtTxDrop:
			name = "TX_DROP"
		case EvtFault:
			name = "FAULT"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[EVENT] " + name +
			" clock=" + Utoa(evt.Clock) +
			" v1=" + Utoa(evt.Value1) +
			" v2=" + Utoa(evt.Value2))
	}
	debugPrintln("[EVENT] === End Dump ===")
}

// ClearEvents clears the event ring
func ClearEvents() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
}
