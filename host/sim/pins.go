package sim

import (
	"log"
	"sync"

	"stepctl/core"
)

// Pulse is one recorded rising edge of the step line
type Pulse struct {
	At   core.Tick
	Size core.StepSize
	Dir  core.Direction
}

// Pins records the motor driver outputs. A pulse is counted on each rising
// edge of the step line with the size and direction latched at that edge.
type Pins struct {
	mu     sync.Mutex
	clock  core.Clock
	logger *log.Logger

	size   core.StepSize
	dir    core.Direction
	step   bool
	pulses []Pulse
}

// NewPins creates recording pins; logger may be nil
func NewPins(clock core.Clock, logger *log.Logger) *Pins {
	return &Pins{clock: clock, logger: logger}
}

// SetPins implements core.MotorPins
func (p *Pins) SetPins(size core.StepSize, dir core.Direction, pulse bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rising := pulse && !p.step
	p.size, p.dir, p.step = size, dir, pulse
	if !rising {
		return
	}

	var at core.Tick
	if p.clock != nil {
		at = p.clock.Now()
	}
	p.pulses = append(p.pulses, Pulse{At: at, Size: size, Dir: dir})
	if p.logger != nil {
		p.logger.Printf("[SIM] step %d at tick %d: %s, %s", len(p.pulses), at, size, dir)
	}
}

// Count returns the number of pulses so far
func (p *Pins) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pulses)
}

// Pulses returns a copy of the recorded pulses
func (p *Pins) Pulses() []Pulse {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Pulse, len(p.pulses))
	copy(out, p.pulses)
	return out
}

// Position is the net step count, clockwise positive. A half step counts
// one and a full step two.
func (p *Pins) Position() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos := 0
	for _, pl := range p.pulses {
		n := 1
		if pl.Size == core.FullStep {
			n = 2
		}
		if pl.Dir == core.CounterClockwise {
			n = -n
		}
		pos += n
	}
	return pos
}

// LED is the activity indicator
type LED struct {
	mu      sync.Mutex
	on      bool
	changes int
}

// SetActivity implements core.ActivityIndicator
func (l *LED) SetActivity(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if on != l.on {
		l.changes++
	}
	l.on = on
}

// On returns the current LED state
func (l *LED) On() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

// Changes returns how many times the LED toggled
func (l *LED) Changes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.changes
}
