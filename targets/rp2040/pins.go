//go:build rp2040

package main

import (
	"machine"

	"stepctl/config"
	"stepctl/core"
)

// MotorPins drives the step-size, direction and step outputs
type MotorPins struct {
	size machine.Pin
	dir  machine.Pin
	step machine.Pin
}

// NewMotorPins configures the motor outputs, all low
func NewMotorPins(b config.BoardConfig) *MotorPins {
	p := &MotorPins{
		size: machine.Pin(b.StepSizePin),
		dir:  machine.Pin(b.DirectionPin),
		step: machine.Pin(b.StepPin),
	}
	for _, pin := range []machine.Pin{p.size, p.dir, p.step} {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pin.Low()
	}
	return p
}

// SetPins implements core.MotorPins
func (p *MotorPins) SetPins(size core.StepSize, dir core.Direction, pulse bool) {
	p.size.Set(size == core.FullStep)
	p.dir.Set(dir == core.CounterClockwise)
	p.step.Set(pulse)
}

// ActivityLED implements core.ActivityIndicator
type ActivityLED struct {
	pin machine.Pin
}

// NewActivityLED configures pin as the activity output
func NewActivityLED(pin uint8) *ActivityLED {
	l := &ActivityLED{pin: machine.Pin(pin)}
	l.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	l.pin.Low()
	return l
}

// SetActivity implements core.ActivityIndicator
func (l *ActivityLED) SetActivity(on bool) {
	l.pin.Set(on)
}
