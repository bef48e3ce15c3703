package config

import (
	"errors"
	"fmt"

	"stepctl/core"
)

var (
	ErrTickRate     = errors.New("firmware.tick_rate must be non-zero")
	ErrPeriod       = errors.New("firmware.period below minimum")
	ErrDirection    = errors.New(`firmware.direction must be "cw" or "cc"`)
	ErrStepSize     = errors.New(`firmware.step_size must be "full" or "half"`)
	ErrPulseBackend = errors.New(`firmware.pulse_backend must be "gpio" or "pio"`)
	ErrPulseWidth   = errors.New("firmware.pulse_ticks must be shorter than the period")
	ErrPins         = errors.New("board: motor outputs must be distinct")
	ErrPIOPins      = errors.New("board: pio backend needs step_size_pin and direction_pin consecutive")
	ErrTxQueue      = errors.New("firmware.tx_queue_size must be at least 2")
	ErrPIOPulse     = errors.New("firmware.pulse_ticks too long for the pio clock divider")
)

// PIOClockHz is the RP2040 system clock the pio backend divides down
const PIOClockHz = 125000000

// pioPulseCycles is the length of the pio step-high phase in cycles
const pioPulseCycles = 32

// MaxPIOPulseTicks returns the longest pulse, in ticks, that the pio clock
// divider can time at tickRate without saturating
func MaxPIOPulseTicks(tickRate uint32) uint32 {
	limit := uint64(65536) * pioPulseCycles * uint64(tickRate)
	if limit == 0 {
		return 0
	}
	max := (limit - 1) / PIOClockHz
	if max > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(max)
}

// Validate checks configuration correctness.
// It performs declarative validation only and never mutates cfg.
func Validate(cfg *Config) error {
	fw := cfg.Firmware

	if fw.TickRate == 0 {
		return ErrTickRate
	}
	if fw.Period < core.MinPeriod {
		return fmt.Errorf("%w (%d): %d", ErrPeriod, core.MinPeriod, fw.Period)
	}
	if fw.Direction != "cw" && fw.Direction != "cc" {
		return ErrDirection
	}
	if fw.StepSize != "full" && fw.StepSize != "half" {
		return ErrStepSize
	}
	if fw.PulseTicks >= fw.Period {
		return ErrPulseWidth
	}
	if fw.TxQueueSize < 2 {
		return ErrTxQueue
	}

	b := cfg.Board
	if b.StepSizePin == b.DirectionPin || b.StepSizePin == b.StepPin || b.DirectionPin == b.StepPin {
		return ErrPins
	}

	switch fw.PulseBackend {
	case "gpio":
	case "pio":
		if b.DirectionPin != b.StepSizePin+1 {
			return ErrPIOPins
		}
		if max := MaxPIOPulseTicks(fw.TickRate); fw.PulseTicks > max {
			return fmt.Errorf("%w (max %d at %d Hz): %d", ErrPIOPulse, max, fw.TickRate, fw.PulseTicks)
		}
	default:
		return ErrPulseBackend
	}

	return nil
}
