//go:build rp2040

package main

import (
	"stepctl/config"
	"stepctl/console"
	"stepctl/core"
	"stepctl/targets/pio"
)

var faults uint32

func main() {
	cfg := config.Default()

	if w := initDebug(cfg.Firmware.Debug); w != nil {
		core.SetDebugWriter(w)
		core.SetDebugEnabled(true)
	}

	if err := config.Validate(cfg); err != nil {
		core.DebugPrintln("[MAIN] bad config: " + err.Error())
		fault(cfg.Board.ActivityPin)
	}

	serial, err := NewUARTSerial(cfg.Board.UARTBaud)
	if err != nil {
		fault(cfg.Board.ActivityPin)
	}

	timeBase = core.NewTimeBase(&alarm, cfg.Firmware.TickRate)
	if err := timeBase.Init(); err != nil {
		fault(cfg.Board.ActivityPin)
	}

	backend := newBackend(cfg)
	core.DebugPrintln("[MAIN] pulse backend " + backend.Name())

	ctl := console.New(cfg.Firmware, timeBase, serial, backend)
	ctl.SetActivityIndicator(NewActivityLED(cfg.Board.ActivityPin))

	for {
		// Recover from panics in the loop to keep the console alive
		func() {
			defer func() {
				if r := recover(); r != nil {
					faults++
					core.RecordEvent(core.EvtFault, uint32(timeBase.Now()), faults, alarm.Late())
				}
			}()
			for {
				ctl.Poll()
			}
		}()
	}
}

// newBackend picks the step pulse generator. The PIO backend falls back to
// GPIO when no state machine can be claimed.
func newBackend(cfg *config.Config) core.StepperBackend {
	pins := NewMotorPins(cfg.Board)
	gpio := core.NewPinStepper(pins, timeBase, core.Tick(cfg.Firmware.PulseTicks))

	if cfg.Firmware.PulseBackend != "pio" {
		return gpio
	}
	b, err := pio.NewPulseBackend()
	if err == nil {
		err = b.Init(cfg.Board.StepSizePin, cfg.Board.StepPin, cfg.Firmware.TickRate, cfg.Firmware.PulseTicks)
	}
	if err != nil {
		core.DebugPrintln("[MAIN] pio unavailable, using GPIO: " + err.Error())
		return gpio
	}
	return b
}
