//go:build rp2040

package main

// PIO pulse bench - emits bursts of step pulses at decreasing spacing
// Watch size/dir/step on an oscilloscope to check latch-then-pulse ordering

import (
	"machine"
	"time"

	"stepctl/config"
	"stepctl/core"
	piopulse "stepctl/targets/pio"
)

// Pulse spacing per burst
var spacings = []time.Duration{
	100 * time.Millisecond,
	10 * time.Millisecond,
	time.Millisecond,
}

func main() {
	time.Sleep(3 * time.Second)

	cfg := config.Default()
	led := machine.Pin(cfg.Board.ActivityPin)
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	// Flash LED to indicate start
	for i := 0; i < 3; i++ {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}

	println("=== PIO Pulse Bench ===")
	println("Size: GP", cfg.Board.StepSizePin, " Dir: GP", cfg.Board.DirectionPin, " Step: GP", cfg.Board.StepPin)

	b, err := piopulse.NewPulseBackend()
	if err == nil {
		err = b.Init(cfg.Board.StepSizePin, cfg.Board.StepPin, cfg.Firmware.TickRate, cfg.Firmware.PulseTicks)
	}
	if err != nil {
		println("Init error:", err.Error())
		for {
			led.High()
			time.Sleep(100 * time.Millisecond)
			led.Low()
			time.Sleep(100 * time.Millisecond)
		}
	}
	println("Init OK!")

	cycle := 0
	for {
		cycle++
		println("\n=== Cycle", cycle, "===")

		for _, spacing := range spacings {
			println("Spacing", spacing.String())
			for i := 0; i < 20; i++ {
				size := core.StepSize(i & 1)
				dir := core.Direction((i >> 1) & 1)
				b.Pulse(size, dir)
				time.Sleep(spacing)
			}
			led.Set(!led.Get())
			time.Sleep(time.Second)
		}
	}
}
