// Package sim runs the unmodified control loop against a software HAL so
// the controller can be exercised on a development machine.
package sim

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"stepctl/config"
	"stepctl/console"
	"stepctl/core"
)

// Device is a simulated controller board
type Device struct {
	cfg *config.Config

	TimeBase *core.TimeBase
	Timer    *Timer
	Serial   *Serial
	Pins     *Pins
	LED      *LED

	ctl *console.Controller
}

// NewDevice builds a simulated board that prints to out. logger receives
// pulse traces and may be nil.
func NewDevice(cfg *config.Config, out io.Writer, logger *log.Logger) (*Device, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	d := &Device{
		cfg:    cfg,
		Timer:  &Timer{},
		Serial: NewSerial(out),
		LED:    &LED{},
	}
	d.TimeBase = core.NewTimeBase(d.Timer, cfg.Firmware.TickRate)
	if err := d.TimeBase.Init(); err != nil {
		return nil, fmt.Errorf("time base: %w", err)
	}
	d.Pins = NewPins(d.TimeBase, logger)

	// Without a running timer a settle wait would never end
	var settle core.Waiter
	if cfg.Sim.Realtime {
		settle = &tickWaiter{clock: d.TimeBase, idle: d.Timer.Period() / 4}
	}
	if cfg.Firmware.PulseBackend == "pio" && logger != nil {
		logger.Printf("[SIM] pio backend is not simulated, pulsing pins directly")
	}
	backend := core.NewPinStepper(d.Pins, settle, core.Tick(cfg.Firmware.PulseTicks))

	d.ctl = console.New(cfg.Firmware, d.TimeBase, d.Serial, backend)
	d.ctl.SetActivityIndicator(d.LED)
	return d, nil
}

// tickWaiter waits for ticks from the timer goroutine, sleeping between
// checks so the ticker is never starved
type tickWaiter struct {
	clock core.Clock
	idle  time.Duration
}

func (w *tickWaiter) Wait(n core.Tick) {
	idle := w.idle
	if idle <= 0 {
		idle = 100 * time.Microsecond
	}
	start := w.clock.Now()
	for core.Elapsed(start, w.clock.Now()) < n {
		time.Sleep(idle)
	}
}

// Controller returns the control loop
func (d *Device) Controller() *console.Controller {
	return d.ctl
}

// Motor returns the simulated motor state
func (d *Device) Motor() *core.Motor {
	return d.ctl.Motor()
}

// Run polls the control loop until ctx is done. In realtime mode the timer
// runs alongside; otherwise time only moves through Step.
func (d *Device) Run(ctx context.Context) {
	if d.cfg.Sim.Realtime {
		go d.Timer.Run(ctx, d.TimeBase.OnInterrupt)
	}

	idle := d.Timer.Period() / 4
	if idle <= 0 {
		idle = 100 * time.Microsecond
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		before := d.TimeBase.Now()
		d.ctl.Poll()
		if !d.Serial.RxPending() && d.TimeBase.Now() == before {
			time.Sleep(idle)
		}
	}
}

// Step fires n timer interrupts, polling the loop after each. Step and
// Send drive the loop themselves and must not be mixed with Run.
func (d *Device) Step(n int) {
	for i := 0; i < n; i++ {
		d.TimeBase.OnInterrupt()
		d.ctl.Poll()
	}
}

// Send injects s and polls until every byte has been handled. Time does
// not advance.
func (d *Device) Send(s string) {
	p := []byte(s)
	for len(p) > 0 {
		n := d.Serial.Inject(p)
		p = p[n:]
		for d.Serial.RxPending() {
			d.ctl.Poll()
		}
	}
	d.ctl.Poll()
}
