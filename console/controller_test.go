package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"stepctl/config"
	"stepctl/core"
)

type fakeClock struct {
	now core.Tick
}

func (c *fakeClock) Now() core.Tick { return c.now }

type fakeSerial struct {
	in      []byte
	out     bytes.Buffer
	busy    bool
	failErr error
}

func (s *fakeSerial) TryReadByte() (byte, bool) {
	if len(s.in) == 0 {
		return 0, false
	}
	b := s.in[0]
	s.in = s.in[1:]
	return b, true
}

func (s *fakeSerial) WriteByte(b byte) error {
	if s.failErr != nil {
		return s.failErr
	}
	return s.out.WriteByte(b)
}

func (s *fakeSerial) ReadyToTransmit() bool { return !s.busy }
func (s *fakeSerial) RxPending() bool       { return len(s.in) > 0 }

type pulse struct {
	size core.StepSize
	dir  core.Direction
}

type recordingBackend struct {
	pulses []pulse
}

func (b *recordingBackend) Pulse(size core.StepSize, dir core.Direction) {
	b.pulses = append(b.pulses, pulse{size, dir})
}

func (b *recordingBackend) Name() string { return "recording" }

type activityLog struct {
	states []bool
}

func (a *activityLog) SetActivity(on bool) { a.states = append(a.states, on) }

type rig struct {
	clock   *fakeClock
	serial  *fakeSerial
	backend *recordingBackend
	ctl     *Controller
}

func newRig(t *testing.T, mutate func(*config.FirmwareConfig)) *rig {
	t.Helper()
	cfg := config.Default().Firmware
	if mutate != nil {
		mutate(&cfg)
	}
	r := &rig{
		clock:   &fakeClock{},
		serial:  &fakeSerial{},
		backend: &recordingBackend{},
	}
	r.ctl = New(cfg, r.clock, r.serial, r.backend)
	return r
}

// send delivers s and polls until every byte has been consumed
func (r *rig) send(s string) string {
	r.serial.out.Reset()
	r.serial.in = append(r.serial.in, s...)
	for len(r.serial.in) > 0 {
		r.ctl.Poll()
	}
	r.ctl.Poll()
	return r.serial.out.String()
}

// run advances the clock one tick at a time, polling once per tick
func (r *rig) run(ticks int) {
	for i := 0; i < ticks; i++ {
		r.clock.now++
		r.ctl.Poll()
	}
}

func TestControllerDefaults(t *testing.T) {
	r := newRig(t, nil)
	m := r.ctl.Motor()

	if m.Period() != 790 {
		t.Errorf("Expected period 790, got %d", m.Period())
	}
	if m.IsOn() {
		t.Error("Expected motor to start idle")
	}

	r.run(2000)
	if len(r.backend.pulses) != 0 {
		t.Errorf("Expected no pulses while idle, got %d", len(r.backend.pulses))
	}
}

func TestControllerConfiguredStartup(t *testing.T) {
	r := newRig(t, func(c *config.FirmwareConfig) {
		c.Period = 100
		c.Direction = "cc"
		c.StepSize = "half"
	})
	m := r.ctl.Motor()

	if m.Period() != 100 || m.Direction() != core.CounterClockwise || m.StepSize() != core.HalfStep {
		t.Errorf("Expected 100/cc/half, got %d/%v/%v", m.Period(), m.Direction(), m.StepSize())
	}
}

func TestControllerContinuousRun(t *testing.T) {
	r := newRig(t, nil)

	if got := r.send("speed 500\r"); got != "Stepping every 500 ticks\r\n" {
		t.Errorf("Unexpected speed response %q", got)
	}
	if got := r.send("start\r"); got != "" {
		t.Errorf("Expected start to be silent, got %q", got)
	}

	r.run(1000)

	if len(r.backend.pulses) != 2 {
		t.Errorf("Expected 2 pulses in 1000 ticks, got %d", len(r.backend.pulses))
	}
	if r.ctl.Motor().Mode() != core.ModeContinuous {
		t.Errorf("Expected continuous mode, got %v", r.ctl.Motor().Mode())
	}

	r.send("stop\r")
	r.run(1000)
	if len(r.backend.pulses) != 2 {
		t.Errorf("Expected no pulses after stop, got %d", len(r.backend.pulses))
	}
	if r.ctl.Motor().Mode() != core.ModeIdle {
		t.Errorf("Expected idle after stop, got %v", r.ctl.Motor().Mode())
	}
}

func TestControllerFiniteRun(t *testing.T) {
	r := newRig(t, nil)
	r.send("speed 3\r")

	if got := r.send("step 4\r"); got != "Stepping for another 4 steps\n" {
		t.Errorf("Unexpected step response %q", got)
	}

	r.run(30)

	if len(r.backend.pulses) != 4 {
		t.Errorf("Expected 4 pulses, got %d", len(r.backend.pulses))
	}
	if r.ctl.Motor().IsOn() {
		t.Error("Expected motor to be idle after a finite run")
	}
}

func TestControllerStepZero(t *testing.T) {
	r := newRig(t, nil)

	if got := r.send("step 0\r"); got != "Stepping for another 0 steps\n" {
		t.Errorf("Unexpected response %q", got)
	}
	if r.ctl.Motor().IsOn() {
		t.Error("Expected step 0 to leave the motor idle")
	}
}

func TestControllerSpeedTooLow(t *testing.T) {
	r := newRig(t, nil)
	r.send("speed 500\r")

	if got := r.send("speed 2\r"); got != "Stepping every 500 ticks\r\n" {
		t.Errorf("Expected rejected speed to keep 500, got %q", got)
	}
	if got := r.send("speed\r"); got != "Stepping every 500 ticks\r\n" {
		t.Errorf("Expected missing speed to keep 500, got %q", got)
	}
}

func TestControllerDirection(t *testing.T) {
	r := newRig(t, nil)

	if got := r.send("dir cc\r"); got != "Motor direction is counter clockwise\r\n" {
		t.Errorf("Unexpected response %q", got)
	}
	if got := r.send("dir up\r"); got != "Unknown direction\r\nMotor direction is counter clockwise\r\n" {
		t.Errorf("Unexpected response %q", got)
	}
	if got := r.send("dir\r"); got != "Motor direction is counter clockwise\r\n" {
		t.Errorf("Expected bare dir to report, got %q", got)
	}
	if got := r.send("dir cw\r"); got != "Motor direction is clockwise\r\n" {
		t.Errorf("Unexpected response %q", got)
	}
}

func TestControllerStepSize(t *testing.T) {
	r := newRig(t, nil)

	if got := r.send("size half\r"); got != "Stepping with half steps\r\n" {
		t.Errorf("Unexpected response %q", got)
	}
	if got := r.send("size big\r"); got != "Unknown step size\r\nStepping with half steps\r\n" {
		t.Errorf("Unexpected response %q", got)
	}

	r.send("speed 3\r")
	r.send("dir cc\r")
	r.send("step 1\r")
	r.run(3)

	if len(r.backend.pulses) != 1 {
		t.Fatalf("Expected 1 pulse, got %d", len(r.backend.pulses))
	}
	if p := r.backend.pulses[0]; p.size != core.HalfStep || p.dir != core.CounterClockwise {
		t.Errorf("Expected half/cc pulse, got %v/%v", p.size, p.dir)
	}
}

func TestControllerInfo(t *testing.T) {
	r := newRig(t, nil)

	want := "Motor is OFF\r\n" +
		"Period = 790 ticks (tickrate = 1580 Hz)\r\n" +
		"Direction is clockwise\r\n" +
		"Step size is full steps\r\n"
	if got := r.send("info\r"); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	r.send("start\r")
	if got := r.send("info\r"); !strings.HasPrefix(got, "Motor is ON\r\n") {
		t.Errorf("Expected motor ON, got %q", got)
	}
}

func TestControllerHelp(t *testing.T) {
	r := newRig(t, nil)

	if got := r.send("?\r"); got != helpText {
		t.Errorf("Expected help text, got %q", got)
	}
	if got := r.send("help\n"); got != helpText {
		t.Errorf("Expected help text, got %q", got)
	}
}

func TestControllerUnknownIsSilent(t *testing.T) {
	r := newRig(t, nil)

	if got := r.send("xyz\r\r\n"); got != "" {
		t.Errorf("Expected no response, got %q", got)
	}
}

func TestControllerEcho(t *testing.T) {
	r := newRig(t, func(c *config.FirmwareConfig) { c.Echo = true })

	got := r.send("dir\r")
	want := "dir\rMotor direction is clockwise\r\n"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestControllerOverflowDropsPrefix(t *testing.T) {
	r := newRig(t, nil)

	got := r.send(strings.Repeat("z", 16) + "info\r")
	if !strings.HasPrefix(got, "Motor is OFF") {
		t.Errorf("Expected tail to parse as info, got %q", got)
	}
}

func TestControllerActivityMirror(t *testing.T) {
	r := newRig(t, nil)
	a := &activityLog{}
	r.ctl.SetActivityIndicator(a)

	r.serial.in = []byte("ab")
	r.ctl.Poll()
	r.ctl.Poll()
	r.ctl.Poll()

	want := []bool{true, true, false}
	if len(a.states) != len(want) {
		t.Fatalf("Expected %d updates, got %d", len(want), len(a.states))
	}
	for i := range want {
		if a.states[i] != want[i] {
			t.Errorf("Update %d: expected %v, got %v", i, want[i], a.states[i])
		}
	}
}

func TestControllerHeldTransmitter(t *testing.T) {
	r := newRig(t, nil)
	r.serial.busy = true

	r.send("dir\r")
	if r.serial.out.Len() != 0 {
		t.Errorf("Expected nothing sent while busy, got %q", r.serial.out.String())
	}

	r.serial.busy = false
	r.ctl.Poll()
	if got := r.serial.out.String(); got != "Motor direction is clockwise\r\n" {
		t.Errorf("Expected queued response, got %q", got)
	}
}

func TestControllerEchoDropRecorded(t *testing.T) {
	core.ClearEvents()
	r := newRig(t, func(c *config.FirmwareConfig) {
		c.Echo = true
		c.TxQueueSize = 8
	})
	r.serial.busy = true

	r.send("abcdefghij")

	var drops []core.Event
	for _, evt := range core.Events() {
		if evt.Type == core.EvtTxDrop {
			drops = append(drops, evt)
		}
	}
	if len(drops) == 0 {
		t.Fatal("Expected a TX drop event for refused echo bytes")
	}
	var total uint32
	for _, evt := range drops {
		total += evt.Value1
	}
	if total != 3 {
		t.Errorf("Expected 3 dropped echo bytes, got %d", total)
	}

	r.serial.busy = false
	r.ctl.Poll()
	if got := r.serial.out.String(); got != "abcdefg" {
		t.Errorf("Expected the queued echo prefix, got %q", got)
	}
}

func TestControllerWriteFailure(t *testing.T) {
	r := newRig(t, nil)
	r.serial.failErr = errors.New("link down")

	r.send("info\r")

	r.serial.failErr = nil
	if got := r.send("dir\r"); got != "Motor direction is clockwise\r\n" {
		t.Errorf("Expected recovery after failure, got %q", got)
	}
}

func TestControllerSmallQueue(t *testing.T) {
	r := newRig(t, func(c *config.FirmwareConfig) { c.TxQueueSize = 8 })

	if got := r.send("?\r"); got != helpText {
		t.Errorf("Expected full help through a small queue, got %q", got)
	}
}

func TestControllerSkippedTicksAdvanceOnce(t *testing.T) {
	r := newRig(t, nil)
	r.send("speed 3\r")
	r.send("start\r")

	r.clock.now += 10
	r.ctl.Poll()

	if c := r.ctl.Motor().Cadence(); c != 1 {
		t.Errorf("Expected one cadence step per observed tick change, got %d", c)
	}
}

func TestControllerRunStops(t *testing.T) {
	r := newRig(t, nil)
	r.serial.in = []byte("dir\r")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	r.ctl.Run(ctx)

	if got := r.serial.out.String(); got != "Motor direction is clockwise\r\n" {
		t.Errorf("Expected response before Run returned, got %q", got)
	}
}
