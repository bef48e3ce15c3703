// Package console is the serial command console: it frames input lines,
// parses them, applies them to the motor and advances the motor once per
// tick. Everything here runs on the single main-loop context.
package console

import (
	"context"

	"stepctl/config"
	"stepctl/core"
	"stepctl/protocol"
)

// Controller is the control loop and owns all state except the tick
type Controller struct {
	clock    core.Clock
	serial   core.SerialDriver
	activity core.ActivityIndicator

	framer *protocol.LineFramer
	tx     *protocol.FifoBuffer
	motor  *core.Motor

	tickRate  uint32
	lastTick  core.Tick
	overflows uint32
	echoDrops uint32
}

// New creates a controller. The motor starts idle with the configured
// period, direction and step size.
func New(cfg config.FirmwareConfig, clock core.Clock, serial core.SerialDriver, backend core.StepperBackend) *Controller {
	txSize := cfg.TxQueueSize
	if txSize <= 0 {
		txSize = protocol.TxQueueSize
	}
	c := &Controller{
		clock:    clock,
		serial:   serial,
		framer:   protocol.NewLineFramer(),
		tx:       protocol.NewFifoBuffer(txSize),
		motor:    core.NewMotor(backend),
		tickRate: cfg.TickRate,
		lastTick: clock.Now(),
	}

	c.motor.SetPeriod(cfg.Period)
	if dir, ok := ParseDirection(" " + cfg.Direction); ok {
		c.motor.SetDirection(dir)
	}
	if size, ok := ParseStepSize(" " + cfg.StepSize); ok {
		c.motor.SetStepSize(size)
	}
	if cfg.Echo {
		c.framer.SetEcho(c.tx)
	}
	return c
}

// SetActivityIndicator mirrors the receive-pending flag onto a on every poll
func (c *Controller) SetActivityIndicator(a core.ActivityIndicator) {
	c.activity = a
}

// Motor returns the motor driven by this controller
func (c *Controller) Motor() *core.Motor {
	return c.motor
}

// Run polls forever, or until ctx is done
func (c *Controller) Run(ctx context.Context) {
	done := ctx.Done()
	for {
		select {
		case <-done:
			c.flush()
			return
		default:
		}
		c.Poll()
	}
}

// Poll runs one iteration of the control loop. It never blocks except when
// a response does not fit the output queue.
func (c *Controller) Poll() {
	if c.activity != nil {
		c.activity.SetActivity(c.serial.RxPending())
	}

	if line, ok := c.framer.Poll(c.serial); ok {
		cmd := Parse(string(line))
		if cmd.Kind != None {
			core.RecordEvent(core.EvtCommand, uint32(len(line)), uint32(cmd.Kind), 0)
			c.Execute(cmd)
		}
	}
	if n := c.framer.Overflows(); n != c.overflows {
		c.overflows = n
		core.RecordEvent(core.EvtLineOverflow, uint32(c.clock.Now()), n, 0)
	}
	if n := c.framer.EchoDrops(); n != c.echoDrops {
		core.RecordEvent(core.EvtTxDrop, uint32(c.clock.Now()), n-c.echoDrops, 1)
		c.echoDrops = n
	}

	c.flush()

	now := c.clock.Now()
	if now == c.lastTick {
		return
	}
	// Ticks that elapsed between polls are not replayed
	c.motor.Advance(now)
	c.lastTick = now
}

// Execute applies cmd and queues its response
func (c *Controller) Execute(cmd Command) {
	m := c.motor

	switch cmd.Kind {
	case Help:
		c.print(helpText)

	case Info:
		if m.IsOn() {
			c.print("Motor is ON\r\n")
		} else {
			c.print("Motor is OFF\r\n")
		}
		c.print("Period = " + core.Utoa(m.Period()) +
			" ticks (tickrate = " + core.Utoa(c.tickRate) + " Hz)\r\n")
		c.print("Direction is " + m.Direction().String() + "\r\n")
		c.print("Step size is " + m.StepSize().String() + " steps\r\n")

	case Start:
		m.Start()

	case Stop:
		m.Stop()

	case SetSpeed:
		m.SetPeriod(ParseUnsigned(cmd.Arg))
		c.print("Stepping every " + core.Utoa(m.Period()) + " ticks\r\n")

	case SetDirection:
		if cmd.Arg != "" {
			if dir, ok := ParseDirection(cmd.Arg); ok {
				m.SetDirection(dir)
			} else {
				c.print("Unknown direction\r\n")
			}
		}
		c.print("Motor direction is " + m.Direction().String() + "\r\n")

	case SetStepSize:
		if cmd.Arg != "" {
			if size, ok := ParseStepSize(cmd.Arg); ok {
				m.SetStepSize(size)
			} else {
				c.print("Unknown step size\r\n")
			}
		}
		c.print("Stepping with " + m.StepSize().String() + " steps\r\n")

	case StepN:
		m.StepN(ParseUnsigned(cmd.Arg))
		c.print("Stepping for another " + core.Utoa(m.RemainingSteps()) + " steps\n")
	}
}

// print queues s, flushing synchronously while the queue is full
func (c *Controller) print(s string) {
	for len(s) > 0 {
		n := c.tx.WriteString(s)
		s = s[n:]
		if len(s) == 0 {
			return
		}
		if !c.flushBlocking() {
			core.RecordEvent(core.EvtTxDrop, uint32(c.clock.Now()), uint32(len(s)), 0)
			return
		}
	}
}

// flush sends queued bytes while the transmitter is ready
func (c *Controller) flush() {
	for !c.tx.IsEmpty() && c.serial.ReadyToTransmit() {
		if !c.sendOne() {
			return
		}
	}
}

// flushBlocking waits on the transmitter until the queue is empty.
// Returns false if the link failed and the queue was dropped.
func (c *Controller) flushBlocking() bool {
	for !c.tx.IsEmpty() {
		if !c.serial.ReadyToTransmit() {
			continue
		}
		if !c.sendOne() {
			return false
		}
	}
	return true
}

func (c *Controller) sendOne() bool {
	b, _ := c.tx.PopByte()
	if err := c.serial.WriteByte(b); err != nil {
		core.DebugPrintln("[CONSOLE] write failed: " + err.Error())
		core.RecordEvent(core.EvtTxDrop, uint32(c.clock.Now()), uint32(c.tx.Available()), 0)
		c.tx.Reset()
		return false
	}
	return true
}
