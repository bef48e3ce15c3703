// Package link is the host end of the controller's serial console: it sends
// command lines and collects the text the controller prints back.
package link

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"stepctl/host/serial"
	"stepctl/protocol"
)

// ErrNotConnected is returned when the link has no open port
var ErrNotConnected = errors.New("not connected to controller")

// MaxLineLength is the longest command the controller frames intact
const MaxLineLength = protocol.LineCapacity - 1

// Link represents a connection to a stepper controller
type Link struct {
	port io.ReadWriteCloser

	lines   chan string
	done    chan struct{}
	closing chan struct{}

	mu        sync.Mutex
	connected bool
	readErr   error
}

// New wraps an already open port and starts reading replies
func New(port io.ReadWriteCloser) *Link {
	l := &Link{
		port:      port,
		lines:     make(chan string, 64),
		done:      make(chan struct{}),
		closing:   make(chan struct{}),
		connected: true,
	}
	go l.readLoop()
	return l
}

// Connect opens device with the controller's default serial settings
func Connect(device string) (*Link, error) {
	return ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens a serial port with a custom config
func ConnectWithConfig(cfg *serial.Config) (*Link, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	return New(port), nil
}

// Close closes the port; pending replies are discarded
func (l *Link) Close() error {
	l.mu.Lock()
	if !l.connected {
		l.mu.Unlock()
		return nil
	}
	l.connected = false
	close(l.closing)
	l.mu.Unlock()

	return l.port.Close()
}

// IsConnected returns whether the link is open and the reader is alive
func (l *Link) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected && l.readErr == nil
}

// Err returns the error that stopped the reader, if any
func (l *Link) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readErr
}

// SendLine sends one command terminated by a carriage return. The
// controller's line buffer holds 15 characters; longer lines lose their
// head, so they are rejected here.
func (l *Link) SendLine(cmd string) error {
	if !l.IsConnected() {
		return ErrNotConnected
	}
	if strings.ContainsAny(cmd, "\r\n\x00") {
		return fmt.Errorf("command %q contains a line terminator", cmd)
	}
	if len(cmd) > MaxLineLength {
		return fmt.Errorf("command %q longer than %d characters", cmd, MaxLineLength)
	}
	if _, err := io.WriteString(l.port, cmd+"\r"); err != nil {
		return fmt.Errorf("failed to send %q: %w", cmd, err)
	}
	return nil
}

// Lines returns the channel of reply lines, with line endings removed.
// It is closed when the reader stops.
func (l *Link) Lines() <-chan string {
	return l.lines
}

// Collect gathers reply lines until no line arrives for quiet, or until
// the reader stops
func (l *Link) Collect(quiet time.Duration) []string {
	var out []string
	timer := time.NewTimer(quiet)
	defer timer.Stop()

	for {
		select {
		case line, ok := <-l.lines:
			if !ok {
				return out
			}
			out = append(out, line)
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(quiet)
		case <-timer.C:
			return out
		}
	}
}

// Exchange sends cmd and collects its reply
func (l *Link) Exchange(cmd string, quiet time.Duration) ([]string, error) {
	if err := l.SendLine(cmd); err != nil {
		return nil, err
	}
	return l.Collect(quiet), nil
}

// Done is closed when the reader stops
func (l *Link) Done() <-chan struct{} {
	return l.done
}

func (l *Link) readLoop() {
	defer close(l.done)
	defer close(l.lines)

	r := bufio.NewReader(l.port)
	var line strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			// Timeouts from the native port surface as io.EOF with no data
			if errors.Is(err, io.EOF) && l.IsConnected() && !isPipe(l.port) {
				continue
			}
			if line.Len() > 0 {
				l.emit(line.String())
			}
			l.mu.Lock()
			if l.connected && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				l.readErr = err
			}
			l.mu.Unlock()
			return
		}

		switch b {
		case '\n':
			if !l.emit(line.String()) {
				return
			}
			line.Reset()
		case '\r':
		default:
			line.WriteByte(b)
		}
	}
}

// emit delivers a reply line, giving up once the link is closed
func (l *Link) emit(line string) bool {
	select {
	case l.lines <- line:
		return true
	case <-l.closing:
		return false
	}
}

// isPipe reports whether port is an in-process stream whose EOF is final
func isPipe(port io.ReadWriteCloser) bool {
	_, native := port.(*serial.NativePort)
	return !native
}
