package sim

import (
	"io"
	"sync"
	"time"

	"stepctl/protocol"
)

// RxFifoSize matches a small hardware receive FIFO
const RxFifoSize = 64

// Serial is a software UART. Received bytes are queued by Inject (or by an
// attached reader); transmitted bytes go straight to the output writer.
type Serial struct {
	mu  sync.Mutex
	rx  *protocol.FifoBuffer
	out io.Writer
}

// NewSerial creates a UART that transmits to out
func NewSerial(out io.Writer) *Serial {
	return &Serial{
		rx:  protocol.NewFifoBuffer(RxFifoSize),
		out: out,
	}
}

// Inject queues received bytes and returns how many fit
func (s *Serial) Inject(p []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rx.Write(p)
}

// Attach copies r into the receive queue until r fails. Bytes are held
// back while the queue is full, like a flow-controlled line.
func (s *Serial) Attach(r io.Reader) {
	go func() {
		buf := make([]byte, RxFifoSize)
		for {
			n, err := r.Read(buf)
			pending := buf[:n]
			for len(pending) > 0 {
				w := s.Inject(pending)
				pending = pending[w:]
				if len(pending) > 0 {
					time.Sleep(time.Millisecond)
				}
			}
			if err != nil {
				return
			}
		}
	}()
}

// TryReadByte implements core.SerialDriver
func (s *Serial) TryReadByte() (byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rx.PopByte()
}

// RxPending implements core.SerialDriver
func (s *Serial) RxPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.rx.IsEmpty()
}

// ReadyToTransmit implements core.SerialDriver; the writer never backs up
func (s *Serial) ReadyToTransmit() bool {
	return true
}

// WriteByte implements core.SerialDriver
func (s *Serial) WriteByte(b byte) error {
	if s.out == nil {
		return nil
	}
	_, err := s.out.Write([]byte{b})
	return err
}
