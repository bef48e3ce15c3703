package protocol

// ByteSource is a non-blocking byte input
type ByteSource interface {
	TryReadByte() (byte, bool)
}

// ByteSink receives echoed bytes
type ByteSink interface {
	WriteByte(b byte) error
}

// LineFramer assembles serial bytes into lines in a fixed buffer.
//
// When the cursor reaches capacity without a terminator it silently wraps
// to zero and the unterminated prefix is lost. A terminator nul-terminates
// the buffer, resets the cursor and completes the line.
type LineFramer struct {
	buf  [LineCapacity]byte
	pos  int
	echo ByteSink

	overflows uint32
	echoDrops uint32
}

// NewLineFramer creates an empty framer with echo disabled
func NewLineFramer() *LineFramer {
	return &LineFramer{}
}

// SetEcho retransmits every accepted byte to sink before framing.
// A nil sink disables echo.
func (f *LineFramer) SetEcho(sink ByteSink) {
	f.echo = sink
}

// Poll reads at most one byte from src and feeds it. The returned line is
// a view into the framer's buffer, valid until the next Poll or Feed.
func (f *LineFramer) Poll(src ByteSource) ([]byte, bool) {
	b, ok := src.TryReadByte()
	if !ok {
		return nil, false
	}
	if f.echo != nil {
		if f.echo.WriteByte(b) != nil {
			f.echoDrops++
		}
	}
	return f.Feed(b)
}

// Feed appends one byte and returns the completed line when b is a
// terminator. The returned slice excludes the terminator.
func (f *LineFramer) Feed(b byte) ([]byte, bool) {
	if f.pos >= LineCapacity {
		f.pos = 0
		f.overflows++
	}

	f.buf[f.pos] = b
	if IsTerminator(b) {
		end := f.pos
		f.buf[end] = 0
		f.pos = 0
		return f.buf[:end], true
	}

	f.pos++
	return nil, false
}

// Pending returns the number of bytes in the unterminated line
func (f *LineFramer) Pending() int {
	return f.pos
}

// Overflows returns how many times an unterminated line wrapped
func (f *LineFramer) Overflows() uint32 {
	return f.overflows
}

// EchoDrops returns how many echoed bytes the sink refused
func (f *LineFramer) EchoDrops() uint32 {
	return f.echoDrops
}

// Reset discards any partial line
func (f *LineFramer) Reset() {
	f.pos = 0
}
