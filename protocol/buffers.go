package protocol

// FifoBuffer is a circular byte queue. One slot is always kept free so a
// full queue can be told apart from an empty one.
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewFifoBuffer creates a new FifoBuffer holding up to capacity-1 bytes
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends as much of data as fits and returns the count written
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		if !f.put(b) {
			break
		}
		written++
	}
	return written
}

// WriteString appends as much of s as fits and returns the count written
func (f *FifoBuffer) WriteString(s string) int {
	written := 0
	for i := 0; i < len(s); i++ {
		if !f.put(s[i]) {
			break
		}
		written++
	}
	return written
}

// WriteByte appends one byte, returning ErrQueueFull when there is no room
func (f *FifoBuffer) WriteByte(b byte) error {
	if !f.put(b) {
		return ErrQueueFull
	}
	return nil
}

func (f *FifoBuffer) put(b byte) bool {
	next := (f.write + 1) % f.size
	if next == f.read {
		return false
	}
	f.buf[f.write] = b
	f.write = next
	return true
}

// PopByte removes and returns the oldest byte
func (f *FifoBuffer) PopByte() (byte, bool) {
	if f.read == f.write {
		return 0, false
	}
	b := f.buf[f.read]
	f.read = (f.read + 1) % f.size
	return b, true
}

// Read reads up to len(data) bytes from the FIFO buffer
func (f *FifoBuffer) Read(data []byte) int {
	n := 0
	for n < len(data) {
		b, ok := f.PopByte()
		if !ok {
			break
		}
		data[n] = b
		n++
	}
	return n
}

// Available returns the number of bytes queued
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the number of bytes that can still be written
func (f *FifoBuffer) Free() int {
	return f.size - f.Available() - 1
}

// IsEmpty returns true if the buffer is empty
func (f *FifoBuffer) IsEmpty() bool {
	return f.read == f.write
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}
