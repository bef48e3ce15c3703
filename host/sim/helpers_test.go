package sim

import (
	"bytes"
	"io"
	"sync"
)

func ioPipe() (*io.PipeReader, *io.PipeWriter) {
	return io.Pipe()
}

// safeBuffer is written by the loop goroutine and read by the test
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
