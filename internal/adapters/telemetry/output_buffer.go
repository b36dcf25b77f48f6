// Package telemetry provides adapters for collecting and processing telemetry data.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultFlushSize is the number of buffered bytes that forces a flush.
	DefaultFlushSize = 4096
	// DefaultFlushDelay is how long output may sit in the buffer.
	DefaultFlushDelay = 50 * time.Millisecond
)

// ErrOutputClosed is returned by Write after the command span ended.
var ErrOutputClosed = errors.New("command output is closed")

// OutputBuffer collects the output of one command and hands it to a sink in
// chunks. A chunk is cut when the buffer reaches the size limit or when the
// oldest buffered byte is older than the delay. Size-triggered chunks end at
// the last complete line so that a diagnostic is never split across two
// chunks unless a single line exceeds the limit.
type OutputBuffer struct {
	size  int
	delay time.Duration
	sink  func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	timer  *time.Timer
	closed bool
}

// NewOutputBuffer returns an OutputBuffer delivering to sink. Non-positive
// limits select the defaults. sink is called with the buffer locked, in
// write order, and must not block.
func NewOutputBuffer(size int, delay time.Duration, sink func([]byte)) *OutputBuffer {
	if size <= 0 {
		size = DefaultFlushSize
	}
	if delay <= 0 {
		delay = DefaultFlushDelay
	}
	return &OutputBuffer{size: size, delay: delay, sink: sink}
}

// Write buffers p.
func (b *OutputBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrOutputClosed
	}

	n, _ := b.buf.Write(p)

	if b.buf.Len() >= b.size {
		end := bytes.LastIndexByte(b.buf.Bytes(), '\n') + 1
		if end == 0 {
			end = b.buf.Len()
		}
		b.emitLocked(end)
	}

	switch {
	case b.buf.Len() == 0:
		b.stopTimerLocked()
	case b.timer == nil:
		b.timer = time.AfterFunc(b.delay, b.expire)
	}
	return n, nil
}

// Flush delivers everything buffered.
func (b *OutputBuffer) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.stopTimerLocked()
	b.emitLocked(b.buf.Len())
}

// Close delivers everything buffered. Later writes fail.
func (b *OutputBuffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.stopTimerLocked()
	b.emitLocked(b.buf.Len())
	return nil
}

func (b *OutputBuffer) expire() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.timer = nil
	if !b.closed {
		b.emitLocked(b.buf.Len())
	}
}

func (b *OutputBuffer) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// emitLocked hands the first n buffered bytes to the sink.
func (b *OutputBuffer) emitLocked(n int) {
	if n == 0 {
		return
	}
	chunk := bytes.Clone(b.buf.Next(n))
	if b.buf.Len() == 0 {
		b.buf.Reset()
	}
	if b.sink != nil {
		b.sink(chunk)
	}
}
