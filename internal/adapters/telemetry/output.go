package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultEventSize is the amount of pending output that triggers an event.
	DefaultEventSize = 4096
	// DefaultLinger is how long output may stay pending before it is emitted.
	DefaultLinger = 50 * time.Millisecond
)

var errOutputClosed = errors.New("span output is closed")

// OutputBuffer collects what a task writes to its span and emits it in chunks.
// A size triggered chunk ends at the last complete line. A partial line is held
// back until it completes, the linger time runs out, or it grows past twice the
// event size. It is safe for concurrent use.
type OutputBuffer struct {
	size   int
	linger time.Duration
	emit   func(text string, lines int)

	mu      sync.Mutex
	pending []byte
	timer   *time.Timer
	closed  bool
}

// NewOutputBuffer returns a buffer handing each chunk and its line count to emit.
// Non-positive limits select the defaults.
func NewOutputBuffer(size int, linger time.Duration, emit func(text string, lines int)) *OutputBuffer {
	if size <= 0 {
		size = DefaultEventSize
	}
	if linger <= 0 {
		linger = DefaultLinger
	}
	return &OutputBuffer{size: size, linger: linger, emit: emit}
}

// Write appends p to the pending output.
func (o *OutputBuffer) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return 0, errOutputClosed
	}
	o.pending = append(o.pending, p...)

	if len(o.pending) >= o.size {
		o.emitLocked(false)
	}
	if len(o.pending) > 0 && o.timer == nil {
		var timer *time.Timer
		timer = time.AfterFunc(o.linger, func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if o.timer != timer {
				return
			}
			o.timer = nil
			o.emitLocked(true)
		})
		o.timer = timer
	}
	return len(p), nil
}

// Flush emits all pending output, including a partial last line.
func (o *OutputBuffer) Flush() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.emitLocked(true)
	}
}

// Close emits the remaining output. Later writes fail.
func (o *OutputBuffer) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.emitLocked(true)
	o.closed = true
	return nil
}

// emitLocked must be called with mu held.
func (o *OutputBuffer) emitLocked(all bool) {
	n := len(o.pending)
	if !all {
		if i := bytes.LastIndexByte(o.pending, '\n'); i >= 0 {
			n = i + 1
		} else if n < 2*o.size {
			return
		}
	}
	if n == 0 {
		return
	}

	text := string(o.pending[:n])
	o.pending = append(o.pending[:0], o.pending[n:]...)
	if len(o.pending) == 0 && o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	if o.emit != nil {
		o.emit(text, countLines(text))
	}
}

func countLines(text string) int {
	n := 0
	for range bytes.Lines([]byte(text)) {
		n++
	}
	return n
}
