package watcher

import (
	"sync"
	"time"
)

// Burst groups edits to the experiment file. A burst ends once the file has
// been quiet for the window, or once maxWait has passed since its first edit
// so that a file rewritten continuously is still reloaded. The number of edits
// in each finished burst is sent on C. Bursts the receiver has not taken yet
// are merged.
type Burst struct {
	window  time.Duration
	maxWait time.Duration

	mu    sync.Mutex
	first time.Time
	edits int
	timer *time.Timer
	done  chan int
}

// NewBurst creates a burst tracker. A maxWait below window disables the cap.
func NewBurst(window, maxWait time.Duration) *Burst {
	return &Burst{window: window, maxWait: maxWait, done: make(chan int, 1)}
}

// C delivers the edit count of each finished burst.
func (b *Burst) C() <-chan int {
	return b.done
}

// Touch records one edit.
func (b *Burst) Touch() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if b.edits == 0 {
		b.first = now
	}
	b.edits++

	delay := b.window
	if b.maxWait >= b.window {
		delay = min(delay, max(b.first.Add(b.maxWait).Sub(now), 0))
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.timer == timer {
			b.finishLocked()
		}
	})
	b.timer = timer
}

// Stop drops the current burst.
func (b *Burst) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.edits = 0
}

// finishLocked must be called with mu held. Only holders of mu send on done,
// so the send cannot block once the buffer is drained.
func (b *Burst) finishLocked() {
	n := b.edits
	b.edits, b.timer = 0, nil
	if n == 0 {
		return
	}
	select {
	case prev := <-b.done:
		n += prev
	default:
	}
	b.done <- n
}
