package session

import (
	"strings"
	"sync"
	"time"
)

// operatorBuffer accumulates operator text fragments for the current turn.
// The flush boundary is hard: the remote side signals turn completion
// explicitly, so the buffer only empties on that marker or at teardown.
type operatorBuffer struct {
	mu        sync.Mutex
	fragments []string
}

func newOperatorBuffer() *operatorBuffer {
	return &operatorBuffer{}
}

func (b *operatorBuffer) Add(fragment string) {
	b.mu.Lock()
	b.fragments = append(b.fragments, fragment)
	b.mu.Unlock()
}

// Flush returns the accumulated turn text and clears the buffer. ok is
// false when there was nothing buffered.
func (b *operatorBuffer) Flush() (text string, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	text = strings.Join(b.fragments, "")
	b.fragments = nil
	return text, text != ""
}

// callerBuffer accumulates caller transcription fragments. The protocol has
// no end-of-utterance marker for caller speech, so the buffer flushes after
// a quiet window with no new fragments: every Add re-arms the timer.
type callerBuffer struct {
	mu        sync.Mutex
	fragments []string
	window    time.Duration
	timer     *time.Timer
	onFlush   func(text string)
	closed    bool
}

func newCallerBuffer(window time.Duration, onFlush func(text string)) *callerBuffer {
	if onFlush == nil {
		onFlush = func(string) {}
	}
	return &callerBuffer{window: window, onFlush: onFlush}
}

func (b *callerBuffer) Add(fragment string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}

	b.fragments = append(b.fragments, fragment)
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.window, b.flushExpired)
	b.mu.Unlock()
}

func (b *callerBuffer) flushExpired() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	text := b.takeLocked()
	b.mu.Unlock()

	if text != "" {
		b.onFlush(text)
	}
}

// Close cancels the pending debounce and force-flushes whatever is
// buffered, so teardown never drops caller text. The buffer rejects
// fragments afterwards.
func (b *callerBuffer) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	text := b.takeLocked()
	b.mu.Unlock()

	if text != "" {
		b.onFlush(text)
	}
}

func (b *callerBuffer) takeLocked() string {
	text := strings.Join(b.fragments, "")
	b.fragments = nil
	return text
}
