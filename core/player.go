package session

import (
	"context"
	"log"
	"sync"
)

// PlaybackSink plays one decoded frame to completion. Play must not return
// before the frame has finished playing; the player relies on that to keep
// frames from overlapping.
type PlaybackSink interface {
	Play(ctx context.Context, pcm []byte) error
}

// player serializes inbound audio playback: a single cursor services a FIFO
// queue, and a frame's playback only starts after the previous frame has
// finished. The drain goroutine exits whenever the queue empties and is
// restarted by the next enqueue, so an idle player costs nothing.
//
// signalMu spans each playing-state decision together with its onSpeaking
// emission, so started/ended signals are delivered strictly alternating
// even when an enqueue races a draining exit.
type player struct {
	sink       PlaybackSink
	onSpeaking func(isSpeaking bool)

	mu        sync.Mutex
	queue     [][]byte
	playing   bool
	stopped   bool
	drainDone chan struct{}

	signalMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
}

func newPlayer(ctx context.Context, sink PlaybackSink, onSpeaking func(bool)) *player {
	if onSpeaking == nil {
		onSpeaking = func(bool) {}
	}

	ctx, cancel := context.WithCancel(ctx)
	return &player{
		sink:       sink,
		onSpeaking: onSpeaking,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Enqueue appends a frame and wakes the drain goroutine if the player was
// idle. Frames are dropped once the player is stopped or when no sink is
// configured.
func (p *player) Enqueue(pcm []byte) {
	if p.sink == nil {
		return
	}

	p.signalMu.Lock()
	defer p.signalMu.Unlock()

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}

	p.queue = append(p.queue, pcm)
	shouldStart := !p.playing
	var done chan struct{}
	if shouldStart {
		p.playing = true
		done = make(chan struct{})
		p.drainDone = done
	}
	p.mu.Unlock()

	if shouldStart {
		p.onSpeaking(true)
		go p.drain(done)
	}
}

func (p *player) drain(done chan struct{}) {
	defer close(done)

	for {
		p.signalMu.Lock()
		p.mu.Lock()
		if p.stopped || len(p.queue) == 0 {
			p.playing = false
			p.mu.Unlock()
			p.onSpeaking(false)
			p.signalMu.Unlock()
			return
		}
		frame := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()
		p.signalMu.Unlock()

		if err := p.sink.Play(p.ctx, frame); err != nil {
			log.Printf("Dropping playback frame: %v", err)
		}
	}
}

// IsSpeaking reports whether playback is in progress.
func (p *player) IsSpeaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Stop discards queued frames, interrupts any in-flight playback, and waits
// for the drain goroutine to exit, so no signal or sink call outlives Stop.
func (p *player) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.queue = nil
	done := p.drainDone
	p.mu.Unlock()

	p.cancel()
	if done != nil {
		<-done
	}
}
