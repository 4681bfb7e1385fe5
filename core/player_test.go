package session

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu        sync.Mutex
	playDelay time.Duration
	intervals [][2]time.Time
	frames    [][]byte
}

func (s *recordingSink) Play(ctx context.Context, pcm []byte) error {
	start := time.Now()
	select {
	case <-time.After(s.playDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.intervals = append(s.intervals, [2]time.Time{start, time.Now()})
	s.frames = append(s.frames, pcm)
	return nil
}

func (s *recordingSink) snapshot() ([][2]time.Time, [][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][2]time.Time(nil), s.intervals...), append([][]byte(nil), s.frames...)
}

func TestPlayerNeverOverlapsFrames(t *testing.T) {
	sink := &recordingSink{playDelay: 20 * time.Millisecond}
	player := newPlayer(context.Background(), sink, nil)

	done := make(chan struct{})
	var once sync.Once
	player.onSpeaking = func(isSpeaking bool) {
		if !isSpeaking {
			once.Do(func() { close(done) })
		}
	}

	player.Enqueue([]byte{1})
	player.Enqueue([]byte{2})
	player.Enqueue([]byte{3})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for playback to drain")
	}

	intervals, frames := sink.snapshot()
	if len(intervals) != 3 {
		t.Fatalf("Expected 3 played frames, got %d", len(intervals))
	}
	for i := 1; i < len(intervals); i++ {
		if intervals[i][0].Before(intervals[i-1][1]) {
			t.Errorf("Frame %d started at %v before frame %d finished at %v",
				i, intervals[i][0], i-1, intervals[i-1][1])
		}
	}
	for i, frame := range frames {
		if frame[0] != byte(i+1) {
			t.Errorf("Expected frame %d to carry payload %d, got %d", i, i+1, frame[0])
		}
	}
}

func TestPlayerSignalsSpeakingTransitions(t *testing.T) {
	sink := &recordingSink{playDelay: 5 * time.Millisecond}

	var mu sync.Mutex
	var transitions []bool
	drained := make(chan struct{})

	player := newPlayer(context.Background(), sink, func(isSpeaking bool) {
		mu.Lock()
		transitions = append(transitions, isSpeaking)
		mu.Unlock()
		if !isSpeaking {
			close(drained)
		}
	})

	player.Enqueue([]byte{1})

	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for playback to drain")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(transitions) != 2 || !transitions[0] || transitions[1] {
		t.Fatalf("Expected speaking transitions [true false], got %v", transitions)
	}
}

func TestPlayerStopDiscardsQueuedFrames(t *testing.T) {
	sink := &recordingSink{playDelay: 50 * time.Millisecond}
	player := newPlayer(context.Background(), sink, nil)

	player.Enqueue([]byte{1})
	player.Enqueue([]byte{2})
	player.Enqueue([]byte{3})
	player.Stop()

	time.Sleep(200 * time.Millisecond)

	intervals, _ := sink.snapshot()
	if len(intervals) > 1 {
		t.Fatalf("Expected at most the in-flight frame to finish, got %d", len(intervals))
	}
	if player.IsSpeaking() {
		t.Error("Expected player to report not speaking after Stop")
	}

	player.Enqueue([]byte{4})
	time.Sleep(100 * time.Millisecond)
	intervals, _ = sink.snapshot()
	if len(intervals) > 1 {
		t.Error("Expected enqueue after Stop to be dropped")
	}
}

func TestPlayerStopWaitsForFinalSpeakingSignal(t *testing.T) {
	sink := &recordingSink{playDelay: 40 * time.Millisecond}

	var mu sync.Mutex
	var transitions []bool
	player := newPlayer(context.Background(), sink, func(isSpeaking bool) {
		mu.Lock()
		transitions = append(transitions, isSpeaking)
		mu.Unlock()
	})

	player.Enqueue([]byte{1})
	player.Enqueue([]byte{2})
	player.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(transitions) != 2 || !transitions[0] || transitions[1] {
		t.Fatalf("Expected Stop to return only after transitions [true false], got %v", transitions)
	}
}

func TestPlayerSpeakingSignalsStrictlyAlternate(t *testing.T) {
	sink := &recordingSink{playDelay: time.Millisecond}

	var mu sync.Mutex
	var transitions []bool
	player := newPlayer(context.Background(), sink, func(isSpeaking bool) {
		mu.Lock()
		transitions = append(transitions, isSpeaking)
		mu.Unlock()
	})

	// Bursts with gaps so the queue repeatedly drains and refills while
	// frames are still in flight.
	for i := 0; i < 200; i++ {
		player.Enqueue([]byte{byte(i)})
		if i%20 == 19 {
			time.Sleep(5 * time.Millisecond)
		}
	}
	player.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(transitions) == 0 || !transitions[0] {
		t.Fatalf("Expected the first transition to be speaking started, got %v", transitions)
	}
	if transitions[len(transitions)-1] {
		t.Fatalf("Expected the last transition to be speaking ended, got %v", transitions)
	}
	for i := 1; i < len(transitions); i++ {
		if transitions[i] == transitions[i-1] {
			t.Fatalf("Transition %d repeats state %v: %v", i, transitions[i], transitions)
		}
	}
}

func TestPlayerWithoutSinkDropsFrames(t *testing.T) {
	player := newPlayer(context.Background(), nil, func(bool) {
		t.Error("Expected no speaking transitions without a sink")
	})

	player.Enqueue([]byte{1})
	time.Sleep(20 * time.Millisecond)

	if player.IsSpeaking() {
		t.Error("Expected player without a sink to stay idle")
	}
}
