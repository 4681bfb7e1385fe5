package session

import (
	"sync"
	"testing"
	"time"
)

func TestOperatorBufferFlushesOnlyOnDemand(t *testing.T) {
	buffer := newOperatorBuffer()

	buffer.Add("Stay ")
	buffer.Add("calm, ")
	buffer.Add("help is coming.")

	text, ok := buffer.Flush()
	if !ok {
		t.Fatal("Expected a non-empty flush")
	}
	if text != "Stay calm, help is coming." {
		t.Errorf("Expected concatenated turn text, got %q", text)
	}

	if text, ok := buffer.Flush(); ok {
		t.Errorf("Expected empty buffer after flush, got %q", text)
	}
}

func TestOperatorBufferProducesOneMessagePerTurn(t *testing.T) {
	buffer := newOperatorBuffer()

	buffer.Add("First turn.")
	first, _ := buffer.Flush()

	buffer.Add("Second ")
	buffer.Add("turn.")
	second, _ := buffer.Flush()

	if first != "First turn." || second != "Second turn." {
		t.Errorf("Expected turn boundaries to separate messages, got %q and %q", first, second)
	}
}

func TestCallerBufferDebouncesFragmentsIntoOneMessage(t *testing.T) {
	flushed := make(chan string, 1)
	buffer := newCallerBuffer(50*time.Millisecond, func(text string) {
		flushed <- text
	})

	buffer.Add("My house ")
	time.Sleep(20 * time.Millisecond)
	buffer.Add("is flooded ")
	time.Sleep(20 * time.Millisecond)
	buffer.Add("on Oak Street.")

	select {
	case text := <-flushed:
		if text != "My house is flooded on Oak Street." {
			t.Errorf("Expected one concatenated message, got %q", text)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for debounce flush")
	}

	select {
	case text := <-flushed:
		t.Errorf("Expected a single flush, got a second one: %q", text)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestCallerBufferRestartsWindowOnEveryFragment(t *testing.T) {
	var mu sync.Mutex
	var flushes []string
	buffer := newCallerBuffer(60*time.Millisecond, func(text string) {
		mu.Lock()
		flushes = append(flushes, text)
		mu.Unlock()
	})

	buffer.Add("slow ")
	time.Sleep(40 * time.Millisecond)
	buffer.Add("speech")

	time.Sleep(40 * time.Millisecond)
	mu.Lock()
	count := len(flushes)
	mu.Unlock()
	if count != 0 {
		t.Fatalf("Expected no flush while fragments keep arriving, got %d", count)
	}

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(flushes) != 1 || flushes[0] != "slow speech" {
		t.Fatalf("Expected one flush of %q, got %v", "slow speech", flushes)
	}
}

func TestCallerBufferCloseForceFlushesPendingText(t *testing.T) {
	flushed := make(chan string, 1)
	buffer := newCallerBuffer(time.Hour, func(text string) {
		flushed <- text
	})

	buffer.Add("trailing words")
	buffer.Close()

	select {
	case text := <-flushed:
		if text != "trailing words" {
			t.Errorf("Expected pending text to flush on close, got %q", text)
		}
	default:
		t.Fatal("Expected close to flush synchronously")
	}

	buffer.Add("after close")
	buffer.Close()
	select {
	case text := <-flushed:
		t.Errorf("Expected no flushes after close, got %q", text)
	default:
	}
}

func TestCallerBufferCloseWithEmptyBufferStaysSilent(t *testing.T) {
	buffer := newCallerBuffer(time.Hour, func(text string) {
		t.Errorf("Expected no flush for an empty buffer, got %q", text)
	})
	buffer.Close()
}
