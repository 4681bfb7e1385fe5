package session

import (
	"errors"
	"log"
	"sync"

	"github.com/reliefdesk/hotline-core/core/audio"
)

// ErrNoAudioInput is returned when a call is started without a configured
// capture device. Device access failures are not retried: the user has to
// fix the device and start a new call.
var ErrNoAudioInput = errors.New("no audio input configured: microphone unavailable")

// CaptureClient streams normalized mono samples from an input device.
// Start fails if the device cannot be acquired.
type CaptureClient interface {
	Start(onSamples func(samples []float32)) error
	Stop() error
}

// encoder turns the continuous capture stream into fixed-size wire frames:
// samples accumulate into a window, and every full window is quantized to
// clamped 16-bit PCM and pushed out immediately. The encoder keeps no frame
// backlog; the push handler owns each frame as soon as it is emitted.
type encoder struct {
	capture      CaptureClient
	frameSamples int
	onFrame      func(pcm []byte)

	mu      sync.Mutex
	window  []float32
	running bool
}

func newEncoder(capture CaptureClient, frameSamples int, onFrame func(pcm []byte)) *encoder {
	if frameSamples <= 0 {
		frameSamples = audio.DefaultFrameSamples
	}
	if onFrame == nil {
		onFrame = func([]byte) {}
	}

	return &encoder{
		capture:      capture,
		frameSamples: frameSamples,
		onFrame:      onFrame,
	}
}

func (e *encoder) Start() error {
	if e.capture == nil {
		return ErrNoAudioInput
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = true
	e.mu.Unlock()

	if err := e.capture.Start(e.push); err != nil {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		return err
	}
	return nil
}

func (e *encoder) push(samples []float32) {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}

	e.window = append(e.window, samples...)
	var frames [][]byte
	for len(e.window) >= e.frameSamples {
		frames = append(frames, audio.EncodePCM16(e.window[:e.frameSamples]))
		e.window = e.window[e.frameSamples:]
	}
	e.mu.Unlock()

	for _, frame := range frames {
		e.onFrame(frame)
	}
}

// Stop halts capture and emits any partial window so trailing speech is not
// lost. Safe to call repeatedly.
func (e *encoder) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	remainder := e.window
	e.window = nil
	e.mu.Unlock()

	if e.capture != nil {
		if err := e.capture.Stop(); err != nil {
			log.Printf("Failed to stop audio capture: %v", err)
		}
	}

	if len(remainder) > 0 {
		e.onFrame(audio.EncodePCM16(remainder))
	}
}
