package session

import (
	"errors"
	"testing"

	"github.com/reliefdesk/hotline-core/core/audio"
)

type fakeCapture struct {
	onSamples func([]float32)
	startErr  error
	stopped   bool
}

func (c *fakeCapture) Start(onSamples func([]float32)) error {
	if c.startErr != nil {
		return c.startErr
	}
	c.onSamples = onSamples
	return nil
}

func (c *fakeCapture) Stop() error {
	c.stopped = true
	return nil
}

func TestEncoderEmitsFixedSizeFrames(t *testing.T) {
	capture := &fakeCapture{}
	var frames [][]byte
	enc := newEncoder(capture, 4, func(pcm []byte) {
		frames = append(frames, pcm)
	})

	if err := enc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	capture.onSamples([]float32{0.1, 0.2})
	if len(frames) != 0 {
		t.Fatalf("Expected no frame before the window fills, got %d", len(frames))
	}

	capture.onSamples([]float32{0.3, 0.4, 0.5})
	if len(frames) != 1 {
		t.Fatalf("Expected one frame after the window filled, got %d", len(frames))
	}
	if len(frames[0]) != 4*2 {
		t.Errorf("Expected 8 bytes of 16-bit PCM, got %d", len(frames[0]))
	}

	capture.onSamples([]float32{0.6, 0.7, 0.8, 0.9, 1.0, 1.1, 1.2})
	if len(frames) != 3 {
		t.Fatalf("Expected a burst to emit every full window, got %d frames", len(frames))
	}
}

func TestEncoderStopFlushesPartialWindow(t *testing.T) {
	capture := &fakeCapture{}
	var frames [][]byte
	enc := newEncoder(capture, 4, func(pcm []byte) {
		frames = append(frames, pcm)
	})

	if err := enc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	capture.onSamples([]float32{0.5, -0.5, 0.25})
	enc.Stop()

	if !capture.stopped {
		t.Error("Expected capture to be stopped")
	}
	if len(frames) != 1 {
		t.Fatalf("Expected the partial window to flush on stop, got %d frames", len(frames))
	}
	if len(frames[0]) != 3*2 {
		t.Errorf("Expected 6 bytes for the partial frame, got %d", len(frames[0]))
	}

	decoded := audio.DecodePCM16(frames[0])
	if decoded[0] < 0.49 || decoded[0] > 0.51 {
		t.Errorf("Expected first sample near 0.5, got %f", decoded[0])
	}

	enc.Stop()
	if len(frames) != 1 {
		t.Error("Expected repeated Stop to emit nothing new")
	}
}

func TestEncoderRequiresCaptureClient(t *testing.T) {
	enc := newEncoder(nil, 4, nil)
	if err := enc.Start(); !errors.Is(err, ErrNoAudioInput) {
		t.Fatalf("Expected ErrNoAudioInput, got %v", err)
	}
}

func TestEncoderPropagatesDeviceFailure(t *testing.T) {
	deviceErr := errors.New("device busy")
	enc := newEncoder(&fakeCapture{startErr: deviceErr}, 4, nil)

	if err := enc.Start(); !errors.Is(err, deviceErr) {
		t.Fatalf("Expected device error, got %v", err)
	}

	// A failed start leaves the encoder restartable.
	if enc.running {
		t.Error("Expected encoder to not be running after a failed start")
	}
}
