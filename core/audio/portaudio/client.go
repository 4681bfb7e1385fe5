// Package portaudio provides an alternative audio device backend built on
// PortAudio, for hosts where miniaudio misbehaves. Capture and playback
// run as separate mono streams since they operate at different sample
// rates.
package portaudio

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/reliefdesk/hotline-core/core/audio"
)

const defaultBufferFrames = 512

// Client owns the PortAudio runtime and both streams. Close terminates the
// runtime, so only one client should exist per process.
type Client struct {
	capture  *CaptureStream
	playback *PlaybackStream
}

func NewClient() (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	capture, err := newCaptureStream(audio.DefaultIngressSampleRate, defaultBufferFrames)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, err
	}

	playback, err := newPlaybackStream(audio.DefaultEgressSampleRate, defaultBufferFrames)
	if err != nil {
		capture.close()
		_ = portaudio.Terminate()
		return nil, err
	}

	return &Client{capture: capture, playback: playback}, nil
}

// Input returns the microphone side of the client.
func (c *Client) Input() *CaptureStream {
	return c.capture
}

// Output returns the speaker side of the client.
func (c *Client) Output() *PlaybackStream {
	return c.playback
}

func (c *Client) Close() {
	c.capture.close()
	c.playback.close()
	if err := portaudio.Terminate(); err != nil {
		log.Printf("Failed to terminate PortAudio: %v", err)
	}
}

// CaptureStream reads mono float32 samples off the default input device in
// a blocking loop and hands each buffer to the registered handler.
type CaptureStream struct {
	stream *portaudio.Stream
	in     []float32

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	stopped chan struct{}
}

func newCaptureStream(sampleRate, bufferFrames int) (*CaptureStream, error) {
	in := make([]float32, bufferFrames)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), bufferFrames, in)
	if err != nil {
		return nil, fmt.Errorf("failed to open PortAudio capture stream: %w", err)
	}
	return &CaptureStream{stream: stream, in: in}, nil
}

func (c *CaptureStream) Start(onSamples func(samples []float32)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}

	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start PortAudio capture stream: %w", err)
	}
	c.running = true
	c.stop = make(chan struct{})
	c.stopped = make(chan struct{})

	go c.readLoop(onSamples, c.stop, c.stopped)
	return nil
}

func (c *CaptureStream) readLoop(onSamples func([]float32), stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	for {
		select {
		case <-stop:
			return
		default:
		}

		if err := c.stream.Read(); err != nil {
			log.Printf("Failed to read from PortAudio capture stream: %v", err)
			continue
		}

		samples := make([]float32, len(c.in))
		copy(samples, c.in)
		onSamples(samples)
	}
}

func (c *CaptureStream) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}
	c.running = false

	close(c.stop)
	<-c.stopped

	if err := c.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop PortAudio capture stream: %w", err)
	}
	return nil
}

func (c *CaptureStream) close() {
	_ = c.Stop()
	_ = c.stream.Close()
}

// PlaybackStream writes mono 16-bit PCM to the default output device.
// Writes go out one hardware buffer at a time, so Play naturally blocks
// until the payload has been played.
type PlaybackStream struct {
	stream       *portaudio.Stream
	out          []int16
	bufferFrames int

	mu      sync.Mutex
	started bool
}

func newPlaybackStream(sampleRate, bufferFrames int) (*PlaybackStream, error) {
	out := make([]int16, bufferFrames)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), bufferFrames, out)
	if err != nil {
		return nil, fmt.Errorf("failed to open PortAudio playback stream: %w", err)
	}
	return &PlaybackStream{stream: stream, out: out, bufferFrames: bufferFrames}, nil
}

func (p *PlaybackStream) Play(ctx context.Context, pcm []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		if err := p.stream.Start(); err != nil {
			return fmt.Errorf("failed to start PortAudio playback stream: %w", err)
		}
		p.started = true
	}

	samples := decodeS16(pcm)
	for offset := 0; offset < len(samples); offset += p.bufferFrames {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := copy(p.out, samples[offset:])
		for i := n; i < len(p.out); i++ {
			p.out[i] = 0
		}

		if err := p.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to PortAudio playback stream: %w", err)
		}
	}
	return nil
}

func (p *PlaybackStream) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		_ = p.stream.Stop()
		p.started = false
	}
	_ = p.stream.Close()
}

func decodeS16(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
	}
	return samples
}
