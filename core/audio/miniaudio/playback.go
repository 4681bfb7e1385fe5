package miniaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

// PlaybackDevice feeds buffered 16-bit PCM to the output device. The device
// callback drains the buffer at the hardware pace; Play blocks its caller
// until the submitted audio has been consumed, using a completion mark
// placed at the end of the submitted payload.
type PlaybackDevice struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	leftoverAudio []byte
	marks         []playbackMark

	mu      sync.Mutex
	audioMu sync.Mutex
}

type playbackMark struct {
	position int
	done     chan struct{}
}

func (c *PlaybackDevice) Init(audioContext *malgo.AllocatedContext, sampleRate int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = uint32(sampleRate)
	c.config.Playback.Format = format
	c.config.Playback.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = uint32(sampleRate / 10) // ~100ms of audio
	c.config.Periods = 4

	c.audioContext = audioContext

	var err error
	if c.device, err = malgo.InitDevice(
		c.audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: c.processAudio(bytesPerFrame)},
	); err != nil {
		return err
	}

	return nil
}

func (c *PlaybackDevice) StartDevice() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	return nil
}

func (c *PlaybackDevice) StopDevice() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}

	c.clearBuffer()
	return nil
}

// Play submits one PCM payload and blocks until the device has consumed it
// or the context is canceled. Cancellation drops whatever is still
// buffered.
func (c *PlaybackDevice) Play(ctx context.Context, pcm []byte) error {
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return fmt.Errorf("device not started")
	}
	if len(pcm) == 0 {
		return nil
	}

	done := make(chan struct{})
	c.audioMu.Lock()
	c.leftoverAudio = append(c.leftoverAudio, pcm...)
	c.marks = append(c.marks, playbackMark{
		position: len(c.leftoverAudio),
		done:     done,
	})
	c.audioMu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		c.clearBuffer()
		return ctx.Err()
	}
}

func (c *PlaybackDevice) clearBuffer() {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.leftoverAudio = nil
	for _, mark := range c.marks {
		close(mark.done)
	}
	c.marks = nil
}

func (c *PlaybackDevice) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.device.Uninit()
	c.device = nil

	c.clearBuffer()
	return nil
}

func (c *PlaybackDevice) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		c.audioMu.Lock()
		n := copy(pOutput, c.leftoverAudio)
		c.leftoverAudio = c.leftoverAudio[n:]

		var passed []playbackMark
		remaining := c.marks[:0]
		for _, mark := range c.marks {
			if mark.position <= n {
				passed = append(passed, mark)
			} else {
				mark.position -= n
				remaining = append(remaining, mark)
			}
		}
		c.marks = remaining
		c.audioMu.Unlock()

		// The device expects silence where the buffer ran short.
		for i := n; i < need && i < len(pOutput); i++ {
			pOutput[i] = 0
		}

		for _, mark := range passed {
			close(mark.done)
		}
	}
}
