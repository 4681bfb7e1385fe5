// Package miniaudio provides the default audio device backend, built on
// malgo. It exposes a float32 capture device at the ingress rate and a
// 16-bit playback device at the egress rate, both mono.
package miniaudio

import (
	"fmt"

	"github.com/gen2brain/malgo"

	"github.com/reliefdesk/hotline-core/core/audio"
)

type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	capture      CaptureDevice
	playback     PlaybackDevice
}

func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) {},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := &Client{audioContext: audioCtx}

	if err := client.capture.Init(audioCtx, audio.DefaultIngressSampleRate); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture device: %w", err)
	}

	if err := client.playback.Init(audioCtx, audio.DefaultEgressSampleRate); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := client.playback.StartDevice(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	return client, nil
}

// Input returns the microphone side of the client.
func (c *Client) Input() *CaptureDevice {
	return &c.capture
}

// Output returns the speaker side of the client.
func (c *Client) Output() *PlaybackDevice {
	return &c.playback
}

func (c *Client) Close() {
	_ = c.capture.Uninit()
	_ = c.playback.Uninit()
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}
