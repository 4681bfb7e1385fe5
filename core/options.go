package session

import (
	"context"
	"time"

	"github.com/reliefdesk/hotline-core/core/audio"
	"github.com/reliefdesk/hotline-core/core/critic"
	"github.com/reliefdesk/hotline-core/core/dialogue"
	"github.com/reliefdesk/hotline-core/core/lessons"
)

// Config carries the tunable session parameters. Zero values fall back to
// the defaults below; none of them are load-bearing exact values, only
// behavior tuning.
type Config struct {
	// DialogueURL is the websocket endpoint of the dialogue service.
	DialogueURL string
	// Voice selects the operator voice offered by the dialogue service.
	Voice string
	// BaseInstructions overrides the default operating persona.
	BaseInstructions string

	// IngressSampleRate is the caller audio wire rate.
	IngressSampleRate int
	// EgressSampleRate is the operator audio rate the service synthesizes at.
	EgressSampleRate int
	// FrameSamples is the capture window emitted per audio frame.
	FrameSamples int
	// DebounceWindow is the quiet period after which buffered caller
	// fragments flush as one message.
	DebounceWindow time.Duration
}

// DefaultDebounceWindow tolerates natural speech pauses without splitting a
// single utterance into many short messages.
const DefaultDebounceWindow = 800 * time.Millisecond

func (c *Config) fillDefaults() {
	if c.BaseInstructions == "" {
		c.BaseInstructions = DefaultInstructions
	}
	if c.IngressSampleRate <= 0 {
		c.IngressSampleRate = audio.DefaultIngressSampleRate
	}
	if c.EgressSampleRate <= 0 {
		c.EgressSampleRate = audio.DefaultEgressSampleRate
	}
	if c.FrameSamples <= 0 {
		c.FrameSamples = audio.DefaultFrameSamples
	}
	if c.DebounceWindow <= 0 {
		c.DebounceWindow = DefaultDebounceWindow
	}
}

// Transport is the controller-facing surface of the dialogue connection.
type Transport interface {
	SendAudioFrame(pcm []byte, sampleRate int) error
	Close() error
}

// TransportDialer opens a dialogue connection. Tests inject fakes here; the
// default dialer wraps [dialogue.Dial] with the configured URL.
type TransportDialer func(ctx context.Context, setup dialogue.Setup, callbacks dialogue.Callbacks) (Transport, error)

// Evaluator is the critique surface consumed after a finished call.
type Evaluator interface {
	Evaluate(ctx context.Context, transcript []critic.Message) (critic.Verdict, error)
}

// RecordWriter persists finalized call records for later offline review.
// Writes are best effort; failures never affect the finished call.
type RecordWriter interface {
	Put(ctx context.Context, record CallSession) error
}

type Option func(*Controller)

func WithConfig(config Config) Option {
	return func(c *Controller) { c.config = config }
}

func WithTransportDialer(dial TransportDialer) Option {
	return func(c *Controller) { c.dial = dial }
}

func WithAudioInput(client CaptureClient) Option {
	return func(c *Controller) { c.capture = client }
}

func WithAudioOutput(sink PlaybackSink) Option {
	return func(c *Controller) { c.sink = sink }
}

func WithLessonStore(store lessons.Store) Option {
	return func(c *Controller) { c.lessonStore = store }
}

func WithCritic(evaluator Evaluator) Option {
	return func(c *Controller) { c.critic = evaluator }
}

func WithRecordWriter(writer RecordWriter) Option {
	return func(c *Controller) { c.records = writer }
}

// StartOptions holds the per-call UI callbacks.
type StartOptions struct {
	onConnected            func()
	onEnded                func(duration time.Duration)
	onError                func(reason string)
	onMessage              func(message TranscriptMessage)
	onSpeakingStateChanged func(isSpeaking bool)
	onCallerFragment       func(fragment string)
	onOperatorFragment     func(fragment string)
	onCallerAudio          func(frame []byte)
	onOperatorAudio        func(frame []byte)
}

type StartOption func(*StartOptions)

// WithConnectedCallback fires once the setup handshake completes and audio
// starts flowing.
func WithConnectedCallback(callback func()) StartOption {
	return func(o *StartOptions) { o.onConnected = callback }
}

// WithEndedCallback fires when the call is finalized, with the computed
// duration.
func WithEndedCallback(callback func(duration time.Duration)) StartOption {
	return func(o *StartOptions) { o.onEnded = callback }
}

// WithErrorCallback fires on terminal call failures with an actionable,
// user-facing reason.
func WithErrorCallback(callback func(reason string)) StartOption {
	return func(o *StartOptions) { o.onError = callback }
}

// WithMessageCallback fires for every finalized transcript message, caller
// and operator alike, in append order.
func WithMessageCallback(callback func(message TranscriptMessage)) StartOption {
	return func(o *StartOptions) { o.onMessage = callback }
}

// WithSpeakingStateCallback fires when operator playback starts and stops.
func WithSpeakingStateCallback(callback func(isSpeaking bool)) StartOption {
	return func(o *StartOptions) { o.onSpeakingStateChanged = callback }
}

// WithCallerFragmentCallback fires for each buffered caller transcription
// fragment, before the debounce flush.
func WithCallerFragmentCallback(callback func(fragment string)) StartOption {
	return func(o *StartOptions) { o.onCallerFragment = callback }
}

// WithOperatorFragmentCallback fires for each buffered operator text
// fragment, before the turn-boundary flush.
func WithOperatorFragmentCallback(callback func(fragment string)) StartOption {
	return func(o *StartOptions) { o.onOperatorFragment = callback }
}

// WithCallerAudioCallback fires for each encoded caller frame handed to the
// transport.
func WithCallerAudioCallback(callback func(frame []byte)) StartOption {
	return func(o *StartOptions) { o.onCallerAudio = callback }
}

// WithOperatorAudioCallback fires for each operator frame enqueued for
// playback.
func WithOperatorAudioCallback(callback func(frame []byte)) StartOption {
	return func(o *StartOptions) { o.onOperatorAudio = callback }
}
