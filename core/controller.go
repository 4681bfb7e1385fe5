package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/reliefdesk/hotline-core/core/critic"
	"github.com/reliefdesk/hotline-core/core/dialogue"
	"github.com/reliefdesk/hotline-core/core/events"
	"github.com/reliefdesk/hotline-core/core/lessons"
)

// ErrCallActive is returned when a call is started while another one is
// still live. The controller owns exactly one call at a time.
var ErrCallActive = errors.New("a call is already active")

const failureReason = "Connection error, please try starting the call again"

// Controller drives the call lifecycle end to end: it composes the
// operating instructions from the accumulated lessons, dials the dialogue
// service, streams encoded microphone frames out, plays operator audio
// back in order, assembles the dual-channel transcript, and on teardown
// hands the finished transcript to the critic so the next call starts with
// an updated lesson set.
type Controller struct {
	config      Config
	dial        TransportDialer
	capture     CaptureClient
	sink        PlaybackSink
	lessonStore lessons.Store
	critic      Evaluator
	records     RecordWriter

	mu           sync.Mutex
	session      *CallSession
	transport    Transport
	encoder      *encoder
	player       *player
	callerBuf    *callerBuffer
	operatorBuf  *operatorBuffer
	finalizeCall func(cause error)
}

// NewController assembles a controller. Without options it can still run a
// call against a dialer supplied later, but a typical assembly wires the
// audio devices, the lesson store, the critic, and the record writer.
func NewController(opts ...Option) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	c.config.fillDefaults()
	if c.dial == nil {
		c.dial = func(ctx context.Context, setup dialogue.Setup, callbacks dialogue.Callbacks) (Transport, error) {
			return dialogue.Dial(ctx, c.config.DialogueURL, setup, callbacks)
		}
	}
	return c
}

// Start begins a new call. It fails fast with ErrCallActive when a call is
// already live and with ErrNoAudioInput when no capture device was
// configured; neither failure disturbs existing state.
//
// The emitter and lifecycle closures below capture their call's state by
// value, so signals from a previous call's goroutines can never be routed
// through a later call's callbacks.
func (c *Controller) Start(ctx context.Context, opts ...StartOption) error {
	if c.capture == nil {
		return ErrNoAudioInput
	}

	var startOpts StartOptions
	for _, opt := range opts {
		opt(&startOpts)
	}
	emit := newCallbackEventEmitter(startOpts)

	c.mu.Lock()
	if c.session != nil && c.session.Status == StatusLive {
		c.mu.Unlock()
		return ErrCallActive
	}

	session := &CallSession{
		CallID:    uuid.NewString(),
		StartTime: time.Now(),
		Status:    StatusLive,
	}
	c.session = session

	c.operatorBuf = newOperatorBuffer()
	c.callerBuf = newCallerBuffer(c.config.DebounceWindow, func(text string) {
		c.appendMessage(session, RoleCaller, text)
		emit(events.NewCallerMessage(text))
	})
	c.player = newPlayer(ctx, c.sink, func(isSpeaking bool) {
		if isSpeaking {
			emit(events.NewOperatorSpeakingStarted())
		} else {
			emit(events.NewOperatorSpeakingEnded())
		}
	})
	c.encoder = newEncoder(c.capture, c.config.FrameSamples, func(pcm []byte) {
		c.mu.Lock()
		transport := c.transport
		c.mu.Unlock()
		if transport == nil {
			return
		}
		if err := transport.SendAudioFrame(pcm, c.config.IngressSampleRate); err != nil {
			log.Printf("Failed to send audio frame: %v", err)
			return
		}
		emit(events.NewCallerAudioFrame(pcm))
	})

	encoder := c.encoder
	player := c.player
	callerBuf := c.callerBuf
	operatorBuf := c.operatorBuf

	finalizeOnce := &sync.Once{}
	finalize := func(cause error) {
		finalizeOnce.Do(func() {
			c.finalizeSession(cause, emit, session, encoder, player, callerBuf, operatorBuf)
		})
	}
	c.finalizeCall = finalize
	c.mu.Unlock()

	instructions := c.composeCallInstructions(ctx)

	emit(events.NewCallConnecting(session.CallID))

	setup := dialogue.Setup{
		Instructions:        instructions,
		Voice:               c.config.Voice,
		InputSampleRate:     c.config.IngressSampleRate,
		OutputSampleRate:    c.config.EgressSampleRate,
		EnableTranscription: true,
	}
	callbacks := dialogue.Callbacks{
		OnReady: func() {
			emit(events.NewCallConnected(session.CallID))
			if err := encoder.Start(); err != nil {
				log.Printf("Failed to start audio capture: %v", err)
				emit(events.NewCallFailed(session.CallID, "Microphone unavailable, check the input device and start a new call"))
				go c.End()
			}
		},
		OnAudio: func(pcm []byte, sampleRate int) {
			player.Enqueue(pcm)
			emit(events.NewOperatorAudioFrame(pcm))
		},
		OnOperatorText: func(fragment string) {
			operatorBuf.Add(fragment)
			emit(events.NewOperatorFragment(fragment))
		},
		OnCallerText: func(fragment string) {
			callerBuf.Add(fragment)
			emit(events.NewCallerFragment(fragment))
		},
		OnTurnComplete: func() {
			if text, ok := operatorBuf.Flush(); ok {
				c.appendMessage(session, RoleOperator, text)
				emit(events.NewOperatorMessage(text))
			}
		},
		OnClosed: finalize,
	}

	transport, err := c.dial(ctx, setup, callbacks)
	if err != nil {
		c.mu.Lock()
		now := time.Now()
		session.EndTime = &now
		session.Status = StatusEnded
		c.mu.Unlock()
		emit(events.NewCallFailed(session.CallID, failureReason))
		return err
	}

	c.mu.Lock()
	c.transport = transport
	c.mu.Unlock()
	return nil
}

func (c *Controller) composeCallInstructions(ctx context.Context) string {
	lessonSet := []string{}
	if c.lessonStore != nil {
		loaded, err := c.lessonStore.Load(ctx)
		if err != nil {
			log.Printf("Failed to load lessons, starting with base instructions: %v", err)
		} else {
			lessonSet = loaded
		}
	}
	return ComposeInstructions(c.config.BaseInstructions, lessonSet)
}

// End terminates the live call. Safe to call when no call is active and
// safe to call repeatedly; the transport closure drives finalization
// through its closed callback.
func (c *Controller) End() error {
	c.mu.Lock()
	if c.session == nil || c.session.Status != StatusLive {
		c.mu.Unlock()
		return nil
	}
	transport := c.transport
	finalize := c.finalizeCall
	encoder := c.encoder
	c.mu.Unlock()

	if encoder != nil {
		encoder.Stop()
	}

	if transport != nil {
		if err := transport.Close(); err != nil {
			log.Printf("Failed to close dialogue transport: %v", err)
		}
	}

	// Dialing can fail before a transport exists; finalize directly then.
	if transport == nil && finalize != nil {
		finalize(nil)
	}
	return nil
}

// finalizeSession runs the teardown sequence exactly once per call: flush
// both transcript buffers so trailing fragments become messages, stamp the
// end time, persist the record, and kick off the asynchronous critique.
// Everything it touches arrives as a per-call capture, never a shared
// controller field, so a late closure cannot reach into a newer call.
func (c *Controller) finalizeSession(
	cause error,
	emit eventEmitter,
	session *CallSession,
	encoder *encoder,
	player *player,
	callerBuf *callerBuffer,
	operatorBuf *operatorBuffer,
) {
	encoder.Stop()
	callerBuf.Close()
	if text, ok := operatorBuf.Flush(); ok {
		c.appendMessage(session, RoleOperator, text)
		emit(events.NewOperatorMessage(text))
	}
	player.Stop()

	c.mu.Lock()
	now := time.Now()
	session.EndTime = &now
	session.Status = StatusEnded
	snapshot := *session
	snapshot.Messages = append([]TranscriptMessage(nil), session.Messages...)
	c.transport = nil
	c.mu.Unlock()

	if cause != nil {
		log.Printf("Call %s ended with transport error: %v", snapshot.CallID, cause)
		emit(events.NewCallFailed(snapshot.CallID, failureReason))
	} else {
		emit(events.NewCallEnded(snapshot.CallID, snapshot.Duration()))
	}

	if c.records != nil {
		if err := c.records.Put(context.Background(), snapshot); err != nil {
			log.Printf("Failed to persist call record %s: %v", snapshot.CallID, err)
		}
	}

	// Too short to judge; greeting-only calls produce no useful lessons.
	if c.critic != nil && len(snapshot.Messages) >= 2 {
		go c.critique(snapshot)
	}
}

// critique runs fully detached from the call lifecycle: any failure is
// logged and dropped, and the finished call is never affected.
func (c *Controller) critique(snapshot CallSession) {
	var transcript []critic.Message
	if err := copier.Copy(&transcript, &snapshot.Messages); err != nil {
		log.Printf("Failed to prepare critique transcript for call %s: %v", snapshot.CallID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	verdict, err := c.critic.Evaluate(ctx, transcript)
	if err != nil {
		log.Printf("Critique failed for call %s: %v", snapshot.CallID, err)
		return
	}

	if c.lessonStore == nil || len(verdict.Lessons) == 0 {
		return
	}
	if _, err := c.lessonStore.Merge(ctx, verdict.Lessons); err != nil {
		log.Printf("Failed to merge %d lessons from call %s: %v", len(verdict.Lessons), snapshot.CallID, err)
	}
}

// appendMessage appends to the given call's log, which is not necessarily
// the controller's current one.
func (c *Controller) appendMessage(session *CallSession, role Role, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	session.Messages = append(session.Messages, TranscriptMessage{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	})
}

// CallID returns the identifier of the current or most recent call, empty
// before the first call.
func (c *Controller) CallID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.CallID
}

// IsLive reports whether a call is currently active.
func (c *Controller) IsLive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil && c.session.Status == StatusLive
}

// Elapsed reports the running duration of the current call, or the final
// duration of the last one.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0
	}
	return c.session.Duration()
}

// IsSpeaking reports whether operator audio is currently playing.
func (c *Controller) IsSpeaking() bool {
	c.mu.Lock()
	player := c.player
	c.mu.Unlock()
	if player == nil {
		return false
	}
	return player.IsSpeaking()
}

// Snapshot returns a deep copy of the current or most recent call session.
func (c *Controller) Snapshot() (CallSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return CallSession{}, false
	}
	snapshot := *c.session
	snapshot.Messages = append([]TranscriptMessage(nil), c.session.Messages...)
	return snapshot, true
}
