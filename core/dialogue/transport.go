package dialogue

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultConnectTimeout = 15 * time.Second

// State is the transport lifecycle state. Transitions are strictly forward:
// idle -> connecting -> handshaking -> active -> closing -> closed, with any
// state allowed to jump directly to closed on a terminal error.
type State string

const (
	StateIdle        State = "idle"
	StateConnecting  State = "connecting"
	StateHandshaking State = "handshaking"
	StateActive      State = "active"
	StateClosing     State = "closing"
	StateClosed      State = "closed"
)

var (
	ErrNotActive       = errors.New("transport is not active: setup has not been acknowledged")
	ErrTransportClosed = errors.New("transport is closed")
)

// Callbacks receives demultiplexed inbound events. All callbacks are invoked
// from the single read loop goroutine, so their invocation order matches
// frame arrival order.
type Callbacks struct {
	// OnReady fires once, on receipt of the setup acknowledgment. Audio
	// transmission is unlocked after it fires.
	OnReady func()
	// OnAudio receives decoded operator audio payloads.
	OnAudio func(pcm []byte, sampleRate int)
	// OnOperatorText receives operator text fragments for the current turn.
	OnOperatorText func(fragment string)
	// OnCallerText receives caller-side transcription fragments.
	OnCallerText func(fragment string)
	// OnTurnComplete fires on the operator turn-boundary marker.
	OnTurnComplete func()
	// OnClosed fires exactly once when the transport reaches closed; err is
	// nil for a clean local or remote closure.
	OnClosed func(err error)
}

func (c *Callbacks) fillDefaults() {
	if c.OnReady == nil {
		c.OnReady = func() {}
	}
	if c.OnAudio == nil {
		c.OnAudio = func([]byte, int) {}
	}
	if c.OnOperatorText == nil {
		c.OnOperatorText = func(string) {}
	}
	if c.OnCallerText == nil {
		c.OnCallerText = func(string) {}
	}
	if c.OnTurnComplete == nil {
		c.OnTurnComplete = func() {}
	}
	if c.OnClosed == nil {
		c.OnClosed = func(error) {}
	}
}

// Transport owns one full-duplex dialogue connection. It multiplexes
// outbound setup/audio frames and demultiplexes inbound events into
// Callbacks. A Transport is single-use: once closed it cannot be redialed.
type Transport struct {
	conn      *websocket.Conn
	callbacks Callbacks

	mu    sync.Mutex
	state State

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}

	errMu sync.Mutex
	err   error
}

// Dial opens the connection and sends the setup frame. The returned
// transport is in the handshaking state; audio transmission stays locked
// until the remote side acknowledges the setup and OnReady fires.
//
// Errors are terminal: a failed dial or handshake is not retried.
func Dial(ctx context.Context, url string, setup Setup, callbacks Callbacks) (*Transport, error) {
	callbacks.fillDefaults()

	t := &Transport{
		callbacks: callbacks,
		state:     StateConnecting,
		done:      make(chan struct{}),
	}

	dialer := websocket.Dialer{HandshakeTimeout: defaultConnectTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		t.setState(StateClosed)
		return nil, fmt.Errorf("failed to dial dialogue service: %w", err)
	}
	t.conn = conn
	t.setState(StateHandshaking)

	if err := t.sendJSON(clientSetupFrame{Type: "setup", Setup: setup}); err != nil {
		t.setState(StateClosed)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to send setup frame: %w", err)
	}

	go t.readLoop()

	return t, nil
}

// State reports the current lifecycle state.
func (t *Transport) State() State {
	if t == nil {
		return StateIdle
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SendAudioFrame transmits one encoded audio frame. Frames are rejected
// until the setup acknowledgment arrives and after closure begins.
func (t *Transport) SendAudioFrame(pcm []byte, sampleRate int) error {
	if t == nil {
		return ErrTransportClosed
	}

	if t.State() != StateActive {
		return ErrNotActive
	}

	return t.sendJSON(clientAudioFrame{
		Type:       "audio",
		DataB64:    base64.StdEncoding.EncodeToString(pcm),
		SampleRate: sampleRate,
	})
}

// Close tears the connection down and waits for the read loop to finish,
// including its closure callback, so no callback fires after Close returns.
// Safe to call more than once.
func (t *Transport) Close() error {
	if t == nil {
		return nil
	}

	t.closeOnce.Do(func() {
		t.setState(StateClosing)
		t.writeMu.Lock()
		_ = t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(2*time.Second))
		t.writeMu.Unlock()
		_ = t.conn.Close()
	})
	<-t.done
	return nil
}

// Err returns the terminal transport error, if any. It blocks until the
// read loop has finished.
func (t *Transport) Err() error {
	if t == nil {
		return nil
	}

	<-t.done
	t.errMu.Lock()
	defer t.errMu.Unlock()
	return t.err
}

func (t *Transport) setState(state State) {
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
}

func (t *Transport) setErr(err error) {
	if err == nil {
		return
	}

	t.errMu.Lock()
	defer t.errMu.Unlock()
	if t.err == nil {
		t.err = err
	}
}

func (t *Transport) sendJSON(v any) error {
	if t.State() == StateClosed {
		return ErrTransportClosed
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteJSON(v)
}

func (t *Transport) readLoop() {
	defer func() {
		t.setState(StateClosed)

		t.errMu.Lock()
		err := t.err
		t.errMu.Unlock()
		// OnClosed runs before done is closed so that Close and Err only
		// unblock once every callback has been delivered.
		t.callbacks.OnClosed(err)
		close(t.done)
	}()

	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				t.State() == StateClosing {
				return
			}
			t.setErr(fmt.Errorf("dialogue connection lost: %w", err))
			return
		}

		if err := t.handleFrame(data); err != nil {
			t.setErr(err)
			return
		}
	}
}

// handleFrame demultiplexes a single inbound frame. A malformed frame is
// terminal while handshaking (the setup acknowledgment cannot be trusted)
// and dropped with a log line while active, favoring availability of the
// live call over completeness of one fragment.
func (t *Transport) handleFrame(data []byte) error {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		if t.State() == StateHandshaking {
			return fmt.Errorf("malformed frame during handshake: %w", err)
		}
		log.Printf("Dropping malformed dialogue frame: %v", err)
		return nil
	}

	switch envelope.Type {
	case "setup_ack":
		if t.State() != StateHandshaking {
			return nil
		}
		t.setState(StateActive)
		t.callbacks.OnReady()
	case "content":
		if t.State() == StateHandshaking {
			return errors.New("received content before setup acknowledgment")
		}
		t.handleContent(data)
	case "error":
		var frame serverErrorFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			return fmt.Errorf("malformed error frame: %w", err)
		}
		return fmt.Errorf("dialogue service error: %s", frame.Message)
	default:
		log.Printf("Ignoring unknown dialogue frame type %q", envelope.Type)
	}

	return nil
}

func (t *Transport) handleContent(data []byte) {
	var frame serverContentFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		log.Printf("Dropping malformed content frame: %v", err)
		return
	}

	switch {
	case frame.AudioB64 != "":
		pcm, err := base64.StdEncoding.DecodeString(frame.AudioB64)
		if err != nil {
			log.Printf("Dropping undecodable audio payload: %v", err)
			return
		}
		t.callbacks.OnAudio(pcm, frame.SampleRate)
	case frame.Text != "":
		t.callbacks.OnOperatorText(frame.Text)
	case frame.InputTranscription != "":
		t.callbacks.OnCallerText(frame.InputTranscription)
	case frame.TurnComplete:
		t.callbacks.OnTurnComplete()
	}
}
