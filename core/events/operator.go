package events

const (
	// KindOperatorAudioFrame identifies an operator audio frame queued for playback.
	KindOperatorAudioFrame Kind = "operator.audio_frame"
	// KindOperatorSpeakingStarted identifies the playback queue becoming non-empty.
	KindOperatorSpeakingStarted Kind = "operator.speaking_started"
	// KindOperatorSpeakingEnded identifies the playback queue draining.
	KindOperatorSpeakingEnded Kind = "operator.speaking_ended"
	// KindOperatorFragment identifies a buffered operator text fragment.
	KindOperatorFragment Kind = "operator.fragment"
	// KindOperatorMessage identifies a finalized operator transcript message.
	KindOperatorMessage Kind = "operator.message"
)

// OperatorAudioFrame carries an operator audio frame enqueued for playback.
type OperatorAudioFrame struct {
	Base
	Audio []byte
}

// NewOperatorAudioFrame creates an operator audio frame event.
func NewOperatorAudioFrame(audio []byte) OperatorAudioFrame {
	return OperatorAudioFrame{Base: NewBase(KindOperatorAudioFrame), Audio: audio}
}

// OperatorSpeakingStarted marks the playback queue becoming non-empty.
type OperatorSpeakingStarted struct{ Base }

// NewOperatorSpeakingStarted creates an operator speaking started event.
func NewOperatorSpeakingStarted() OperatorSpeakingStarted {
	return OperatorSpeakingStarted{Base: NewBase(KindOperatorSpeakingStarted)}
}

// OperatorSpeakingEnded marks the playback queue draining.
type OperatorSpeakingEnded struct{ Base }

// NewOperatorSpeakingEnded creates an operator speaking ended event.
func NewOperatorSpeakingEnded() OperatorSpeakingEnded {
	return OperatorSpeakingEnded{Base: NewBase(KindOperatorSpeakingEnded)}
}

// OperatorFragment carries an operator text fragment buffered toward the
// next turn message.
type OperatorFragment struct {
	Base
	Fragment string
}

// NewOperatorFragment creates an operator fragment event.
func NewOperatorFragment(fragment string) OperatorFragment {
	return OperatorFragment{Base: NewBase(KindOperatorFragment), Fragment: fragment}
}

// OperatorMessage carries a finalized operator transcript message, flushed
// on a turn boundary.
type OperatorMessage struct {
	Base
	Text string
}

// NewOperatorMessage creates an operator message event.
func NewOperatorMessage(text string) OperatorMessage {
	return OperatorMessage{Base: NewBase(KindOperatorMessage), Text: text}
}
