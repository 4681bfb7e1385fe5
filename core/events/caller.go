package events

const (
	// KindCallerAudioFrame identifies an encoded caller audio frame.
	KindCallerAudioFrame Kind = "caller.audio_frame"
	// KindCallerFragment identifies a buffered caller transcription fragment.
	KindCallerFragment Kind = "caller.fragment"
	// KindCallerMessage identifies a finalized caller transcript message.
	KindCallerMessage Kind = "caller.message"
)

// CallerAudioFrame carries an encoded caller audio frame handed to the
// transport.
type CallerAudioFrame struct {
	Base
	Audio []byte
}

// NewCallerAudioFrame creates a caller audio frame event.
func NewCallerAudioFrame(audio []byte) CallerAudioFrame {
	return CallerAudioFrame{Base: NewBase(KindCallerAudioFrame), Audio: audio}
}

// CallerFragment carries a caller transcription fragment that has been
// buffered toward the next message.
type CallerFragment struct {
	Base
	Fragment string
}

// NewCallerFragment creates a caller fragment event.
func NewCallerFragment(fragment string) CallerFragment {
	return CallerFragment{Base: NewBase(KindCallerFragment), Fragment: fragment}
}

// CallerMessage carries a finalized caller transcript message.
type CallerMessage struct {
	Base
	Text string
}

// NewCallerMessage creates a caller message event.
func NewCallerMessage(text string) CallerMessage {
	return CallerMessage{Base: NewBase(KindCallerMessage), Text: text}
}
