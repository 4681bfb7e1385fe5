package dialogue

// Wire types for the frame-oriented dialogue protocol. All frames are JSON
// text messages; audio payloads are base64-encoded 16-bit little-endian PCM
// tagged with their sample rate.

// Setup carries the session configuration sent once, immediately after the
// connection opens.
type Setup struct {
	Instructions        string `json:"instructions"`
	Voice               string `json:"voice,omitempty"`
	InputSampleRate     int    `json:"input_sample_rate"`
	OutputSampleRate    int    `json:"output_sample_rate"`
	EnableTranscription bool   `json:"enable_transcription"`
}

type clientSetupFrame struct {
	Type  string `json:"type"`
	Setup Setup  `json:"setup"`
}

type clientAudioFrame struct {
	Type       string `json:"type"`
	DataB64    string `json:"data"`
	SampleRate int    `json:"sample_rate"`
}

// serverContentFrame is the single inbound content shape; exactly one of the
// payload fields is expected to be set per frame.
type serverContentFrame struct {
	Type string `json:"type"`

	AudioB64   string `json:"audio,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`

	Text string `json:"text,omitempty"`

	InputTranscription string `json:"input_transcription,omitempty"`

	TurnComplete bool `json:"turn_complete,omitempty"`
}

type serverErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
