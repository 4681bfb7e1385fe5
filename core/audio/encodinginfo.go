package audio

const (
	// DefaultIngressSampleRate is the wire rate for caller audio sent to the
	// dialogue service.
	DefaultIngressSampleRate = 16000
	// DefaultEgressSampleRate is the rate the dialogue service synthesizes
	// operator audio at.
	DefaultEgressSampleRate = 24000

	// DefaultFrameSamples is the capture window size: samples accumulated
	// before a frame is emitted to the transport.
	DefaultFrameSamples = 4096

	DefaultFormat = "linear16"
)

func GetDefaultIngressEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultIngressSampleRate, Format: encodingFormat(DefaultFormat)}
}

func GetDefaultEgressEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultEgressSampleRate, Format: encodingFormat(DefaultFormat)}
}

type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case EncodingMulaw:
		return 0xFF
	case EncodingALaw:
		return 0x55
	case EncodingLinear16:
		return 0
	}

	return 0
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)
