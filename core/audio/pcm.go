package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// EncodePCM16 quantizes normalized float samples to little-endian signed
// 16-bit PCM. Samples outside [-1, 1] saturate instead of wrapping.
func EncodePCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, sample := range samples {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}

		value := int16(math.Round(float64(sample) * math.MaxInt16))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(value))
	}
	return out
}

// DecodePCM16 converts little-endian signed 16-bit PCM back to normalized
// float samples. A trailing odd byte is ignored.
func DecodePCM16(pcm []byte) []float32 {
	out := make([]float32, len(pcm)/2)
	for i := range out {
		value := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		out[i] = float32(value) / math.MaxInt16
	}
	return out
}

// Duration reports how long the given payload plays for under the given
// encoding.
func Duration(pcm []byte, encodingInfo EncodingInfo) time.Duration {
	byteSize := encodingInfo.Format.ByteSize()
	if byteSize <= 0 || encodingInfo.SampleRate <= 0 {
		return 0
	}

	samples := len(pcm) / byteSize
	return time.Duration(float64(samples) / float64(encodingInfo.SampleRate) * float64(time.Second))
}
