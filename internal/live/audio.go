package live

import (
	"encoding/base64"
	"encoding/binary"
)

// PCM16k is the microphone format the live service expects.
const PCM16k = "audio/pcm;rate=16000"

// AudioChunk is a piece of microphone audio; Data is base64.
type AudioChunk struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// EncodePCM16 packs little-endian 16-bit samples into a chunk.
func EncodePCM16(samples []int16) AudioChunk {
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return AudioChunk{MIMEType: PCM16k, Data: base64.StdEncoding.EncodeToString(buf)}
}

// EncodeFloat32 converts samples in [-1, 1] to 16-bit PCM, clamping overflow.
func EncodeFloat32(samples []float32) AudioChunk {
	pcm := make([]int16, len(samples))
	for i, s := range samples {
		switch {
		case s >= 1:
			pcm[i] = 32767
		case s <= -1:
			pcm[i] = -32768
		default:
			pcm[i] = int16(s * 32768)
		}
	}
	return EncodePCM16(pcm)
}
