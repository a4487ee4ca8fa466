package speech

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// PCM format emitted by the Gemini TTS models.
const (
	pcmSampleRate    = 24000
	pcmChannels      = 1
	pcmBitsPerSample = 16
)

// AudioBuffer is a decoded, directly playable audio payload.
type AudioBuffer struct {
	Data     []byte
	MimeType string
}

// DecodeAudio turns base64 narration data into a playable buffer.
// MP3 and WAV payloads pass through untouched; anything else is
// treated as raw PCM and wrapped in a WAV container.
func DecodeAudio(encoded string) (*AudioBuffer, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty audio payload")
	}

	switch {
	case isWav(raw):
		return &AudioBuffer{Data: raw, MimeType: "audio/wav"}, nil
	case isMp3(raw):
		return &AudioBuffer{Data: raw, MimeType: "audio/mpeg"}, nil
	default:
		return &AudioBuffer{Data: wrapPCM(raw), MimeType: "audio/wav"}, nil
	}
}

func isWav(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}

func isMp3(data []byte) bool {
	if len(data) >= 3 && bytes.Equal(data[:3], []byte("ID3")) {
		return true
	}
	// MPEG frame sync: 11 set bits.
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

// wrapPCM prefixes a standard 44-byte WAV header onto raw PCM16 samples.
func wrapPCM(pcm []byte) []byte {
	byteRate := pcmSampleRate * pcmChannels * pcmBitsPerSample / 8
	blockAlign := pcmChannels * pcmBitsPerSample / 8

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(pcmChannels))
	binary.Write(buf, binary.LittleEndian, uint32(pcmSampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(pcmBitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
