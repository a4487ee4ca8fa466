package speech

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"testing"
)

func TestDecodeAudioWrapsRawPCM(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	buf, err := DecodeAudio(base64.StdEncoding.EncodeToString(pcm))
	if err != nil {
		t.Fatalf("DecodeAudio: %v", err)
	}

	if buf.MimeType != "audio/wav" {
		t.Errorf("MimeType = %q, want audio/wav", buf.MimeType)
	}
	if len(buf.Data) != 44+len(pcm) {
		t.Fatalf("len = %d, want %d", len(buf.Data), 44+len(pcm))
	}

	if !bytes.Equal(buf.Data[:4], []byte("RIFF")) || !bytes.Equal(buf.Data[8:12], []byte("WAVE")) {
		t.Error("missing RIFF/WAVE markers")
	}
	if got := binary.LittleEndian.Uint32(buf.Data[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("RIFF chunk size = %d, want %d", got, 36+len(pcm))
	}
	if got := binary.LittleEndian.Uint32(buf.Data[24:28]); got != 24000 {
		t.Errorf("sample rate = %d, want 24000", got)
	}
	if got := binary.LittleEndian.Uint16(buf.Data[22:24]); got != 1 {
		t.Errorf("channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint16(buf.Data[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(buf.Data[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data chunk size = %d, want %d", got, len(pcm))
	}
	if !bytes.Equal(buf.Data[44:], pcm) {
		t.Error("pcm samples not carried through")
	}
}

func TestDecodeAudioPassesWavThrough(t *testing.T) {
	wav := wrapPCM([]byte{0x00, 0x01})
	buf, err := DecodeAudio(base64.StdEncoding.EncodeToString(wav))
	if err != nil {
		t.Fatalf("DecodeAudio: %v", err)
	}
	if buf.MimeType != "audio/wav" {
		t.Errorf("MimeType = %q, want audio/wav", buf.MimeType)
	}
	if !bytes.Equal(buf.Data, wav) {
		t.Error("wav payload was rewrapped")
	}
}

func TestDecodeAudioPassesMp3Through(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"id3 tagged", append([]byte("ID3"), 0x04, 0x00, 0x00)},
		{"bare frame sync", []byte{0xFF, 0xFB, 0x90, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := DecodeAudio(base64.StdEncoding.EncodeToString(tt.data))
			if err != nil {
				t.Fatalf("DecodeAudio: %v", err)
			}
			if buf.MimeType != "audio/mpeg" {
				t.Errorf("MimeType = %q, want audio/mpeg", buf.MimeType)
			}
			if !bytes.Equal(buf.Data, tt.data) {
				t.Error("mp3 payload modified")
			}
		})
	}
}

func TestDecodeAudioRejectsBadInput(t *testing.T) {
	if _, err := DecodeAudio("not!base64!!"); err == nil {
		t.Error("accepted invalid base64")
	}
	if _, err := DecodeAudio(""); err == nil {
		t.Error("accepted empty payload")
	}
}

func TestNarrationExcerpt(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph.\n\nFourth paragraph."

	got := NarrationExcerpt(text, 3)
	want := "First paragraph. Second paragraph. Third paragraph."
	if got != want {
		t.Errorf("NarrationExcerpt = %q, want %q", got, want)
	}

	// Fewer paragraphs than the cap come back whole.
	short := "Only one paragraph."
	if got := NarrationExcerpt(short, 3); got != short {
		t.Errorf("NarrationExcerpt(short) = %q, want %q", got, short)
	}
}
