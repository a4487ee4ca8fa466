package speech

import (
	"context"
	"strings"
)

// Synthesizer turns chapter text into an encoded narration payload.
// Implementations return the audio as base64; failures surface as errors
// and the caller decides to drop narration for that chapter.
type Synthesizer interface {
	Narrate(ctx context.Context, text string) (string, error)
}

// NarrationExcerpt keeps narration length manageable: the first n
// double-newline paragraphs, joined into one spoken passage.
func NarrationExcerpt(text string, paragraphs int) string {
	parts := strings.Split(text, "\n\n")
	if len(parts) > paragraphs {
		parts = parts[:paragraphs]
	}
	return strings.Join(parts, " ")
}
