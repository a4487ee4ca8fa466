package gemini

import (
	"context"
	"encoding/base64"
	"fmt"

	"myjourney-be/pkg/speech"

	"google.golang.org/genai"
)

// GeminiSynthesizer produces narration through the Gemini TTS models.
// Output is raw 16-bit PCM at 24 kHz, returned base64 encoded.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
	voice  string
}

var _ speech.Synthesizer = &GeminiSynthesizer{}

func NewGeminiSynthesizer(ctx context.Context, apiKey, model, voice string) (*GeminiSynthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiSynthesizer{
		client: client,
		model:  model,
		voice:  voice,
	}, nil
}

func (s *GeminiSynthesizer) Narrate(ctx context.Context, text string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: s.voice,
				},
			},
		},
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(text), config)
	if err != nil {
		return "", fmt.Errorf("gemini tts request failed: %w", err)
	}

	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
			}
		}
	}

	return "", fmt.Errorf("gemini tts returned no audio data")
}
