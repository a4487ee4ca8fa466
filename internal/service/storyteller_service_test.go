package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"myjourney-be/internal/constant"
	"myjourney-be/internal/engine"
	"myjourney-be/pkg/narrative"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type stubProvider struct {
	reply   string
	err     error
	history []narrative.Message
}

func (p *stubProvider) Chat(ctx context.Context, history []narrative.Message, _ ...narrative.Option) (string, error) {
	p.history = history
	return p.reply, p.err
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, opts ...narrative.Option) (string, error) {
	return p.Chat(ctx, []narrative.Message{{Role: "user", Content: prompt}}, opts...)
}

type stubSynth struct {
	audio string
	err   error
	heard string
}

func (s *stubSynth) Narrate(_ context.Context, text string) (string, error) {
	s.heard = text
	return s.audio, s.err
}

func chapterRequest() engine.ChapterRequest {
	return engine.ChapterRequest{
		SessionId:    uuid.New(),
		Genre:        "Gothic",
		PlotSeed:     "an abandoned cathedral",
		Speed:        9.5,
		Distance:     2.1,
		ChapterIndex: 4,
		PriorContext: "The bells had stopped ringing.",
	}
}

func TestGenerateChapter(t *testing.T) {
	provider := &stubProvider{reply: "Para one.\n\nPara two.\n\nPara three.\n\nPara four."}
	synth := &stubSynth{audio: "QVVESU8="}
	svc := NewStorytellerService(provider, synth, nopLogger{})

	chapter := svc.GenerateChapter(context.Background(), chapterRequest())

	assert.Equal(t, "Gothic // Fragment 4", chapter.Title)
	assert.Equal(t, provider.reply, chapter.Content)
	assert.Equal(t, 9.5, chapter.SpeedAtCreation)
	assert.Equal(t, 2.1, chapter.DistanceAtCreation)
	assert.Equal(t, "Gothic", chapter.Genre)
	require.NotNil(t, chapter.AudioData)
	assert.Equal(t, "QVVESU8=", *chapter.AudioData)

	// Prompt assembly: system framing plus the user prompt carrying the
	// request fields and prior context.
	require.Len(t, provider.history, 2)
	assert.Equal(t, "system", provider.history[0].Role)
	assert.Equal(t, narrative.SystemPrompt, provider.history[0].Content)
	assert.Equal(t, "user", provider.history[1].Role)
	prompt := provider.history[1].Content
	assert.Contains(t, prompt, "Gothic")
	assert.Contains(t, prompt, "an abandoned cathedral")
	assert.Contains(t, prompt, "Fragment: 4")
	assert.Contains(t, prompt, "The bells had stopped ringing.")

	// Only the leading paragraphs are voiced.
	assert.Equal(t, "Para one. Para two. Para three.", synth.heard)
}

func TestGenerateChapterProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	svc := NewStorytellerService(provider, nil, nopLogger{})

	chapter := svc.GenerateChapter(context.Background(), chapterRequest())

	assert.Equal(t, constant.FallbackChapterText, chapter.Content)
	assert.Nil(t, chapter.AudioData)
}

func TestGenerateChapterEmptyReply(t *testing.T) {
	provider := &stubProvider{reply: "   \n\n  "}
	svc := NewStorytellerService(provider, nil, nopLogger{})

	chapter := svc.GenerateChapter(context.Background(), chapterRequest())

	assert.Equal(t, constant.FallbackEmptyChapterText, chapter.Content)
}

func TestGenerateChapterNarrationFailureIsNonFatal(t *testing.T) {
	provider := &stubProvider{reply: "A chapter that survives."}
	synth := &stubSynth{err: errors.New("tts quota exceeded")}
	svc := NewStorytellerService(provider, synth, nopLogger{})

	chapter := svc.GenerateChapter(context.Background(), chapterRequest())

	assert.Equal(t, "A chapter that survives.", chapter.Content)
	assert.Nil(t, chapter.AudioData)
}

func TestGenerateChapterTruncatesPriorContext(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	svc := NewStorytellerService(provider, nil, nopLogger{})

	req := chapterRequest()
	req.PriorContext = strings.Repeat("x", 5000) + "recent events"
	svc.GenerateChapter(context.Background(), req)

	prompt := provider.history[1].Content
	assert.Contains(t, prompt, "recent events")
	assert.NotContains(t, prompt, strings.Repeat("x", constant.PriorContextChars+1))
}
