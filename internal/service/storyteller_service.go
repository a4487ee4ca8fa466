package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"myjourney-be/internal/constant"
	"myjourney-be/internal/engine"
	"myjourney-be/internal/entity"
	"myjourney-be/internal/pkg/logger"
	"myjourney-be/pkg/narrative"
	"myjourney-be/pkg/speech"

	"github.com/google/uuid"
)

// storytellerService turns a chapter request into finished prose plus an
// optional voice track. Provider failures degrade to in-fiction fallback
// text; a generation never fails the ride.
type storytellerService struct {
	provider    narrative.Provider
	synthesizer speech.Synthesizer // nil disables narration
	logger      logger.ILogger
}

func NewStorytellerService(provider narrative.Provider, synth speech.Synthesizer, log logger.ILogger) engine.Generator {
	return &storytellerService{
		provider:    provider,
		synthesizer: synth,
		logger:      log,
	}
}

func (s *storytellerService) GenerateChapter(ctx context.Context, req engine.ChapterRequest) entity.Chapter {
	content := s.generateText(ctx, req)

	chapter := entity.Chapter{
		Id:                 uuid.New(),
		Title:              fmt.Sprintf("%s // Fragment %d", req.Genre, req.ChapterIndex),
		Content:            content,
		CreatedAt:          time.Now(),
		SpeedAtCreation:    req.Speed,
		DistanceAtCreation: req.Distance,
		Genre:              req.Genre,
	}

	if s.synthesizer != nil {
		excerpt := speech.NarrationExcerpt(content, constant.NarratedParagraphs)
		audio, err := s.synthesizer.Narrate(ctx, excerpt)
		if err != nil {
			s.logger.Warn("Storyteller", "Narration failed, chapter ships silent", map[string]interface{}{
				"session_id": req.SessionId,
				"index":      req.ChapterIndex,
				"error":      err.Error(),
			})
		} else {
			chapter.AudioData = &audio
		}
	}

	return chapter
}

func (s *storytellerService) generateText(ctx context.Context, req engine.ChapterRequest) string {
	prior := narrative.TailContext(req.PriorContext, constant.PriorContextChars)
	prompt := narrative.BuildChapterPrompt(req.Genre, req.PlotSeed, req.Speed, prior, req.ChapterIndex)

	history := []narrative.Message{
		{Role: "system", Content: narrative.SystemPrompt},
		{Role: "user", Content: prompt},
	}

	content, err := s.provider.Chat(ctx, history)
	if err != nil {
		s.logger.Error("Storyteller", "Narrative provider failed", map[string]interface{}{
			"session_id": req.SessionId,
			"index":      req.ChapterIndex,
			"error":      err.Error(),
		})
		return constant.FallbackChapterText
	}

	content = strings.TrimSpace(content)
	if content == "" {
		s.logger.Warn("Storyteller", "Narrative provider returned empty content", map[string]interface{}{
			"session_id": req.SessionId,
			"index":      req.ChapterIndex,
		})
		return constant.FallbackEmptyChapterText
	}
	return content
}
