package service

import (
	"context"

	"myjourney-be/internal/engine"
	"myjourney-be/internal/entity"
	"myjourney-be/internal/pkg/logger"
	"myjourney-be/pkg/events"
	pktNats "myjourney-be/pkg/nats"

	"github.com/google/uuid"
)

// rideFeed forwards engine events to the live websocket hub and mirrors
// the durable ones onto the NATS bus.
type rideFeed struct {
	live   engine.Feed
	bus    *pktNats.Publisher // nil when NATS is not configured
	logger logger.ILogger
}

func NewRideFeed(live engine.Feed, bus *pktNats.Publisher, log logger.ILogger) engine.Feed {
	return &rideFeed{
		live:   live,
		bus:    bus,
		logger: log,
	}
}

func (f *rideFeed) MetricsUpdated(sessionId uuid.UUID, m engine.Metrics) {
	if f.live != nil {
		f.live.MetricsUpdated(sessionId, m)
	}
}

func (f *rideFeed) GenerationStarted(sessionId uuid.UUID, chapterIndex int) {
	if f.live != nil {
		f.live.GenerationStarted(sessionId, chapterIndex)
	}
}

func (f *rideFeed) ChapterAppended(sessionId uuid.UUID, chapterIndex int, chapter entity.Chapter) {
	if f.live != nil {
		f.live.ChapterAppended(sessionId, chapterIndex, chapter)
	}
	if f.bus == nil {
		return
	}

	event := events.NewChapterAppendedEvent(sessionId.String(), chapter.Id.String(), chapter.Title, chapterIndex)
	if err := f.bus.Publish(context.Background(), event); err != nil {
		f.logger.Warn("RideFeed", "Failed to publish chapter event", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}
