package service

import (
	"context"

	"myjourney-be/internal/pkg/logger"
	"myjourney-be/pkg/events"
	pktNats "myjourney-be/pkg/nats"

	"github.com/google/uuid"
)

// ActivityDelivery defines how to push ride activity to watchers.
// Typically implemented by the WebSocket Hub.
type ActivityDelivery interface {
	Deliver(sessionID uuid.UUID, eventType string, data interface{})
}

// NotificationService consumes the durable ride event stream and turns it
// into activity pushes. Chapters reach watchers over the live feed already;
// this path survives restarts and feeds any instance that missed the ride.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   ActivityDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery ActivityDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("rides.>", "ride-activity-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start activity subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Activity service started, listening to rides.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	sidStr, ok := payload["session_id"].(string)
	if !ok {
		s.logger.Warn("NotificationService", "Event without session_id, dropping", map[string]interface{}{"type": event.EventType()})
		return nil
	}
	sid, err := uuid.Parse(sidStr)
	if err != nil {
		s.logger.Warn("NotificationService", "Event with malformed session_id, dropping", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	s.logger.Info("NotificationService", "Processing ride event", map[string]interface{}{
		"type":       event.EventType(),
		"session_id": sid,
	})

	if s.delivery != nil {
		s.delivery.Deliver(sid, "activity", map[string]interface{}{
			"event":      event.EventType(),
			"payload":    payload,
			"occurredAt": event.Timestamp(),
		})
	}
	return nil
}
