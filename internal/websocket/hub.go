package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"myjourney-be/internal/engine"
	"myjourney-be/internal/entity"
	"myjourney-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans live ride events out to the websocket clients watching each
// session. It implements engine.Feed, so rides push straight into it.
type Hub struct {
	// Registered clients map: SessionID -> List of Clients (multi-viewer)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// instanceID filters out our own envelopes on the shared channel.
	instanceID string

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Session has no more watchers", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// MetricsUpdated implements engine.Feed.
func (h *Hub) MetricsUpdated(sessionId uuid.UUID, m engine.Metrics) {
	h.Deliver(sessionId, "metrics", m)
}

// GenerationStarted implements engine.Feed.
func (h *Hub) GenerationStarted(sessionId uuid.UUID, chapterIndex int) {
	h.Deliver(sessionId, "generation_started", map[string]interface{}{
		"chapter_index": chapterIndex,
	})
}

// ChapterAppended implements engine.Feed. Audio is stripped; clients fetch
// it over HTTP, websocket frames stay small.
func (h *Hub) ChapterAppended(sessionId uuid.UUID, chapterIndex int, chapter entity.Chapter) {
	h.Deliver(sessionId, "chapter", map[string]interface{}{
		"id":                   chapter.Id,
		"chapter_index":        chapterIndex,
		"title":                chapter.Title,
		"content":              chapter.Content,
		"created_at":           chapter.CreatedAt,
		"speed_at_creation":    chapter.SpeedAtCreation,
		"distance_at_creation": chapter.DistanceAtCreation,
		"genre":                chapter.Genre,
		"has_audio":            chapter.AudioData != nil,
	})
}

// Deliver sends a typed event to every watcher of a session, here and on
// other instances through Redis.
func (h *Hub) Deliver(sessionID uuid.UUID, eventType string, data interface{}) {
	payload, _ := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})

	h.sendLocal(sessionID, payload)

	if h.rdb != nil {
		envelope, _ := json.Marshal(map[string]interface{}{
			"origin":            h.instanceID,
			"target_session_id": sessionID.String(),
			"message":           json.RawMessage(payload),
		})
		h.rdb.Publish(context.Background(), "ride_events", envelope)
	}
}

func (h *Hub) sendLocal(sessionID uuid.UUID, payload []byte) {
	h.mu.RLock()
	clients, found := h.clients[sessionID]
	h.mu.RUnlock()

	if !found {
		return
	}
	for _, client := range clients {
		select {
		case client.Send <- payload:
		default:
			// The unregister path owns closing Send.
			h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to "ride_events". When an envelope arrives,
	// forward it to any local watcher of the target session.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "ride_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var envelope struct {
			Origin          string          `json:"origin"`
			TargetSessionID string          `json:"target_session_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		// Already delivered locally when we published it.
		if envelope.Origin == h.instanceID {
			continue
		}

		sid, err := uuid.Parse(envelope.TargetSessionID)
		if err != nil {
			continue
		}

		h.sendLocal(sid, envelope.Message)
	}
}
