package handler

import (
	"myjourney-be/internal/pkg/logger"
	internalWS "myjourney-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// RideFeedHandler upgrades watchers onto the live feed of one ride.
type RideFeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewRideFeedHandler(hub *internalWS.Hub, log logger.ILogger) *RideFeedHandler {
	return &RideFeedHandler{
		hub:    hub,
		logger: log,
	}
}

func (h *RideFeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/ride/:id", h.ServeWs)
}

// ServeWs handles websocket requests from the peer. Rides can be anonymous,
// so the feed is keyed by session id rather than a token.
func (h *RideFeedHandler) ServeWs(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("RideFeedHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("RideFeedHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
