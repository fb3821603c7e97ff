package server

import (
	"log/slog"

	"campushire/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// NotificationsWebsocket upgrades an authenticated request into a
// notification stream. Moderation outcomes for the user's experiences are
// pushed over it as JSON text frames.
func (s *Server) NotificationsWebsocket() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(localsUserID).(uint)
		client, err := s.hub.Register(userID, conn)
		if err != nil {
			slog.Warn("notification socket rejected", "user_id", userID, "error", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}
		defer s.hub.UnregisterClient(client)

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if s.hub == nil {
			return models.RespondWithError(c, fiber.StatusServiceUnavailable,
				&models.AppError{Code: models.CodeDependency, Message: "Notifications are unavailable"})
		}
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}
