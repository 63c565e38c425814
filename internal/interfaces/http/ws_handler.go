package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/abastoya/marketplace-api/internal/ws"
)

// WSUpgrade rechaza con 426 las peticiones que no son upgrade websocket.
func WSUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// WSHandler registra la conexión en el hub y la mantiene viva hasta que el
// cliente corta. El canal es de solo bajada: lo que el cliente envíe se ignora.
func WSHandler(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		hub.Register(conn)
		defer hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
