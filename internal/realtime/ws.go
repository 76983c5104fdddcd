package realtime

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// clientMessage is the only inbound frame the server understands.
type clientMessage struct {
	Event string `json:"event"`
	Room  string `json:"room"`
}

// UpgradeRequired rejects plain HTTP requests on the websocket route.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler upgrades the connection, subscribes it to the hub and pumps
// broadcast frames out until the client goes away.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sub := hub.Subscribe()
		defer hub.Unsubscribe(sub)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				_, data, err := conn.ReadMessage()
				if err != nil {
					return
				}
				var msg clientMessage
				if err := json.Unmarshal(data, &msg); err != nil {
					continue
				}
				if msg.Event == "join" && msg.Room != "" {
					hub.Join(sub, msg.Room)
				}
			}
		}()

		for {
			select {
			case frame, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}
