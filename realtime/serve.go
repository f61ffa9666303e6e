package realtime

import (
	"encoding/json"
	"log"

	"github.com/gofiber/contrib/websocket"
)

// Serve pumps one websocket connection against the hub until the peer
// disconnects. Inbound frames are validated, stamped with the authenticated
// sender and room (clients cannot spoof either), and rebroadcast to the
// rest of the room.
func (h *Hub) Serve(conn *websocket.Conn, matchID, userID string) {
	client := h.Join(matchID, userID)
	defer h.Leave(client)

	go func() {
		for data := range client.Outbox() {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var e Event
		if err := json.Unmarshal(raw, &e); err != nil {
			log.Printf("relay: dropping malformed frame from %s in match %s", userID, matchID)
			continue
		}
		if !ValidType(e.Type) {
			log.Printf("relay: dropping unknown event type %q from %s", e.Type, userID)
			continue
		}

		e.MatchID = matchID
		e.SenderID = userID
		h.Broadcast(e, client)
	}
}
