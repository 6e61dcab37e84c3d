package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The frontend is served from its own origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and streams broadcast events until the
// client disconnects. There is no replay; clients refetch via the query
// endpoints on receipt.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := h.hub.Subscribe()

	// Writer: push serialized events until the subscription closes.
	go func() {
		defer conn.Close()
		for data := range sub.C {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	// Reader: clients send nothing we act on; drain until close so
	// control frames are processed, then drop the subscription.
	go func() {
		defer h.hub.Unsubscribe(sub.ID)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
