package websocket

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Connections authenticate with a bearer token, never with cookies
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Serve upgrades the request and subscribes the connection to topics. It
// returns once the client is registered; the pumps run until the peer or
// the hub hangs up. On upgrade failure a response has already been written.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, clientID string, topics []string) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("clientID", clientID).Msg("Failed to upgrade connection to WebSocket")
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		id:     clientID,
		topics: topics,
		logger: h.logger,
	}

	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return ErrHubClosed
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("clientID", clientID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
	return nil
}
