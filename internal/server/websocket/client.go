package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sunstyle/sunstyle/internal/server/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Submissions carry image data
	// URIs of up to 10 MiB, plus envelope.
	maxMessageSize = 12 << 20

	// Consecutive undecodable frames tolerated before disconnecting.
	maxDecodeErrors = 5
)

// Dispatcher routes inbound frames and disconnects to the protocol.
// Satisfied by *protocol.Protocol.
type Dispatcher interface {
	HandleFrame(c protocol.Conn, f protocol.Frame)
	Disconnect(c protocol.Conn)
}

// Client represents a WebSocket client connection.
type Client struct {
	id         string
	hub        *Hub
	conn       *websocket.Conn
	send       chan protocol.Message
	dispatcher Dispatcher
}

// Compile-time interface check.
var _ protocol.Conn = (*Client)(nil)

// NewClient creates a new WebSocket client.
func NewClient(id string, hub *Hub, conn *websocket.Conn, dispatcher Dispatcher) *Client {
	return &Client{
		id:         id,
		hub:        hub,
		conn:       conn,
		send:       make(chan protocol.Message, 256),
		dispatcher: dispatcher,
	}
}

// ID identifies the connection for logging.
func (c *Client) ID() string {
	return c.id
}

// Send enqueues a message for this client through the hub's FIFO path so
// unicasts and broadcasts arrive in the order the protocol issued them.
func (c *Client) Send(message protocol.Message) {
	c.hub.Unicast(c, message)
}

// ReadPump pumps frames from the WebSocket connection to the protocol.
func (c *Client) ReadPump() {
	defer func() {
		c.dispatcher.Disconnect(c)
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	decodeErrors := 0
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error().Err(err).Str("client_id", c.id).Msg("WebSocket read error")
			}
			break
		}

		var frame protocol.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			decodeErrors++
			c.Send(protocol.Message{Event: protocol.EventError, Data: "mensaje inválido"})
			if decodeErrors >= maxDecodeErrors {
				break
			}
			continue
		}
		decodeErrors = 0

		c.dispatcher.HandleFrame(c, frame)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				c.hub.logger.Error().Err(err).Msg("Failed to marshal WebSocket message")
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
