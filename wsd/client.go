package wsd

import (
	"net"
	"sync"

	"github.com/gorilla/websocket"
)

// Connection is one accepted WebSocket, bound at accept time to a room name
// taken from the request path and identified by a stable UUID.
type Connection struct {
	id   string
	room string
	ws   *websocket.Conn

	// gorilla supports one concurrent writer per connection.
	mu sync.Mutex
}

// ID returns the connection's stable identifier.
func (c *Connection) ID() string {
	return c.id
}

// Room returns the room name the connection was accepted for.
func (c *Connection) Room() string {
	return c.room
}

// RemoteAddr returns the peer's network address.
func (c *Connection) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}

// SendText writes one text frame to the peer. An error means the peer is
// unreachable; callers treat delivery as best-effort and discard it.
func (c *Connection) SendText(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// ReadMessage blocks until the next frame arrives from the peer.
func (c *Connection) ReadMessage() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	return data, err
}

// Close tears down the underlying socket.
func (c *Connection) Close() error {
	return c.ws.Close()
}
