package wschat

import (
	"github.com/relaychat/ws-chat/chat"
	"github.com/relaychat/ws-chat/wsd"
)

// Host is the bridge between the wsd and chat modules. It owns the room
// registry and runs one read loop per accepted connection.
type Host struct {
	registry *chat.Registry
}

// NewHost creates a Host around a room registry.
func NewHost(registry *chat.Registry) *Host {
	return &Host{
		registry: registry,
	}
}

// Serve consumes accepted connections from the listener, one goroutine per
// connection. Returns once the listener is closed.
func (h *Host) Serve(l *wsd.Listener) {
	for conn := range l.ServeConns() {
		go h.Connect(conn)
	}
}

// Connect runs a connection's life: resolve its room, feed inbound messages
// to the chat user one at a time, and tear down on exit. A message the
// decoder rejects (malformed payload or unknown type) closes the
// connection; that policy lives here, not in the chat module.
func (h *Host) Connect(conn *wsd.Connection) {
	room := h.registry.Get(conn.Room())
	user := chat.NewUser(conn.ID(), room, conn.SendText)

	logger.Debugf("[%s] connected to %q", conn.RemoteAddr(), room.Name())

	defer func() {
		user.HandleClose()
		conn.Close()
		logger.Debugf("[%s] disconnected: %s", conn.RemoteAddr(), user.Name())
	}()

	for {
		raw, err := conn.ReadMessage()
		if err != nil {
			// Closed or broken socket.
			break
		}
		if err := user.HandleMessage(raw); err != nil {
			logger.Errorf("[%s] rejecting message, closing: %s", conn.RemoteAddr(), err)
			break
		}
	}
}
