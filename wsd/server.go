package wsd

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Room used when the request path doesn't name one.
const defaultRoom = "lobby"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Origin policy belongs to whatever fronts this server.
		return true
	},
}

// Listener accepts WebSocket connections on /chat/<room> and yields them
// over a channel. The channel is closed once the listener is closed and the
// last in-flight upgrade has settled, so consumers can range over it.
type Listener struct {
	socket net.Listener
	server *http.Server
	conns  chan *Connection

	done      chan struct{}
	closeOnce sync.Once

	mu     sync.Mutex
	closed bool
	sends  sync.WaitGroup
}

// Listen opens laddr and starts accepting upgrade requests.
func Listen(laddr string) (*Listener, error) {
	socket, err := net.Listen("tcp", laddr)
	if err != nil {
		return nil, err
	}

	l := &Listener{
		socket: socket,
		conns:  make(chan *Connection),
		done:   make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat/", l.handleUpgrade)
	l.server = &http.Server{Handler: mux}

	go func() {
		err := l.server.Serve(socket)
		if err != nil && err != http.ErrServerClosed {
			logger.Printf("serve ended: %v", err)
		}
		l.Close()
		// Nobody can register a new send after Close, so once the in-flight
		// ones drain it is safe to end the consumer's range loop.
		l.sends.Wait()
		close(l.conns)
	}()

	logger.Printf("listening on %s", socket.Addr())
	return l, nil
}

func (l *Listener) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	room := strings.Trim(strings.TrimPrefix(r.URL.Path, "/chat/"), "/")
	if room == "" {
		room = defaultRoom
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Printf("failed to upgrade %s: %v", r.RemoteAddr, err)
		return
	}

	conn := &Connection{
		id:   uuid.NewString(),
		room: room,
		ws:   ws,
	}
	if !l.yield(conn) {
		ws.Close()
	}
}

// yield hands an accepted connection to the consumer. Returns false if the
// listener closed first.
func (l *Listener) yield(conn *Connection) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.sends.Add(1)
	l.mu.Unlock()
	defer l.sends.Done()

	select {
	case l.conns <- conn:
		return true
	case <-l.done:
		return false
	}
}

// ServeConns yields accepted connections until the listener is closed.
func (l *Listener) ServeConns() <-chan *Connection {
	return l.conns
}

// Addr returns the bound address, useful when listening on port 0.
func (l *Listener) Addr() net.Addr {
	return l.socket.Addr()
}

// Close stops accepting connections and closes the socket. The connection
// channel closes shortly after, ending any range over ServeConns.
func (l *Listener) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		close(l.done)
		l.server.Close()
	})
}
