package chat

import "sync"

// Registry is the process-wide mapping from room name to its one canonical
// Room. Rooms are created lazily on first lookup and retained for the life
// of the process, empty or not.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: map[string]*Room{},
	}
}

// Get returns the Room for a name, constructing and storing a new empty
// Room on first reference.
func (reg *Registry) Get(name string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[name]
	if !ok {
		room = NewRoom(name)
		reg.rooms[name] = room
		logger.Printf("created room %q", name)
	}
	return room
}

// Len returns the number of rooms created so far.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}
