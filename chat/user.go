package chat

import (
	"fmt"
	"strings"
	"sync"

	"github.com/relaychat/ws-chat/chat/wire"
)

// Name used for server-originated command replies.
const serverName = "server"

const jokeText = "This is a funny joke"

// SendFunc pushes raw data to a user's remote peer. A failed send means the
// recipient is unreachable; callers discard the error.
type SendFunc func(data []byte) error

// User is the server-side actor for one client connection. It owns the
// connection's send capability, belongs to exactly one room, and carries a
// mutable display name which is empty until the join handshake.
//
// The transport feeds one inbound message at a time into HandleMessage, so
// no per-user handling overlaps; only the room's member set is shared
// across users.
type User struct {
	id   string
	send SendFunc
	room *Room

	mu   sync.RWMutex
	name string
}

// NewUser creates a user bound to a room, identified by a stable connection
// ID and owning the given send capability.
func NewUser(id string, room *Room, send SendFunc) *User {
	return &User{
		id:   id,
		send: send,
		room: room,
	}
}

// ID returns the user's stable connection identifier.
func (u *User) ID() string {
	return u.id
}

// Name returns the user's current display name, empty before join.
func (u *User) Name() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.name
}

// SetName changes the user's display name.
func (u *User) SetName(name string) {
	u.mu.Lock()
	u.name = name
	u.mu.Unlock()
}

// Room returns the room this user belongs to.
func (u *User) Room() *Room {
	return u.room
}

// deliver pushes already-serialized bytes to the peer. Used for room
// fan-out so the envelope is marshalled once per broadcast.
func (u *User) deliver(data []byte) error {
	return u.send(data)
}

// reply sends an envelope to this user only, best-effort.
func (u *User) reply(env wire.Envelope) {
	if err := u.send(env.Marshal()); err != nil {
		logger.Printf("dropping reply to %s: %v", u.id, err)
	}
}

// HandleMessage decodes one raw inbound message and dispatches it. Parse
// failures (malformed payload, unknown type) are returned to the caller,
// who owns the connection and decides its fate; everything else is handled
// here, answering the user directly where needed.
func (u *User) HandleMessage(raw []byte) error {
	in, err := wire.ParseInbound(raw)
	if err != nil {
		return err
	}

	switch in.Type {
	case wire.Join:
		u.handleJoin(in.Name)
	case wire.Chat:
		u.handleChat(in.Text)
	case wire.Command:
		u.handleCommand(in.Text)
	}
	return nil
}

// handleJoin binds the display name, joins the room and announces it.
func (u *User) handleJoin(name string) {
	u.SetName(name)
	u.room.Join(u)
	u.room.Broadcast(wire.NewNote(fmt.Sprintf("%s joined %q.", name, u.room.Name())))
}

// handleChat broadcasts user speech verbatim, attributed to the current
// display name.
func (u *User) handleChat(text string) {
	u.room.Broadcast(wire.NewChat(u.Name(), text))
}

func (u *User) handleCommand(text string) {
	kind, token, args := parseCommand(text)
	switch kind {
	case cmdJoke:
		u.reply(wire.NewChat(serverName, jokeText))
	case cmdMembers:
		u.reply(wire.NewChat(serverName, "In room: "+strings.Join(u.room.Names(), ", ")))
	case cmdPriv:
		u.handlePriv(args)
	case cmdName:
		u.handleRename(args)
	default:
		// A normal branch, not an error: unknown commands get a reply and
		// the connection stays usable.
		u.reply(wire.NewChat(serverName, fmt.Sprintf("%s is an unknown command.", token)))
	}
}

// handlePriv delivers a private message to the first member matching the
// target name, and echoes the same envelope back to the issuer. Nobody
// else sees it.
func (u *User) handlePriv(args []string) {
	if len(args) < 2 {
		u.reply(wire.NewChat(serverName, "You must specify a user and a message"))
		return
	}
	target := args[0]
	if target == u.Name() {
		u.reply(wire.NewChat(serverName, "You cannot send a private message to yourself"))
		return
	}
	to, ok := u.room.MemberByName(target)
	if !ok {
		u.reply(wire.NewChat(serverName, fmt.Sprintf("%s is not in the room.", target)))
		return
	}

	// The header lives in the name field so the message text stays
	// verbatim.
	env := wire.NewChat(fmt.Sprintf("%s (privately to %s)", u.Name(), target), strings.Join(args[1:], " "))
	data := env.Marshal()
	if err := to.deliver(data); err != nil {
		logger.Printf("dropping private message to %s: %v", to.ID(), err)
	}
	if err := u.deliver(data); err != nil {
		logger.Printf("dropping private echo to %s: %v", u.id, err)
	}
}

// handleRename announces the rename with the pre-change name as subject,
// then updates the name. Later messages are attributed to the new name.
func (u *User) handleRename(args []string) {
	if len(args) == 0 {
		u.reply(wire.NewChat(serverName, "You must specify your new name"))
		return
	}
	newName := args[0]
	u.room.Broadcast(wire.NewNote(fmt.Sprintf("%s changed their name to %s.", u.Name(), newName)))
	u.SetName(newName)
}

// HandleClose removes the user from its room and announces the exit. Safe
// to call before the join handshake completed; the note just carries an
// empty name.
func (u *User) HandleClose() {
	u.room.Leave(u)
	u.room.Broadcast(wire.NewNote(fmt.Sprintf("%s left %s.", u.Name(), u.room.Name())))
}
