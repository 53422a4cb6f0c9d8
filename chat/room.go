package chat

import (
	"github.com/relaychat/ws-chat/chat/wire"
)

// Room is a named group of connected users sharing broadcast scope. The
// member set is the only shared mutable state in the system; all access
// goes through its lock, and broadcasts iterate a snapshot so concurrent
// joins and leaves can't corrupt a fan-out in progress.
type Room struct {
	name    string
	members *memberSet
}

// NewRoom creates a new empty room.
func NewRoom(name string) *Room {
	return &Room{
		name:    name,
		members: newMemberSet(),
	}
}

// Name returns the room's immutable name.
func (r *Room) Name() string {
	return r.name
}

// Join adds a user to the room. It does not announce the join; that is the
// caller's responsibility, via Broadcast.
func (r *Room) Join(u *User) {
	r.members.Add(u)
	logger.Printf("%s: joined by %s", r.name, u.ID())
}

// Leave removes a user from the room. Leaving a room the user isn't in is
// a no-op.
func (r *Room) Leave(u *User) {
	r.members.Remove(u)
	logger.Printf("%s: left by %s", r.name, u.ID())
}

// Len returns the current member count.
func (r *Room) Len() int {
	return r.members.Len()
}

// Broadcast serializes the envelope once and delivers it to every current
// member, including the sender if the sender is a member. Delivery is
// best-effort per recipient: one unreachable member never blocks delivery
// to the rest, never surfaces an error to the caller, and never removes
// the member (removal only happens via Leave).
func (r *Room) Broadcast(env wire.Envelope) {
	data := env.Marshal()
	for _, u := range r.members.Snapshot() {
		if err := u.deliver(data); err != nil {
			// Expected when a recipient's connection is dead. Swallowed so
			// one broken connection stays invisible to everyone else.
			logger.Printf("%s: dropping delivery to %s: %v", r.name, u.ID(), err)
		}
	}
}

// Names returns the display names of the current members, in snapshot
// order.
func (r *Room) Names() []string {
	members := r.members.Snapshot()
	names := make([]string, len(members))
	for i, u := range members {
		names[i] = u.Name()
	}
	return names
}

// MemberByName returns the first member whose display name matches.
// Display names aren't unique; under duplicates the first match in
// snapshot order wins.
func (r *Room) MemberByName(name string) (*User, bool) {
	for _, u := range r.members.Snapshot() {
		if u.Name() == name {
			return u, true
		}
	}
	return nil, false
}
