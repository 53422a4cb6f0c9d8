package chat

import "sync"

// memberSet holds a room's members keyed by their stable connection ID.
// Keying by ID rather than display name means identity is unambiguous even
// when two members share a name, and a repeated join of the same user can't
// produce duplicate membership.
type memberSet struct {
	sync.RWMutex
	lookup map[string]*User
}

func newMemberSet() *memberSet {
	return &memberSet{
		lookup: map[string]*User{},
	}
}

// Len returns the size of the set right now.
func (s *memberSet) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.lookup)
}

// Add inserts a user, replacing any previous entry under the same ID.
func (s *memberSet) Add(u *User) {
	s.Lock()
	s.lookup[u.ID()] = u
	s.Unlock()
}

// Remove deletes a user if present. Removing an absent user is a no-op.
func (s *memberSet) Remove(u *User) {
	s.Lock()
	delete(s.lookup, u.ID())
	s.Unlock()
}

// In checks whether a user is in the set.
func (s *memberSet) In(u *User) bool {
	s.RLock()
	_, ok := s.lookup[u.ID()]
	s.RUnlock()
	return ok
}

// Snapshot returns a point-in-time copy of the members, in map iteration
// order. Iterating the copy is safe against concurrent join/leave.
func (s *memberSet) Snapshot() []*User {
	s.RLock()
	defer s.RUnlock()
	members := make([]*User, 0, len(s.lookup))
	for _, u := range s.lookup {
		members = append(members, u)
	}
	return members
}
