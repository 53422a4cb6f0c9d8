package chat

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/relaychat/ws-chat/chat/wire"
)

// MockConn captures everything sent to one user. Used for testing.
type MockConn struct {
	mu   sync.Mutex
	sent [][]byte
	fail error
}

func (c *MockConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.sent = append(c.sent, append([]byte(nil), data...))
	return nil
}

// Envelopes decodes everything received so far.
func (c *MockConn) Envelopes(t *testing.T) []wire.Envelope {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]wire.Envelope, len(c.sent))
	for i, data := range c.sent {
		if err := json.Unmarshal(data, &out[i]); err != nil {
			t.Fatalf("bad envelope %q: %v", data, err)
		}
	}
	return out
}

func (c *MockConn) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func newTestUser(id string, name string, room *Room) (*User, *MockConn) {
	conn := &MockConn{}
	u := NewUser(id, room, conn.Send)
	u.SetName(name)
	return u, conn
}

func TestRoomMembership(t *testing.T) {
	r := NewRoom("lobby")
	foo, _ := newTestUser("1", "foo", r)
	bar, _ := newTestUser("2", "bar", r)

	r.Join(foo)
	r.Join(bar)
	if actual, expected := r.Len(), 2; actual != expected {
		t.Errorf("Got: %d; Expected: %d", actual, expected)
	}

	r.Leave(foo)
	if actual, expected := r.Len(), 1; actual != expected {
		t.Errorf("Got: %d; Expected: %d", actual, expected)
	}

	// Leaving again is a no-op, not an error.
	r.Leave(foo)
	if actual, expected := r.Len(), 1; actual != expected {
		t.Errorf("Got: %d; Expected: %d", actual, expected)
	}
}

func TestRoomDuplicateJoin(t *testing.T) {
	r := NewRoom("lobby")
	foo, conn := newTestUser("1", "foo", r)

	r.Join(foo)
	r.Join(foo)
	if actual, expected := r.Len(), 1; actual != expected {
		t.Errorf("Got: %d; Expected: %d", actual, expected)
	}

	r.Broadcast(wire.NewNote("hello"))
	if actual, expected := conn.Len(), 1; actual != expected {
		t.Errorf("Got: %d deliveries; Expected: %d", actual, expected)
	}
}

func TestRoomBroadcastIncludesSender(t *testing.T) {
	r := NewRoom("lobby")
	foo, fooConn := newTestUser("1", "foo", r)
	bar, barConn := newTestUser("2", "bar", r)
	r.Join(foo)
	r.Join(bar)

	r.Broadcast(wire.NewChat("foo", "hi"))

	for _, conn := range []*MockConn{fooConn, barConn} {
		envs := conn.Envelopes(t)
		if len(envs) != 1 {
			t.Fatalf("Got: %d deliveries; Expected: 1", len(envs))
		}
		if envs[0].Name != "foo" || envs[0].Type != wire.Chat || envs[0].Text != "hi" {
			t.Errorf("Got: %+v; Expected: foo/chat/hi", envs[0])
		}
	}
}

func TestRoomBroadcastFailureIsolation(t *testing.T) {
	r := NewRoom("lobby")
	x, xConn := newTestUser("x", "x", r)
	y, yConn := newTestUser("y", "y", r)
	z, zConn := newTestUser("z", "z", r)
	r.Join(x)
	r.Join(y)
	r.Join(z)

	xConn.fail = errors.New("connection reset")

	r.Broadcast(wire.NewNote("still here"))

	if yConn.Len() != 1 || zConn.Len() != 1 {
		t.Errorf("Got: y=%d z=%d deliveries; Expected: 1 each", yConn.Len(), zConn.Len())
	}
	// The failing member stays in the room; only Leave removes.
	if actual, expected := r.Len(), 3; actual != expected {
		t.Errorf("Got: %d members; Expected: %d", actual, expected)
	}

	// And the next broadcast still reaches everyone healthy.
	r.Broadcast(wire.NewNote("again"))
	if yConn.Len() != 2 || zConn.Len() != 2 {
		t.Errorf("Got: y=%d z=%d deliveries; Expected: 2 each", yConn.Len(), zConn.Len())
	}
}

func TestRoomNames(t *testing.T) {
	r := NewRoom("lobby")
	foo, _ := newTestUser("1", "foo", r)
	r.Join(foo)

	names := r.Names()
	if len(names) != 1 || names[0] != "foo" {
		t.Errorf("Got: %v; Expected: [foo]", names)
	}
}

func TestRoomMemberByName(t *testing.T) {
	r := NewRoom("lobby")
	foo, _ := newTestUser("1", "foo", r)
	r.Join(foo)

	if m, ok := r.MemberByName("foo"); !ok || m != foo {
		t.Errorf("Got: %v %v; Expected: foo true", m, ok)
	}
	if _, ok := r.MemberByName("bar"); ok {
		t.Error("Got: match for bar; Expected: none")
	}
}

func TestRoomConcurrency(t *testing.T) {
	r := NewRoom("lobby")
	anchor, _ := newTestUser("anchor", "anchor", r)
	r.Join(anchor)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		u, _ := newTestUser(string(rune('a'+i)), "guest", r)
		wg.Add(2)
		go func(u *User) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Join(u)
				r.Leave(u)
			}
		}(u)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Broadcast(wire.NewNote("churn"))
				r.Names()
			}
		}()
	}
	wg.Wait()

	if actual, expected := r.Len(), 1; actual != expected {
		t.Errorf("Got: %d members; Expected: %d", actual, expected)
	}
}
