package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// fakeConn records writes and close calls; failWrites forces WriteJSON errors.
type fakeConn struct {
	mu         sync.Mutex
	writes     []any
	closed     bool
	failWrites bool
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrites {
		return errors.New("write failed")
	}
	c.writes = append(c.writes, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.writes)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestRegistry_RegisterLookupUnregister(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	conn := &fakeConn{}

	if r.Lookup("u1") {
		t.Fatalf("lookup before register must be false")
	}

	r.Register("u1", conn)
	if !r.Lookup("u1") {
		t.Fatalf("lookup after register must be true")
	}

	if id := r.UnregisterConn(conn); id != "u1" {
		t.Fatalf("expected unregister to return u1, got %q", id)
	}
	if r.Lookup("u1") {
		t.Fatalf("lookup after unregister must be false")
	}
}

func TestRegistry_UnregisterUnknownConn(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	if id := r.UnregisterConn(&fakeConn{}); id != "" {
		t.Fatalf("expected empty id for unknown conn, got %q", id)
	}
}

func TestRegistry_NewestConnectionWins(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	first := &fakeConn{}
	second := &fakeConn{}

	r.Register("u1", first)
	r.Register("u1", second)

	if !first.isClosed() {
		t.Fatalf("displaced connection must be closed")
	}
	if !r.Lookup("u1") {
		t.Fatalf("identity must stay registered after displacement")
	}

	// The displaced connection's deferred cleanup must not evict the newer
	// session.
	if id := r.UnregisterConn(first); id != "" {
		t.Fatalf("displaced conn should no longer be registered, got %q", id)
	}
	if !r.Lookup("u1") {
		t.Fatalf("newer session must survive the old conn's cleanup")
	}

	if !r.Push("u1", map[string]string{"type": "ping"}) {
		t.Fatalf("push to newer session failed")
	}
	if second.writeCount() != 1 || first.writeCount() != 0 {
		t.Fatalf("event went to the wrong connection")
	}
}

func TestRegistry_Push_NoSession(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	if r.Push("ghost", "event") {
		t.Fatalf("push without a session must report false")
	}
}

func TestRegistry_Push_WriteFailureEvicts(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	conn := &fakeConn{failWrites: true}

	r.Register("u1", conn)
	if r.Push("u1", "event") {
		t.Fatalf("failed write must report false")
	}
	if !conn.isClosed() {
		t.Fatalf("failed session must be closed")
	}
	if r.Lookup("u1") {
		t.Fatalf("failed session must be evicted")
	}
}

func TestRegistry_ConcurrentRegisterUnregister(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn := &fakeConn{}
			r.Register("u1", conn)
			r.Push("u1", "event")
			r.UnregisterConn(conn)
		}()
	}
	wg.Wait()

	if r.Lookup("u1") {
		t.Fatalf("no session should survive all unregisters")
	}
}
