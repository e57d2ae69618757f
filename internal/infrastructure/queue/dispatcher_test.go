package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusconnect/alumni-api/internal/realtime"
)

type recordingConn struct {
	mu     sync.Mutex
	writes []any
}

func (c *recordingConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, v)
	return nil
}

func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.writes)
}

func waitForWrites(t *testing.T, conn *recordingConn, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if conn.writeCount() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d writes, got %d", want, conn.writeCount())
}

func TestDispatcher_PushDeliversToSession(t *testing.T) {
	registry := realtime.NewRegistry(zerolog.Nop())
	conn := &recordingConn{}
	registry.Register("u1", conn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(2, registry, zerolog.Nop())
	d.Start(ctx)

	if !d.Push("u1", map[string]string{"type": "message:new"}) {
		t.Fatalf("push to a live session must report true")
	}
	waitForWrites(t, conn, 1)
}

func TestDispatcher_PushWithoutSession(t *testing.T) {
	registry := realtime.NewRegistry(zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(2, registry, zerolog.Nop())
	d.Start(ctx)

	if d.Push("ghost", "event") {
		t.Fatalf("push without a session must report false")
	}
}

func TestDispatcher_FullQueueDropsEvent(t *testing.T) {
	registry := realtime.NewRegistry(zerolog.Nop())
	conn := &recordingConn{}
	registry.Register("u1", conn)

	// Workers never started: the shard buffer fills and the overflow push
	// must return false instead of blocking the caller.
	d := NewDispatcher(1, registry, zerolog.Nop())

	for i := 0; i < channelBuffer; i++ {
		if !d.Push("u1", i) {
			t.Fatalf("push %d rejected with buffer space left", i)
		}
	}

	done := make(chan bool, 1)
	go func() { done <- d.Push("u1", "overflow") }()

	select {
	case ok := <-done:
		if ok {
			t.Fatalf("overflow push must report false")
		}
	case <-time.After(time.Second):
		t.Fatalf("push blocked on a full shard buffer")
	}
}

func TestDispatcher_PerRecipientOrdering(t *testing.T) {
	registry := realtime.NewRegistry(zerolog.Nop())
	conn := &recordingConn{}
	registry.Register("u1", conn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(4, registry, zerolog.Nop())
	d.Start(ctx)

	const n = 50
	for i := 0; i < n; i++ {
		if !d.Push("u1", i) {
			t.Fatalf("push %d rejected", i)
		}
	}
	waitForWrites(t, conn, n)

	conn.mu.Lock()
	defer conn.mu.Unlock()
	for i, w := range conn.writes {
		if w != i {
			t.Fatalf("out-of-order delivery at %d: got %v", i, w)
		}
	}
}
