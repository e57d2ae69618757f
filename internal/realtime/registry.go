// Package realtime holds the in-process connection registry used to route
// push events to live websocket sessions. The registry is process-local and
// rebuilt from nothing on restart; missed pushes are recovered by the next
// history fetch.
package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/campusconnect/alumni-api/internal/api/metrics"
)

// Conn is the subset of *websocket.Conn the registry needs. Narrowing the
// dependency keeps the registry testable without a network.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

type session struct {
	conn Conn
	mu   sync.Mutex // serializes writes; gorilla allows one concurrent writer
}

// Registry maps identity ids to live sessions. It is maintained as a
// bidirectional map so disconnect cleanup is a direct lookup rather than a
// scan of every entry.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]*session
	byConn map[Conn]string
	logger zerolog.Logger
}

func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		byID:   make(map[string]*session),
		byConn: make(map[Conn]string),
		logger: logger,
	}
}

// Register binds id to conn. A session already registered for the id is
// displaced and closed: the newest connection wins.
func (r *Registry) Register(id string, conn Conn) {
	r.mu.Lock()
	if old, ok := r.byID[id]; ok && old.conn != conn {
		delete(r.byConn, old.conn)
		_ = old.conn.Close()
	}
	r.byID[id] = &session{conn: conn}
	r.byConn[conn] = id
	size := len(r.byID)
	r.mu.Unlock()

	metrics.WebsocketConnections.Set(float64(size))
	r.logger.Debug().Str("id", id).Int("sessions", size).Msg("session registered")
}

// UnregisterConn removes the entry for conn, returning the identity id it was
// registered under, or "" if the conn was never registered.
func (r *Registry) UnregisterConn(conn Conn) string {
	r.mu.Lock()
	id, ok := r.byConn[conn]
	if ok {
		delete(r.byConn, conn)
		// Only drop the forward entry if it still points at this conn; a
		// newer session for the same id must not be evicted.
		if cur, found := r.byID[id]; found && cur.conn == conn {
			delete(r.byID, id)
		}
	}
	size := len(r.byID)
	r.mu.Unlock()

	if ok {
		metrics.WebsocketConnections.Set(float64(size))
		r.logger.Debug().Str("id", id).Int("sessions", size).Msg("session unregistered")
	}
	return id
}

// Lookup reports whether id currently has a live session.
func (r *Registry) Lookup(id string) bool {
	r.mu.RLock()
	_, ok := r.byID[id]
	r.mu.RUnlock()
	return ok
}

// Push writes event to id's live session, if any. Returns whether a session
// took the event. A write failure closes and evicts the session; the event is
// never queued or retried.
func (r *Registry) Push(id string, event any) bool {
	r.mu.RLock()
	sess, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	sess.mu.Lock()
	err := sess.conn.WriteJSON(event)
	sess.mu.Unlock()

	if err != nil {
		r.logger.Warn().Err(err).Str("id", id).Msg("push write failed, evicting session")
		_ = sess.conn.Close()
		r.UnregisterConn(sess.conn)
		return false
	}
	return true
}
