package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/campusconnect/alumni-api/internal/realtime"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

type pushEvent struct {
	recipientID string
	event       any
}

// Dispatcher routes realtime push events to a fixed set of workers using
// consistent hashing on the recipient id, guaranteeing per-recipient delivery
// ordering without serializing unrelated recipients behind one writer.
type Dispatcher struct {
	workers  []chan pushEvent
	registry *realtime.Registry
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, registry *realtime.Registry, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan pushEvent, numWorkers),
		registry: registry,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan pushEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Push enqueues an event for id's live session. Returns false without
// queueing when no session is registered or the recipient's shard buffer is
// full — delivery is best-effort and the recipient recovers via a history
// fetch, so a backed-up shard must never stall the caller.
func (d *Dispatcher) Push(id string, event any) bool {
	if !d.registry.Lookup(id) {
		return false
	}
	select {
	case d.workers[d.shardIndex(id)] <- pushEvent{recipientID: id, event: event}:
		return true
	default:
		d.log.Warn().Str("recipient", id).Msg("push queue full, dropping event")
		return false
	}
}

// shardIndex maps a recipient id deterministically to a worker index.
func (d *Dispatcher) shardIndex(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan pushEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if !d.registry.Push(ev.recipientID, ev.event) {
				d.log.Debug().
					Str("recipient", ev.recipientID).
					Int("worker_id", id).
					Msg("session gone before delivery")
			}
		}
	}
}
