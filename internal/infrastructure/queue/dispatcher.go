package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/terracasa/realty-system/internal/api/metrics"
	"github.com/terracasa/realty-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the actor, guaranteeing per-actor audit ordering.
type Dispatcher struct {
	workers []chan ports.AuditEventInput
	service ports.AuditService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuditEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuditEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event for the worker responsible for its actor. The
// request path is never blocked: when the worker's buffer is full the event
// is dropped and counted.
func (d *Dispatcher) Record(event ports.AuditEventInput) {
	select {
	case d.workers[d.shardIndex(event.Actor)] <- event:
	default:
		metrics.AuditErrorsTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().
			Str("actor", event.Actor).
			Str("action", string(event.Action)).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an actor deterministically to a worker index.
func (d *Dispatcher) shardIndex(actor string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(actor))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuditEventInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("actor", event.Actor).
					Str("action", string(event.Action)).
					Int("worker_id", id).
					Msg("audit event processing failed")
			}
		}
	}
}
