package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dannykhan02/Lenny-media-backend/internal/api/metrics"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher persists audit events on a fixed set of workers. Events are
// sharded by account email, so the trail of a single account keeps its order.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands an event to the worker responsible for its email. It never
// blocks the caller: when the shard is full the event is dropped and logged.
func (d *Dispatcher) Enqueue(event domain.AuditEvent) {
	idx := d.shardIndex(event.Email)
	select {
	case d.workers[idx] <- event:
		metrics.AuditEventsTotal.WithLabelValues("enqueued").Inc()
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("action", string(event.Action)).
			Str("email", event.Email).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, label, ch)
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.persist(ctx, id, label, event)
		}
	}
}

// drain persists whatever is still buffered once the worker has been told to
// stop, so events accepted before shutdown are not lost.
func (d *Dispatcher) drain(ctx context.Context, id int, label string, ch <-chan domain.AuditEvent) {
	flushed := 0
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.persist(ctx, id, label, event)
			flushed++
		default:
			if flushed > 0 {
				d.log.Info().Int("worker_id", id).Int("events", flushed).Msg("audit queue flushed on shutdown")
			}
			return
		}
	}
}

func (d *Dispatcher) persist(ctx context.Context, id int, label string, event domain.AuditEvent) {
	metrics.AuditQueueDepth.WithLabelValues(label).Dec()
	// Detached from ctx so writes still complete after cancellation.
	if err := d.repo.Insert(context.WithoutCancel(ctx), &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("action", string(event.Action)).
			Int("worker_id", id).
			Msg("audit event persistence failed")
		return
	}
	metrics.AuditEventsTotal.WithLabelValues("persisted").Inc()
}
