package queue

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/signaltracker/tracker-api/internal/api/metrics"
	"github.com/signaltracker/tracker-api/internal/core/authz"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// job is one queued reading upload together with the caller it runs as.
type job struct {
	caller authz.Caller
	input  ports.CreateReadingInput
}

// Dispatcher routes batch reading uploads to a fixed set of workers sharded
// by device id, so readings from one device are stored in arrival order.
type Dispatcher struct {
	workers []chan job
	service ports.ReadingService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ReadingService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a reading to the worker owning its device shard. The call
// blocks only when that worker's buffer is full.
func (d *Dispatcher) Enqueue(caller authz.Caller, in ports.CreateReadingInput) {
	i := d.shardIndex(in.DeviceID)
	d.workers[i] <- job{caller: caller, input: in}
	metrics.IngestQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// EnqueueBatch enqueues multiple readings preserving per-device ordering.
func (d *Dispatcher) EnqueueBatch(caller authz.Caller, inputs []ports.CreateReadingInput) {
	for _, in := range inputs {
		d.Enqueue(caller, in)
	}
}

// shardIndex maps a device id deterministically to a worker index.
func (d *Dispatcher) shardIndex(deviceID int64) int {
	n := len(d.workers)
	return int(deviceID%int64(n)+int64(n)) % n
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			metrics.IngestQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if _, err := d.service.Create(ctx, j.caller, j.input); err != nil {
				d.log.Error().Err(err).
					Int64("device_id", j.input.DeviceID).
					Int64("caller_id", j.caller.UserID).
					Int("worker_id", id).
					Msg("reading ingestion failed")
			}
		}
	}
}
