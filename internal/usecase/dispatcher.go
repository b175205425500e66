package usecase

import (
	"sync"

	"github.com/iho/txengine/internal/domain"
)

const defaultQueueDepth = 256

// Dispatcher fans records out to a fixed pool of workers. Records are
// sharded by client id, so every record for one client lands on the same
// worker and is applied in arrival order, while different clients run in
// parallel. Records are never retried: a rejection is terminal.
type Dispatcher struct {
	processor *ProcessorUseCase
	queues    []chan domain.Record
	wg        sync.WaitGroup
}

// NewDispatcher creates a dispatcher with the given worker count
// (minimum 1).
func NewDispatcher(processor *ProcessorUseCase, workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	queues := make([]chan domain.Record, workers)
	for i := range queues {
		queues[i] = make(chan domain.Record, defaultQueueDepth)
	}
	return &Dispatcher{
		processor: processor,
		queues:    queues,
	}
}

// Start launches the workers.
func (d *Dispatcher) Start() {
	for _, q := range d.queues {
		d.wg.Add(1)
		go func(q chan domain.Record) {
			defer d.wg.Done()
			for rec := range q {
				// Business rejections are audited inside Process
				// and do not affect subsequent records.
				_ = d.processor.Process(rec)
			}
		}(q)
	}
}

// Submit enqueues a record, blocking if the client's worker queue is
// full. Must not be called after Wait.
func (d *Dispatcher) Submit(rec domain.Record) {
	d.queues[int(rec.ClientID)%len(d.queues)] <- rec
}

// Wait closes the queues and blocks until every in-flight record has been
// fully applied.
func (d *Dispatcher) Wait() {
	for _, q := range d.queues {
		close(q)
	}
	d.wg.Wait()
}
