package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// Persister runs ledger writes off the request path. The in-memory
// session is authoritative for responses; a failed write here is logged
// and dropped, never rolled back into round state.
type Persister struct {
	tasks   chan persistTask
	timeout time.Duration
	wg      sync.WaitGroup
	once    sync.Once
}

type persistTask struct {
	name string
	fn   func(context.Context) error
}

func NewPersister(queueSize int) *Persister {
	if queueSize <= 0 {
		queueSize = 256
	}
	p := &Persister{
		tasks:   make(chan persistTask, queueSize),
		timeout: 10 * time.Second,
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *Persister) run() {
	defer p.wg.Done()
	for task := range p.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := task.fn(ctx); err != nil {
			log.Printf("persistence failed (%s): %v", task.name, err)
		}
		cancel()
	}
}

// Enqueue schedules a write. When the queue is full the task is dropped
// with a log line rather than blocking a round response.
func (p *Persister) Enqueue(name string, fn func(context.Context) error) {
	select {
	case p.tasks <- persistTask{name: name, fn: fn}:
	default:
		log.Printf("persistence queue full, dropping task %s", name)
	}
}

// Close drains the queue and stops the worker.
func (p *Persister) Close() {
	p.once.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}
