// Package dispatch runs PSP calls asynchronously so that payment creation
// never blocks on network-bound work.
package dispatch

import (
	"sync"

	"payswitch/internal/logger"
)

// Submitter is the hand-off point the orchestrator uses to schedule work.
// Tests substitute a synchronous implementation to drive async paths
// deterministically.
type Submitter interface {
	Submit(task func())
}

// Pool is a fixed-size worker pool with explicit lifecycle. Submit after Stop
// drops the task; Stop drains queued tasks before returning.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	p := &Pool{tasks: make(chan func(), queueSize)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Dispatch task panicked", "panic", r)
		}
	}()
	task()
}

// Submit enqueues a task for asynchronous execution. It blocks when the queue
// is full so that backpressure reaches the request path instead of dropping
// work silently.
func (p *Pool) Submit(task func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		logger.Warn("Dispatch pool stopped, task dropped")
		return
	}
	// The lock is held across the send so Stop cannot close the channel
	// underneath a blocked submitter.
	p.tasks <- task
}

// Stop closes the queue and waits for in-flight and queued tasks to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()
	close(p.tasks)
	p.wg.Wait()
}

// Synchronous executes tasks inline on the submitting goroutine.
type Synchronous struct{}

func (Synchronous) Submit(task func()) { task() }
