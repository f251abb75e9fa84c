package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lgsbc-git/lgstech-backend/internal/mailer"
)

// ErrPoolStopped is returned by Send after Stop.
var ErrPoolStopped = errors.New("mail pool stopped")

// Pool manages a fixed number of worker goroutines that deliver queued mail
// through another Sender. It implements mailer.Sender, so callers hand off
// a message and return without waiting for the transport.
type Pool struct {
	numWorkers int
	jobs       chan mailer.Message
	sender     mailer.Sender
	logger     *slog.Logger
	wg         sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// NewPool creates a worker pool with the given number of workers.
func NewPool(numWorkers int, sender mailer.Sender, logger *slog.Logger) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan mailer.Message, numWorkers*16),
		sender:     sender,
		logger:     logger,
	}
}

// Start launches all worker goroutines. They read from the jobs channel
// until it is closed. ctx is passed to the underlying sender.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.logger.Info("mail pool started", "num_workers", p.numWorkers)
}

// Send queues msg for delivery. It blocks while the queue is full and fails
// only when the pool has been stopped or ctx is done first.
func (p *Pool) Send(ctx context.Context, msg mailer.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.jobs <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the jobs channel and waits for queued mail to be delivered.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("mail pool stopped")
}

// worker is a single goroutine that delivers messages from the channel.
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for msg := range p.jobs {
		if err := p.sender.Send(ctx, msg); err != nil {
			p.logger.Error("queued email failed",
				"worker", id,
				"to", msg.To,
				"subject", msg.Subject,
				"error", err,
			)
			continue
		}
		p.logger.Debug("queued email sent", "worker", id, "to", msg.To)
	}
}
