package advising

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// job asks a worker to validate one student of a batch.
type job struct {
	ID        string
	Index     int
	StudentId uint64
	Enqueued  time.Time
}

type handler func(context.Context, job)

type poolConfig struct {
	Workers    int
	BufferSize int
	Logger     *zap.Logger
}

// pool is an in-memory job dispatcher backed by goroutines. Jobs are never retried since validation is deterministic.
type pool struct {
	name    string
	handler handler

	workers int
	logger  *zap.Logger

	jobs    chan job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	closed  bool
}

func newPool(name string, handler handler, cfg poolConfig) *pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &pool{
		name:    name,
		handler: handler,
		workers: cfg.Workers,
		logger:  cfg.Logger,
		jobs:    make(chan job, cfg.BufferSize),
	}
}

// Start begins worker consumption. Safe to call once.
func (p *pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i + 1)
	}
	p.started = true
	p.logger.Sugar().Infow("pool started", "pool", p.name, "workers", p.workers)
}

// Enqueue pushes a job onto the pool, blocking while the buffer is full.
func (p *pool) Enqueue(next job) error {
	p.mu.Lock()
	ctx := p.ctx
	started, closed := p.started, p.closed
	p.mu.Unlock()

	if !started || closed {
		return fmt.Errorf("pool %s not accepting jobs", p.name)
	}
	if next.ID == "" {
		next.ID = uuid.NewString()
	}
	if next.Enqueued.IsZero() {
		next.Enqueued = time.Now().UTC()
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("pool %s stopped: %w", p.name, ctx.Err())
	case p.jobs <- next:
		return nil
	}
}

// Drain stops accepting jobs and waits until the queued ones are handled. It must not run concurrently with Enqueue.
func (p *pool) Drain() {
	p.mu.Lock()
	if !p.started || p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
	p.logger.Sugar().Infow("pool drained", "pool", p.name)
}

// Stop cancels workers without handling the remaining jobs and waits for them to exit.
func (p *pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.mu.Unlock()
	p.wg.Wait()
	p.logger.Sugar().Infow("pool stopped", "pool", p.name)
}

func (p *pool) worker(workerId int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case next, ok := <-p.jobs:
			if !ok {
				return
			}
			p.logger.Sugar().Debugw("job started",
				"pool", p.name,
				"worker", workerId,
				"job_id", next.ID,
				"student_id", next.StudentId,
				"queued_for", time.Since(next.Enqueued),
			)
			p.handler(p.ctx, next)
		}
	}
}
