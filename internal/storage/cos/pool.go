package cos

import (
	"context"
	"errors"
	"sync"
)

var errPoolClosed = errors.New("cos: transfer pool closed")

// pool runs submitted jobs on a fixed set of workers shared by every transfer.
type pool struct {
	jobs      chan func()
	quit      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newPool(size int) *pool {
	if size <= 0 {
		size = 1
	}
	p := &pool{
		jobs: make(chan func()),
		quit: make(chan struct{}),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.work()
	}
	return p
}

func (p *pool) work() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			job()
		case <-p.quit:
			return
		}
	}
}

// submit blocks until a worker accepts job, ctx is done, or the pool is closed.
func (p *pool) submit(ctx context.Context, job func()) error {
	select {
	case <-p.quit:
		return errPoolClosed
	default:
	}
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return errPoolClosed
	}
}

// close stops the workers after their current job.
func (p *pool) close() {
	p.closeOnce.Do(func() {
		close(p.quit)
	})
	p.wg.Wait()
}

// group tracks a set of jobs submitted by one transfer and keeps the first error.
type group struct {
	p      *pool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu  sync.Mutex
	err error
}

// newGroup returns a group whose context is cancelled once any job fails.
func (p *pool) newGroup(ctx context.Context) *group {
	ctx, cancel := context.WithCancel(ctx)
	return &group{p: p, ctx: ctx, cancel: cancel}
}

// Go runs fn on the pool. It reports false if fn could not be scheduled.
func (g *group) Go(fn func(ctx context.Context) error) bool {
	g.wg.Add(1)
	err := g.p.submit(g.ctx, func() {
		defer g.wg.Done()
		if err := g.ctx.Err(); err != nil {
			g.fail(err)
			return
		}
		g.fail(fn(g.ctx))
	})
	if err != nil {
		g.wg.Done()
		g.fail(err)
		return false
	}
	return true
}

func (g *group) fail(err error) {
	if err == nil {
		return
	}
	g.mu.Lock()
	if g.err == nil {
		g.err = err
	}
	g.mu.Unlock()
	g.cancel()
}

// Wait blocks until every scheduled job has returned and reports the first error.
func (g *group) Wait() error {
	g.wg.Wait()
	g.cancel()
	return g.err
}
