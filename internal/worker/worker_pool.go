// ============================================================================
// Worker Pool
// Responsibility: manage the lifecycle of the verification workers — build
// them from specs, launch one goroutine each, and collect their results.
// ============================================================================

package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ChuLiYu/disk-hammer/internal/bufpool"
	"github.com/ChuLiYu/disk-hammer/internal/engine"
	"github.com/ChuLiYu/disk-hammer/internal/metrics"
)

// Predefined errors.
var (
	// ErrPoolStarted means Start was called twice or Add after Start.
	ErrPoolStarted = errors.New("worker: pool already started")
	// ErrPoolNotStarted means Wait was called before Start.
	ErrPoolNotStarted = errors.New("worker: pool not started")
)

// Pool owns a set of workers and their shared buffer pool.
type Pool struct {
	eng  *engine.Engine
	bufs *bufpool.Pool
	mc   *metrics.Collector
	log  *logrus.Entry

	mu       sync.Mutex
	workers  []*Worker
	started  bool
	resultCh chan Result
	wg       sync.WaitGroup
}

// NewPool creates an empty pool. mc may be nil when metrics are disabled.
func NewPool(eng *engine.Engine, bufs *bufpool.Pool, mc *metrics.Collector, log *logrus.Entry) *Pool {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Pool{eng: eng, bufs: bufs, mc: mc, log: log}
}

// Add registers one worker spec. Must happen before Start.
func (p *Pool) Add(spec Spec) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrPoolStarted
	}
	p.workers = append(p.workers, newWorker(spec, p.eng, p.bufs, p.mc, p.log))
	return nil
}

// Start launches every registered worker in its own goroutine.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrPoolStarted
	}
	p.started = true
	p.resultCh = make(chan Result, len(p.workers))

	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			p.resultCh <- w.Run(ctx)
		}(w)
	}

	if p.mc != nil {
		p.mc.SetWorkersActive(len(p.workers))
	}
	p.log.WithField("workers", len(p.workers)).Info("worker pool started")
	return nil
}

// Wait blocks until every worker has finished and returns their results.
func (p *Pool) Wait() ([]Result, error) {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil, ErrPoolNotStarted
	}
	n := len(p.workers)
	ch := p.resultCh
	p.mu.Unlock()

	results := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, <-ch)
	}
	p.wg.Wait()

	if p.mc != nil {
		p.mc.SetWorkersActive(0)
	}
	return results, nil
}
