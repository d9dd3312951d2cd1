// ============================================================================
// Run Controller
// Responsibility:
// 1. Assemble the system from configuration: target file, engine, buffer
//    pool, metrics, worker pool
// 2. Drive a full write-then-verify run and aggregate worker results
// 3. Provide the standalone verify-only scan over an existing target
// ============================================================================

package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ChuLiYu/disk-hammer/internal/bufpool"
	"github.com/ChuLiYu/disk-hammer/internal/config"
	"github.com/ChuLiYu/disk-hammer/internal/engine"
	"github.com/ChuLiYu/disk-hammer/internal/file"
	"github.com/ChuLiYu/disk-hammer/internal/metrics"
	"github.com/ChuLiYu/disk-hammer/internal/verify"
	"github.com/ChuLiYu/disk-hammer/internal/worker"
	"github.com/ChuLiYu/disk-hammer/pkg/types"
)

// ErrVerificationFailed is returned when a run completes but one or more
// buffers failed verification. The per-buffer detail has already been
// logged by the verify path.
var ErrVerificationFailed = errors.New("controller: verification failures detected")

// Controller wires configuration to a runnable workload.
type Controller struct {
	cfg config.Config
	mc  *metrics.Collector // nil when metrics are disabled
	log *logrus.Entry
}

// New creates a controller for the given validated configuration.
func New(cfg config.Config, mc *metrics.Collector, log *logrus.Entry) *Controller {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Controller{cfg: cfg, mc: mc, log: log}
}

// Run executes a full write-then-verify workload and returns the aggregate
// stats. The returned error is ErrVerificationFailed when data came back
// wrong, or the first fatal worker error.
func (c *Controller) Run(ctx context.Context) (types.RunStats, error) {
	var agg types.RunStats

	f := file.New(c.cfg.Target.Path)
	if err := f.Open(); err != nil {
		return agg, err
	}
	defer f.Close()

	if err := f.Truncate(c.cfg.TargetSize()); err != nil {
		return agg, err
	}

	eng := engine.New(c.cfg.Target.SyncWrites, c.log)
	bufs := bufpool.New(c.cfg.Workload.BlockSize)
	pool := worker.NewPool(eng, bufs, c.mc, c.log)

	slab := int64(c.cfg.Workload.BlocksPerWorker) * int64(c.cfg.Workload.BlockSize)
	for i := 0; i < c.cfg.Workload.Workers; i++ {
		spec := worker.Spec{
			ID:         i,
			File:       f,
			Algorithm:  c.cfg.Algorithm(),
			Seed:       c.cfg.Workload.Seed + int64(i),
			BlockSize:  c.cfg.Workload.BlockSize,
			BlockCount: c.cfg.Workload.BlocksPerWorker,
			BaseOffset: int64(i) * slab,
		}
		if err := pool.Add(spec); err != nil {
			return agg, err
		}
	}

	c.log.WithFields(logrus.Fields{
		"target":    c.cfg.Target.Path,
		"workers":   c.cfg.Workload.Workers,
		"algorithm": c.cfg.Verify.Algorithm,
		"size":      c.cfg.TargetSize(),
	}).Info("starting workload")

	if err := pool.Start(ctx); err != nil {
		return agg, err
	}
	results, err := pool.Wait()
	if err != nil {
		return agg, err
	}

	var fatal error
	for _, r := range results {
		agg.Merge(r.Stats)
		if r.Err != nil && fatal == nil {
			fatal = fmt.Errorf("controller: worker %d: %w", r.WorkerID, r.Err)
		}
	}
	if fatal != nil {
		return agg, fatal
	}
	if agg.VerifyFailed > 0 {
		return agg, fmt.Errorf("%w: %d of %d buffers", ErrVerificationFailed,
			agg.VerifyFailed, agg.VerifyOK+agg.VerifyFailed)
	}
	return agg, nil
}

// VerifyScan walks an existing target block by block and validates every
// verify header in place. No writes are issued and no history is needed:
// each buffer is self-describing.
func (c *Controller) VerifyScan(ctx context.Context) (types.RunStats, error) {
	var agg types.RunStats

	f := file.New(c.cfg.Target.Path)
	if err := f.Open(); err != nil {
		return agg, err
	}
	defer f.Close()

	size, err := f.Size()
	if err != nil {
		return agg, err
	}

	blockSize := c.cfg.Workload.BlockSize
	eng := engine.New(false, c.log)
	bufs := bufpool.New(blockSize)
	state := verify.NewState(c.cfg.Algorithm(), c.cfg.Workload.Seed, c.log)

	for off := int64(0); off+int64(blockSize) <= size; off += int64(blockSize) {
		select {
		case <-ctx.Done():
			return agg, ctx.Err()
		default:
		}

		buf := bufs.Get()
		u := engine.IOUnit{
			Buf:    buf,
			BufLen: blockSize,
			Offset: off,
			Dir:    types.DirRead,
			File:   f,
		}

		n, err := eng.Execute(&u)
		if err != nil {
			bufs.Put(buf)
			return agg, err
		}
		agg.ReadsIssued++
		agg.BytesRead += uint64(n)
		if c.mc != nil {
			c.mc.RecordRead(n, 0)
		}

		if verr := verify.Verify(state, &u); verr != nil {
			agg.VerifyFailed++
			if c.mc != nil {
				c.mc.RecordVerifyFailure(worker.FailureKind(verr))
			}
		} else {
			agg.VerifyOK++
			if c.mc != nil {
				c.mc.RecordVerifyOK()
			}
		}
		bufs.Put(buf)
	}

	if agg.VerifyFailed > 0 {
		return agg, fmt.Errorf("%w: %d of %d blocks", ErrVerificationFailed,
			agg.VerifyFailed, agg.VerifyOK+agg.VerifyFailed)
	}
	return agg, nil
}
