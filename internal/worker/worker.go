// ============================================================================
// Verification Worker
// Responsibility: one goroutine-owned execution context that writes its
// region of the target with fingerprinted buffers, then replays its own
// write history as reads and validates every buffer.
//
// Each worker owns its verification state (payload generator + write
// history) outright. Nothing here is shared across workers, so the run loop
// takes no locks.
// ============================================================================

package worker

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ChuLiYu/disk-hammer/internal/bufpool"
	"github.com/ChuLiYu/disk-hammer/internal/engine"
	"github.com/ChuLiYu/disk-hammer/internal/metrics"
	"github.com/ChuLiYu/disk-hammer/internal/verify"
	"github.com/ChuLiYu/disk-hammer/pkg/types"
)

// Worker executes one Spec.
type Worker struct {
	spec  Spec
	eng   *engine.Engine
	state *verify.State
	bufs  *bufpool.Pool
	mc    *metrics.Collector
	log   *logrus.Entry
}

// newWorker builds a worker and its private verification state.
func newWorker(spec Spec, eng *engine.Engine, bufs *bufpool.Pool, mc *metrics.Collector, log *logrus.Entry) *Worker {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	wlog := log.WithField("worker", spec.ID)
	return &Worker{
		spec:  spec,
		eng:   eng,
		state: verify.NewState(spec.Algorithm, spec.Seed, wlog),
		bufs:  bufs,
		mc:    mc,
		log:   wlog,
	}
}

// Run performs the write pass and then the read-back verification pass.
// Cancelling ctx stops the worker between I/O units; in-flight syscalls run
// to completion.
func (w *Worker) Run(ctx context.Context) Result {
	res := Result{WorkerID: w.spec.ID}

	if err := w.writePass(ctx, &res.Stats); err != nil {
		res.Err = err
		return res
	}
	if err := w.verifyPass(ctx, &res.Stats); err != nil {
		res.Err = err
		return res
	}

	w.log.WithFields(logrus.Fields{
		"writes":        res.Stats.WritesIssued,
		"reads":         res.Stats.ReadsIssued,
		"verify_ok":     res.Stats.VerifyOK,
		"verify_failed": res.Stats.VerifyFailed,
	}).Debug("worker finished")
	return res
}

// writePass issues BlockCount sequential writes over the worker's region,
// fingerprinting every buffer and recording it in the write history.
func (w *Worker) writePass(ctx context.Context, stats *types.RunStats) error {
	for i := 0; i < w.spec.BlockCount; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		buf := w.bufs.Get()
		u := engine.IOUnit{
			Buf:    buf,
			BufLen: w.spec.BlockSize,
			Offset: w.spec.BaseOffset + int64(i)*int64(w.spec.BlockSize),
			Dir:    types.DirWrite,
			File:   w.spec.File,
		}
		verify.Populate(w.state, &u)

		start := time.Now()
		n, err := w.eng.Execute(&u)
		if err != nil {
			w.bufs.Put(buf)
			if w.mc != nil {
				w.mc.RecordVerifyFailure(metrics.KindIOError)
			}
			return err
		}

		stats.WritesIssued++
		stats.BytesWritten += uint64(n)
		if w.mc != nil {
			w.mc.RecordWrite(n, time.Since(start).Seconds())
		}

		w.state.History().Record(u.File, u.Offset, uint64(u.BufLen))
		if w.mc != nil {
			w.mc.AddHistoryPending(1)
		}
		w.bufs.Put(buf)
	}
	return nil
}

// verifyPass drains the write history, re-reading every recorded region and
// validating it. Verification failures are counted, never retried here; a
// scheduling failure skips the entry and moves on.
func (w *Worker) verifyPass(ctx context.Context, stats *types.RunStats) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		buf := w.bufs.Get()
		u := engine.IOUnit{Buf: buf}
		u.Reset()

		err := verify.NextVerifyRead(w.state, &u)
		if errors.Is(err, verify.ErrNoHistory) {
			w.bufs.Put(buf)
			return nil
		}
		if w.mc != nil {
			w.mc.AddHistoryPending(-1)
		}
		if err != nil {
			// Could not open the target for this entry. Not a verification
			// failure; skip the entry and keep draining.
			w.log.WithError(err).Warn("skipping unverifiable history entry")
			stats.SchedSkipped++
			w.bufs.Put(buf)
			continue
		}

		start := time.Now()
		n, rerr := w.eng.Execute(&u)
		if rerr == nil {
			stats.ReadsIssued++
			stats.BytesRead += uint64(n)
			if w.mc != nil {
				w.mc.RecordRead(n, time.Since(start).Seconds())
			}
			rerr = verify.Verify(w.state, &u)
		}

		if rerr != nil {
			stats.VerifyFailed++
			if w.mc != nil {
				w.mc.RecordVerifyFailure(FailureKind(rerr))
			}
		} else {
			stats.VerifyOK++
			if w.mc != nil {
				w.mc.RecordVerifyOK()
			}
		}

		u.File.Put()
		w.bufs.Put(buf)
	}
}

// FailureKind maps a verification or I/O error to its metrics label.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, verify.ErrChecksumMismatch):
		return metrics.KindChecksumMismatch
	case errors.Is(err, verify.ErrCorruptHeader):
		return metrics.KindCorruptHeader
	case errors.Is(err, verify.ErrUnsupportedAlgorithm):
		return metrics.KindUnsupportedAlgo
	default:
		return metrics.KindIOError
	}
}
