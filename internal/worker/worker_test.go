package worker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ChuLiYu/disk-hammer/internal/bufpool"
	"github.com/ChuLiYu/disk-hammer/internal/checksum"
	"github.com/ChuLiYu/disk-hammer/internal/engine"
	"github.com/ChuLiYu/disk-hammer/internal/file"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testBlockSize = 256

func newTestTarget(t *testing.T) *file.File {
	t.Helper()
	f := file.New(filepath.Join(t.TempDir(), "target.dat"))
	require.NoError(t, f.Open())
	t.Cleanup(func() { f.Close() })
	return f
}

func newTestWorker(t *testing.T, f *file.File, alg checksum.Type, blocks int) *Worker {
	t.Helper()
	spec := Spec{
		ID:         0,
		File:       f,
		Algorithm:  alg,
		Seed:       42,
		BlockSize:  testBlockSize,
		BlockCount: blocks,
		BaseOffset: 0,
	}
	return newWorker(spec, engine.New(false, nil), bufpool.New(testBlockSize), nil, nil)
}

// TestWorkerWriteThenVerifyClean: a full run over a pristine target
// verifies every block it wrote.
func TestWorkerWriteThenVerifyClean(t *testing.T) {
	f := newTestTarget(t)
	w := newTestWorker(t, f, checksum.CRC32, 16)

	res := w.Run(context.Background())
	require.NoError(t, res.Err)

	assert.EqualValues(t, 16, res.Stats.WritesIssued)
	assert.EqualValues(t, 16, res.Stats.ReadsIssued)
	assert.EqualValues(t, 16, res.Stats.VerifyOK)
	assert.EqualValues(t, 0, res.Stats.VerifyFailed)
	assert.EqualValues(t, 16*testBlockSize, res.Stats.BytesWritten)
	assert.Equal(t, 0, w.state.History().Len(), "history fully drained")
	assert.EqualValues(t, 0, f.Refs(), "all scheduled-read references released")
}

// TestWorkerDetectsCorruption: damage one payload byte on disk between the
// write pass and the verify pass; exactly that block must fail.
func TestWorkerDetectsCorruption(t *testing.T) {
	f := newTestTarget(t)
	w := newTestWorker(t, f, checksum.MD5, 8)

	var res Result
	require.NoError(t, w.writePass(context.Background(), &res.Stats))

	// Flip a payload byte in the third block.
	off := int64(2*testBlockSize) + 100
	buf := make([]byte, 1)
	_, err := f.Pread(buf, off)
	require.NoError(t, err)
	buf[0] ^= 0xff
	_, err = f.Pwrite(buf, off)
	require.NoError(t, err)

	require.NoError(t, w.verifyPass(context.Background(), &res.Stats))
	assert.EqualValues(t, 7, res.Stats.VerifyOK)
	assert.EqualValues(t, 1, res.Stats.VerifyFailed)
}

// TestWorkerDisabledVerification: algorithm none still writes, but
// validation trivially passes without inspecting buffers.
func TestWorkerDisabledVerification(t *testing.T) {
	f := newTestTarget(t)
	w := newTestWorker(t, f, checksum.None, 4)

	res := w.Run(context.Background())
	require.NoError(t, res.Err)
	assert.EqualValues(t, 4, res.Stats.WritesIssued)
	assert.EqualValues(t, 4, res.Stats.VerifyOK)
	assert.EqualValues(t, 0, res.Stats.VerifyFailed)
}

// TestWorkerRespectsCancellation: a cancelled context stops the write pass.
func TestWorkerRespectsCancellation(t *testing.T) {
	f := newTestTarget(t)
	w := newTestWorker(t, f, checksum.CRC32, 1<<20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := w.Run(ctx)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Less(t, res.Stats.WritesIssued, uint64(1<<20))
}

func TestPoolLifecycle(t *testing.T) {
	f := newTestTarget(t)
	eng := engine.New(false, nil)
	bufs := bufpool.New(testBlockSize)
	p := NewPool(eng, bufs, nil, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, p.Add(Spec{
			ID:         i,
			File:       f,
			Algorithm:  checksum.CRC16,
			Seed:       int64(100 + i),
			BlockSize:  testBlockSize,
			BlockCount: 8,
			BaseOffset: int64(i) * 8 * testBlockSize,
		}))
	}

	_, err := p.Wait()
	assert.ErrorIs(t, err, ErrPoolNotStarted)

	require.NoError(t, p.Start(context.Background()))
	assert.ErrorIs(t, p.Start(context.Background()), ErrPoolStarted)
	assert.ErrorIs(t, p.Add(Spec{}), ErrPoolStarted)

	results, err := p.Wait()
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.EqualValues(t, 8, r.Stats.VerifyOK, "worker %d", r.WorkerID)
		assert.EqualValues(t, 0, r.Stats.VerifyFailed)
	}
}

// TestPoolWorkersSeparateRegions: workers share one target but never
// overlap, so cross-worker verification stays clean even with different
// seeds producing different payloads.
func TestPoolWorkersSeparateRegions(t *testing.T) {
	f := newTestTarget(t)
	p := NewPool(engine.New(false, nil), bufpool.New(testBlockSize), nil, nil)

	for i := 0; i < 2; i++ {
		require.NoError(t, p.Add(Spec{
			ID:         i,
			File:       f,
			Algorithm:  checksum.CRC64,
			Seed:       int64(i),
			BlockSize:  testBlockSize,
			BlockCount: 4,
			BaseOffset: int64(i) * 4 * testBlockSize,
		}))
	}

	require.NoError(t, p.Start(context.Background()))
	results, err := p.Wait()
	require.NoError(t, err)

	total := uint64(0)
	for _, r := range results {
		require.NoError(t, r.Err)
		total += r.Stats.VerifyOK
	}
	assert.EqualValues(t, 8, total)
}
