// ============================================================================
// Verification Dispatcher
// Responsibility:
// 1. Populate write buffers with a verify header and random payload
// 2. Validate completed read buffers against their embedded header
// 3. Retarget idle units at the next write-history entry for read-back
//
// A buffer moves Empty -> Populated (write path) -> I/O performed by the
// engine -> Validated or Failed (read path). All three entry points operate
// on a worker-owned State and perform no cross-worker synchronization.
// ============================================================================

// Package verify is the data-integrity core: it stamps write buffers with a
// checksummed header over a deterministic pseudo-random payload, and checks
// the header back after a read. What to re-read comes from the worker's
// write-history tracker.
package verify

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/ChuLiYu/disk-hammer/internal/checksum"
	"github.com/ChuLiYu/disk-hammer/internal/engine"
	"github.com/ChuLiYu/disk-hammer/internal/history"
	"github.com/ChuLiYu/disk-hammer/pkg/types"
)

// State is the per-worker verification state: the configured algorithm, the
// payload random generator, and the write-history tracker. It is owned by
// exactly one worker and must not be shared.
type State struct {
	alg  checksum.Type
	rng  *rand.Rand
	hist *history.Tracker
	log  *logrus.Entry
}

// NewState creates verification state for one worker. The seed fully
// determines the payload byte stream, so tests and replay harnesses can
// reproduce buffers exactly.
func NewState(alg checksum.Type, seed int64, log *logrus.Entry) *State {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &State{
		alg:  alg,
		rng:  rand.New(rand.NewSource(seed)),
		hist: history.NewTracker(),
		log:  log,
	}
}

// Enabled reports whether verification is active for this worker.
func (s *State) Enabled() bool { return s.alg != checksum.None }

// Algorithm returns the configured header tag.
func (s *State) Algorithm() checksum.Type { return s.alg }

// History returns the worker's write-history tracker.
func (s *State) History() *history.Tracker { return s.hist }

// Populate fills the unit's buffer for a write: random payload after the
// header, then the header itself with the checksum of that payload. With
// verification disabled it does nothing at all, the buffer is untouched.
//
// An algorithm tag outside the closed set is a programming-contract
// violation (configuration must be validated long before the I/O loop) and
// panics rather than silently skipping the header.
func Populate(s *State, u *engine.IOUnit) {
	if !s.Enabled() {
		return
	}
	if u.BufLen < HeaderSize || u.BufLen > len(u.Buf) {
		panic(fmt.Sprintf("verify: populate with buffer length %d, need at least %d", u.BufLen, HeaderSize))
	}

	alg, ok := checksum.ByTag(s.alg)
	if !ok {
		panic(fmt.Sprintf("verify: bad verify algorithm %d", s.alg))
	}

	payload := u.Buf[HeaderSize:u.BufLen]
	FillRandom(s.rng, payload)

	h := Header{
		Magic: Magic,
		Len:   uint64(u.BufLen),
		Tag:   s.alg,
	}
	copy(h.Sum[:], alg.Sum(payload))
	h.encode(u.Buf)
}

// Verify validates a completed read against the header embedded in its
// buffer. Writes and verification-disabled units succeed trivially without
// inspecting the buffer. Failures come back as ErrCorruptHeader,
// ErrUnsupportedAlgorithm, or a MismatchError wrapping ErrChecksumMismatch;
// full expected/actual detail is logged here, the caller only needs the
// kind.
func Verify(s *State, u *engine.IOUnit) error {
	if !s.Enabled() || u.Dir != types.DirRead {
		return nil
	}

	hdr, err := decodeHeader(u.Buf[:u.BufLen])
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"offset": u.Offset,
			"len":    u.BufLen,
		}).WithError(err).Error("bad verify header")
		return err
	}

	if hdr.Len < HeaderSize || hdr.Len > uint64(u.BufLen) {
		s.log.WithFields(logrus.Fields{
			"offset":     u.Offset,
			"len":        u.BufLen,
			"header_len": hdr.Len,
		}).Error("verify header declares impossible length")
		return ErrCorruptHeader
	}

	alg, ok := checksum.ByTag(hdr.Tag)
	if !ok {
		s.log.WithFields(logrus.Fields{
			"offset": u.Offset,
			"tag":    int(hdr.Tag),
		}).Error("unsupported verify algorithm in header")
		return ErrUnsupportedAlgorithm
	}

	payload := u.Buf[HeaderSize:hdr.Len]
	actual := alg.Sum(payload)
	expected := hdr.Sum[:alg.Size()]

	if !bytes.Equal(expected, actual) {
		// Byte-by-byte dumps of both values; for the digest this is the
		// full 16-byte hexdump of each side.
		s.log.WithFields(logrus.Fields{
			"algorithm": alg.Tag().String(),
			"offset":    u.Offset,
			"len":       hdr.Len,
			"expected":  hex.EncodeToString(expected),
			"actual":    hex.EncodeToString(actual),
		}).Error("verify failed")
		return &MismatchError{
			Algorithm: alg.Tag(),
			Offset:    u.Offset,
			Length:    hdr.Len,
			Expected:  append([]byte(nil), expected...),
			Actual:    append([]byte(nil), actual...),
		}
	}
	return nil
}

// NextVerifyRead retargets an idle unit at the next write-history entry. A
// unit that already carries a file is a requeue whose offsets were bound
// earlier, so it passes through untouched. ErrNoHistory means no
// verification work remains; a file-open failure aborts the scheduling
// attempt for this unit but leaves the verification machinery healthy.
// Both are scheduling conditions, never verification failures.
//
// On success the unit is a read covering exactly the recorded region, and a
// reference on the target file has been acquired for the caller to release
// once the read completes.
func NextVerifyRead(s *State, u *engine.IOUnit) error {
	if u.File != nil {
		return nil
	}

	ent, ok := s.hist.NextForVerify()
	if !ok {
		return ErrNoHistory
	}

	if !ent.File.IsOpen() {
		if err := ent.File.Open(); err != nil {
			return fmt.Errorf("verify: open %s for read-back: %w", ent.File.Path, err)
		}
	}
	ent.File.Get()

	u.File = ent.File
	u.Offset = ent.Offset
	u.BufLen = int(ent.Len)
	u.Dir = types.DirRead
	return nil
}
