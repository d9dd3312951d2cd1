// ============================================================================
// Synchronous I/O Engine
// Responsibility:
// 1. Define the in-flight I/O unit the rest of the system operates on
// 2. Issue one unit's read or write against its target file
// ============================================================================

// Package engine issues the actual I/O. Units are prepared by the verify
// dispatcher (write path) or retargeted from write history (read path); the
// engine only moves bytes and reports how many moved.
package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ChuLiYu/disk-hammer/internal/file"
	"github.com/ChuLiYu/disk-hammer/pkg/types"
)

// IOUnit is one in-flight I/O operation. Buf is the backing buffer; BufLen
// is the number of bytes actually transferred, which may be less than
// cap(Buf) when a unit is retargeted from history.
type IOUnit struct {
	Buf    []byte
	BufLen int
	Offset int64
	Dir    types.Direction
	File   *file.File
}

// Reset clears the unit for reuse. A reset unit carries no file, which is
// how the verify scheduler distinguishes fresh units from requeued ones.
func (u *IOUnit) Reset() {
	u.BufLen = 0
	u.Offset = 0
	u.Dir = types.DirWrite
	u.File = nil
}

// Engine executes I/O units synchronously against local files.
type Engine struct {
	syncWrites bool
	log        *logrus.Entry
}

// New creates an engine. When syncWrites is set every completed write is
// followed by an fsync, so a later verification read observes stable data
// rather than the page cache alone.
func New(syncWrites bool, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{syncWrites: syncWrites, log: log}
}

// Execute issues the unit's I/O and returns the number of bytes moved. The
// target must already be open; opening is the scheduler's job.
func (e *Engine) Execute(u *IOUnit) (int, error) {
	if u.File == nil {
		return 0, fmt.Errorf("engine: unit has no target file")
	}
	if !u.File.IsOpen() {
		return 0, fmt.Errorf("engine: target %s is not open", u.File.Path)
	}
	if u.BufLen <= 0 || u.BufLen > len(u.Buf) {
		return 0, fmt.Errorf("engine: bad transfer length %d (buffer %d)", u.BufLen, len(u.Buf))
	}

	var (
		n   int
		err error
	)
	switch u.Dir {
	case types.DirWrite:
		n, err = u.File.Pwrite(u.Buf[:u.BufLen], u.Offset)
		if err == nil && e.syncWrites {
			err = u.File.Sync()
		}
	case types.DirRead:
		n, err = u.File.Pread(u.Buf[:u.BufLen], u.Offset)
	default:
		return 0, fmt.Errorf("engine: unknown direction %d", u.Dir)
	}

	if err != nil {
		e.log.WithFields(logrus.Fields{
			"dir":    u.Dir.String(),
			"file":   u.File.Path,
			"offset": u.Offset,
			"len":    u.BufLen,
		}).WithError(err).Error("io failed")
		return n, err
	}
	return n, nil
}
