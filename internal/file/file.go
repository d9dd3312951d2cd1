// ============================================================================
// Target File Abstraction
// Responsibility:
// 1. Lazy open/close of workload target files
// 2. Reference counting while reads scheduled from write history are in flight
// 3. Positioned read/write/sync primitives for the I/O engine
// ============================================================================

// Package file wraps the workload's target files. A File may be handed to
// many in-flight I/O units; the reference count tracks how many scheduled
// operations are still using it, independent of the open/closed state.
package file

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// File is one workload target. Open state is guarded by a mutex because the
// controller and several workers may race to open the same target; the data
// path (Pread/Pwrite) takes no lock, positioned I/O needs none.
type File struct {
	Path string

	mu   sync.Mutex
	osf  *os.File
	fd   int
	open bool

	refs atomic.Int64
}

// New creates a handle for path. The file is not opened until Open is
// called; scheduling code checks IsOpen and opens on demand.
func New(path string) *File {
	return &File{Path: path, fd: -1}
}

// IsOpen reports whether the file currently has an open descriptor.
func (f *File) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Open opens (creating if necessary) the target for read/write. Opening an
// already-open file is a no-op.
func (f *File) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.open {
		return nil
	}

	osf, err := os.OpenFile(f.Path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("file: open %s: %w", f.Path, err)
	}

	f.osf = osf
	f.fd = int(osf.Fd())
	f.open = true
	return nil
}

// Close closes the descriptor. Outstanding references do not prevent a
// close; callers coordinate shutdown ordering above this layer.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.open {
		return nil
	}

	f.open = false
	f.fd = -1
	err := f.osf.Close()
	f.osf = nil
	if err != nil {
		return fmt.Errorf("file: close %s: %w", f.Path, err)
	}
	return nil
}

// Get acquires a reference: one scheduled operation is now using this file.
func (f *File) Get() {
	f.refs.Add(1)
}

// Put releases a reference taken with Get.
func (f *File) Put() {
	if f.refs.Add(-1) < 0 {
		panic("file: reference count underflow on " + f.Path)
	}
}

// Refs returns the current reference count.
func (f *File) Refs() int64 {
	return f.refs.Load()
}

// Truncate grows (or shrinks) the target to size bytes. Used to preallocate
// the workload region before workers start.
func (f *File) Truncate(size int64) error {
	f.mu.Lock()
	osf := f.osf
	f.mu.Unlock()
	if osf == nil {
		return fmt.Errorf("file: truncate %s: not open", f.Path)
	}
	if err := osf.Truncate(size); err != nil {
		return fmt.Errorf("file: truncate %s: %w", f.Path, err)
	}
	return nil
}

// Size returns the target's current size in bytes.
func (f *File) Size() (int64, error) {
	f.mu.Lock()
	osf := f.osf
	f.mu.Unlock()
	if osf == nil {
		return 0, fmt.Errorf("file: size %s: not open", f.Path)
	}
	st, err := osf.Stat()
	if err != nil {
		return 0, fmt.Errorf("file: size %s: %w", f.Path, err)
	}
	return st.Size(), nil
}

// Pwrite writes p at offset off, retrying short writes.
func (f *File) Pwrite(p []byte, off int64) (int, error) {
	fd := f.loadFd()
	if fd < 0 {
		return 0, fmt.Errorf("file: pwrite %s: not open", f.Path)
	}

	total := 0
	for total < len(p) {
		n, err := unix.Pwrite(fd, p[total:], off+int64(total))
		if err != nil {
			return total, fmt.Errorf("file: pwrite %s at %d: %w", f.Path, off, err)
		}
		if n == 0 {
			return total, fmt.Errorf("file: pwrite %s at %d: zero-length write", f.Path, off)
		}
		total += n
	}
	return total, nil
}

// Pread reads len(p) bytes at offset off, retrying short reads. Hitting EOF
// before the buffer is full is an error: verification reads always target a
// region that was fully written.
func (f *File) Pread(p []byte, off int64) (int, error) {
	fd := f.loadFd()
	if fd < 0 {
		return 0, fmt.Errorf("file: pread %s: not open", f.Path)
	}

	total := 0
	for total < len(p) {
		n, err := unix.Pread(fd, p[total:], off+int64(total))
		if err != nil {
			return total, fmt.Errorf("file: pread %s at %d: %w", f.Path, off, err)
		}
		if n == 0 {
			return total, fmt.Errorf("file: pread %s at %d: unexpected EOF after %d bytes", f.Path, off, total)
		}
		total += n
	}
	return total, nil
}

// Sync flushes written data to stable storage.
func (f *File) Sync() error {
	fd := f.loadFd()
	if fd < 0 {
		return fmt.Errorf("file: sync %s: not open", f.Path)
	}
	if err := unix.Fsync(fd); err != nil {
		return fmt.Errorf("file: sync %s: %w", f.Path, err)
	}
	return nil
}

func (f *File) loadFd() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return -1
	}
	return f.fd
}
