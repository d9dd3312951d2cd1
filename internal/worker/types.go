package worker

import (
	"github.com/ChuLiYu/disk-hammer/internal/checksum"
	"github.com/ChuLiYu/disk-hammer/internal/file"
	"github.com/ChuLiYu/disk-hammer/pkg/types"
)

// Spec describes one worker's slice of the workload: which region of which
// target it writes, and how its verification state is seeded.
type Spec struct {
	ID         int            // worker identifier, used for logging
	File       *file.File     // workload target
	Algorithm  checksum.Type  // verify header tag, None disables verification
	Seed       int64          // payload generator seed, fully determines the byte stream
	BlockSize  int            // bytes per I/O unit, header included
	BlockCount int            // writes this worker issues
	BaseOffset int64          // start of the worker's region in the target
}

// Result is one worker's outcome, reported when its run loop exits.
type Result struct {
	WorkerID int
	Stats    types.RunStats
	Err      error // fatal worker error; verification failures are counted in Stats, not here
}
