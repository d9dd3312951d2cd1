// Package types defines the core domain model shared across disk-hammer.
package types

// Direction marks which way an I/O unit moves data.
type Direction int

// I/O directions.
const (
	DirWrite Direction = iota // buffer is written to the target
	DirRead                   // buffer is filled from the target
)

// String returns the direction name used in logs and metrics labels.
func (d Direction) String() string {
	switch d {
	case DirWrite:
		return "write"
	case DirRead:
		return "read"
	default:
		return "unknown"
	}
}

// RunStats aggregates the outcome of a workload run. Counters are plain
// integers because each worker owns its own copy; aggregation happens once,
// after the workers have stopped.
type RunStats struct {
	WritesIssued uint64 `json:"writes_issued"`
	ReadsIssued  uint64 `json:"reads_issued"`
	BytesWritten uint64 `json:"bytes_written"`
	BytesRead    uint64 `json:"bytes_read"`
	VerifyOK     uint64 `json:"verify_ok"`
	VerifyFailed uint64 `json:"verify_failed"`
	SchedSkipped uint64 `json:"sched_skipped"`
}

// Merge folds another worker's stats into s.
func (s *RunStats) Merge(o RunStats) {
	s.WritesIssued += o.WritesIssued
	s.ReadsIssued += o.ReadsIssued
	s.BytesWritten += o.BytesWritten
	s.BytesRead += o.BytesRead
	s.VerifyOK += o.VerifyOK
	s.VerifyFailed += o.VerifyFailed
	s.SchedSkipped += o.SchedSkipped
}
