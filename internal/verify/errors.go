package verify

// ============================================================================
// Verification Error Taxonomy
// Responsibility: distinguish the three verification failures from each
// other and from scheduling conditions, so callers can react per kind.
// ============================================================================

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ChuLiYu/disk-hammer/internal/checksum"
)

// Predefined errors.
var (
	// ErrCorruptHeader indicates the buffer's magic does not match: the
	// region read back was never populated with a verify header, which
	// points at a targeting bug or metadata-level corruption rather than a
	// payload checksum failure.
	ErrCorruptHeader = errors.New("verify: bad header magic")

	// ErrUnsupportedAlgorithm indicates a header tag outside the closed
	// algorithm set was read back.
	ErrUnsupportedAlgorithm = errors.New("verify: unsupported checksum algorithm")

	// ErrChecksumMismatch is the sentinel every MismatchError unwraps to.
	ErrChecksumMismatch = errors.New("verify: checksum mismatch")

	// ErrNoHistory signals that no write is pending verification. A
	// scheduling condition, not a verification failure.
	ErrNoHistory = errors.New("verify: no write history pending")

	// ErrShortBuffer indicates a buffer too small to hold the header.
	ErrShortBuffer = errors.New("verify: buffer smaller than header")
)

// MismatchError reports a payload checksum disagreement with full
// expected/actual detail. Callers match it with
// errors.Is(err, ErrChecksumMismatch).
type MismatchError struct {
	Algorithm checksum.Type
	Offset    int64
	Length    uint64
	Expected  []byte
	Actual    []byte
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("verify: %s mismatch at %d/%d: wanted %s, got %s",
		e.Algorithm, e.Offset, e.Length,
		hex.EncodeToString(e.Expected), hex.EncodeToString(e.Actual))
}

func (e *MismatchError) Unwrap() error { return ErrChecksumMismatch }
