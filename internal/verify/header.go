package verify

// ============================================================================
// Verify Header Codec
// Responsibility: encode/decode the fixed-layout metadata prefix stored at
// offset 0 of every verified buffer.
//
// Layout (little-endian, a documented contract rather than a struct
// overlaid on raw memory):
//
//   offset  size  field
//   0       4     magic (0x48414d52, "HAMR")
//   4       8     total length = header + payload
//   12      1     algorithm tag
//   13      16    checksum, sized to the widest algorithm; narrower
//                 algorithms occupy a prefix, the remainder stays zero
// ============================================================================

import (
	"encoding/binary"

	"github.com/ChuLiYu/disk-hammer/internal/checksum"
)

// Magic is the sentinel distinguishing a verification-tagged buffer from
// arbitrary data.
const Magic uint32 = 0x48414d52

// HeaderSize is the fixed on-buffer size of the verify header.
const HeaderSize = 4 + 8 + 1 + checksum.MaxSize

const (
	offMagic = 0
	offLen   = 4
	offTag   = 12
	offSum   = 13
)

// Header is the decoded form of the verification prefix.
type Header struct {
	Magic uint32
	Len   uint64
	Tag   checksum.Type
	Sum   [checksum.MaxSize]byte
}

// PayloadLen returns the declared payload size.
func (h *Header) PayloadLen() uint64 {
	return h.Len - HeaderSize
}

// encode writes the header into the first HeaderSize bytes of buf.
// The caller guarantees len(buf) >= HeaderSize.
func (h *Header) encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[offMagic:], h.Magic)
	binary.LittleEndian.PutUint64(buf[offLen:], h.Len)
	buf[offTag] = byte(h.Tag)
	copy(buf[offSum:offSum+checksum.MaxSize], h.Sum[:])
}

// decodeHeader reads a header back from buf. It returns ErrShortBuffer when
// buf cannot hold a header and ErrCorruptHeader when the magic sentinel
// does not match; the tag is not validated here, the validate path owns
// that distinction.
func decodeHeader(buf []byte) (Header, error) {
	var h Header
	if len(buf) < HeaderSize {
		return h, ErrShortBuffer
	}

	h.Magic = binary.LittleEndian.Uint32(buf[offMagic:])
	if h.Magic != Magic {
		return h, ErrCorruptHeader
	}

	h.Len = binary.LittleEndian.Uint64(buf[offLen:])
	h.Tag = checksum.Type(buf[offTag])
	copy(h.Sum[:], buf[offSum:offSum+checksum.MaxSize])
	return h, nil
}
