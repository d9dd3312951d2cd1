package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChuLiYu/disk-hammer/internal/checksum"
)

func TestHeaderLayoutSize(t *testing.T) {
	// 4 magic + 8 length + 1 tag + 16 checksum.
	assert.Equal(t, 29, HeaderSize)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{
		Magic: Magic,
		Len:   4096,
		Tag:   checksum.CRC64,
	}
	for i := range h.Sum {
		h.Sum[i] = byte(0xA0 + i)
	}

	buf := make([]byte, HeaderSize)
	h.encode(buf)

	got, err := decodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.EqualValues(t, 4096-HeaderSize, got.PayloadLen())
}

func TestDecodeShortBuffer(t *testing.T) {
	_, err := decodeHeader(make([]byte, HeaderSize-1))
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestDecodeBadMagic(t *testing.T) {
	h := Header{Magic: Magic, Len: 512, Tag: checksum.CRC32}
	buf := make([]byte, HeaderSize)
	h.encode(buf)

	buf[0] ^= 0xff
	_, err := decodeHeader(buf)
	assert.ErrorIs(t, err, ErrCorruptHeader)
}

// TestNarrowChecksumLeavesZeroTail: a 4-byte algorithm occupies the first
// four bytes of the checksum field; the remaining twelve stay zero.
func TestNarrowChecksumLeavesZeroTail(t *testing.T) {
	h := Header{Magic: Magic, Len: 512, Tag: checksum.CRC32}
	copy(h.Sum[:], []byte{1, 2, 3, 4})

	buf := make([]byte, HeaderSize)
	h.encode(buf)

	assert.Equal(t, []byte{1, 2, 3, 4}, buf[offSum:offSum+4])
	for i := offSum + 4; i < offSum+checksum.MaxSize; i++ {
		assert.Zero(t, buf[i], "byte %d", i)
	}
}
