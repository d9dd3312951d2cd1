package checksum

import (
	"encoding/binary"
	"hash/crc32"
)

// CRC-32/IEEE via the standard library's slicing-by-8 implementation.

type crc32Alg struct{}

func (crc32Alg) Tag() Type { return CRC32 }
func (crc32Alg) Size() int { return 4 }

func (crc32Alg) Sum(p []byte) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, crc32.ChecksumIEEE(p))
	return out
}
