package checksum

import "encoding/binary"

// CRC-16/ARC: polynomial x^16 + x^15 + x^2 + 1, bit-reflected (0xA001),
// zero init, zero xor-out. Table-driven, one lookup per input byte.

const crc16Poly = 0xA001

var crc16Table = makeCRC16Table()

func makeCRC16Table() (t [256]uint16) {
	for i := range t {
		crc := uint16(i)
		for j := 0; j < 8; j++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ crc16Poly
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return t
}

type crc16Alg struct{}

func (crc16Alg) Tag() Type { return CRC16 }
func (crc16Alg) Size() int { return 2 }

func (crc16Alg) Sum(p []byte) []byte {
	var crc uint16
	for _, b := range p {
		crc = (crc >> 8) ^ crc16Table[byte(crc)^b]
	}
	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, crc)
	return out
}
