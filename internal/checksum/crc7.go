package checksum

// CRC-7 (polynomial x^7 + x^3 + 1), the MMC/SD command checksum. The
// register is kept left-aligned in a byte so each update is a plain table
// lookup; the low bit stays zero throughout and the final value is shifted
// right once to right-align the 7-bit remainder.

// 0x09 left-aligned by one bit.
const crc7Poly = 0x12

var crc7Table = makeCRC7Table()

func makeCRC7Table() (t [256]byte) {
	for i := range t {
		reg := byte(i)
		for j := 0; j < 8; j++ {
			if reg&0x80 != 0 {
				reg = (reg << 1) ^ crc7Poly
			} else {
				reg <<= 1
			}
		}
		t[i] = reg
	}
	return t
}

type crc7Alg struct{}

func (crc7Alg) Tag() Type { return CRC7 }
func (crc7Alg) Size() int { return 1 }

func (crc7Alg) Sum(p []byte) []byte {
	var reg byte
	for _, b := range p {
		reg = crc7Table[reg^b]
	}
	return []byte{reg >> 1}
}
