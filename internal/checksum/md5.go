package checksum

import "crypto/md5"

// MD5 digest, the one non-CRC member of the set. 128 bits, viewed as four
// 32-bit words in the header's checksum field. Chosen for speed and
// historical compatibility with disk testers, not for collision resistance.

type md5Alg struct{}

func (md5Alg) Tag() Type { return MD5 }
func (md5Alg) Size() int { return md5.Size }

func (md5Alg) Sum(p []byte) []byte {
	d := md5.Sum(p)
	return d[:]
}
