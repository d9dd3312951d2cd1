// ============================================================================
// Checksum Algorithm Set
// Responsibility: expose the closed set of payload checksum algorithms
// behind a single polymorphic capability, selectable by on-disk tag.
// ============================================================================

// Package checksum implements the integrity algorithms used to fingerprint
// I/O payloads: four cyclic redundancy codes of increasing width and one
// cryptographic digest. All algorithms are pure functions of the byte range
// they are given; none mutates its input.
package checksum

import "strings"

// Type is the on-disk algorithm tag. It is a closed enumeration: adding an
// algorithm means adding a variant here and registering it below, nothing
// else changes at the call sites.
type Type byte

// Algorithm tags as stored in the verify header.
const (
	None Type = iota // verification disabled, no header written
	CRC7
	CRC16
	CRC32
	CRC64
	MD5
)

// MaxSize is the widest checksum the set produces, in bytes. The header's
// checksum field is sized to this; narrower algorithms occupy a prefix.
const MaxSize = 16

// String returns the lower-case algorithm name used in configs and logs.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case CRC7:
		return "crc7"
	case CRC16:
		return "crc16"
	case CRC32:
		return "crc32"
	case CRC64:
		return "crc64"
	case MD5:
		return "md5"
	default:
		return "invalid"
	}
}

// Algorithm is one member of the closed checksum set.
type Algorithm interface {
	// Tag returns the header tag value this algorithm is registered under.
	Tag() Type
	// Size returns the fixed width of the checksum in bytes.
	Size() int
	// Sum computes the checksum over p. It never mutates p.
	Sum(p []byte) []byte
}

// Closed registry of the supported algorithms. None is deliberately absent:
// a disabled run never reaches a compute call.
var algorithms = map[Type]Algorithm{
	CRC7:  crc7Alg{},
	CRC16: crc16Alg{},
	CRC32: crc32Alg{},
	CRC64: crc64Alg{},
	MD5:   md5Alg{},
}

// ByTag resolves a header tag to its algorithm. The second return is false
// for None and for any value outside the enumeration.
func ByTag(t Type) (Algorithm, bool) {
	a, ok := algorithms[t]
	return a, ok
}

// ByName resolves a configuration string such as "crc32" to its tag.
// "none" is a valid name and maps to None with ok=true.
func ByName(name string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "null", "":
		return None, true
	case "crc7":
		return CRC7, true
	case "crc16":
		return CRC16, true
	case "crc32":
		return CRC32, true
	case "crc64":
		return CRC64, true
	case "md5":
		return MD5, true
	default:
		return None, false
	}
}

// Names returns the configuration names of every selectable algorithm,
// including "none".
func Names() []string {
	return []string{"none", "crc7", "crc16", "crc32", "crc64", "md5"}
}
