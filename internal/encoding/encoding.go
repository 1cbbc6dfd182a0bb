// Package encoding provides the byte layout of elements in table files and
// digests.
//
// An element is stored as a little-endian uint32 length followed by that many
// little-endian int32 values. Table records pad the values to a fixed width
// so that record i lives at offset i*RecordSize(maxLen).
package encoding

import (
	"encoding/binary"
	"math"
)

// lengthSize is the size of the element length prefix.
const lengthSize = 4

// valueSize is the size of one encoded value.
const valueSize = 4

// RecordSize returns the fixed record size for elements of at most maxLen
// values.
func RecordSize(maxLen int) int {
	return lengthSize + maxLen*valueSize
}

// FitsValue reports whether v can be stored in a record.
func FitsValue(v int) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

// PutRecord writes elem into dst, which must be RecordSize(maxLen) bytes with
// len(elem) <= maxLen. Unused value slots are zeroed.
func PutRecord(dst []byte, elem []int) {
	binary.LittleEndian.PutUint32(dst[0:lengthSize], uint32(len(elem)))
	off := lengthSize
	for _, v := range elem {
		binary.LittleEndian.PutUint32(dst[off:], uint32(int32(v)))
		off += valueSize
	}
	clear(dst[off:])
}

// ReadRecord decodes the record in src into dst (reused when large enough).
// It reports false when the stored length exceeds maxLen.
func ReadRecord(src []byte, maxLen int, dst []int) ([]int, bool) {
	n := int(binary.LittleEndian.Uint32(src[0:lengthSize]))
	if n > maxLen || len(src) < RecordSize(n) {
		return dst, false
	}
	dst = dst[:0]
	off := lengthSize
	for i := 0; i < n; i++ {
		dst = append(dst, int(int32(binary.LittleEndian.Uint32(src[off:]))))
		off += valueSize
	}
	return dst, true
}

// AppendElement appends the unpadded encoding of elem to dst.
func AppendElement(dst []byte, elem []int) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(elem)))
	for _, v := range elem {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(v)))
	}
	return dst
}
