package combspan

import (
	"encoding/binary"

	cserrors "github.com/tamirms/combspan/errors"
	"github.com/tamirms/combspan/internal/encoding"
)

const (
	// magic number for combspan table files
	// "CMBT" in little-endian
	magic = uint32(0x54424D43)

	// version is the current format version
	version = uint16(0x0001)

	// headerSize is the exact size of the serialized header (64 bytes)
	headerSize = 64

	// footerSize is the exact size of the serialized footer (32 bytes)
	footerSize = 32

	// flagShuffled marks tables written from a shuffled sequence.
	flagShuffled = uint8(1 << 0)
)

// header is the 64-byte table file header.
//
// Layout:
//
//	Offset  Size  Field       Type
//	0       4     Magic       0x54424D43 ("CMBT")
//	4       2     Version     0x0001
//	6       2     Family      uint16_le
//	8       1     Width       uint8 (width the sequence ran in)
//	9       1     Flags       uint8 (bit 0 = shuffled)
//	10      4     MaxLen      uint32_le (values per record)
//	14      4     RecordSize  uint32_le (4 + 4*MaxLen)
//	18      8     Count       uint64_le (number of records)
//	26      8     Seed        uint64_le (shuffle seed, 0 if not shuffled)
//	34      8     Origin      uint64_le (family index of the first record)
//	42      22    Reserved    [22]byte (zero)
type header struct {
	Magic      uint32   // 4 bytes: magic number 0x54424D43
	Version    uint16   // 2 bytes: format version
	Family     Family   // 2 bytes: family enumerated
	Width      uint8    // 1 byte: index width
	Flags      uint8    // 1 byte: flag bits
	MaxLen     uint32   // 4 bytes: values per record
	RecordSize uint32   // 4 bytes: bytes per record
	Count      uint64   // 8 bytes: number of records
	Seed       uint64   // 8 bytes: shuffle seed
	Origin     uint64   // 8 bytes: position of the first record
	Reserved   [22]byte // 22 bytes: reserved (zero)
}

// encodeTo serializes the header to an existing buffer.
func (h *header) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint16(buf[6:8], uint16(h.Family))
	buf[8] = h.Width
	buf[9] = h.Flags
	binary.LittleEndian.PutUint32(buf[10:14], h.MaxLen)
	binary.LittleEndian.PutUint32(buf[14:18], h.RecordSize)
	binary.LittleEndian.PutUint64(buf[18:26], h.Count)
	binary.LittleEndian.PutUint64(buf[26:34], h.Seed)
	binary.LittleEndian.PutUint64(buf[34:42], h.Origin)
	copy(buf[42:64], h.Reserved[:])
}

// decodeHeader parses a 64-byte header.
func decodeHeader(buf []byte) (*header, error) {
	if len(buf) < headerSize {
		return nil, cserrors.ErrTruncatedFile
	}

	h := &header{
		Magic:      binary.LittleEndian.Uint32(buf[0:4]),
		Version:    binary.LittleEndian.Uint16(buf[4:6]),
		Family:     Family(binary.LittleEndian.Uint16(buf[6:8])),
		Width:      buf[8],
		Flags:      buf[9],
		MaxLen:     binary.LittleEndian.Uint32(buf[10:14]),
		RecordSize: binary.LittleEndian.Uint32(buf[14:18]),
		Count:      binary.LittleEndian.Uint64(buf[18:26]),
		Seed:       binary.LittleEndian.Uint64(buf[26:34]),
		Origin:     binary.LittleEndian.Uint64(buf[34:42]),
	}
	copy(h.Reserved[:], buf[42:64])

	if h.Magic != magic {
		return nil, cserrors.ErrInvalidMagic
	}
	if h.Version != version {
		return nil, cserrors.ErrInvalidVersion
	}
	if h.Family > FamilyPartialPermutation {
		return nil, cserrors.ErrCorruptedTable
	}
	if h.Width != uint8(WidthNative) && h.Width != uint8(WidthBig) {
		return nil, cserrors.ErrCorruptedTable
	}
	if uint64(h.RecordSize) != uint64(encoding.RecordSize(int(h.MaxLen))) {
		return nil, cserrors.ErrCorruptedTable
	}

	return h, nil
}

// shuffled reports whether the records are in shuffled order.
func (h *header) shuffled() bool {
	return h.Flags&flagShuffled != 0
}

// recordRegionSize returns the size of the record region in bytes, or false
// if it overflows.
func (h *header) recordRegionSize() (uint64, bool) {
	size := h.Count * uint64(h.RecordSize)
	if h.RecordSize != 0 && size/uint64(h.RecordSize) != h.Count {
		return 0, false
	}
	return size, true
}

// footer is the 32-byte file footer.
//
// Layout:
//
//	Offset  Size  Field             Type
//	0       8     RecordRegionHash  uint64_le (xxHash64 of the record region)
//	8       8     HeaderHash        uint64_le (xxHash64 of the 64-byte header)
//	16      16    Reserved          [16]byte (zero)
type footer struct {
	RecordRegionHash uint64   // 8 bytes: xxHash64 of the record region
	HeaderHash       uint64   // 8 bytes: xxHash64 of the header
	Reserved         [16]byte // 16 bytes: reserved for future use
}

// encodeTo serializes the footer into an existing buffer.
func (f *footer) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], f.RecordRegionHash)
	binary.LittleEndian.PutUint64(buf[8:16], f.HeaderHash)
	copy(buf[16:32], f.Reserved[:])
}

// decodeFooter parses a 32-byte footer.
func decodeFooter(buf []byte) (*footer, error) {
	if len(buf) < footerSize {
		return nil, cserrors.ErrTruncatedFile
	}

	f := &footer{
		RecordRegionHash: binary.LittleEndian.Uint64(buf[0:8]),
		HeaderHash:       binary.LittleEndian.Uint64(buf[8:16]),
	}
	copy(f.Reserved[:], buf[16:32])

	return f, nil
}
