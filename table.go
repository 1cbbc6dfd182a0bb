package combspan

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	cserrors "github.com/tamirms/combspan/errors"
	"github.com/tamirms/combspan/internal/encoding"
)

// minFileSize is the size of a table with no records.
const minFileSize = headerSize + footerSize

// Table is a read-only table file written by WriteTable.
//
// Thread Safety:
//   - At, Digest and Verify are safe for concurrent use
//   - Close is NOT safe to call concurrently with reads
//   - After Close returns, reads fail with ErrTableClosed
type Table struct {
	// Memory map (no file handle needed after mmap)
	mmap mmap.MMap
	data []byte

	header  *header
	records []byte

	closed atomic.Bool
}

// OpenTable opens a table file for reading.
// It opens the file, memory-maps it, and closes the file descriptor.
func OpenTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table file: %w", err)
	}
	defer file.Close()
	return OpenTableFile(file)
}

// OpenTableFile opens a table by memory-mapping f. The caller is responsible
// for closing f, which may happen as soon as OpenTableFile returns.
func OpenTableFile(f *os.File) (*Table, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat table file: %w", err)
	}
	fileSize := stat.Size()

	if fileSize < int64(minFileSize) {
		return nil, cserrors.ErrTruncatedFile
	}

	fadviseRecords(int(f.Fd()), fileSize)

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap table file: %w", err)
	}

	t := &Table{
		mmap: mm,
		data: []byte(mm),
	}
	if err := t.initFromData(); err != nil {
		return nil, errors.Join(err, t.Close())
	}
	return t, nil
}

// OpenTableBytes reads a table from an in-memory byte slice. Close is a
// no-op. The caller must not modify data while the Table is in use.
func OpenTableBytes(data []byte) (*Table, error) {
	if len(data) < minFileSize {
		return nil, cserrors.ErrTruncatedFile
	}
	t := &Table{
		data: data,
	}
	if err := t.initFromData(); err != nil {
		return nil, err
	}
	return t, nil
}

// initFromData parses the header and locates the record region. The footer
// is only read by Verify.
func (t *Table) initFromData() error {
	hdr, err := decodeHeader(t.data[:headerSize])
	if err != nil {
		return err
	}
	region, ok := hdr.recordRegionSize()
	if !ok {
		return cserrors.ErrCorruptedTable
	}
	fileSize := uint64(len(t.data))
	want := uint64(headerSize) + region + footerSize
	if want < region || fileSize < want {
		return cserrors.ErrTruncatedFile
	}
	if fileSize > want {
		return cserrors.ErrCorruptedTable
	}
	t.header = hdr
	t.records = t.data[headerSize : headerSize+region]
	return nil
}

// Close releases the mapping.
func (t *Table) Close() error {
	if t.closed.Swap(true) {
		return nil // Already closed
	}

	if t.mmap != nil {
		return t.mmap.Unmap()
	}
	return nil
}

// Len returns the number of records.
func (t *Table) Len() uint64 { return t.header.Count }

// Family returns the family the records were drawn from.
func (t *Table) Family() Family { return t.header.Family }

// Width returns the width the source sequence ran in.
func (t *Table) Width() Width { return Width(t.header.Width) }

// ElementLen returns the number of values each record can hold.
func (t *Table) ElementLen() int { return int(t.header.MaxLen) }

// Origin returns the position of the source sequence when the table was
// written.
func (t *Table) Origin() uint64 { return t.header.Origin }

// Shuffled reports whether the records are in shuffled order and with which
// seed.
func (t *Table) Shuffled() (uint64, bool) { return t.header.Seed, t.header.shuffled() }

// At returns record i.
func (t *Table) At(i uint64) ([]int, error) {
	if t.closed.Load() {
		return nil, cserrors.ErrTableClosed
	}
	if i >= t.header.Count {
		return nil, fmt.Errorf("%w: record %d of %d", cserrors.ErrIndexOutOfRange, i, t.header.Count)
	}
	size := uint64(t.header.RecordSize)
	elem, ok := encoding.ReadRecord(t.records[i*size:(i+1)*size], t.ElementLen(), nil)
	if !ok {
		return nil, fmt.Errorf("%w: record %d", cserrors.ErrCorruptedTable, i)
	}
	return elem, nil
}

// Digest returns the digest of all records in order. It equals the Digest
// of the sequence the table was written from.
func (t *Table) Digest() (Digest, error) {
	if t.closed.Load() {
		return Digest{}, cserrors.ErrTableClosed
	}
	var d Digest
	var buf []byte
	var elem []int
	size := uint64(t.header.RecordSize)
	for i := uint64(0); i < t.header.Count; i++ {
		var ok bool
		elem, ok = encoding.ReadRecord(t.records[i*size:(i+1)*size], t.ElementLen(), elem)
		if !ok {
			return Digest{}, fmt.Errorf("%w: record %d", cserrors.ErrCorruptedTable, i)
		}
		buf = d.Add(elem, buf)
	}
	return d, nil
}

// Verify checks the header and record region against the footer hashes.
func (t *Table) Verify() error {
	if t.closed.Load() {
		return cserrors.ErrTableClosed
	}

	fileSize := uint64(len(t.data))
	ft, err := decodeFooter(t.data[fileSize-footerSize:])
	if err != nil {
		return err
	}
	if xxhash.Sum64(t.data[:headerSize]) != ft.HeaderHash {
		return cserrors.ErrChecksumFailed
	}
	if xxhash.Sum64(t.records) != ft.RecordRegionHash {
		return cserrors.ErrChecksumFailed
	}
	return nil
}
