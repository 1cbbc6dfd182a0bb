package combspan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	cserrors "github.com/tamirms/combspan/errors"
	"github.com/tamirms/combspan/internal/encoding"
	"github.com/tamirms/combspan/internal/forkjoin"
)

// tableWriter writes a table file through a writable memory map.
// File layout: [Header 64B][Record Region Count×RecordSize][Footer 32B]
type tableWriter struct {
	path string
	file *os.File
	mmap mmap.MMap // Memory-mapped region
	data []byte    // View into mmap for direct writes

	header     header
	recordSize uint64
	regionEnd  uint64
}

// newTableWriter creates path, sizes it for hdr.Count records and maps it
// for writing.
func newTableWriter(path string, hdr header) (*tableWriter, error) {
	region, ok := hdr.recordRegionSize()
	if !ok || region > math.MaxInt-headerSize-footerSize {
		return nil, fmt.Errorf("%w: %d records of %d bytes", cserrors.ErrTableTooLarge, hdr.Count, hdr.RecordSize)
	}
	size := uint64(headerSize) + region + footerSize

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create table file: %w", err)
	}

	// Pre-allocate disk blocks to prevent SIGBUS on disk full
	if err := fallocateFile(file, int64(size)); err != nil {
		primaryErr := fmt.Errorf("failed to allocate disk space: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}

	mm, err := mmap.MapRegion(file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		primaryErr := fmt.Errorf("failed to mmap file: %w", err)
		return nil, errors.Join(primaryErr, file.Close())
	}

	tw := &tableWriter{
		path:       path,
		file:       file,
		mmap:       mm,
		data:       []byte(mm),
		header:     hdr,
		recordSize: uint64(hdr.RecordSize),
		regionEnd:  headerSize + region,
	}

	// Workers write the record region concurrently; populate it up front
	// instead of faulting page by page.
	prefaultRegion(tw.data[headerSize:tw.regionEnd])
	return tw, nil
}

// record returns the slot for record i. Slots of distinct records do not
// overlap, so they may be filled concurrently.
func (tw *tableWriter) record(i uint64) []byte {
	start := headerSize + i*tw.recordSize
	end := start + tw.recordSize
	if end > tw.regionEnd {
		panic("record: index exceeds record region")
	}
	return tw.data[start:end]
}

// finalize writes the header and footer and closes the file. On error it
// delegates to close() for cleanup; on success close() becomes a no-op.
func (tw *tableWriter) finalize() error {
	tw.header.encodeTo(tw.data[0:headerSize])
	ftr := footer{
		RecordRegionHash: xxhash.Sum64(tw.data[headerSize:tw.regionEnd]),
		HeaderHash:       xxhash.Sum64(tw.data[0:headerSize]),
	}
	ftr.encodeTo(tw.data[tw.regionEnd:])

	// Flush dirty pages to file (ensures writes visible before unmap)
	if err := tw.mmap.Flush(); err != nil {
		primaryErr := fmt.Errorf("mmap flush failed: %w", err)
		return errors.Join(primaryErr, tw.close())
	}

	// Nil mmap regardless of outcome to prevent close() from retrying.
	unmapErr := tw.mmap.Unmap()
	tw.mmap = nil
	if unmapErr != nil {
		primaryErr := fmt.Errorf("mmap unmap failed: %w", unmapErr)
		return errors.Join(primaryErr, tw.close())
	}

	closeErr := tw.file.Close()
	tw.file = nil
	return closeErr
}

// close releases the writer without finalizing. Idempotent.
func (tw *tableWriter) close() error {
	var unmapErr error
	if tw.mmap != nil {
		unmapErr = tw.mmap.Unmap()
		tw.mmap = nil
	}
	var closeErr error
	if tw.file != nil {
		closeErr = tw.file.Close()
		tw.file = nil
	}
	return errors.Join(unmapErr, closeErr)
}

// abort closes the writer and removes the partial file.
func (tw *tableWriter) abort() error {
	return errors.Join(tw.close(), os.Remove(tw.path))
}

// WriteTable drains s into a table file at path, one fixed-size record per
// element in the order s yields them. Records are produced concurrently by
// splitting s into leaves; see WithWorkers and WithGrain.
//
// The remaining count and the current position of s must fit in a uint64,
// and every value must fit in an int32; otherwise WriteTable returns
// ErrTableTooLarge without touching path. On any later failure the partial
// file is removed.
func WriteTable(ctx context.Context, path string, s *Sequence, opts ...RunOption) error {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	count, ok := s.Count()
	if !ok {
		return fmt.Errorf("%w: %s elements", cserrors.ErrTableTooLarge, s.BigCount())
	}
	pos := s.Position()
	if !pos.IsUint64() {
		return fmt.Errorf("%w: position %s", cserrors.ErrTableTooLarge, pos)
	}
	if !s.params.valuesFitRecord() {
		return fmt.Errorf("%w: %v has values beyond int32", cserrors.ErrTableTooLarge, s.params)
	}

	maxLen := s.ElementLen()
	seed, shuffled := s.Shuffled()
	hdr := header{
		Magic:      magic,
		Version:    version,
		Family:     s.Family(),
		Width:      uint8(s.Width()),
		MaxLen:     uint32(maxLen),
		RecordSize: uint32(encoding.RecordSize(maxLen)),
		Count:      count,
		Origin:     pos.Uint64(),
	}
	if shuffled {
		hdr.Flags |= flagShuffled
		hdr.Seed = seed
	}

	tw, err := newTableWriter(path, hdr)
	if err != nil {
		return err
	}

	leaves := forkjoin.Partition(part{s}, cfg.grain)
	starts := make([]uint64, len(leaves))
	var next uint64
	for i, leaf := range leaves {
		starts[i] = next
		next += leaf.Size()
	}

	err = forkjoin.Each(ctx, leaves, cfg.workers, func(ctx context.Context, i int, leaf part) error {
		rec := starts[i]
		for e := range leaf.seq.All() {
			encoding.PutRecord(tw.record(rec), e)
			rec++
			if (rec-starts[i])%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return errors.Join(err, tw.abort())
	}

	if err := tw.finalize(); err != nil {
		return errors.Join(err, os.Remove(path))
	}
	return nil
}
