package idset

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// MaxBitsetID bounds the id range a BitsetSet will back with a dense
// memory-mapped bitmap (one bit per id): ids above this are rejected by
// NewBitsetSet rather than silently allocating an enormous sparse file.
// 20 billion ids is comfortably above any real OSM id as of this writing,
// mirroring the same kind of bound the teacher's internal/nodeindex
// mmap index applies to node ids.
const MaxBitsetID = 20_000_000_000

// BitsetSet is a dense, memory-mapped bitset keyed directly by id. It
// backs large file-sourced id lists (internal/filter/intlist.go) the way
// the teacher's internal/nodeindex.MmapIndex backs large node-coordinate
// lookups: a sparse on-disk file, mapped once, giving O(1) Insert/Has
// without holding every id as a Go map entry.
type BitsetSet struct {
	file  *os.File
	mm    mmap.MMap
	maxID uint64
	count int
}

// NewBitsetSet creates (or truncates) a backing file at path sized to
// hold bits for ids in [0, maxID].
func NewBitsetSet(path string, maxID uint64) (*BitsetSet, error) {
	if maxID > MaxBitsetID {
		return nil, fmt.Errorf("idset: id %d exceeds bitset bound %d", maxID, MaxBitsetID)
	}
	size := int64(maxID/8) + 1

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("idset: create backing file: %w", err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("idset: size backing file: %w", err)
	}

	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("idset: mmap backing file: %w", err)
	}

	return &BitsetSet{file: f, mm: m, maxID: maxID}, nil
}

func (s *BitsetSet) Insert(id uint64) {
	if id > s.maxID {
		return
	}
	byteIdx := id / 8
	bit := byte(1 << (id % 8))
	if s.mm[byteIdx]&bit == 0 {
		s.mm[byteIdx] |= bit
		s.count++
	}
}

func (s *BitsetSet) Has(id uint64) bool {
	if id > s.maxID {
		return false
	}
	return s.mm[id/8]&byte(1<<(id%8)) != 0
}

func (s *BitsetSet) Len() int { return s.count }

// Close unmaps and removes the backing file; the bitset is scratch
// storage rebuilt fresh from the source file on every run.
func (s *BitsetSet) Close() error {
	if err := s.mm.Unmap(); err != nil {
		s.file.Close()
		return err
	}
	if err := s.file.Close(); err != nil {
		return err
	}
	return os.Remove(s.file.Name())
}
