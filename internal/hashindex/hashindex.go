package hashindex

import (
	"fmt"

	"github.com/dreamware/pedsort/internal/postings"
)

// NumBuckets is the fixed table capacity, chosen prime for double hashing.
// It exceeds the maximum realistic entry count of a single-character
// partition by a comfortable margin.
const NumBuckets = 8191

// emptySlot marks a bucket as unoccupied. Entry offset 0 is a valid offset
// (the very first entry of a partition), so occupancy is tracked with a
// separate sentinel rather than overloading offset 0.
const emptySlot = -1

// Index is an open-addressed hash table over a postings.Region, mapping
// each entry's key to the byte offset where that entry begins. Built once
// by Build and read-only (lock-free) thereafter.
type Index struct {
	region  postings.Region
	offsets [NumBuckets]int32
}

// Build scans every entry in region and inserts its offset into a fresh
// Index. It returns an error — fatal at the caller — if the region is
// malformed or if the table cannot accommodate every entry (which should
// not occur given NumBuckets's sizing margin).
func Build(region postings.Region) (*Index, error) {
	idx := &Index{region: region}
	for i := range idx.offsets {
		idx.offsets[i] = emptySlot
	}

	off := region.FirstEntry()
	for off >= 0 && off < len(region) {
		key := region.KeyOf(off)
		slot, err := idx.probeInsert(key)
		if err != nil {
			return nil, fmt.Errorf("hashindex: build: %w", err)
		}
		idx.offsets[slot] = int32(off)

		next, err := region.NextEntry(off)
		if err != nil {
			return nil, fmt.Errorf("hashindex: build: %w", err)
		}
		off = next
	}
	return idx, nil
}

// Find returns the offset of the entry whose key equals key, and true, or
// (0, false) if no such entry exists. Probing stops after NumBuckets slots
// without success.
func (idx *Index) Find(key string) (int, bool) {
	h, step := probe(key)
	for i := 0; i < NumBuckets; i++ {
		off := idx.offsets[h]
		if off == emptySlot {
			return 0, false
		}
		if idx.region.KeyOf(int(off)) == key {
			return int(off), true
		}
		h = (h + step) % NumBuckets
	}
	return 0, false
}

// probeInsert finds the first empty slot for key under double hashing and
// returns its index, or an error if the table is full.
func (idx *Index) probeInsert(key string) (int, error) {
	h, step := probe(key)
	for i := 0; i < NumBuckets; i++ {
		if idx.offsets[h] == emptySlot {
			return h, nil
		}
		h = (h + step) % NumBuckets
	}
	return 0, fmt.Errorf("hash table full at %d buckets", NumBuckets)
}

// probe computes the primary slot and probe step for key using the
// polynomial hash h(k) = sum(33*prev + c), matching lookup_insert and
// lookup_find in the C original bit for bit.
func probe(key string) (primary, step int) {
	var k uint32
	for i := 0; i < len(key); i++ {
		k = k*33 + uint32(key[i])
	}
	primary = int(k % NumBuckets)
	step = 1 + int(k%(NumBuckets-1))
	return primary, step
}
