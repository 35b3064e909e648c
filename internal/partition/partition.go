package partition

import (
	"fmt"

	"github.com/dreamware/pedsort/internal/postings"
	"github.com/dreamware/pedsort/internal/routing"
)

// Slice returns the contiguous sub-region of db owned by nodeID out of
// totalNodes, assuming db's entries are sorted ascending by key. It walks
// entry boundaries rather than computing per-entry ownership, mirroring
// get_partition in the original: the first entry whose key falls at or
// above the node's band start begins the slice, and the slice ends at the
// first entry whose key reaches the next band's start — except for the
// last node, which absorbs every remaining entry regardless of its key, so
// that keys above 'z' (which should not occur) are never silently dropped.
func Slice(db postings.Region, totalNodes, nodeID int) (postings.Region, error) {
	if totalNodes < 1 || totalNodes > 8 {
		return nil, fmt.Errorf("partition: invalid totalNodes %d", totalNodes)
	}
	if nodeID < 0 || nodeID >= totalNodes {
		return nil, fmt.Errorf("partition: invalid nodeID %d for %d nodes", nodeID, totalNodes)
	}

	band := routing.KeySpace / totalNodes
	start := byte(nodeID*band) + '0'
	end := byte((nodeID+1)*band) + '0'
	last := nodeID == totalNodes-1

	off := db.FirstEntry()
	startOff := len(db)
	for off >= 0 && off < len(db) {
		key := db.KeyOf(off)
		if len(key) == 0 {
			return nil, fmt.Errorf("%w: empty key at offset %d", postings.ErrFormat, off)
		}
		if byte(key[0]) >= start {
			startOff = off
			break
		}
		next, err := db.NextEntry(off)
		if err != nil {
			return nil, err
		}
		off = next
	}

	endOff := len(db)
	off = startOff
	for off >= 0 && off < len(db) {
		key := db.KeyOf(off)
		if !last && byte(key[0]) >= end {
			endOff = off
			break
		}
		next, err := db.NextEntry(off)
		if err != nil {
			return nil, err
		}
		off = next
	}

	return db[startOff:endOff], nil
}
