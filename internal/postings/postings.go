package postings

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dreamware/pedsort/internal/valuearray"
)

// ErrFormat indicates the byte region does not follow the entry layout
// documented in doc.go. It is fatal at build-index time:
// "any mismatch is a format error and is fatal."
var ErrFormat = errors.New("postings: malformed entry")

// alignment is the padding boundary for the zero-padded key field. The
// layout is defined in terms of int32 boundaries, so this is sizeof(int32).
const alignment = 4

// roundUp rounds n up to the next multiple of mult, which must be a power
// of two. Mirrors round_up() in the C original bit for bit.
func roundUp(n, mult int) int {
	return (n + (mult - 1)) &^ (mult - 1)
}

// Region is a read-only, mmap-backed (or plain in-memory) byte slice
// containing zero or more concatenated entries. The region itself is never
// copied or modified; KeyOf and ValuesOf return copies of the key and
// values they decode.
type Region []byte

// FirstEntry returns the offset of the first entry in the region, or -1 if
// the region is empty.
func (r Region) FirstEntry() int {
	if len(r) == 0 {
		return -1
	}
	return 0
}

// NextEntry advances past the entry starting at off and returns the offset
// of the following entry. It returns ErrFormat if the entry at off is
// truncated or otherwise inconsistent with the region's bounds.
func (r Region) NextEntry(off int) (int, error) {
	next, _, _, err := r.parseEntry(off)
	return next, err
}

// KeyOf returns the key of the entry starting at off. The string holds a
// copy of the key bytes; it is not a view into the region.
func (r Region) KeyOf(off int) string {
	nul := bytes.IndexByte(r[off:], 0)
	if nul < 0 {
		return ""
	}
	return string(r[off : off+nul])
}

// ValuesOf returns the postings values of the entry starting at off. The
// returned slice is freshly decoded and does not alias the region.
func (r Region) ValuesOf(off int) []uint32 {
	_, _, values, err := r.parseEntry(off)
	if err != nil {
		return nil
	}
	return values
}

// EntryToString renders the entry at off as "<key>,<v0>,<v1>,...,<vL-1>\n",
// matching entry_to_str in the C original (every value is comma-prefixed,
// including the first).
func (r Region) EntryToString(off int) string {
	key := r.KeyOf(off)
	values := r.ValuesOf(off)
	return key + valuearray.ToString(values)
}

// parseEntry decodes the entry at off, returning the offset of the entry
// that follows, the key, and the values. It is the single place that knows
// the on-disk layout; every exported accessor is built on top of it so the
// layout is only ever decoded in one spot.
func (r Region) parseEntry(off int) (next int, key string, values []uint32, err error) {
	if off < 0 || off >= len(r) {
		return 0, "", nil, fmt.Errorf("%w: offset %d out of range [0,%d)", ErrFormat, off, len(r))
	}

	nul := bytes.IndexByte(r[off:], 0)
	if nul < 0 {
		return 0, "", nil, fmt.Errorf("%w: key at offset %d has no terminator", ErrFormat, off)
	}
	key = string(r[off : off+nul])

	lenOff := off + roundUp(nul+1, alignment)
	if lenOff+4 > len(r) {
		return 0, "", nil, fmt.Errorf("%w: entry at offset %d truncated before length field", ErrFormat, off)
	}
	count := int32(binary.LittleEndian.Uint32(r[lenOff : lenOff+4]))
	if count < 0 {
		return 0, "", nil, fmt.Errorf("%w: entry at offset %d has negative length %d", ErrFormat, off, count)
	}

	valuesOff := lenOff + 4
	valuesEnd := valuesOff + int(count)*4
	if valuesEnd > len(r) {
		return 0, "", nil, fmt.Errorf("%w: entry at offset %d truncated in value array", ErrFormat, off)
	}

	values = make([]uint32, count)
	for i := 0; i < int(count); i++ {
		values[i] = binary.LittleEndian.Uint32(r[valuesOff+i*4 : valuesOff+i*4+4])
	}

	return valuesEnd, key, values, nil
}

// Validate walks every entry in the region from start to finish and
// confirms that iteration reaches exactly the region's end, with no
// trailing garbage after the final entry. Returns ErrFormat (wrapped) on
// the first inconsistency.
func (r Region) Validate() error {
	off := r.FirstEntry()
	for off >= 0 && off < len(r) {
		next, err := r.NextEntry(off)
		if err != nil {
			return err
		}
		if next <= off {
			return fmt.Errorf("%w: iteration did not advance at offset %d", ErrFormat, off)
		}
		off = next
	}
	if off != len(r) {
		return fmt.Errorf("%w: iteration ended at %d, want %d", ErrFormat, off, len(r))
	}
	return nil
}

// Encode appends one entry in the on-disk layout for key/values to buf and
// returns the extended slice. It is the inverse of parseEntry and is used
// by tests to build fixtures.
func Encode(buf []byte, key string, values []uint32) []byte {
	buf = append(buf, key...)
	buf = append(buf, 0)
	padded := roundUp(len(key)+1, alignment)
	for i := len(key) + 1; i < padded; i++ {
		buf = append(buf, 0)
	}

	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(values)))
	buf = append(buf, lenBytes[:]...)

	for _, v := range values {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf = append(buf, b[:]...)
	}
	return buf
}
