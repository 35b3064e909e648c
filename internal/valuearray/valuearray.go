package valuearray

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrNoComma is returned by Parse when the input contains no comma, mirroring
// the C original's NULL return from create_value_array: a string with no
// comma carries no values at all and cannot be a well-formed entry string.
var ErrNoComma = errors.New("valuearray: no comma in entry string")

// Parse converts the string form of a postings entry — "<key>,<v0>,...,<vL-1>"
// optionally terminated by a newline — into its values. Only the portion
// after the first comma is interpreted; the key itself is discarded.
//
// Parse returns ErrNoComma if s contains no comma at all. An empty value
// list (a bare trailing comma or nothing after it) yields a non-nil, empty
// slice rather than an error.
func Parse(s string) ([]uint32, error) {
	s = strings.TrimRight(s, "\r\n")
	idx := strings.IndexByte(s, ',')
	if idx < 0 {
		return nil, ErrNoComma
	}

	rest := s[idx+1:]
	if rest == "" {
		return []uint32{}, nil
	}

	fields := strings.Split(rest, ",")
	out := make([]uint32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, err
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

// Intersect computes the set intersection of a and b, which must both be
// ascending (non-decreasing); duplicates within either input are collapsed.
// The result is ascending with no duplicates.
//
// This follows the reference scanning policy from the C original's
// get_intersection: for each element of a, skip it if it equals its
// predecessor (dedupe a in place), then scan forward through b while
// b[j] <= a[i], recording a match and stopping at the first one (which
// also skips duplicates in b).
func Intersect(a, b []uint32) []uint32 {
	out := make([]uint32, 0, minInt(len(a), len(b)))
	j := 0
	for i := 0; i < len(a); i++ {
		if i > 0 && a[i] == a[i-1] {
			continue
		}
		for j < len(b) && b[j] <= a[i] {
			if b[j] == a[i] {
				out = append(out, a[i])
				j++
				break
			}
			j++
		}
	}
	return out
}

// ToString renders values as ",v0,v1,...,vL-1\n" — every value, including
// the first, is comma-prefixed, matching value_array_to_str in the C
// original.
func ToString(values []uint32) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	b.WriteByte('\n')
	return b.String()
}

// Dedup returns a copy of an ascending slice with adjacent duplicates
// removed. Exposed for tests that want to state the invariant
// intersect(a,a) == unique(a) without duplicating the skip logic above.
func Dedup(values []uint32) []uint32 {
	out := make([]uint32, 0, len(values))
	for i, v := range values {
		if i > 0 && v == values[i-1] {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Sorted reports whether values is in non-decreasing order, using
// slices.IsSorted (golang.org/x/exp/slices) rather than a hand-rolled loop.
func Sorted(values []uint32) bool {
	return slices.IsSorted(values)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
