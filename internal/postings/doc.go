// Package postings implements the binary postings reader: it walks a
// contiguous byte region as a stream of (key, value-array) entries
// addressed by byte offset. The region itself is never copied; each
// accessor decodes the key or values it returns into fresh memory.
//
// On-disk / in-memory layout of one entry:
//
//	<key bytes><NUL><zero padding to next 4-byte boundary><int32 len><len uint32 values>
//
// Entries are concatenated with no separator; a partition is the
// concatenation of entries in ascending key order.
package postings
