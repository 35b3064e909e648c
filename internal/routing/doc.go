// Package routing implements the key ownership function and the immutable
// routing table broadcast to every worker before it starts serving.
//
// Ownership of a key is a pure function of its first byte: the key space
// ['0', 'z'] is divided into N contiguous, equal-width bands (the last band
// absorbing any remainder), and a key belongs to the band its first byte
// falls into.
package routing
