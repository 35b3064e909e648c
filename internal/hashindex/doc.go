// Package hashindex implements the open-addressed hash index: a fixed
// capacity table mapping key strings to byte offsets into a postings.Region,
// built once after a partition is received and read-only thereafter.
//
// Slots are located with double hashing: a polynomial string hash h(k) =
// sum(33*prev + c), primary slot h mod M, probe step 1 + (h mod (M-1)).
package hashindex
