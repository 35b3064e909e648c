// Package partition slices a sorted postings region into the contiguous
// byte range owned by one worker, per the digest phase (the
// supervisor-side half of get_partition in the original).
package partition
