// Package resultcache implements the concurrent, fixed-capacity result
// cache: a reader-writer-disciplined key/value store with clock (second
// chance) eviction, used to memoize postings fetched from peer workers.
//
// Readers take priority per the classic first-in/last-out
// admission scheme: the first concurrent reader blocks writers, the last
// concurrent reader unblocks them, and writers never interleave with any
// active reader. This accepts writer starvation under sustained read load
// as a deliberate tradeoff, not an oversight.
package resultcache
