// Package workerpool implements the bounded producer-consumer handoff from
// the accept loop to a fixed set of request-handler goroutines.
//
// The accept loop is the sole producer; NumThreads long-running goroutines
// are the sole consumers. Ordering is FIFO with no priorities; there is no
// cancellation — handlers run for process lifetime, accepting that a
// stalled peer can block a handler indefinitely.
package workerpool
