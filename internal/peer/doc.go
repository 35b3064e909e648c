// Package peer implements the peer forwarder: a short-lived connection to
// another worker used to resolve a single-term sub-query that this worker
// does not own.
//
// Every forwarded sub-query opens a fresh connection and closes it before
// returning — the C original's fire-and-forget model is kept deliberately
// rather than pooling peer connections.
package peer
