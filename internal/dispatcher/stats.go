package dispatcher

import "sync/atomic"

// Stats tracks simple operational counters for a worker, updated
// lock-free. Not part of the wire protocol; included as ambient
// observability in the style of shard.OperationStats, scaled down to the
// handful of counters this dispatcher can cheaply maintain.
type Stats struct {
	requests     atomic.Uint64
	localHits    atomic.Uint64
	cacheHits    atomic.Uint64
	peerFetches  atomic.Uint64
	misses       atomic.Uint64
	intersectOps atomic.Uint64
}

// Snapshot is a point-in-time copy of Stats suitable for logging or display.
type Snapshot struct {
	Requests     uint64
	LocalHits    uint64
	CacheHits    uint64
	PeerFetches  uint64
	Misses       uint64
	IntersectOps uint64
}

// Snapshot returns a copy of the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Requests:     s.requests.Load(),
		LocalHits:    s.localHits.Load(),
		CacheHits:    s.cacheHits.Load(),
		PeerFetches:  s.peerFetches.Load(),
		Misses:       s.misses.Load(),
		IntersectOps: s.intersectOps.Load(),
	}
}
