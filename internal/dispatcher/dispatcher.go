package dispatcher

import (
	"bufio"
	"io"
	"log"
	"net"
	"strings"

	"github.com/dreamware/pedsort/internal/hashindex"
	"github.com/dreamware/pedsort/internal/peer"
	"github.com/dreamware/pedsort/internal/postings"
	"github.com/dreamware/pedsort/internal/resultcache"
	"github.com/dreamware/pedsort/internal/routing"
	"github.com/dreamware/pedsort/internal/valuearray"
)

// MaxRequestLen bounds a single request line
const MaxRequestLen = 128

// PeerHost is the loopback host every worker listens on's
// HOSTNAME constant in the original.
const PeerHost = "127.0.0.1"

// WorkerContext bundles the components a single worker process needs to
// answer queries: its local partition and hash index (read-only for
// process lifetime once bootstrap completes), the routing table (also
// read-only), a result cache for peer-fetched entries, and a forwarder for
// reaching peers. Constructing one WorkerContext and threading it to every
// handler goroutine replaces the C original's process-wide globals, per
// the "global mutable state" design note.
type WorkerContext struct {
	SelfID    int
	Region    postings.Region
	Index     *hashindex.Index
	Cache     *resultcache.Cache
	Routes    *routing.Table
	Forwarder *peer.Forwarder
	Stats     *Stats
}

// Dispatcher resolves request lines against a WorkerContext and writes
// reply lines back to the client
type Dispatcher struct {
	ctx *WorkerContext
}

// New returns a Dispatcher bound to ctx.
func New(ctx *WorkerContext) *Dispatcher {
	return &Dispatcher{ctx: ctx}
}

// Handle services one accepted connection until the client closes its
// write half or sends an oversize/empty line, then closes conn. Multiple
// requests may be pipelined on one connection; each is answered in the
// order received, with no cross-connection serialization promised.
func (d *Dispatcher) Handle(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReaderSize(conn, MaxRequestLen)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF || line == "" {
				return
			}
			// Fall through: a final unterminated line is still processed,
			// matching the original's tolerance of a short final read.
		}
		if len(line) > MaxRequestLen {
			return
		}

		key := strings.TrimRight(line, "\r\n")
		if key == "" {
			return
		}
		if d.ctx.Stats != nil {
			d.ctx.Stats.requests.Add(1)
		}

		reply := d.dispatch(key)
		if _, err := conn.Write([]byte(reply)); err != nil {
			return
		}

		if err != nil { // the trailing unterminated-line case above
			return
		}
	}
}

// dispatch parses one request line (already stripped of its trailing
// newline) and produces the full reply line, including its terminating LF.
func (d *Dispatcher) dispatch(line string) string {
	if idx := strings.IndexByte(line, ' '); idx >= 0 {
		return d.resolveTwo(line[:idx], line[idx+1:])
	}
	return d.resolveOneReply(line)
}

// resolveOne resolves a single term: local lookup, then cache, then peer
// forward, caching a successful peer result before returning it. The
// returned string is the full entry line
// "<key>,<v0>,...\n" (including trailing LF), or ("", false) if the key is
// nowhere to be found.
func (d *Dispatcher) resolveOne(key string) (string, bool) {
	if off, ok := d.ctx.Index.Find(key); ok {
		if d.ctx.Stats != nil {
			d.ctx.Stats.localHits.Add(1)
		}
		return d.ctx.Region.EntryToString(off), true
	}

	if v, ok := d.ctx.Cache.Lookup(key); ok {
		if d.ctx.Stats != nil {
			d.ctx.Stats.cacheHits.Add(1)
		}
		return v, true
	}

	owner := d.ctx.Routes.Owner(key)
	if owner == d.ctx.SelfID {
		if d.ctx.Stats != nil {
			d.ctx.Stats.misses.Add(1)
		}
		return "", false
	}

	port, ok := d.ctx.Routes.Port(owner)
	if !ok {
		if d.ctx.Stats != nil {
			d.ctx.Stats.misses.Add(1)
		}
		return "", false
	}

	reply, found := d.ctx.Forwarder.Forward(PeerHost, port, key)
	if !found {
		if d.ctx.Stats != nil {
			d.ctx.Stats.misses.Add(1)
		}
		return "", false
	}
	if d.ctx.Stats != nil {
		d.ctx.Stats.peerFetches.Add(1)
	}

	line := reply + "\n"
	d.ctx.Cache.Insert(key, line)
	return line, true
}

// resolveOneReply renders resolveOne's result as the single-term reply
// format.
func (d *Dispatcher) resolveOneReply(key string) string {
	if entry, ok := d.resolveOne(key); ok {
		return entry
	}
	return key + " not found\n"
}

// resolveTwo resolves a two-term query: both present intersects their
// value arrays, either missing reports the missing one(s) as not found.
func (d *Dispatcher) resolveTwo(k1, k2 string) string {
	e1, ok1 := d.resolveOne(k1)
	e2, ok2 := d.resolveOne(k2)

	switch {
	case !ok1 && !ok2:
		return k1 + " " + k2 + " not found\n"
	case !ok1:
		return k1 + " not found\n"
	case !ok2:
		return k2 + " not found\n"
	}

	v1, err := valuearray.Parse(e1)
	if err != nil {
		log.Printf("dispatcher: parse %q: %v", e1, err)
		return k1 + " " + k2 + " not found\n"
	}
	v2, err := valuearray.Parse(e2)
	if err != nil {
		log.Printf("dispatcher: parse %q: %v", e2, err)
		return k1 + " " + k2 + " not found\n"
	}

	if d.ctx.Stats != nil {
		d.ctx.Stats.intersectOps.Add(1)
	}
	inter := valuearray.Intersect(v1, v2)
	return k1 + "," + k2 + valuearray.ToString(inter)
}
