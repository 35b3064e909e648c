// Command worker is one partition server in the distributed inverted-index
// search service: it receives its slice of the postings database from the
// supervisor over the digest protocol, builds a local hash index over it,
// and then answers single- and two-term queries on a pre-opened listening
// socket, forwarding terms it does not own to the peer that does.
//
// It is never invoked directly by an operator; cmd/supervisor spawns one
// worker per partition and hands it a listening socket as file descriptor
// 3 (the Go replacement for the original's fork()-shared listen_fd, see
// the process model described in cmd/supervisor) plus its configuration
// on argv:
//
//	worker <node_id> <num_nodes> <parent_addr> <checksum_key_hex> <ports_csv>
//
// ports_csv lists every node's listening port, in node-id order, so the
// worker can build its routing table without a second round trip.
package main

import (
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dreamware/pedsort/internal/bootstrap"
	"github.com/dreamware/pedsort/internal/config"
	"github.com/dreamware/pedsort/internal/dispatcher"
	"github.com/dreamware/pedsort/internal/hashindex"
	"github.com/dreamware/pedsort/internal/peer"
	"github.com/dreamware/pedsort/internal/resultcache"
	"github.com/dreamware/pedsort/internal/routing"
	"github.com/dreamware/pedsort/internal/workerpool"
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

func main() {
	if len(os.Args) != 6 {
		logFatal("usage: %s <node_id> <num_nodes> <parent_addr> <checksum_key_hex> <ports_csv>\n", os.Args[0])
	}

	nodeID, err := strconv.Atoi(os.Args[1])
	if err != nil {
		logFatal("invalid node_id %q: %v", os.Args[1], err)
	}
	numNodes, err := strconv.Atoi(os.Args[2])
	if err != nil {
		logFatal("invalid num_nodes %q: %v", os.Args[2], err)
	}
	parentAddr := os.Args[3]

	key, err := bootstrap.ParseKey(os.Args[4])
	if err != nil {
		logFatal("invalid checksum key: %v", err)
	}

	routes, err := buildRoutes(os.Args[5])
	if err != nil {
		logFatal("invalid ports: %v", err)
	}
	if routes.Len() != numNodes {
		logFatal("ports_csv lists %d nodes, want %d", routes.Len(), numNodes)
	}

	lnFile := os.NewFile(uintptr(3), "listener")
	ln, err := net.FileListener(lnFile)
	if err != nil {
		logFatal("reconstruct listener from fd 3: %v", err)
	}
	lnFile.Close()

	region, err := bootstrap.RequestPartition(nil, parentAddr, nodeID, key)
	if err != nil {
		logFatal("bootstrap: %v", err)
	}

	idx, err := hashindex.Build(region)
	if err != nil {
		logFatal("build hash index: %v", err)
	}

	tuning, err := config.LoadEnv(config.Default())
	if err != nil {
		logFatal("config: %v", err)
	}
	if err := tuning.Validate(); err != nil {
		logFatal("config: %v", err)
	}

	ctx := &dispatcher.WorkerContext{
		SelfID:    nodeID,
		Region:    region,
		Index:     idx,
		Cache:     resultcache.NewWithCapacity(tuning.CacheCapacity),
		Routes:    routes,
		Forwarder: peer.New(),
		Stats:     &dispatcher.Stats{},
	}
	d := dispatcher.New(ctx)

	pool := workerpool.New(d.Handle, tuning.QueueSize)
	pool.Start(tuning.NumThreads)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Printf("node %d: shutting down", nodeID)
		ln.Close()
	}()

	log.Printf("node %d: serving a %d-byte partition", nodeID, len(region))
	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("node %d: accept stopped: %v", nodeID, err)
			break
		}
		pool.Submit(conn)
	}
	pool.Close()
}

func buildRoutes(csv string) (*routing.Table, error) {
	fields := strings.Split(csv, ",")
	nodes := make([]routing.Node, len(fields))
	for i, f := range fields {
		port, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		nodes[i] = routing.Node{ID: i, Port: port}
	}
	return routing.NewTable(nodes)
}
