package bootstrap

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"

	"github.com/dreamware/pedsort/internal/partition"
	"github.com/dreamware/pedsort/internal/postings"
)

// requestLineLen is the read buffer size for a digest request line,
// matching node.c's REQUESTLINELEN for the same phase. A longer line is
// still read whole (and then rejected as an invalid node id).
const requestLineLen = 128

// invalidRequestPayload is the literal reply body for a malformed or
// out-of-range node id request.
const invalidRequestPayload = "Invalid Request.\n"

// Server answers digest requests from worker subprocesses, handing each
// one its partition of db. It is used exactly once per worker and then
// discarded: "the parent unmaps the database" once every
// node has been served.
type Server struct {
	DB         postings.Region
	TotalNodes int
	Key        Key
}

// Serve accepts exactly TotalNodes connections on ln and answers each
// one's digest request. A malformed or out-of-range request still
// consumes one of the TotalNodes slots (the original's parent_serve never
// checks parent_handle_request's return value either), so Serve only
// returns early on an Accept failure; individual handle errors are logged
// and the loop keeps going until every worker has been served.
func (s *Server) Serve(ln net.Listener) error {
	for served := 0; served < s.TotalNodes; served++ {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("bootstrap: accept: %w", err)
		}
		err = s.handle(conn)
		conn.Close()
		if err != nil {
			log.Printf("bootstrap: digest request: %v", err)
		}
	}
	return nil
}

// handle answers a single digest request: a node id line in, a size line,
// a checksum line, and the raw partition bytes out. An invalid node id
// gets the literal "Invalid Request.\n" payload in place of the partition,
// with the length and checksum lines reflecting that payload.
func (s *Server) handle(conn net.Conn) error {
	r := bufio.NewReaderSize(conn, requestLineLen)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("bootstrap: read request: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")

	nodeID, err := strconv.Atoi(line)
	if err != nil || nodeID < 0 || nodeID >= s.TotalNodes {
		payload := []byte(invalidRequestPayload)
		sum := checksum(s.Key, payload)
		if _, werr := fmt.Fprintf(conn, "%d\n%016x\n", len(payload), sum); werr != nil {
			return fmt.Errorf("bootstrap: write invalid-request header: %w", werr)
		}
		if _, werr := conn.Write(payload); werr != nil {
			return fmt.Errorf("bootstrap: write invalid-request payload: %w", werr)
		}
		return fmt.Errorf("bootstrap: invalid node id request %q", line)
	}

	part, err := partition.Slice(s.DB, s.TotalNodes, nodeID)
	if err != nil {
		return fmt.Errorf("bootstrap: slice partition for node %d: %w", nodeID, err)
	}

	sum := checksum(s.Key, part)
	if _, err := fmt.Fprintf(conn, "%d\n%016x\n", len(part), sum); err != nil {
		return fmt.Errorf("bootstrap: write header: %w", err)
	}
	if _, err := conn.Write(part); err != nil {
		return fmt.Errorf("bootstrap: write partition: %w", err)
	}
	return nil
}
