// Command supervisor is the control-plane process of the distributed
// inverted-index search service. It loads an alphabetically sorted
// postings database, partitions it across 1-8 worker processes, spawns one
// worker per partition, and answers each worker's digest request for its
// slice of the database before waiting for the workers to exit.
//
// Usage:
//
//	supervisor [flags] <num_nodes> <starting_port> <db_file>
//
// num_nodes must be between 1 and 8 inclusive. starting_port is the first
// port probed for the supervisor's own digest-phase listener; each worker
// is then given the next free port after the one before it, exactly as
// get_listenfd does in the original. db_file must contain postings entries
// sorted ascending by key (the format, validated once at load
// time).
//
// The original C implementation shares the mmap'd database and every
// listening socket with its child nodes via fork()'s copy-on-write
// semantics. This module has no such primitive, so it replaces fork()
// with os/exec.Command and hands each worker its own listening socket as
// file descriptor 3 via Cmd.ExtraFiles — the Go-native equivalent of
// inheriting an open file descriptor across a fork, described in
// the process model described above.
package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/dreamware/pedsort/internal/bootstrap"
	"github.com/dreamware/pedsort/internal/config"
	"github.com/dreamware/pedsort/internal/postings"
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

// maxPortNum mirrors MAX_PORTNUM from the original's utils.h.
const maxPortNum = 65535

func main() {
	configPath := pflag.String("config", "", "path to a YAML tuning overrides file")
	workerBin := pflag.String("worker-bin", "", "path to the worker binary (default: alongside this binary)")
	pflag.Parse()

	numNodes, startPort, dbFile, err := parseArgs(pflag.Args())
	if err != nil {
		logFatal("%v", err)
	}

	tuning := config.Default()
	if *configPath != "" {
		tuning, err = config.LoadFile(tuning, *configPath)
		if err != nil {
			logFatal("config: %v", err)
		}
	}
	tuning, err = config.LoadEnv(tuning)
	if err != nil {
		logFatal("config: %v", err)
	}
	if err := tuning.Validate(); err != nil {
		logFatal("config: %v", err)
	}

	db, unmap, err := mmapFile(dbFile)
	if err != nil {
		logFatal("load database: %v", err)
	}
	if err := db.Validate(); err != nil {
		logFatal("database %s: %v", dbFile, err)
	}

	parentLn, parentPort, err := getListener(startPort)
	if err != nil {
		logFatal("allocate digest listener: %v", err)
	}

	ports := make([]int, numNodes)
	workerLns := make([]*net.TCPListener, numNodes)
	nextPort := parentPort
	for n := 0; n < numNodes; n++ {
		nextPort++
		ln, port, err := getListener(nextPort)
		if err != nil {
			logFatal("allocate listener for node %d: %v", n, err)
		}
		workerLns[n] = ln
		ports[n] = port
		nextPort = port
	}

	key, err := bootstrap.NewKey()
	if err != nil {
		logFatal("generate checksum key: %v", err)
	}

	bin := *workerBin
	if bin == "" {
		bin = defaultWorkerBin()
	}

	portsCSV := joinInts(ports)
	env := append(os.Environ(), tuningEnv(tuning)...)

	procs := make([]*os.Process, 0, numNodes)
	for n := 0; n < numNodes; n++ {
		lnFile, err := workerLns[n].File()
		if err != nil {
			logFatal("dup listener for node %d: %v", n, err)
		}

		args := []string{
			strconv.Itoa(n),
			strconv.Itoa(numNodes),
			parentLn.Addr().String(),
			key.String(),
			portsCSV,
		}
		cmd := exec.Command(bin, args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Env = env
		cmd.ExtraFiles = []*os.File{lnFile}

		if err := cmd.Start(); err != nil {
			logFatal("spawn node %d: %v", n, err)
		}
		lnFile.Close()
		workerLns[n].Close()

		fmt.Fprintf(os.Stderr, "NODE %d [PID: %d] listening on port %d\n", n, cmd.Process.Pid, ports[n])
		procs = append(procs, cmd.Process)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		for _, p := range procs {
			p.Signal(syscall.SIGTERM)
		}
	}()

	srv := &bootstrap.Server{DB: db, TotalNodes: numNodes, Key: key}
	if err := srv.Serve(parentLn); err != nil {
		log.Printf("digest phase: %v", err)
	}
	parentLn.Close()
	if err := unmap(); err != nil {
		log.Printf("unmap database: %v", err)
	}

	for _, p := range procs {
		state, err := p.Wait()
		if err != nil {
			log.Printf("process %d: wait error: %v", p.Pid, err)
			continue
		}
		log.Printf("process %d terminated with exit status %d", p.Pid, state.ExitCode())
	}
}

// parseArgs validates the three mandatory positional arguments, per the
// original's main()'s usage checks.
func parseArgs(args []string) (numNodes, startPort int, dbFile string, err error) {
	if len(args) != 3 {
		return 0, 0, "", fmt.Errorf("usage: supervisor [flags] <num_nodes> <starting_port> <db_file>")
	}
	numNodes, err = strconv.Atoi(args[0])
	if err != nil || numNodes < 1 || numNodes > 8 {
		return 0, 0, "", fmt.Errorf("invalid node number given")
	}
	startPort, err = strconv.Atoi(args[1])
	if err != nil || startPort < 1024 || startPort >= maxPortNum-numNodes {
		return 0, 0, "", fmt.Errorf("invalid starting port given")
	}
	return numNodes, startPort, args[2], nil
}

// getListener tries successive ports starting at start until one binds,
// mirroring get_listenfd's linear probe, and returns the port it bound.
func getListener(start int) (*net.TCPListener, int, error) {
	for port := start; port < maxPortNum; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			tcpLn := ln.(*net.TCPListener)
			return tcpLn, tcpLn.Addr().(*net.TCPAddr).Port, nil
		}
	}
	return nil, 0, fmt.Errorf("no free port found at or above %d", start)
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func tuningEnv(t config.Tuning) []string {
	return []string{
		fmt.Sprintf("PEDSORT_CACHE_CAPACITY=%d", t.CacheCapacity),
		fmt.Sprintf("PEDSORT_QUEUE_SIZE=%d", t.QueueSize),
		fmt.Sprintf("PEDSORT_NUM_THREADS=%d", t.NumThreads),
	}
}

func defaultWorkerBin() string {
	self, err := os.Executable()
	if err != nil {
		return "worker"
	}
	return strings.Replace(self, "supervisor", "worker", 1)
}

// mmapFile read-only maps path into memory and returns it as a
// postings.Region along with a function to unmap it, grounded on
// opencoff-go-bbhash's mmap.go (syscall.Mmap/Munmap directly, no
// third-party mmap wrapper known to the pack handles read-only whole-file
// mapping more simply than this).
func mmapFile(path string) (postings.Region, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size == 0 {
		return postings.Region{}, func() error { return nil }, nil
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	unmap := func() error { return syscall.Munmap(data) }
	return postings.Region(data), unmap, nil
}
