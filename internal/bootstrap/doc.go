// Package bootstrap implements the one-shot digest handshake between a
// worker and the supervisor: the worker connects once, asks for its
// partition by node id, and receives back a size line, a checksum line,
// and the raw partition bytes, the checksum line being this module's
// SipHash-2-4 integrity extension over the base protocol.
//
// Client (worker side) and Server (supervisor side) share this package
// because they are two ends of one tightly coupled protocol; splitting
// them would just move the wire-format knowledge into two places instead
// of one.
package bootstrap
