// Package dispatcher implements the request dispatcher: parsing a request
// line, resolving it locally, via the result cache, or via peer
// forwarding, and producing the reply line.
//
// A Dispatcher is constructed once per worker process from the components
// built during bootstrap (the local postings region and hash index, the
// routing table, the result cache, and a peer forwarder) and then handles
// every accepted connection, potentially pipelining multiple requests per
// connection until the peer closes its write half.
package dispatcher
