// Package pipe provides an in-process transport.Connection pair over
// net.Pipe, for exercising the full ingress/egress pipeline over a real
// transport.Connection without opening a socket. The engine package's own
// tests use a channel-backed double instead.
package pipe

import (
	"net"

	"github.com/quantrail/fixcore/transport/tcp"
)

// New returns two connected transport.Connection endpoints.
func New() (*tcp.Connection, *tcp.Connection) {
	a, b := net.Pipe()
	return tcp.New(a), tcp.New(b)
}
