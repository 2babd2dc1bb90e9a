// Package transport declares the Connection collaborator (spec.md section
// 6.3): a byte transport that delivers exactly one framed FIX message per
// Read and accepts one framed message per Write. engine.SessionCore treats
// Connection as an opaque blocking I/O boundary; the tcp and ws
// subpackages are reference implementations.
package transport

import "errors"

// ErrDisconnected is returned by Read when the peer has closed the
// connection or it has otherwise become unusable.
var ErrDisconnected = errors.New("transport: disconnected")

// Connection is the external byte-transport collaborator.
type Connection interface {
	// Read blocks until exactly one FIX frame is available, or returns
	// ErrDisconnected.
	Read() ([]byte, error)
	// Write sends one FIX frame.
	Write(frame []byte) error
	// Close releases the underlying transport. Unblocks any pending Read.
	Close() error
}
