// Package tcp implements transport.Connection over a plain net.Conn,
// framing FIX messages by scanning for the trailing CheckSum(10) field the
// same way a real FIX engine delimits frames (8=...|9=len|...|10=ccc|),
// generalizing the net.Listen/Accept loop in the teacher's cluster.Node.
package tcp

import (
	"bufio"
	"net"

	"github.com/quantrail/fixcore/transport"
)

const soh = '\x01'

// trailer is the byte sequence that starts the final tag of a frame.
var trailer = []byte{soh, '1', '0', '='}

// Connection wraps a net.Conn as a transport.Connection.
type Connection struct {
	conn net.Conn
	r    *bufio.Reader
}

// New wraps an already-established net.Conn.
func New(conn net.Conn) *Connection {
	return &Connection{conn: conn, r: bufio.NewReaderSize(conn, 4096)}
}

// Dial connects to addr and wraps the resulting connection.
func Dial(addr string) (*Connection, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Read scans the stream for one complete FIX frame: it accumulates bytes
// until it sees the CheckSum(10) trailer followed by three digits and a
// terminating SOH.
func (c *Connection) Read() ([]byte, error) {
	var buf []byte
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			return nil, joinDisconnect(err)
		}
		buf = append(buf, b)
		if hasCompleteTrailer(buf) {
			return buf, nil
		}
	}
}

// hasCompleteTrailer checks whether buf ends in SOH "10=" ddd SOH, i.e. the
// last 8 bytes are exactly the trailer, three checksum digits, and SOH.
func hasCompleteTrailer(buf []byte) bool {
	want := len(trailer) + 3 + 1 // trailer + 3 digits + final SOH
	n := len(buf)
	if n < want {
		return false
	}
	if buf[n-1] != soh {
		return false
	}
	start := n - want
	for i, b := range trailer {
		if buf[start+i] != b {
			return false
		}
	}
	for i := start + len(trailer); i < n-1; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			return false
		}
	}
	return true
}

func joinDisconnect(err error) error {
	if err != nil {
		return transport.ErrDisconnected
	}
	return nil
}

// Write sends frame as-is; FIX frames are already self-delimited.
func (c *Connection) Write(frame []byte) error {
	_, err := c.conn.Write(frame)
	return err
}

func (c *Connection) Close() error {
	return c.conn.Close()
}

var _ transport.Connection = (*Connection)(nil)
