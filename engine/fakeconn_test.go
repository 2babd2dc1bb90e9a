package engine

import (
	"sync"

	"github.com/quantrail/fixcore/transport"
)

// fakeConn is a transport.Connection double that records every frame
// written to it and lets a test feed inbound frames on demand, used
// instead of a real socket or transport/pipe so scenario tests are
// deterministic and never block on goroutine scheduling.
type fakeConn struct {
	mu      sync.Mutex
	writes  [][]byte
	inbound chan []byte
	closed  bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan []byte, 16)}
}

func (f *fakeConn) Read() ([]byte, error) {
	b, ok := <-f.inbound
	if !ok {
		return nil, transport.ErrDisconnected
	}
	return b, nil
}

func (f *fakeConn) Write(frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return transport.ErrDisconnected
	}
	f.writes = append(f.writes, append([]byte(nil), frame...))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.inbound)
	}
	return nil
}

func (f *fakeConn) feed(b []byte) { f.inbound <- b }

func (f *fakeConn) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func (f *fakeConn) writeAt(i int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes[i]
}

var _ transport.Connection = (*fakeConn)(nil)
