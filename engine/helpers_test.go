package engine

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/quantrail/fixcore/fixwire"
	"github.com/quantrail/fixcore/fixwire/tagvalue"
	"github.com/quantrail/fixcore/session"
)

const testSOH = '\x01'

// manualClock is an injectable, test-advanceable time source so heartbeat
// scenarios never need a real sleep.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(start time.Time) *manualClock {
	return &manualClock{now: start}
}

func (m *manualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func testLoginParams(hbiSecs int) session.LoginParameters {
	return session.LoginParameters{
		RetryInterval:         time.Second,
		MaxRetries:            3,
		HeartbeatIntervalSecs: hbiSecs,
	}
}

// newTestCore builds a Core wired to a fakeConn, bypassing Start/ingressLoop
// so tests drive Process and heartbeatTick directly and deterministically.
func newTestCore(t *testing.T, id session.ID, acceptor bool, clock func() time.Time, opts ...Option) (*Core, *fakeConn) {
	t.Helper()
	codec := &tagvalue.Codec{BeginString: id.BeginString}
	md := &tagvalue.Metadata{BeginString: id.BeginString}

	allOpts := []Option{WithLoginParameters(testLoginParams(30)), WithClock(clock)}
	if acceptor {
		allOpts = append(allOpts, WithAcceptor())
	}
	allOpts = append(allOpts, opts...)

	c := New(id, codec, md, allOpts...)
	conn := newFakeConn()
	c.conn = conn
	return c, conn
}

// startInitiatorLogon replicates the initiator half of Start without
// spawning the ingress goroutine, so the test controls pacing.
func startInitiatorLogon(c *Core) {
	c.mu.Lock()
	_ = c.sendLogonLocked(c.login.ResetSequenceNumbers)
	c.sess.SetState(session.LogonSent)
	c.mu.Unlock()
}

// decodeWrite decodes the i'th frame fakeConn recorded using c's own codec.
func decodeWrite(t *testing.T, c *Core, conn *fakeConn, i int) fixwire.Message {
	t.Helper()
	msg, derr := c.codec.Decode(conn.writeAt(i))
	if derr != nil {
		t.Fatalf("decodeWrite(%d): %v", i, derr)
	}
	return msg
}

// buildFrame hand-assembles a raw tag=value frame the way a peer on the
// wire would, independent of tagvalue.Metadata (which only manufactures
// the seven admin types) so tests can also feed in application messages.
func buildFrame(beginString string, msgType fixwire.MsgType, seqnum uint64, sender, target string, sendingTime time.Time, extra map[int]string) []byte {
	body := &bytes.Buffer{}
	writeTestField(body, 35, string(msgType))
	writeTestField(body, 34, strconv.FormatUint(seqnum, 10))
	writeTestField(body, 49, sender)
	writeTestField(body, 56, target)
	writeTestField(body, 52, sendingTime.UTC().Format("20060102-15:04:05.000"))

	keys := make([]int, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		writeTestField(body, k, extra[k])
	}

	out := &bytes.Buffer{}
	writeTestField(out, 8, beginString)
	writeTestField(out, 9, strconv.Itoa(body.Len()))
	out.Write(body.Bytes())

	sum := 0
	for _, b := range out.Bytes() {
		sum += int(b)
	}
	sum %= 256
	writeTestField(out, 10, fmt.Sprintf("%03d", sum))
	return out.Bytes()
}

func writeTestField(buf *bytes.Buffer, tag int, value string) {
	buf.WriteString(strconv.Itoa(tag))
	buf.WriteByte('=')
	buf.WriteString(value)
	buf.WriteByte(testSOH)
}
