// Package engine implements SessionCore, the FIX session state machine:
// the ingress pipeline (decode -> enforce -> dispatch -> apply), the
// egress pipeline (modify_outbound -> assign seqnum -> stamp -> serialize
// -> persist -> send), the heartbeat/test-request scheduler, the
// logon/logout handshake, and the resend/gap-fill subprotocol. It depends
// only on the collaborator interfaces declared in fixwire, transport,
// persist, and apphook — never on a concrete implementation.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pingcap/errors"

	"github.com/quantrail/fixcore/apphook"
	"github.com/quantrail/fixcore/fixwire"
	"github.com/quantrail/fixcore/obslog"
	"github.com/quantrail/fixcore/persist"
	"github.com/quantrail/fixcore/persist/memory"
	"github.com/quantrail/fixcore/scheduler"
	"github.com/quantrail/fixcore/session"
	"github.com/quantrail/fixcore/transport"
)

// Core is SessionCore: the single-writer state machine for one FIX
// session. All state-mutating handlers run under mu, satisfying the
// "no two handlers observe overlapping state mutations" contract without
// requiring a dedicated actor goroutine.
type Core struct {
	sess      *session.Session
	codec     fixwire.Codec
	metadata  fixwire.Metadata
	persister persist.Persister
	hook      apphook.Hook
	clock     func() time.Time

	login         session.LoginParameters
	controlFlags  *session.ControlFlags
	nonResendable map[fixwire.MsgType]bool
	initiator     bool
	testReqID     func() string

	conn transport.Connection

	mu             sync.Mutex
	pendingGap     fixwire.Message
	logonAttempts  int
	cancelHeartbeat scheduler.CancelFunc

	stopOnce sync.Once
	done     chan struct{}

	log *slog.Logger
}

// New constructs a Core for the session identified by id. By default it is
// an initiator with a fresh in-memory Persister and a no-op
// ApplicationHook; see the With* Options to change any of that.
func New(id session.ID, codec fixwire.Codec, metadata fixwire.Metadata, opts ...Option) *Core {
	c := &Core{
		codec:         codec,
		metadata:      metadata,
		persister:     memory.New(),
		hook:          apphook.DefaultHook(),
		clock:         time.Now,
		login:         session.DefaultLoginParameters(),
		nonResendable: defaultNonResendable(),
		initiator:     true,
		testReqID:     func() string { return uuid.New().String() },
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.hook = c.hook.Merge()
	c.sess = session.New(id, c.login)
	if c.controlFlags != nil {
		c.sess.Control = c.controlFlags
	}
	c.log = obslog.ForSession(id.String())
	c.recoverCursor()
	if !c.initiator {
		c.sess.SetState(session.WaitForLogon)
	}
	return c
}

// recoverCursor seeds the session's cursor from whatever the Persister has
// on file for this session ID, so a Core built against a durable store
// (e.g. cmd/fixsession run with --persist-dir) resumes mid-flight after a
// crash instead of restarting at 1,1 (spec.md section 1). A fresh
// in-memory Persister or a never-before-seen session ID leaves the
// defaults from session.New untouched.
func (c *Core) recoverCursor() {
	ctx := context.Background()
	id := c.sess.ID.String()
	if next, ok, err := c.persister.GetCursor(ctx, id, session.Send); err != nil {
		c.log.Error("failed to recover send cursor", "error", err)
	} else if ok {
		c.sess.Cursor.ResetSend(next)
	}
	if next, ok, err := c.persister.GetCursor(ctx, id, session.Receive); err != nil {
		c.log.Error("failed to recover receive cursor", "error", err)
	} else if ok {
		c.sess.Cursor.ResetReceive(next)
	}
}

// putCursorLocked persists dir's next sequence number, logging rather than
// failing the caller: a cursor-persist failure on the receive side in
// particular must not block the ingress pipeline from acknowledging a
// message it already dispatched.
func (c *Core) putCursorLocked(dir session.Direction, next uint64) {
	if err := c.persister.PutCursor(context.Background(), c.sess.ID.String(), dir, next); err != nil {
		c.log.Error("failed to persist cursor", "error", err, "direction", dir.String())
	}
}

// Session exposes the underlying data model for read-only inspection
// (admin control plane status queries, tests).
func (c *Core) Session() *session.Session { return c.sess }

// Start wires conn to the session: it announces the connection to the
// ApplicationHook, starts the heartbeat scheduler, sends the initial Logon
// if this Core is an initiator, and begins the ingress loop in the
// background. ctx bounds the ingress loop's lifetime in addition to Stop.
func (c *Core) Start(ctx context.Context, conn transport.Connection) error {
	c.conn = conn
	c.hook.OnConnect(c.sess.ID)
	c.startHeartbeatScheduler()

	if c.initiator {
		c.mu.Lock()
		err := c.sendLogonLocked(c.login.ResetSequenceNumbers)
		c.sess.SetState(session.LogonSent)
		c.mu.Unlock()
		if err != nil {
			return err
		}
	}

	go c.ingressLoop(ctx)
	return nil
}

// Send runs the egress pipeline on an application message the caller has
// already populated with body fields; header fields and persistence are
// the core's responsibility.
func (c *Core) Send(msg fixwire.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendProcessLocked(msg, false)
}

// Stop drives the session to session_terminated, sending a Logout first if
// the session was established. Idempotent.
func (c *Core) Stop() error {
	c.sess.Control.Set(session.FlagShutdown)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.State() == session.SessionTerminated {
		return nil
	}
	if c.sess.Established() {
		_ = c.sendLogoutLocked("normal termination")
	}
	c.terminateLocked(nil)
	return nil
}

// Done returns a channel closed once the session has terminated.
func (c *Core) Done() <-chan struct{} { return c.done }

func (c *Core) ingressLoop(ctx context.Context) {
	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			_ = c.Stop()
			return
		default:
		}

		raw, err := c.conn.Read()
		if err != nil {
			c.mu.Lock()
			c.terminateLocked(newError(KindConnectionError, err))
			c.mu.Unlock()
			return
		}
		if err := c.Process(ctx, raw); err != nil {
			c.log.Warn("inbound frame rejected", "error", err)
		}
	}
}

// Process runs the ingress pipeline on one raw frame: decode, enforce,
// dispatch, post-apply (spec.md section 4.1).
func (c *Core) Process(ctx context.Context, raw []byte) error {
	msg, derr := c.codec.Decode(raw)
	if derr != nil {
		return c.handleDecodeError(derr)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	ctx = obslog.WithLogger(ctx, c.log)
	c.logBoundaryLocked(ctx, "ingress", msg, raw)
	return c.processLocked(ctx, msg)
}

// logBoundaryLocked implements the FlagDebug/FlagPrint half of spec.md
// section 3's "checked at well-defined pipeline boundaries" (FlagShutdown
// is checked in heartbeatTick instead, since it only matters on the
// heartbeat/egress timer). FlagDebug traces every message crossing an
// ingress or egress boundary; FlagPrint additionally dumps the raw wire
// frame, mirroring a FIX engine's usual debug/print toggles.
func (c *Core) logBoundaryLocked(ctx context.Context, stage string, msg fixwire.Message, frame []byte) {
	if !c.sess.Control.Has(session.FlagDebug) {
		return
	}
	logger := obslog.FromContext(ctx)
	logger.Debug("pipeline boundary", "stage", stage, "seqnum", msg.SeqNum(), "type", msg.MsgType())
	if c.sess.Control.Has(session.FlagPrint) {
		logger.Debug("frame", "stage", stage, "raw", string(frame))
	}
}

func (c *Core) handleDecodeError(derr *fixwire.DecodeError) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if derr.Recoverable {
		c.generateRejectLocked(derr.Seqnum, "decode error: "+derr.Error())
		return nil
	}
	wrapped := newError(KindDecodeError, derr)
	c.terminateLocked(wrapped)
	return wrapped
}

func (c *Core) processLocked(ctx context.Context, msg fixwire.Message) error {
	if fieldBool(msg, tagResetSeqNumFlag) && msg.MsgType() == fixwire.MsgTypeLogon {
		return c.processLogonResetLocked(ctx, msg)
	}

	seqnum := msg.SeqNum()

	if !c.sess.Established() && msg.MsgType() != fixwire.MsgTypeLogon {
		c.generateRejectLocked(seqnum, "session not established")
		return nil
	}

	if !c.enforceCompIDLocked(msg) {
		return newError(KindCompIdMismatch, errors.Errorf("compid mismatch: sender=%s target=%s", msg.SenderCompID(), msg.TargetCompID()))
	}

	action := c.enforceSequenceLocked(seqnum, msg)
	switch action {
	case seqGap:
		return nil
	case seqFatal:
		return newError(KindSequenceTooLow, errors.Errorf("seqnum %d below expected %d without PossDup", seqnum, c.sess.Cursor.NextReceive()))
	}

	ok := c.dispatchLocked(ctx, seqnum, msg)
	if ok && action == seqAccept {
		if c.sess.Cursor.AdvanceReceiveIfExpected(seqnum) {
			c.putCursorLocked(session.Receive, c.sess.Cursor.NextReceive())
		}
	}
	if !ok && action == seqAccept {
		c.generateRejectLocked(seqnum, "handler rejected message")
	}
	c.sess.TouchReceived(c.clock())

	c.checkGapClosedLocked(ctx)
	return nil
}

// processLogonResetLocked implements S5: ResetSeqNumFlag=Y on Logon resets
// both cursors before any dispatch, bypassing the normal gap/too-low
// checks for this one message, then lets handleLogonLocked authenticate
// and echo as usual.
func (c *Core) processLogonResetLocked(ctx context.Context, msg fixwire.Message) error {
	c.sess.Cursor.ResetBoth(1, 1)
	c.sess.Cursor.ResetReceive(msg.SeqNum() + 1)
	c.putCursorLocked(session.Send, c.sess.Cursor.NextSend())
	c.putCursorLocked(session.Receive, c.sess.Cursor.NextReceive())

	ok := c.dispatchLocked(ctx, msg.SeqNum(), msg)
	if !ok {
		c.generateRejectLocked(msg.SeqNum(), "logon with ResetSeqNumFlag rejected")
	}
	c.sess.TouchReceived(c.clock())
	return nil
}

// checkGapClosedLocked redelivers the message that originally triggered a
// gap once replay has caught the receive cursor up to (or past) it. The
// buffered message is dispatched directly rather than re-run through
// enforceSequenceLocked: the gap machinery has already advanced
// next_receive_seq past its slot (typically via a terminal gap-fill), so
// re-checking sequence would reject it as stale even though its content
// was never actually delivered (spec.md scenario S2).
func (c *Core) checkGapClosedLocked(ctx context.Context) {
	if c.sess.State() != session.ResendRequestSent || c.pendingGap == nil {
		return
	}
	if c.sess.Cursor.NextReceive() < c.pendingGap.SeqNum() {
		return
	}
	buffered := c.pendingGap
	c.pendingGap = nil
	c.sess.EndRetransmission()
	c.sess.SetState(session.Continuous)

	ok := c.dispatchLocked(ctx, buffered.SeqNum(), buffered)
	if !ok {
		c.generateRejectLocked(buffered.SeqNum(), "buffered message rejected after gap closure")
	}
	c.sess.TouchReceived(c.clock())
}

func (c *Core) terminateLocked(err error) {
	if c.sess.State() == session.SessionTerminated {
		return
	}
	c.sess.SetState(session.SessionTerminated)
	if c.cancelHeartbeat != nil {
		c.cancelHeartbeat()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.stopOnce.Do(func() { close(c.done) })
	if err != nil {
		c.log.Error("session terminated", "error", err)
	}
	session.Lifetime.Close(c.sess)
}
