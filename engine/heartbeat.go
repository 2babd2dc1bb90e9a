package engine

import (
	"time"

	"github.com/quantrail/fixcore/scheduler"
	"github.com/quantrail/fixcore/session"
)

// startHeartbeatScheduler arms the recurring timer tick spec.md section
// 4.3 requires, at a cadence of at most HBI/4, reusing the teacher's
// heap-based scheduler with a per-session cancel handle instead of the
// teacher's process-lifetime-only Repeat.
func (c *Core) startHeartbeatScheduler() {
	tick := c.sess.Login.HeartbeatInterval() / 4
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}
	c.cancelHeartbeat = scheduler.RepeatUntil(c.heartbeatTick, tick)
}

// heartbeatTick implements spec.md section 4.3 verbatim: send a Heartbeat
// if nothing has gone out in HBI, probe with TestRequest if nothing has
// come in for HBI+grace, declare the peer dead after 2*HBI of silence
// following that probe, and retry the logon handshake on timeout.
func (c *Core) heartbeatTick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.State() == session.SessionTerminated {
		return
	}

	if c.sess.Control.Has(session.FlagShutdown) && c.sess.State() != session.LogoffSent {
		_ = c.sendLogoutLocked("shutdown requested")
		c.sess.SetState(session.LogoffSent)
		return
	}

	now := c.clock()
	hbi := c.sess.Login.HeartbeatInterval()
	grace := hbi / 5
	if grace < time.Second {
		grace = time.Second
	}

	if c.sess.Established() {
		if now.Sub(c.sess.LastSent()) >= hbi {
			_ = c.sendHeartbeatLocked("")
		}

		if c.sess.State() != session.TestRequestSent && now.Sub(c.sess.LastReceived()) >= hbi+grace {
			if err := c.sendTestRequestLocked(); err == nil {
				c.sess.SetState(session.TestRequestSent)
			}
		}

		if c.sess.State() == session.TestRequestSent && now.Sub(c.sess.LastReceived()) >= 2*hbi {
			c.terminateLocked(newError(KindConnectionError, errDeadPeer))
			return
		}
	}

	if c.sess.State() == session.LogonSent && now.Sub(c.sess.StateEntered()) >= c.logonTimeout() {
		c.retryLogonLocked()
	}
}

func (c *Core) logonTimeout() time.Duration {
	if c.login.RetryInterval > 0 {
		return c.login.RetryInterval
	}
	return 3 * time.Second
}

func (c *Core) retryLogonLocked() {
	c.logonAttempts++
	if c.logonAttempts > c.sess.Login.MaxRetries {
		c.terminateLocked(newError(KindLogonTimeout, errLogonRetriesExhausted))
		return
	}
	if err := c.sendLogonLocked(c.sess.Login.ResetSequenceNumbers); err != nil {
		c.log.Error("logon retry failed to send", "error", err)
		return
	}
	c.sess.SetState(session.LogonSent)
}
