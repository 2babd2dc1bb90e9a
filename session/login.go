package session

import "time"

// LoginParameters configures the logon handshake and retry policy an
// initiator uses.
type LoginParameters struct {
	RetryInterval          time.Duration
	MaxRetries             int
	ResetSequenceNumbers   bool
	HeartbeatIntervalSecs  int
}

// DefaultLoginParameters mirrors common FIX acceptor defaults: 30s
// heartbeats, 5 logon retries 3s apart, no forced sequence reset.
func DefaultLoginParameters() LoginParameters {
	return LoginParameters{
		RetryInterval:         3 * time.Second,
		MaxRetries:            5,
		ResetSequenceNumbers:  false,
		HeartbeatIntervalSecs: 30,
	}
}

// HeartbeatInterval returns the configured heartbeat interval as a Duration.
func (p LoginParameters) HeartbeatInterval() time.Duration {
	return time.Duration(p.HeartbeatIntervalSecs) * time.Second
}
