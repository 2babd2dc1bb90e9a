// Package controlsvc implements SessionControl, the gRPC admin surface
// described in SPEC_FULL.md section 10.3: single-session observability and
// control-flag toggling for an operator process, generalizing
// cluster/node.go's initNode grpc-server bring-up to a registry of
// engine.Core sessions instead of a cluster member table.
package controlsvc

import (
	"context"
	"fmt"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/quantrail/fixcore/controlpb"
	"github.com/quantrail/fixcore/engine"
	"github.com/quantrail/fixcore/session"
)

// Server is a SessionControl gRPC server backed by a registry of live
// engine.Core sessions, keyed by session.ID.String(). A process embedding
// the engine registers each Core it owns so an operator can query or
// toggle it without a direct handle.
type Server struct {
	controlpb.UnimplementedSessionControlServer

	mu       sync.RWMutex
	sessions map[string]*engine.Core

	grpcServer *grpc.Server
}

// New returns an empty Server and subscribes it to session.Lifetime, so any
// Core registered with it is automatically unregistered once its session
// terminates, whichever Core that happens to be.
func New() *Server {
	s := &Server{sessions: map[string]*engine.Core{}}
	session.Lifetime.OnClosed(func(sess *session.Session) {
		s.Unregister(sess.ID)
	})
	return s
}

// Register makes core queryable and controllable over the gRPC surface
// until its session closes, at which point session.Lifetime.Close drives
// the automatic Unregister wired in New.
func (s *Server) Register(core *engine.Core) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[core.Session().ID.String()] = core
}

// Unregister removes id from the registry. Normally invoked automatically
// from the session.Lifetime callback wired in New; exported so an embedder
// can also evict a session it never ran to termination through the Core.
func (s *Server) Unregister(id session.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id.String())
}

func (s *Server) find(beginString, sender, target string) (*engine.Core, error) {
	id := session.ID{BeginString: beginString, SenderCompID: sender, TargetCompID: target}
	s.mu.RLock()
	core, ok := s.sessions[id.String()]
	s.mu.RUnlock()
	if !ok {
		return nil, status.Errorf(codes.NotFound, "session not found: %s", id.String())
	}
	return core, nil
}

// Status implements controlpb.SessionControlServer.
func (s *Server) Status(_ context.Context, req *controlpb.StatusRequest) (*controlpb.StatusResponse, error) {
	core, err := s.find(req.GetBeginString(), req.GetSenderCompId(), req.GetTargetCompId())
	if err != nil {
		return nil, err
	}
	sess := core.Session()
	return &controlpb.StatusResponse{
		State:                 sess.State().String(),
		NextSendSeq:           sess.Cursor.NextSend(),
		NextReceiveSeq:        sess.Cursor.NextReceive(),
		LastSentUnixNanos:     sess.LastSent().UnixNano(),
		LastReceivedUnixNanos: sess.LastReceived().UnixNano(),
		ShutdownFlag:          sess.Control.Has(session.FlagShutdown),
		DebugFlag:             sess.Control.Has(session.FlagDebug),
		PrintFlag:             sess.Control.Has(session.FlagPrint),
	}, nil
}

// SetControlFlags implements controlpb.SessionControlServer.
func (s *Server) SetControlFlags(_ context.Context, req *controlpb.SetControlFlagsRequest) (*controlpb.SetControlFlagsResponse, error) {
	core, err := s.find(req.GetBeginString(), req.GetSenderCompId(), req.GetTargetCompId())
	if err != nil {
		return nil, err
	}

	flag, err := parseFlag(req.GetFlag())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	sess := core.Session()
	if req.GetSet() {
		sess.Control.Set(flag)
	} else {
		sess.Control.Clear(flag)
	}

	return &controlpb.SetControlFlagsResponse{
		ShutdownFlag: sess.Control.Has(session.FlagShutdown),
		DebugFlag:    sess.Control.Has(session.FlagDebug),
		PrintFlag:    sess.Control.Has(session.FlagPrint),
	}, nil
}

func parseFlag(name string) (session.Flag, error) {
	switch name {
	case "shutdown":
		return session.FlagShutdown, nil
	case "debug":
		return session.FlagDebug, nil
	case "print":
		return session.FlagPrint, nil
	default:
		return 0, fmt.Errorf("unknown control flag %q", name)
	}
}

// Serve opens addr and blocks serving the SessionControl service,
// following cluster/node.go's initNode pattern of a bare net.Listen plus
// grpc.NewServer rather than any TLS/credentials setup (out of scope per
// SPEC_FULL.md's inherited Non-goals on SSL/TLS negotiation).
func (s *Server) Serve(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.grpcServer = grpc.NewServer()
	controlpb.RegisterSessionControlServer(s.grpcServer, s)
	return s.grpcServer.Serve(listener)
}

// Stop gracefully stops the gRPC server, a no-op if Serve was never
// called.
func (s *Server) Stop() {
	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}
}
