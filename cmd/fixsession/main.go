// Command fixsession is a demo acceptor/initiator runner, generalizing
// examples/cluster/main.go's command-registration pattern. It is not part
// of the core's contract (see SPEC_FULL.md section 9.3); it exists as
// scaffolding to exercise engine.Core against a real TCP connection from
// the shell.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pingcap/errors"
	"github.com/urfave/cli"
	"google.golang.org/grpc"

	"github.com/quantrail/fixcore/apphook"
	"github.com/quantrail/fixcore/controlpb"
	"github.com/quantrail/fixcore/controlsvc"
	"github.com/quantrail/fixcore/engine"
	"github.com/quantrail/fixcore/fixwire"
	"github.com/quantrail/fixcore/fixwire/tagvalue"
	"github.com/quantrail/fixcore/obslog"
	"github.com/quantrail/fixcore/persist"
	"github.com/quantrail/fixcore/persist/badgerstore"
	"github.com/quantrail/fixcore/persist/memory"
	"github.com/quantrail/fixcore/session"
	"github.com/quantrail/fixcore/transport/tcp"
)

func main() {
	app := cli.NewApp()
	app.Name = "fixsession"
	app.Usage = "run a demo FIX session-engine acceptor or initiator"
	app.Commands = []cli.Command{
		{
			Name:  "acceptor",
			Usage: "listen for an inbound FIX connection and run the session engine",
			Flags: sessionFlags("127.0.0.1:5001"),
			Action: func(c *cli.Context) error { return runAcceptor(c) },
		},
		{
			Name:  "initiator",
			Usage: "dial a FIX acceptor and run the session engine",
			Flags: append(sessionFlags("127.0.0.1:5001"),
				cli.StringFlag{Name: "connect", Usage: "acceptor address to dial", Value: "127.0.0.1:5001"}),
			Action: func(c *cli.Context) error { return runInitiator(c) },
		},
		{
			Name:  "status",
			Usage: "query a running session's SessionControl gRPC server",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "control", Usage: "controlsvc address", Value: "127.0.0.1:5101"},
				cli.StringFlag{Name: "begin-string", Value: "FIX.4.4"},
				cli.StringFlag{Name: "sender", Usage: "SenderCompID"},
				cli.StringFlag{Name: "target", Usage: "TargetCompID"},
			},
			Action: func(c *cli.Context) error { return runStatus(c) },
		},
	}

	if err := app.Run(os.Args); err != nil {
		obslog.Logger().Error("fixsession exited with error", "error", err)
		os.Exit(1)
	}
}

func sessionFlags(defaultListen string) []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "listen,l", Usage: "address to listen on", Value: defaultListen},
		cli.StringFlag{Name: "begin-string", Value: "FIX.4.4"},
		cli.StringFlag{Name: "sender", Usage: "SenderCompID"},
		cli.StringFlag{Name: "target", Usage: "TargetCompID"},
		cli.IntFlag{Name: "heartbeat", Usage: "heartbeat interval in seconds", Value: 30},
		cli.StringFlag{Name: "persist-dir", Usage: "badger directory; empty uses an in-memory store"},
		cli.StringFlag{Name: "control", Usage: "address to expose SessionControl on; empty disables it"},
		cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
	}
}

func openPersister(c *cli.Context) (persist.Persister, error) {
	dir := c.String("persist-dir")
	if dir == "" {
		return memory.New(), nil
	}
	store, err := badgerstore.Open(dir)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return store, nil
}

func buildID(c *cli.Context) (session.ID, error) {
	sender := c.String("sender")
	target := c.String("target")
	if sender == "" || target == "" {
		return session.ID{}, errors.Errorf("--sender and --target are required")
	}
	return session.ID{
		BeginString:  c.String("begin-string"),
		SenderCompID: sender,
		TargetCompID: target,
	}, nil
}

func newCore(c *cli.Context, id session.ID, acceptor bool) (*engine.Core, error) {
	if c.Bool("debug") {
		obslog.SetDebug(true)
	}
	persister, err := openPersister(c)
	if err != nil {
		return nil, err
	}

	codec := &tagvalue.Codec{BeginString: id.BeginString}
	md := &tagvalue.Metadata{BeginString: id.BeginString}

	opts := []engine.Option{
		engine.WithPersister(persister),
		engine.WithHeartbeatIntervalSecs(c.Int("heartbeat")),
		engine.WithApplicationHook(apphook.Hook{
			OnApplication: func(seqnum uint64, msg fixwire.Message) bool {
				obslog.Logger().Info("application message", "seqnum", seqnum, "type", msg.MsgType())
				return true
			},
			OnConnect: func(id session.ID) {
				obslog.Logger().Info("connected", "session", id.String())
			},
		}),
	}
	if acceptor {
		opts = append(opts, engine.WithAcceptor())
	}

	core := engine.New(id, codec, md, opts...)
	return core, nil
}

func maybeServeControl(c *cli.Context, core *engine.Core) (*controlsvc.Server, error) {
	addr := c.String("control")
	if addr == "" {
		return nil, nil
	}
	ctrl := controlsvc.New()
	ctrl.Register(core)
	go func() {
		if err := ctrl.Serve(addr); err != nil {
			obslog.Logger().Error("controlsvc exited", "error", err)
		}
	}()
	return ctrl, nil
}

func runAcceptor(c *cli.Context) error {
	id, err := buildID(c)
	if err != nil {
		return err
	}
	core, err := newCore(c, id, true)
	if err != nil {
		return err
	}
	ctrl, err := maybeServeControl(c, core)
	if err != nil {
		return err
	}
	if ctrl != nil {
		defer ctrl.Stop()
	}

	listener, err := net.Listen("tcp", c.String("listen"))
	if err != nil {
		return errors.Trace(err)
	}
	defer listener.Close()
	obslog.Logger().Info("fixsession acceptor listening", "addr", c.String("listen"), "session", id.String())

	conn, err := listener.Accept()
	if err != nil {
		return errors.Trace(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := core.Start(ctx, tcp.New(conn)); err != nil {
		return errors.Trace(err)
	}

	waitForShutdown(core)
	return nil
}

func runInitiator(c *cli.Context) error {
	id, err := buildID(c)
	if err != nil {
		return err
	}
	core, err := newCore(c, id, false)
	if err != nil {
		return err
	}
	ctrl, err := maybeServeControl(c, core)
	if err != nil {
		return err
	}
	if ctrl != nil {
		defer ctrl.Stop()
	}

	conn, err := tcp.Dial(c.String("connect"))
	if err != nil {
		return errors.Trace(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := core.Start(ctx, conn); err != nil {
		return errors.Trace(err)
	}
	obslog.Logger().Info("fixsession initiator connected", "addr", c.String("connect"), "session", id.String())

	waitForShutdown(core)
	return nil
}

func waitForShutdown(core *engine.Core) {
	sg := make(chan os.Signal, 1)
	signal.Notify(sg, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sg:
		obslog.Logger().Info("fixsession received signal, stopping", "signal", s.String())
		_ = core.Stop()
	case <-core.Done():
		obslog.Logger().Info("fixsession session terminated")
	}
}

func runStatus(c *cli.Context) error {
	cc, err := grpc.Dial(c.String("control"), grpc.WithInsecure())
	if err != nil {
		return errors.Trace(err)
	}
	defer cc.Close()

	client := controlpb.NewSessionControlClient(cc)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Status(ctx, &controlpb.StatusRequest{
		BeginString:  c.String("begin-string"),
		SenderCompId: c.String("sender"),
		TargetCompId: c.String("target"),
	})
	if err != nil {
		return errors.Trace(err)
	}

	fmt.Printf("state=%s next_send=%d next_receive=%d shutdown=%v debug=%v print=%v\n",
		resp.GetState(), resp.GetNextSendSeq(), resp.GetNextReceiveSeq(),
		resp.GetShutdownFlag(), resp.GetDebugFlag(), resp.GetPrintFlag())
	return nil
}
