package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/nstehr/regressiongames/agent"
	"github.com/nstehr/regressiongames/ipc"
	"github.com/nstehr/regressiongames/model"
	"github.com/nstehr/regressiongames/rules"
	"github.com/nstehr/regressiongames/trace"
	"github.com/nstehr/regressiongames/world"
	"github.com/nstehr/regressiongames/world/sandbox"
)

const banner = `regressiongames :: rule-driven robot core`

type options struct {
	socketPath  string
	connectURL  string
	tuningPath  string
	traceDir    string
	seed        int64
	logLevel    string
	sandbox     int
	remote      bool
	callTimeout time.Duration
	turnTimeout time.Duration
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.socketPath, "socket", "/tmp/regressiongames.sock", "unix socket to serve hosts on")
	flag.StringVar(&o.connectURL, "connect", "", "websocket URL of a host to dial instead of serving")
	flag.StringVar(&o.tuningPath, "tuning", "", "YAML file overriding policy thresholds")
	flag.StringVar(&o.traceDir, "trace", "", "directory for compressed turn traces")
	flag.Int64Var(&o.seed, "seed", 1, "base random seed; each robot adds its id")
	flag.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	flag.IntVar(&o.sandbox, "sandbox", 0, "play N rounds of the built-in demo match and exit")
	flag.BoolVar(&o.remote, "remote", false, "with -sandbox, drive every robot through the ipc protocol")
	flag.DurationVar(&o.callTimeout, "call-timeout", ipc.DefaultCallTimeout, "timeout for a single host call")
	flag.DurationVar(&o.turnTimeout, "turn-timeout", 10*time.Second, "with -sandbox -remote, how long to wait for a robot's yield")
	flag.Parse()
	return o
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	o := parseFlags()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(o.logLevel),
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	tuning := rules.DefaultTuning()
	if o.tuningPath != "" {
		t, err := rules.LoadTuning(o.tuningPath)
		if err != nil {
			slog.Error("failed to load tuning", "path", o.tuningPath, "error", err)
			os.Exit(1)
		}
		tuning = t
	}
	policies, err := rules.NewPolicies(tuning)
	if err != nil {
		slog.Error("failed to compile policies", "error", err)
		os.Exit(1)
	}

	var recorder trace.Recorder = trace.Discard{}
	if o.traceDir != "" {
		recorder = trace.NewTurnLog(o.traceDir)
		slog.Info("tracing turns", "dir", o.traceDir)
	}
	defer recorder.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	players := func(ctl world.Controller, session string) func() {
		a := agent.New(ctl, policies,
			agent.WithRand(rules.NewRand(o.seed+int64(ctl.ID()))),
			agent.WithRecorder(recorder),
			agent.WithSession(session),
		)
		return func() { a.Turn() }
	}

	switch {
	case o.sandbox > 0:
		runSandbox(ctx, o, players)
	case o.connectURL != "":
		if err := dialHost(ctx, o, players); err != nil {
			slog.Error("host connection failed", "url", o.connectURL, "error", err)
			os.Exit(1)
		}
	default:
		if err := serveSocket(ctx, o, players); err != nil {
			slog.Error("socket server failed", "path", o.socketPath, "error", err)
			os.Exit(1)
		}
	}
}

// serveSocket accepts host connections until ctx is cancelled. Each
// connection drives one robot.
func serveSocket(ctx context.Context, o options, players ipc.PlayerFactory) error {
	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(o.socketPath); err != nil {
		return fmt.Errorf("clean up socket: %w", err)
	}

	listener, err := net.Listen("unix", o.socketPath)
	if err != nil {
		return err
	}
	defer listener.Close()
	defer os.Remove(o.socketPath)

	slog.Info("listening on domain socket", "path", o.socketPath)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(ipc.NewSocketTransport(conn), o.callTimeout, players)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

func dialHost(ctx context.Context, o options, players ipc.PlayerFactory) error {
	t, err := ipc.DialWS(ctx, o.connectURL)
	if err != nil {
		return err
	}
	slog.Info("connected to host", "url", o.connectURL)
	go func() {
		<-ctx.Done()
		_ = t.Close()
	}()
	handleConn(t, o.callTimeout, players)
	return nil
}

func handleConn(t ipc.Transport, timeout time.Duration, players ipc.PlayerFactory) {
	c := ipc.NewConnection(t, nil)
	c.Session = uuid.NewString()
	ipc.Attach(c, timeout, players)
	c.ReadLoop()
}

// runSandbox plays the demo match locally and logs each team's summary.
func runSandbox(ctx context.Context, o options, players ipc.PlayerFactory) {
	var factory sandbox.PlayerFactory
	var conns []*ipc.Connection
	if o.remote {
		factory = func(ctl world.Controller) func() {
			host, cs, err := loopback(ctx, ctl, o.callTimeout, players)
			conns = append(conns, cs...)
			if err != nil {
				slog.Error("loopback handshake failed", "robot", ctl.ID(), "error", err)
				return func() {}
			}
			return func() { remoteTurn(ctx, host, ctl, o.turnTimeout) }
		}
	} else {
		factory = func(ctl world.Controller) func() {
			return players(ctl, uuid.NewString())
		}
	}
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
	}()

	m := sandbox.NewMatch(sandbox.NewDemoWorld(), factory)
	slog.Info("sandbox match started",
		"rounds", o.sandbox,
		"remote", o.remote,
		"open_cells", m.World.Terrain.CountPassable(),
	)
	for round := 0; round < o.sandbox; round++ {
		if ctx.Err() != nil {
			slog.Info("sandbox match interrupted", "round", m.World.Round())
			break
		}
		m.Step()
	}

	for _, team := range []model.Team{model.TeamA, model.TeamB} {
		s := m.Summarize(team)
		slog.Info("match summary",
			"team", s.Team,
			"robots", s.Robots,
			"stockpile", s.Stockpile,
			"anchored_islands", s.AnchoredIslands,
		)
	}
}

// remoteTurn runs one robot's turn over the protocol. A robot that has not
// yielded by the deadline loses the turn; the match moves on.
func remoteTurn(ctx context.Context, host *ipc.HostRobot, ctl world.Controller, deadline time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()
	err := host.Turn(tctx, ctl.RoundNum())
	if err != nil {
		slog.Error("remote turn failed", "robot", ctl.ID(), "round", ctl.RoundNum(), "error", err)
	}
	return err
}

// loopback connects ctl to a player over an in-memory pipe speaking the
// host protocol, so a sandbox match exercises the same path as a real host.
func loopback(ctx context.Context, ctl world.Controller, timeout time.Duration, players ipc.PlayerFactory) (*ipc.HostRobot, []*ipc.Connection, error) {
	a, b := net.Pipe()
	agentConn := ipc.NewConnection(ipc.NewSocketTransport(a), nil)
	agentConn.Session = uuid.NewString()
	ipc.Attach(agentConn, timeout, players)

	hostConn := ipc.NewConnection(ipc.NewSocketTransport(b), nil)
	host := ipc.NewHostRobot(hostConn, ctl)

	go agentConn.ReadLoop()
	go hostConn.ReadLoop()

	hctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := host.Hello(hctx); err != nil {
		return nil, []*ipc.Connection{agentConn, hostConn}, err
	}
	return host, []*ipc.Connection{agentConn, hostConn}, nil
}
