// Package lobby implements the matchmaking server: nick/password auth,
// per-game chat channels, challenges, quark match tokens, emulator peer
// rendezvous, and spectator fan-out with recording.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/udisondev/ggposrv/internal/archive"
	"github.com/udisondev/ggposrv/internal/auth"
	"github.com/udisondev/ggposrv/internal/config"
	"github.com/udisondev/ggposrv/internal/geo"
	"github.com/udisondev/ggposrv/internal/protocol"
)

// Version is reported in the dynamic MOTD footer.
const Version = "0.8"

// Server accepts lobby and emulator connections and routes their requests.
type Server struct {
	cfg   config.Config
	auth  auth.Authenticator
	geo   geo.Locator
	store *archive.Store
	state *State

	// test seams; real runs use time.Sleep and time.Now
	sleep func(time.Duration)
	now   func() time.Time
}

// NewServer wires a lobby server from its collaborators. The channel
// catalog is the built-in game list plus any extra rooms from cfg.
func NewServer(cfg config.Config, authenticator auth.Authenticator, locator geo.Locator, store *archive.Store) *Server {
	channels := defaultChannels()
	for _, entry := range cfg.Channels {
		channels[entry.Name] = newChannel(entry.Name, entry.Rom, entry.Topic)
	}

	return &Server{
		cfg:   cfg,
		auth:  authenticator,
		geo:   locator,
		store: store,
		state: newState(channels),
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// State exposes the shared registry, mostly for the MOTD and tests.
func (srv *Server) State() *State {
	return srv.state
}

// Run listens on the configured TCP address and serves until ctx is
// cancelled.
func (srv *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", srv.cfg.BindAddress, srv.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return srv.Serve(ctx, ln)
}

// Serve accepts connections from a ready listener.
// Used for testing with an arbitrary listener.
func (srv *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("lobby server started", "address", ln.Addr())

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			slog.Error("accept failed", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			srv.handleConnection(ctx, conn)
		}()
	}

	wg.Wait()
	slog.Info("lobby server stopped")
	return nil
}

func (srv *Server) handleConnection(ctx context.Context, conn net.Conn) {
	s, err := newSession(conn)
	if err != nil {
		slog.Error("rejecting connection", "error", err)
		conn.Close()
		return
	}

	srv.state.mu.Lock()
	s.channel = srv.state.channels["lobby"]
	srv.state.mu.Unlock()

	slog.Info("client connected", "client", s.host)
	go s.writePump()

	// cancellation must cut idle readers loose, not just the listener
	go func() {
		select {
		case <-ctx.Done():
			s.forceClose()
		case <-s.closeCh:
		}
	}()

	defer srv.disconnect(s)

	reader := protocol.NewFrameReader(conn)
	for {
		frame, err := reader.Next()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				slog.Debug("read loop finished", "client", s.host, "error", err)
			}
			return
		}
		srv.dispatch(ctx, s, frame)
	}
}

// dispatch routes one request frame. Handlers run on the connection's read
// goroutine; a panic is turned into an error push instead of killing the
// server.
func (srv *Server) dispatch(ctx context.Context, s *Session, frame protocol.Frame) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("handler panicked", "client", s.host, "panic", p)
			_ = s.Send(chatFrame("System", fmt.Sprintf(":%s ERROR %v", srv.cfg.ServerName, p)))
		}
	}()

	r := protocol.NewReader(frame.Payload)
	op := r.Uint32()
	if r.Err() != nil {
		slog.Debug("short request", "client", s.host, "seq", frame.Seq)
		return
	}

	// connect, auth, and the emulator opcodes work without a nick;
	// everything else requires an authenticated lobby client.
	switch op {
	case protocol.OpConnect:
		srv.handleConnect(s, frame.Seq)
		return
	case protocol.OpAuth:
		srv.handleAuth(ctx, s, frame.Seq, r)
		return
	case protocol.OpGetPeer:
		srv.handleGetPeer(s, frame.Seq, r)
		return
	case protocol.OpGetNicks:
		srv.handleGetNicks(s, frame.Seq, r)
		return
	case protocol.OpFBAPrivmsg:
		srv.handleFBAPrivmsg(s, frame.Seq, r)
		return
	case protocol.OpSpectator:
		srv.handleSpectator(s, frame.Seq, r)
		return
	case protocol.OpGameBuffer:
		srv.handleGameBuffer(s, r)
		return
	case protocol.OpSavestate:
		srv.handleSavestate(s, frame.Seq, r)
		return
	}

	srv.state.mu.Lock()
	authed := s.nick != ""
	srv.state.mu.Unlock()
	if !authed {
		slog.Debug("request before auth dropped", "client", s.host, "op", op)
		return
	}

	switch op {
	case protocol.OpMOTD:
		srv.handleMOTD(s, frame.Seq)
	case protocol.OpList:
		srv.handleList(s, frame.Seq)
	case protocol.OpUsers:
		srv.handleUsers(s, frame.Seq)
	case protocol.OpJoin:
		srv.handleJoin(s, frame.Seq, r)
	case protocol.OpStatus:
		srv.handleStatus(s, frame.Seq, r)
	case protocol.OpPrivmsg:
		srv.handlePrivmsg(s, frame.Seq, r)
	case protocol.OpChallenge:
		srv.handleChallenge(s, frame.Seq, r)
	case protocol.OpAccept:
		srv.handleAccept(s, frame.Seq, r)
	case protocol.OpDecline:
		srv.handleDecline(s, frame.Seq, r)
	case protocol.OpWatch:
		srv.handleWatch(s, frame.Seq, r)
	case protocol.OpCancel:
		srv.handleCancel(s, frame.Seq, r)
	default:
		slog.Info("unknown opcode, disconnecting", "client", s.host, "op", op)
		s.sendNack(frame.Seq, protocol.ErrUnknownOp)
		s.forceClose()
	}
}
