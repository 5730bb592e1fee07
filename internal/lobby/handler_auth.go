package lobby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/ggposrv/internal/auth"
	"github.com/udisondev/ggposrv/internal/protocol"
)

// handleConnect registers a fresh connection in the unauthenticated map.
// Both lobby clients and emulators send this as their first request.
func (srv *Server) handleConnect(s *Session, seq uint32) {
	s.sendAck(seq)

	srv.state.mu.Lock()
	srv.state.connections[s.host] = s
	srv.state.mu.Unlock()
}

// handleAuth checks nick/password against the user store and promotes the
// connection to a lobby client. A denied login answers NACK but keeps the
// socket open so the client can retry.
func (srv *Server) handleAuth(ctx context.Context, s *Session, seq uint32, r *protocol.Reader) {
	nick := r.String()
	password := r.String()
	port := r.Uint32()
	if r.Err() != nil {
		slog.Debug("malformed auth request", "client", s.host)
		return
	}

	if err := srv.auth.Authenticate(ctx, nick, password, s.ip); err != nil {
		if errors.Is(err, auth.ErrUnknownUser) || errors.Is(err, auth.ErrWrongPassword) {
			slog.Info("login denied", "client", s.host, "nick", nick, "reason", err)
		} else {
			slog.Error("login backend failed", "client", s.host, "nick", nick, "error", err)
		}
		s.sendNack(seq, protocol.ErrAuthFailed)
		return
	}

	location := srv.geo.Locate(s.ip)

	srv.state.mu.Lock()
	// a nick can be held by one connection only: the older one loses
	if clone := srv.state.clients[nick]; clone != nil && clone != s {
		slog.Info("nick already connected, kicking the old session",
			"nick", nick, "old", clone.host, "new", s.host)
		delete(srv.state.clients, nick)
		clone.forceClose()
	}

	s.nick = nick
	s.role = RoleClient
	s.port = port
	s.location = location
	srv.state.clients[nick] = s
	delete(srv.state.connections, s.host)
	welcome := authWelcomeFrame(s)
	srv.state.mu.Unlock()

	slog.Info("login ok", "client", s.host, "nick", nick)
	s.sendAck(seq)
	_ = s.Send(welcome)
}

// handleMOTD replies with the current channel's name, topic, and message of
// the day plus the dynamic footer.
func (srv *Server) handleMOTD(s *Session, seq uint32) {
	srv.state.mu.Lock()
	ch := s.channel
	clients := len(srv.state.clients)
	quarks := len(srv.state.quarks)
	srv.state.mu.Unlock()

	b := protocol.NewBuilder()
	b.Uint32(0)
	b.String(ch.Name)
	b.String(ch.Topic)
	b.String(ch.MOTD + dynamicMOTD(clients, quarks))
	_ = s.Send(protocol.Encode(seq, b.Bytes()))
}

// dynamicMOTD is the footer appended to every channel MOTD.
func dynamicMOTD(clients, quarks int) string {
	motd := "-!- ggposrv version " + Version + "\n"

	if clients <= 1 {
		motd += "-!- You are the first client on the server!\n"
	} else {
		motd += fmt.Sprintf("-!- There are %d clients connected to the server.\n", clients)
	}

	switch quarks {
	case 0:
		motd += "-!- At the moment no one is playing :(\n"
	case 1:
		motd += "-!- There is only one ongoing game.\n"
	default:
		motd += fmt.Sprintf("-!- There are %d ongoing games.\n", quarks)
	}
	return motd
}
