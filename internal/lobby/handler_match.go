package lobby

import (
	"log/slog"
	"time"

	"github.com/udisondev/ggposrv/internal/archive"
	"github.com/udisondev/ggposrv/internal/protocol"
)

const (
	peerPollInterval = 5 * time.Second
	peerPollTries    = 10
	nickPollInterval = time.Second
	nickPollTries    = 30
	replayHeaderGap  = 2 * time.Second
	replayBufferGap  = time.Second
)

// handleGetPeer is the first request of a playing emulator: it claims a
// player slot on the quark, waits for the opposing emulator to show up, and
// answers with the address to connect to. The wait happens on this
// connection's read goroutine; the shared state is only locked around map
// accesses.
func (srv *Server) handleGetPeer(s *Session, seq uint32, r *protocol.Reader) {
	token := r.String()
	fbaPort := r.Uint32()
	if r.Err() != nil {
		slog.Debug("malformed getpeer request", "client", s.host)
		return
	}

	s.sendAck(seq)

	srv.state.mu.Lock()
	s.role = RolePlayer
	s.quark = token
	s.fbaPort = fbaPort

	q := srv.state.quarks[token]
	if q == nil {
		q = newQuark(token)
		srv.state.quarks[token] = q
	}
	if q.p1 != nil && q.p2 != nil {
		srv.state.mu.Unlock()
		slog.Info("getpeer on a full quark", "client", s.host, "quark", token)
		s.forceClose()
		return
	}
	srv.state.mu.Unlock()

	var peer *Session
	for i := 0; i < peerPollTries && !s.closed(); i++ {
		srv.sleep(peerPollInterval)
		srv.state.mu.Lock()
		peer = srv.state.playerPeer(token, s)
		srv.state.mu.Unlock()
		if peer != nil {
			break
		}
	}

	srv.state.mu.Lock()
	// inherit side and nick from the lobby client that agreed to the match
	myself := srv.state.lobbyClientFor(token, s)
	if myself != nil {
		s.side = myself.side
		s.nick = myself.nick
	}

	selfChallenge := false
	switch {
	case s.side == SideP1 && q.p1 == nil:
		q.p1 = s
		q.p1client = myself
	case s.side == SideP2 && q.p2 == nil:
		q.p2 = s
		q.p2client = myself
	default:
		// both emulators come from the same client: playing yourself
		if q.p1 == nil {
			q.p1 = s
			q.p1client = myself
		}
		if q.p2 == nil {
			q.p2 = s
			q.p2client = myself
		}
		selfChallenge = true
	}

	var frame []byte
	switch {
	case srv.cfg.Holepunch && selfChallenge:
		frame = peerAddressFrame("127.0.0.1", 7002, s.side == SideP1)
	case srv.cfg.Holepunch:
		frame = peerAddressFrame("127.0.0.1", 7001, s.side == SideP1)
	case peer != nil:
		frame = peerAddressFrame(peer.ip, peer.fbaPort, s.side == SideP1)
	default:
		// no peer showed up; point the emulator at itself rather than crash it
		frame = peerAddressFrame(s.ip, s.fbaPort, s.side == SideP1)
	}
	srv.state.mu.Unlock()

	_ = s.Send(frame)
	slog.Info("peer address sent", "client", s.host, "quark", token, "found", peer != nil)
}

// handleGetNicks answers with the two player nicknames of a quark. For a
// live quark it waits for both player slots to fill, then puts the
// requesting emulator into auto-spectate so the server receives a copy of
// the game data to record. For an archived quark it replays the recording
// instead.
func (srv *Server) handleGetNicks(s *Session, seq uint32, r *protocol.Reader) {
	token := r.String()
	if r.Err() != nil {
		slog.Debug("malformed getnicks request", "client", s.host)
		return
	}

	srv.state.mu.Lock()
	q := srv.state.quarks[token]
	srv.state.mu.Unlock()

	if q == nil {
		srv.replayQuark(s, seq, token)
		return
	}

	filled := false
	for i := 0; i < nickPollTries && !s.closed(); i++ {
		srv.state.mu.Lock()
		filled = q.p1 != nil && q.p2 != nil
		srv.state.mu.Unlock()
		if filled {
			break
		}
		srv.sleep(nickPollInterval)
	}

	srv.state.mu.Lock()
	filled = q.p1 != nil && q.p2 != nil
	b := protocol.NewBuilder()
	b.Uint32(0)
	if filled {
		b.String(q.p1.nick)
		b.String(q.p2.nick)
	} else {
		// empty nicks keep the emulator from crashing when the peer is gone
		b.Uint32(0)
		b.Uint32(0)
	}
	b.Uint32(0)
	b.Uint32(uint32(q.spectators.Cardinality()))
	myself := srv.state.lobbyClientFor(token, s)
	srv.state.mu.Unlock()

	_ = s.Send(protocol.Encode(seq, b.Bytes()))

	// auto-spectate: the player's emulator streams the game to us too
	_ = s.Send(autoSpectateFrame())
	_ = s.Send(spectatorCountFrame(1))

	if myself != nil {
		srv.state.mu.Lock()
		myself.status = StatusPlaying
		srv.broadcastStatusLocked(myself)
		srv.state.mu.Unlock()
	}
}

// replayQuark streams an archived recording to the emulator: the nicknames
// reply, then the recorded game buffer, then the savestates at match pace.
// The connection is closed when the replay ends.
func (srv *Server) replayQuark(s *Session, seq uint32, token string) {
	if !archive.ValidToken(token) {
		slog.Debug("getnicks with malformed quark", "client", s.host, "quark", token)
		return
	}
	if !srv.store.HasRecording(token) {
		return
	}

	p1, p2, err := srv.store.Nicknames(token)
	if err != nil {
		slog.Error("reading recorded nicknames failed", "quark", token, "error", err)
		return
	}

	slog.Info("replaying recorded quark", "client", s.host, "quark", token)

	b := protocol.NewBuilder()
	b.Uint32(0)
	b.String(p1)
	b.String(p2)
	b.Uint32(0)
	b.Uint32(0)
	if err := s.Send(protocol.Encode(seq, b.Bytes())); err != nil {
		return
	}

	srv.sleep(replayHeaderGap)
	buf, err := srv.store.GameBuffer(token)
	if err != nil {
		slog.Error("reading recorded game buffer failed", "quark", token, "error", err)
		return
	}
	if buf == nil {
		return
	}

	srv.sleep(replayBufferGap)
	if err := s.Send(buf); err != nil {
		return
	}

	srv.state.mu.Lock()
	s.side = SideSpectatorPost
	srv.state.mu.Unlock()

	if err := srv.store.StreamSavestate(token, s.Send); err != nil {
		slog.Debug("spectator left during replay", "client", s.host, "quark", token)
	}
	s.forceClose()
}

// handleFBAPrivmsg relays in-game chat to the opposing emulator and echoes
// it back to the sender.
func (srv *Server) handleFBAPrivmsg(s *Session, seq uint32, r *protocol.Reader) {
	token := r.String()
	msg := r.String()
	if r.Err() != nil {
		slog.Debug("malformed match chat request", "client", s.host)
		return
	}

	srv.state.mu.Lock()
	peer := srv.state.playerPeer(token, s)
	frame := matchChatFrame(token, s.nick, msg)
	srv.state.mu.Unlock()

	if peer != nil {
		_ = peer.Send(frame)
	}
	_ = s.Send(frame)
}
