package lobby

import (
	"log/slog"

	"github.com/udisondev/ggposrv/internal/protocol"
)

// handleChallenge sends a match request to another member of the channel.
// The target must be available, in the same room, and the challenger must
// not be playing.
func (srv *Server) handleChallenge(s *Session, seq uint32, r *protocol.Reader) {
	nick := r.String()
	channelName := r.String()
	if r.Err() != nil {
		slog.Debug("malformed challenge request", "client", s.host)
		return
	}

	srv.state.mu.Lock()
	target := srv.state.clientByNick(nick)
	ok := target != nil &&
		target.status == StatusAvailable &&
		target.channel == s.channel &&
		s.channel.Name == channelName &&
		s.status < StatusPlaying
	if !ok {
		srv.state.mu.Unlock()
		slog.Info("challenge refused", "from", s.nick, "to", nick)
		s.sendNack(seq, protocol.ErrChallengeRefused)
		return
	}

	s.side = SideP1
	s.challenging[target.host] = target
	frame := challengeFrame(s.nick, s.channel.Name)
	srv.state.mu.Unlock()

	s.sendAck(seq)
	_ = target.Send(frame)
	slog.Info("challenge sent", "from", s.nick, "to", nick)
}

// handleAccept starts the match: both clients switch to playing, a fresh
// quark token is minted, and each side receives the quark URI to launch
// its emulator with. Deliberately no ACK; the URI pushes are the answer.
func (srv *Server) handleAccept(s *Session, seq uint32, r *protocol.Reader) {
	nick := r.String()
	if r.Err() != nil {
		slog.Debug("malformed accept request", "client", s.host)
		return
	}

	srv.state.mu.Lock()
	challenger := srv.state.clientByNick(nick)
	if challenger == nil || challenger.challenging[s.host] == nil {
		srv.state.mu.Unlock()
		slog.Info("accept refused, no pending challenge", "from", s.nick, "challenger", nick)
		s.sendNack(seq, protocol.ErrAcceptRefused)
		return
	}
	delete(challenger.challenging, s.host)

	s.side = SideP2
	s.opponent = challenger.nick
	challenger.opponent = s.nick

	// stash the pre-match status so disconnect can restore it
	s.prevStatus = s.status
	challenger.prevStatus = challenger.status
	s.status = StatusPlaying
	challenger.status = StatusPlaying

	token := mintToken(srv.now())
	s.quark = token
	challenger.quark = token

	uri := "quark:served," + s.channel.Name + "," + token + ",7000"
	frame := quarkURIFrame(challenger.nick, s.nick, uri)
	srv.state.mu.Unlock()

	_ = s.Send(frame)
	_ = challenger.Send(frame)
	slog.Info("challenge accepted", "p1", nick, "p2", s.nick, "quark", token)
}

// handleDecline rejects a pending challenge and tells the challenger.
func (srv *Server) handleDecline(s *Session, seq uint32, r *protocol.Reader) {
	nick := r.String()
	if r.Err() != nil {
		slog.Debug("malformed decline request", "client", s.host)
		return
	}

	srv.state.mu.Lock()
	challenger := srv.state.clientByNick(nick)
	if challenger == nil || challenger.challenging[s.host] == nil {
		srv.state.mu.Unlock()
		s.sendNack(seq, protocol.ErrDeclineRefused)
		return
	}
	delete(challenger.challenging, s.host)
	srv.state.mu.Unlock()

	s.sendAck(seq)
	_ = challenger.Send(declineFrame(s.nick))
	slog.Info("challenge declined", "by", s.nick, "challenger", nick)
}

// handleCancel withdraws an outgoing challenge and tells the target.
func (srv *Server) handleCancel(s *Session, seq uint32, r *protocol.Reader) {
	nick := r.String()
	if r.Err() != nil {
		slog.Debug("malformed cancel request", "client", s.host)
		return
	}

	srv.state.mu.Lock()
	target := srv.state.clientByNick(nick)
	if target == nil || s.challenging[target.host] == nil {
		srv.state.mu.Unlock()
		s.sendNack(seq, protocol.ErrCancelRefused)
		return
	}
	delete(s.challenging, target.host)
	srv.state.mu.Unlock()

	s.sendAck(seq)
	_ = target.Send(cancelFrame(s.nick))
	slog.Info("challenge cancelled", "by", s.nick, "target", nick)
}

// handleWatch hands out the spectator stream URI for a running match of a
// channel member.
func (srv *Server) handleWatch(s *Session, seq uint32, r *protocol.Reader) {
	nick := r.String()
	if r.Err() != nil {
		slog.Debug("malformed watch request", "client", s.host)
		return
	}

	srv.state.mu.Lock()
	target := srv.state.clientByNick(nick)
	if target == nil || target.status != StatusPlaying || target.channel != s.channel {
		srv.state.mu.Unlock()
		slog.Info("watch refused", "from", s.nick, "target", nick)
		s.sendNack(seq, protocol.ErrWatchRefused)
		return
	}

	uri := "quark:stream," + s.channel.Name + "," + target.quark + ",7000"
	frame := quarkURIFrame(target.nick, target.opponent, uri)
	srv.state.mu.Unlock()

	s.sendAck(seq)
	_ = s.Send(frame)
	slog.Info("watch granted", "nick", s.nick, "target", nick)
}
