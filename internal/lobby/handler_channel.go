package lobby

import (
	"log/slog"
	"sort"
	"time"

	"github.com/udisondev/ggposrv/internal/protocol"
)

const chatRateLimit = 2 * time.Second

// handleList replies with the channel catalog, sorted by name.
func (srv *Server) handleList(s *Session, seq uint32) {
	srv.state.mu.Lock()
	names := make([]string, 0, len(srv.state.channels))
	for name := range srv.state.channels {
		names = append(names, name)
	}
	sort.Strings(names)

	b := protocol.NewBuilder()
	b.Uint32(0)
	b.Uint32(uint32(len(names)))
	for i, name := range names {
		ch := srv.state.channels[name]
		b.String(ch.Name)
		b.String(ch.Rom)
		b.String(ch.Topic)
		b.Uint32(uint32(i + 1))
	}
	srv.state.mu.Unlock()

	_ = s.Send(protocol.Encode(seq, b.Bytes()))
}

// handleUsers replies with a presence record for every member of the
// session's channel.
func (srv *Server) handleUsers(s *Session, seq uint32) {
	srv.state.mu.Lock()
	members := s.channel.Members()
	b := protocol.NewBuilder()
	b.Uint32(0)
	b.Uint32(uint32(len(members)))
	for _, member := range members {
		writePresenceRecord(b, member)
	}
	srv.state.mu.Unlock()

	_ = s.Send(protocol.Encode(seq, b.Bytes()))
}

// handleJoin moves the client into another channel: part the old room,
// enter the new one, and announce the arrival to its members.
func (srv *Server) handleJoin(s *Session, seq uint32, r *protocol.Reader) {
	name := r.String()
	if r.Err() != nil {
		slog.Debug("malformed join request", "client", s.host)
		return
	}

	srv.state.mu.Lock()
	ch := srv.state.channels[name]
	if ch == nil {
		srv.state.mu.Unlock()
		slog.Info("join refused, no such channel", "client", s.host, "channel", name)
		s.sendNack(seq, protocol.ErrUnknownOp)
		return
	}

	srv.partChannelLocked(s)

	ch.members.Add(s)
	s.channel = ch
	joined := presenceUpdateFrame(s, nil)
	members := ch.Members()
	srv.state.mu.Unlock()

	s.sendAck(seq)
	_ = s.Send(establishedFrame())
	for _, member := range members {
		_ = member.Send(joined)
	}
	slog.Info("client joined channel", "nick", s.nick, "channel", name)
}

// partChannelLocked removes s from its current channel and tells the
// remaining members. Callers hold the state mutex.
func (srv *Server) partChannelLocked(s *Session) {
	ch := s.channel
	if ch == nil {
		return
	}

	parted := presencePartFrame(s.nick)
	for _, member := range ch.Members() {
		if member != s {
			_ = member.Send(parted)
		}
	}
	ch.members.Remove(s)
}

// handleStatus updates the client's availability and broadcasts the new
// presence to the channel. While a match is running an incoming status is
// stashed instead, to be restored when the match ends. Requests with tiny
// sequence numbers are fire-and-forget ones sent by old clients during
// login; those get no ACK.
func (srv *Server) handleStatus(s *Session, seq uint32, r *protocol.Reader) {
	status := Status(r.Uint32())
	if r.Err() != nil {
		slog.Debug("malformed status request", "client", s.host)
		return
	}

	if seq > 4 {
		s.sendAck(seq)
	}

	srv.state.mu.Lock()
	switch {
	case s.status == StatusPlaying && seq != 0 && status >= StatusAvailable && status < StatusPlaying && s.opponent != "":
		s.prevStatus = status
		srv.state.mu.Unlock()
		return
	case (status >= StatusAvailable && status < StatusPlaying) || (status == StatusPlaying && seq == 0):
		s.status = status
	default:
		srv.state.mu.Unlock()
		slog.Debug("invalid status ignored", "client", s.host, "status", status)
		return
	}
	srv.broadcastStatusLocked(s)
	srv.state.mu.Unlock()
}

// broadcastStatusLocked pushes s's presence, with the opponent's record
// attached while playing, to every member of s's channel. Callers hold the
// state mutex.
func (srv *Server) broadcastStatusLocked(s *Session) {
	var opponent *Session
	if s.opponent != "" {
		opponent = srv.state.clientByNick(s.opponent)
	}
	frame := presenceUpdateFrame(s, opponent)
	for _, member := range s.channel.Members() {
		_ = member.Send(frame)
	}
}

// handlePrivmsg fans a chat line out to the channel, with a per-client
// rate limit.
func (srv *Server) handlePrivmsg(s *Session, seq uint32, r *protocol.Reader) {
	msg := r.String()
	if r.Err() != nil {
		slog.Debug("malformed privmsg request", "client", s.host)
		return
	}

	s.sendAck(seq)
	now := srv.now()

	srv.state.mu.Lock()
	if now.Sub(s.lastChat) < chatRateLimit {
		srv.state.mu.Unlock()
		_ = s.Send(chatFrame("System", "Please do not spam"))
		return
	}
	s.lastChat = now
	frame := chatFrame(s.nick, msg)
	members := s.channel.Members()
	srv.state.mu.Unlock()

	for _, member := range members {
		_ = member.Send(frame)
	}
}
