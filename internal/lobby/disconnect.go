package lobby

import (
	"log/slog"
)

// disconnect tears a session down: channel part, registry removal, and for
// emulator sessions the end of their match. Runs exactly once per session,
// from the connection's read goroutine.
func (srv *Server) disconnect(s *Session) {
	s.cleanupOnce.Do(func() {
		srv.teardown(s)
	})
}

func (srv *Server) teardown(s *Session) {
	slog.Info("client disconnected", "client", s.host, "nick", s.nick)

	var killPeer *Session

	srv.state.mu.Lock()

	if s.channel != nil && s.channel.members.Contains(s) {
		parted := presencePartFrame(s.nick)
		for _, member := range s.channel.Members() {
			if member == s {
				continue
			}
			_ = member.Send(parted)
			// nobody may keep pointing at a gone opponent
			if s.nick != "" && member.opponent == s.nick {
				member.opponent = ""
			}
		}
		s.channel.members.Remove(s)
	}

	if s.role == RoleClient && s.nick != "" && srv.state.clients[s.nick] == s {
		delete(srv.state.clients, s.nick)
	}

	if s.role == RolePlayer {
		killPeer = srv.endMatchLocked(s)
	}

	if s.role == RoleSpectator {
		if q := srv.state.quarks[s.quark]; q != nil && q.spectators.Contains(s) {
			srv.spectatorLeaveLocked(s, q)
		}
	}

	delete(srv.state.connections, s.host)
	srv.state.mu.Unlock()

	// a match cannot go on with one emulator; closing the peer's socket
	// sends it through this same teardown
	if killPeer != nil {
		killPeer.forceClose()
	}
	s.forceClose()
}

// endMatchLocked finishes the match a playing emulator was part of: the
// lobby clients of both players go back to their pre-match status, the
// quark is dropped, and both clients get the token for the match they just
// played. Returns the opposing emulator session, which the caller must
// close outside the lock. Callers hold the state mutex.
func (srv *Server) endMatchLocked(s *Session) *Session {
	if myself := srv.state.lobbyClientFor(s.quark, s); myself != nil {
		srv.restoreLobbyClientLocked(myself)
	}

	q := srv.state.quarks[s.quark]
	if q == nil {
		return nil
	}

	var peerClient, peerEmu *Session
	switch {
	case q.p1 == s:
		peerEmu = q.p2
	case q.p2 == s:
		peerEmu = q.p1
	default:
		return nil
	}
	if peerEmu != nil && peerEmu.nick != "" {
		peerClient = srv.state.clients[peerEmu.nick]
	}
	if peerClient != nil {
		srv.restoreLobbyClientLocked(peerClient)
	}

	delete(srv.state.quarks, s.quark)
	slog.Info("match finished", "quark", s.quark)

	// hand out the token so the match can be replayed later
	token := chatFrame("System", "Quark id: "+s.quark)
	if q.p1client != nil {
		_ = q.p1client.Send(token)
	}
	if q.p2client != nil && q.p2client != q.p1client {
		_ = q.p2client.Send(token)
	}

	if peerEmu == s {
		return nil
	}
	return peerEmu
}

// restoreLobbyClientLocked resets a lobby client's match fields and brings
// back the status it had before the match started. Callers hold the state
// mutex.
func (srv *Server) restoreLobbyClientLocked(c *Session) {
	c.side = SideSpectatorPre
	c.opponent = ""
	c.quark = ""

	if c.prevStatus != StatusNone && c.prevStatus != StatusPlaying {
		c.status = c.prevStatus
	} else {
		c.status = StatusAvailable
	}
	c.prevStatus = StatusNone

	srv.broadcastStatusLocked(c)
}
