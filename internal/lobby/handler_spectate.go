package lobby

import (
	"log/slog"

	"github.com/udisondev/ggposrv/internal/archive"
	"github.com/udisondev/ggposrv/internal/protocol"
)

// handleSpectator attaches a spectating emulator to a quark. For a live
// quark everyone learns the new spectator count; for an absent one the
// session is just tagged, and the following getnicks triggers the replay.
func (srv *Server) handleSpectator(s *Session, seq uint32, r *protocol.Reader) {
	token := r.String()
	if r.Err() != nil {
		slog.Debug("malformed spectator request", "client", s.host)
		return
	}

	s.sendAck(seq)

	srv.state.mu.Lock()
	s.role = RoleSpectator
	s.quark = token

	q := srv.state.quarks[token]
	if q == nil {
		srv.state.mu.Unlock()
		slog.Info("spectator for archived quark", "client", s.host, "quark", token)
		return
	}

	q.spectators.Add(s)
	count := spectatorCountFrame(q.spectatorCount())
	targets := q.spectators.ToSlice()
	if q.p1 != nil {
		targets = append(targets, q.p1)
	}
	if q.p2 != nil {
		targets = append(targets, q.p2)
	}
	srv.state.mu.Unlock()

	auto := autoSpectateFrame()
	for _, target := range targets {
		_ = target.Send(auto)
		_ = target.Send(count)
	}
	slog.Info("spectator joined", "client", s.host, "quark", token)
}

// spectatorLeaveLocked detaches a spectator and refreshes the count for
// everyone still attached. Callers hold the state mutex.
func (srv *Server) spectatorLeaveLocked(s *Session, q *Quark) {
	q.spectators.Remove(s)
	count := spectatorCountFrame(q.spectatorCount())
	if q.p1 != nil {
		_ = q.p1.Send(count)
	}
	if q.p2 != nil {
		_ = q.p2.Send(count)
	}
	for _, spectator := range q.spectators.ToSlice() {
		_ = spectator.Send(count)
	}
}

// handleGameBuffer receives the opening game buffer from a playing emulator
// and fans it out to the spectators that have not seen it yet. The first
// buffer of a quark also starts the on-disk recording. No ACK.
func (srv *Server) handleGameBuffer(s *Session, r *protocol.Reader) {
	token := r.String()
	if r.Err() != nil {
		slog.Debug("malformed game buffer request", "client", s.host)
		return
	}
	buf := r.Rest()

	frame := protocol.Encode(protocol.PushGameBuffer, buf)

	srv.state.mu.Lock()
	q := srv.state.quarks[token]
	if q == nil {
		srv.state.mu.Unlock()
		slog.Debug("game buffer for unknown quark", "client", s.host, "quark", token)
		return
	}

	for _, spectator := range q.spectators.ToSlice() {
		if spectator.side == SideSpectatorPre {
			_ = spectator.Send(frame)
			spectator.side = SideSpectatorPost
		}
	}

	record := false
	var p1Nick, p2Nick string
	if archive.ValidToken(token) && !q.recorded && q.p1 != nil && q.p2 != nil {
		q.recorded = true
		record = true
		p1Nick = q.p1.nick
		p2Nick = q.p2.nick
	}
	srv.state.mu.Unlock()

	if !record {
		return
	}
	if err := srv.store.WriteGameBuffer(token, frame); err != nil {
		slog.Error("recording game buffer failed", "quark", token, "error", err)
		srv.clearRecorded(q)
		return
	}
	if err := srv.store.WriteNicknames(token, p1Nick, p2Nick); err != nil {
		slog.Error("recording nicknames failed", "quark", token, "error", err)
		srv.clearRecorded(q)
	}
}

// clearRecorded rolls the recording flag back after a failed write, so a
// later game buffer can retry and no savestates are archived for a
// recording that has no opening buffer.
func (srv *Server) clearRecorded(q *Quark) {
	srv.state.mu.Lock()
	q.recorded = false
	srv.state.mu.Unlock()
}

// handleSavestate receives one savestate from a playing emulator, relays it
// to the attached spectators, and appends it to the recording. The relayed
// payload leads with the two header words swapped; the receiving side
// expects them that way.
func (srv *Server) handleSavestate(s *Session, seq uint32, r *protocol.Reader) {
	token := r.String()
	block1 := r.Bytes(4)
	block2 := r.Bytes(4)
	if r.Err() != nil {
		slog.Debug("malformed savestate request", "client", s.host)
		return
	}
	buf := r.Rest()

	s.sendAck(seq)

	b := protocol.NewBuilder()
	b.Raw(block2)
	b.Raw(block1)
	b.Raw(buf)
	frame := protocol.Encode(protocol.PushSavestate, b.Bytes())

	srv.state.mu.Lock()
	q := srv.state.quarks[token]
	if q == nil {
		srv.state.mu.Unlock()
		return
	}
	for _, spectator := range q.spectators.ToSlice() {
		if spectator.side == SideSpectatorPost {
			_ = spectator.Send(frame)
		}
	}
	recorded := q.recorded
	srv.state.mu.Unlock()

	if archive.ValidToken(token) && recorded {
		if err := srv.store.AppendSavestate(token, frame); err != nil {
			slog.Error("recording savestate failed", "quark", token, "error", err)
		}
	}
}
