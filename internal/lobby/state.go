package lobby

import "sync"

// State is the server's shared registry: authenticated clients by nick,
// unauthenticated connections by host, channels by name, and live quarks by
// token. One coarse mutex guards all of it, plus the presence fields of
// every Session. Handlers take the lock, mutate, compose push frames, and
// enqueue them; no I/O ever happens under the lock.
type State struct {
	mu sync.Mutex

	clients     map[string]*Session // authenticated lobby clients, by nick
	connections map[string]*Session // everything else, by ip:port
	channels    map[string]*Channel
	quarks      map[string]*Quark
}

func newState(channels map[string]*Channel) *State {
	return &State{
		clients:     make(map[string]*Session),
		connections: make(map[string]*Session),
		channels:    channels,
		quarks:      make(map[string]*Quark),
	}
}

// clientByNick returns the authenticated client for nick, or nil.
// Callers hold st.mu.
func (st *State) clientByNick(nick string) *Session {
	return st.clients[nick]
}

// playerPeer finds the other playing emulator of a quark: a player session
// with the same token but a different remote host. Callers hold st.mu.
func (st *State) playerPeer(token string, self *Session) *Session {
	for _, sess := range st.connections {
		if sess.role == RolePlayer && sess.quark == token && sess.host != self.host {
			return sess
		}
	}
	return nil
}

// lobbyClientFor maps an emulator session back to the lobby client that
// started the match: the quark's recorded client with the same nick, or
// failing that any playing client on the same IP and token. Returns nil if
// the client is gone. Callers hold st.mu.
func (st *State) lobbyClientFor(token string, emu *Session) *Session {
	q := st.quarks[token]
	if q != nil {
		if q.p1client != nil && emu.nick != "" && q.p1client.nick == emu.nick {
			return q.p1client
		}
		if q.p2client != nil && emu.nick != "" && q.p2client.nick == emu.nick {
			return q.p2client
		}
	}
	for _, c := range st.clients {
		if c.role == RoleClient && c.quark == token && c.ip == emu.ip {
			return c
		}
	}
	return nil
}

// ClientCount returns the number of authenticated lobby clients.
func (st *State) ClientCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.clients)
}

// QuarkCount returns the number of live quarks.
func (st *State) QuarkCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.quarks)
}
