package lobby

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/udisondev/ggposrv/internal/geo"
	"github.com/udisondev/ggposrv/internal/protocol"
)

// Role tags what kind of endpoint a connection turned out to be. A
// connection starts unauthenticated; the first recognized opcode decides:
// auth makes a lobby client, getpeer a playing emulator, spectator a
// spectating emulator.
type Role int

const (
	RoleUnauth Role = iota
	RoleClient
	RolePlayer
	RoleSpectator
)

// Status is the lobby presence status.
type Status int

const (
	StatusNone      Status = -1 // sentinel for "no previous status"
	StatusAvailable Status = 0
	StatusAway      Status = 1
	StatusPlaying   Status = 2
)

// Side is the role within a quark.
type Side int

const (
	SideSpectatorPre  Side = 0 // spectator before the first savestate
	SideP1            Side = 1
	SideP2            Side = 2
	SideSpectatorPost Side = 3 // spectator receiving savestate relay
)

const (
	sendQueueSize       = 256
	defaultWriteTimeout = 5 * time.Second
)

// Session is one TCP connection: a lobby client, a playing emulator, or a
// spectating emulator. The reader goroutine owns the socket and runs
// handlers; the writer goroutine drains sendCh. Other sessions deliver
// frames only through Send.
//
// The presence fields below the marker are guarded by the server State
// mutex, never by a per-session lock.
type Session struct {
	conn net.Conn
	host string // ip:port, the key into the unauth connection map
	ip   string

	sendCh      chan []byte
	closeCh     chan struct{}
	closeOnce   sync.Once
	cleanupOnce sync.Once

	writeTimeout time.Duration

	// guarded by State.mu
	nick        string
	role        Role
	status      Status
	prevStatus  Status
	opponent    string
	channel     *Channel
	quark       string
	port        uint32 // lobby client port, from auth
	fbaPort     uint32 // emulator port, from getpeer
	side        Side
	location    geo.Location
	lastChat    time.Time
	challenging map[string]*Session // outgoing challenges by target host
}

func newSession(conn net.Conn) (*Session, error) {
	host := conn.RemoteAddr().String()
	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return nil, fmt.Errorf("splitting host port: %w", err)
	}

	return &Session{
		conn:         conn,
		host:         host,
		ip:           ip,
		sendCh:       make(chan []byte, sendQueueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: defaultWriteTimeout,
		status:       StatusAvailable,
		prevStatus:   StatusNone,
		port:         6009,
		location:     geo.Location{CC: "null", Country: "null", City: "null"},
		challenging:  make(map[string]*Session),
	}, nil
}

// IP returns the session's remote IP address.
func (s *Session) IP() string {
	return s.ip
}

// Host returns the session's remote ip:port.
func (s *Session) Host() string {
	return s.host
}

// writePump is the dedicated writer goroutine for this session. Outbound
// frames are delivered strictly in enqueue order.
func (s *Session) writePump() {
	for {
		select {
		case pkt, ok := <-s.sendCh:
			if !ok {
				return
			}
			if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
				slog.Warn("set write deadline failed", "client", s.host, "error", err)
				return
			}
			if _, err := s.conn.Write(pkt); err != nil {
				slog.Warn("write failed", "client", s.host, "error", err)
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

// Send queues a frame for async delivery.
// Non-blocking: a full queue means a stuck client, which gets disconnected.
func (s *Session) Send(frame []byte) error {
	select {
	case s.sendCh <- frame:
		return nil
	case <-s.closeCh:
		return fmt.Errorf("session closed")
	default:
		slog.Warn("send queue full, disconnecting slow client", "client", s.host)
		s.forceClose()
		return fmt.Errorf("send queue full")
	}
}

func (s *Session) sendAck(seq uint32) {
	_ = s.Send(protocol.EncodeAck(seq))
}

func (s *Session) sendNack(seq uint32, code uint32) {
	_ = s.Send(protocol.EncodeNack(seq, code))
}

// forceClose stops the writer and closes the socket; the reader goroutine
// then observes the error and runs disconnect cleanup. Safe to call from
// any goroutine, any number of times.
func (s *Session) forceClose() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) closed() bool {
	select {
	case <-s.closeCh:
		return true
	default:
		return false
	}
}
