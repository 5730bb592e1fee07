// Package rendezvous pairs two UDP peers that share a quark token, so their
// local proxies can hole-punch a direct connection. Each peer announces the
// token; once both are known the server sends each one the other's public
// address and forgets the pairing.
package rendezvous

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
)

// Server is the UDP rendezvous service.
type Server struct {
	mu      sync.Mutex
	pending map[string]*net.UDPAddr

	connMu sync.Mutex
	conn   net.PacketConn
}

// NewServer creates an empty rendezvous server.
func NewServer() *Server {
	return &Server{pending: make(map[string]*net.UDPAddr)}
}

// Addr returns the bound address, or nil before Run.
func (s *Server) Addr() net.Addr {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Run binds addr and serves datagrams until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s/udp: %w", addr, err)
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()

	return s.Serve(ctx, conn)
}

// Serve reads datagrams from a ready PacketConn.
// Used for testing with an arbitrary conn.
func (s *Server) Serve(ctx context.Context, conn net.PacketConn) error {
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	slog.Info("rendezvous service started", "address", conn.LocalAddr())

	buf := make([]byte, 512)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("rendezvous read failed", "error", err)
			continue
		}
		udpAddr, ok := from.(*net.UDPAddr)
		if !ok {
			continue
		}
		s.handle(conn, strings.TrimSpace(string(buf[:n])), udpAddr)
	}
}

func (s *Server) handle(conn net.PacketConn, data string, from *net.UDPAddr) {
	// "ok" datagrams are the peers acknowledging our echo; nothing to do.
	if data == "ok" || data == "" {
		return
	}

	quark := data
	if _, err := conn.WriteTo([]byte("ok "+quark), from); err != nil {
		slog.Warn("rendezvous echo failed", "peer", from, "error", err)
		return
	}
	slog.Info("holepunch request received", "peer", from, "quark", quark)

	s.mu.Lock()
	first, found := s.pending[quark]
	if found {
		delete(s.pending, quark)
	} else {
		s.pending[quark] = from
	}
	s.mu.Unlock()

	if !found {
		return
	}

	firstPacked, err := packAddr(first)
	if err != nil {
		slog.Warn("rendezvous cannot pack address", "peer", first, "error", err)
		return
	}
	secondPacked, err := packAddr(from)
	if err != nil {
		slog.Warn("rendezvous cannot pack address", "peer", from, "error", err)
		return
	}

	// each peer learns the other's address
	if _, err := conn.WriteTo(firstPacked, from); err != nil {
		slog.Warn("rendezvous send failed", "peer", from, "error", err)
	}
	if _, err := conn.WriteTo(secondPacked, first); err != nil {
		slog.Warn("rendezvous send failed", "peer", first, "error", err)
	}
	slog.Info("holepunch linked", "quark", quark)
}

// PendingCount returns the number of unmatched peers.
func (s *Server) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// packAddr encodes an IPv4 address as inet_aton(host) || uint16le(port).
func packAddr(addr *net.UDPAddr) ([]byte, error) {
	ip4 := addr.IP.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("not an IPv4 address: %s", addr)
	}
	out := make([]byte, 6)
	copy(out, ip4)
	binary.LittleEndian.PutUint16(out[4:], uint16(addr.Port))
	return out, nil
}
