package lobby

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/ggposrv/internal/archive"
	"github.com/udisondev/ggposrv/internal/auth"
	"github.com/udisondev/ggposrv/internal/config"
	"github.com/udisondev/ggposrv/internal/geo"
	"github.com/udisondev/ggposrv/internal/protocol"
)

// stubConn satisfies net.Conn for sessions that never touch a real socket.
type stubConn struct {
	addr net.Addr
}

func (c *stubConn) Read([]byte) (int, error)         { return 0, net.ErrClosed }
func (c *stubConn) Write(p []byte) (int, error)      { return len(p), nil }
func (c *stubConn) Close() error                     { return nil }
func (c *stubConn) LocalAddr() net.Addr              { return c.addr }
func (c *stubConn) RemoteAddr() net.Addr             { return c.addr }
func (c *stubConn) SetDeadline(time.Time) error      { return nil }
func (c *stubConn) SetReadDeadline(time.Time) error  { return nil }
func (c *stubConn) SetWriteDeadline(time.Time) error { return nil }

// stubAuth accepts a fixed nick/password table.
type stubAuth struct {
	creds map[string]string
}

func (a *stubAuth) Authenticate(_ context.Context, nick, password, _ string) error {
	want, ok := a.creds[nick]
	if !ok {
		return auth.ErrUnknownUser
	}
	if password != want {
		return auth.ErrWrongPassword
	}
	return nil
}

type testServer struct {
	*Server
	clock time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Default()
	store := archive.NewStore(t.TempDir())
	store.SetSleep(func(time.Duration) {})

	ts := &testServer{clock: time.Unix(1400000000, 0)}
	srv := NewServer(cfg,
		&stubAuth{creds: map[string]string{"alice": "pw1", "bob": "pw2", "carol": "pw3"}},
		geo.Null(), store)
	srv.sleep = func(time.Duration) {}
	srv.now = func() time.Time { return ts.clock }
	ts.Server = srv
	return ts
}

func (ts *testServer) advance(d time.Duration) {
	ts.clock = ts.clock.Add(d)
}

var nextTestPort = 40000

// newTestConn creates an unauthenticated session with a distinct address
// and runs its connect request.
func (ts *testServer) newTestConn(t *testing.T, ip string) *Session {
	t.Helper()
	nextTestPort++
	addr := &net.TCPAddr{IP: net.ParseIP(ip), Port: nextTestPort}
	s, err := newSession(&stubConn{addr: addr})
	require.NoError(t, err)
	s.channel = ts.state.channels["lobby"]

	ts.request(s, 1, protocol.NewBuilder().Uint32(protocol.OpConnect).Bytes())
	seq, payload := nextFrame(t, s)
	require.Equal(t, uint32(1), seq)
	require.Equal(t, []byte{0, 0, 0, 0}, payload, "connect must be ACKed")
	return s
}

// newTestClient creates a session and logs it into the lobby.
func (ts *testServer) newTestClient(t *testing.T, nick, password, ip string) *Session {
	t.Helper()
	s := ts.newTestConn(t, ip)

	b := protocol.NewBuilder().Uint32(protocol.OpAuth).String(nick).String(password).Uint32(6009)
	ts.request(s, 2, b.Bytes())
	seq, payload := nextFrame(t, s)
	require.Equal(t, uint32(2), seq)
	require.Equal(t, []byte{0, 0, 0, 0}, payload, "auth must be ACKed")
	_, _ = nextFrame(t, s) // own presence push
	return s
}

// joinChannel joins and drains the three join responses.
func (ts *testServer) joinChannel(t *testing.T, s *Session, channel string) {
	t.Helper()
	ts.request(s, 3, protocol.NewBuilder().Uint32(protocol.OpJoin).String(channel).Bytes())
	seq, payload := nextFrame(t, s)
	require.Equal(t, uint32(3), seq)
	require.Equal(t, []byte{0, 0, 0, 0}, payload, "join must be ACKed")
	seq, _ = nextFrame(t, s)
	require.Equal(t, uint32(protocol.PushEstablished), seq)
	seq, _ = nextFrame(t, s)
	require.Equal(t, uint32(protocol.PushPresence), seq)
}

func (ts *testServer) request(s *Session, seq uint32, payload []byte) {
	ts.dispatch(context.Background(), s, protocol.Frame{Seq: seq, Payload: payload})
}

// nextFrame pops one queued outbound frame and splits it into seq and
// payload.
func nextFrame(t *testing.T, s *Session) (uint32, []byte) {
	t.Helper()
	select {
	case raw := <-s.sendCh:
		require.GreaterOrEqual(t, len(raw), 8, "frame too short: %x", raw)
		return binary.BigEndian.Uint32(raw[4:8]), raw[8:]
	default:
		t.Fatal("no frame queued")
		return 0, nil
	}
}

func drain(t *testing.T, s *Session) {
	t.Helper()
	for {
		select {
		case <-s.sendCh:
		default:
			return
		}
	}
}

func noFrame(t *testing.T, s *Session) {
	t.Helper()
	select {
	case raw := <-s.sendCh:
		t.Fatalf("unexpected frame queued: %x", raw)
	default:
	}
}

func readString(t *testing.T, r *protocol.Reader) string {
	t.Helper()
	s := r.String()
	require.NoError(t, r.Err())
	return s
}

func TestServe_CancelCutsActiveSessions(t *testing.T) {
	ts := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- ts.Serve(ctx, ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	// round-trip a connect so the session's read loop is known to be live
	_, err = conn.Write(protocol.Encode(1, protocol.NewBuilder().Uint32(protocol.OpConnect).Bytes()))
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	ack := make([]byte, 12)
	_, err = io.ReadFull(conn, ack)
	require.NoError(t, err)

	// the client stays idle; cancellation alone must bring Serve home
	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve still blocked on an idle session after cancellation")
	}
}

func TestAuth_WrongPassword(t *testing.T) {
	ts := newTestServer(t)
	s := ts.newTestConn(t, "127.0.0.2")

	b := protocol.NewBuilder().Uint32(protocol.OpAuth).String("alice").String("nope").Uint32(6009)
	ts.request(s, 2, b.Bytes())

	seq, payload := nextFrame(t, s)
	assert.Equal(t, uint32(2), seq)
	require.Len(t, payload, 4)
	assert.Equal(t, uint32(protocol.ErrAuthFailed), binary.BigEndian.Uint32(payload))
	assert.False(t, s.closed(), "a denied login keeps the socket open for retry")
}

func TestAuth_WelcomePresence(t *testing.T) {
	ts := newTestServer(t)
	s := ts.newTestConn(t, "127.0.0.2")

	b := protocol.NewBuilder().Uint32(protocol.OpAuth).String("alice").String("pw1").Uint32(6009)
	ts.request(s, 2, b.Bytes())

	_, _ = nextFrame(t, s) // ACK
	seq, payload := nextFrame(t, s)
	assert.Equal(t, uint32(protocol.PushPresence), seq)

	r := protocol.NewReader(payload)
	assert.Equal(t, uint32(2), r.Uint32(), "two records")
	for range 2 {
		assert.Equal(t, uint32(1), r.Uint32())
		assert.Equal(t, "alice", readString(t, r))
		assert.Equal(t, uint32(StatusAvailable), r.Uint32())
		assert.Equal(t, uint32(0), r.Uint32(), "no opponent")
		assert.Equal(t, "127.0.0.2", readString(t, r))
		r.Uint32()
		r.Uint32()
		assert.Equal(t, "null", readString(t, r)) // city
		assert.Equal(t, "null", readString(t, r)) // cc
		assert.Equal(t, "null", readString(t, r)) // country
		assert.Equal(t, uint32(6009), r.Uint32())
	}
	require.NoError(t, r.Err())
}

func TestAuth_DuplicateNickKicksOldSession(t *testing.T) {
	ts := newTestServer(t)
	first := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	second := ts.newTestClient(t, "alice", "pw1", "127.0.0.3")

	assert.True(t, first.closed(), "older session must be kicked")
	assert.False(t, second.closed())
	assert.Same(t, second, ts.state.clients["alice"])
}

func TestRequest_BeforeAuthDropped(t *testing.T) {
	ts := newTestServer(t)
	s := ts.newTestConn(t, "127.0.0.2")

	ts.request(s, 5, protocol.NewBuilder().Uint32(protocol.OpList).Bytes())
	noFrame(t, s)
	assert.False(t, s.closed())
}

func TestUnknownOpcode_NackAndClose(t *testing.T) {
	ts := newTestServer(t)
	s := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")

	ts.request(s, 9, protocol.NewBuilder().Uint32(0x33).Bytes())
	_, payload := nextFrame(t, s)
	assert.Equal(t, uint32(protocol.ErrUnknownOp), binary.BigEndian.Uint32(payload))
	assert.True(t, s.closed())
}

func TestJoin_UnknownChannelRefused(t *testing.T) {
	ts := newTestServer(t)
	s := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")

	ts.request(s, 3, protocol.NewBuilder().Uint32(protocol.OpJoin).String("no-such-room").Bytes())
	_, payload := nextFrame(t, s)
	assert.Equal(t, uint32(protocol.ErrUnknownOp), binary.BigEndian.Uint32(payload))
	assert.False(t, s.closed())
}

func TestJoin_AnnouncesToMembers(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	bob := ts.newTestClient(t, "bob", "pw2", "127.0.0.3")

	ts.joinChannel(t, alice, "sfiii3n")
	ts.joinChannel(t, bob, "sfiii3n")

	// alice sees bob's arrival
	seq, payload := nextFrame(t, alice)
	require.Equal(t, uint32(protocol.PushPresence), seq)
	r := protocol.NewReader(payload)
	r.Uint32()
	r.Uint32()
	assert.Equal(t, "bob", readString(t, r))
}

func TestJoin_SwitchingChannelsParts(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	bob := ts.newTestClient(t, "bob", "pw2", "127.0.0.3")

	ts.joinChannel(t, alice, "sfiii3n")
	ts.joinChannel(t, bob, "sfiii3n")
	drain(t, alice)

	ts.joinChannel(t, bob, "garou")

	seq, payload := nextFrame(t, alice)
	require.Equal(t, uint32(protocol.PushPresence), seq)
	r := protocol.NewReader(payload)
	assert.Equal(t, uint32(1), r.Uint32())
	assert.Equal(t, uint32(0), r.Uint32(), "a part record")
	assert.Equal(t, "bob", readString(t, r))
}

func TestUsers_ListsChannelMembers(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	bob := ts.newTestClient(t, "bob", "pw2", "127.0.0.3")
	ts.joinChannel(t, alice, "garou")
	ts.joinChannel(t, bob, "garou")
	drain(t, alice)

	ts.request(alice, 7, protocol.NewBuilder().Uint32(protocol.OpUsers).Bytes())
	seq, payload := nextFrame(t, alice)
	require.Equal(t, uint32(7), seq)

	r := protocol.NewReader(payload)
	assert.Equal(t, uint32(0), r.Uint32())
	assert.Equal(t, uint32(2), r.Uint32(), "both members listed")
}

func TestList_SortedCatalog(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")

	ts.request(alice, 7, protocol.NewBuilder().Uint32(protocol.OpList).Bytes())
	_, payload := nextFrame(t, alice)

	r := protocol.NewReader(payload)
	require.Equal(t, uint32(0), r.Uint32())
	count := r.Uint32()
	require.Greater(t, count, uint32(10))

	var prev string
	for i := uint32(0); i < count; i++ {
		name := readString(t, r)
		readString(t, r) // rom
		readString(t, r) // topic
		assert.Equal(t, i+1, r.Uint32(), "1-based index")
		assert.Greater(t, name, prev, "catalog must be sorted")
		prev = name
	}
	require.NoError(t, r.Err())
}

func TestMOTD_DynamicFooter(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	ts.joinChannel(t, alice, "garou")

	ts.request(alice, 7, protocol.NewBuilder().Uint32(protocol.OpMOTD).Bytes())
	_, payload := nextFrame(t, alice)

	r := protocol.NewReader(payload)
	require.Equal(t, uint32(0), r.Uint32())
	assert.Equal(t, "garou", readString(t, r))
	assert.Equal(t, "Garou - mark of the wolves (set 1)", readString(t, r))
	motd := readString(t, r)
	assert.Contains(t, motd, "ggposrv version "+Version)
	assert.Contains(t, motd, "first client")
	assert.Contains(t, motd, "no one is playing")
}

func TestPrivmsg_FanOutAndRateLimit(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	bob := ts.newTestClient(t, "bob", "pw2", "127.0.0.3")
	ts.joinChannel(t, alice, "garou")
	ts.joinChannel(t, bob, "garou")
	drain(t, alice)
	drain(t, bob)

	ts.advance(5 * time.Second)
	ts.request(alice, 7, protocol.NewBuilder().Uint32(protocol.OpPrivmsg).String("hello").Bytes())
	_, _ = nextFrame(t, alice) // ACK

	for _, s := range []*Session{alice, bob} {
		seq, payload := nextFrame(t, s)
		require.Equal(t, uint32(protocol.PushChat), seq)
		r := protocol.NewReader(payload)
		assert.Equal(t, "alice", readString(t, r))
		assert.Equal(t, "hello", readString(t, r))
	}

	// a second message within two seconds only reaches the sender as a
	// System warning
	ts.advance(time.Second)
	ts.request(alice, 8, protocol.NewBuilder().Uint32(protocol.OpPrivmsg).String("again").Bytes())
	_, _ = nextFrame(t, alice) // ACK
	seq, payload := nextFrame(t, alice)
	require.Equal(t, uint32(protocol.PushChat), seq)
	r := protocol.NewReader(payload)
	assert.Equal(t, "System", readString(t, r))
	assert.Equal(t, "Please do not spam", readString(t, r))
	noFrame(t, bob)
}

func TestStatus_BroadcastAndStash(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	bob := ts.newTestClient(t, "bob", "pw2", "127.0.0.3")
	ts.joinChannel(t, alice, "garou")
	ts.joinChannel(t, bob, "garou")
	drain(t, alice)
	drain(t, bob)

	ts.request(alice, 9, protocol.NewBuilder().Uint32(protocol.OpStatus).Uint32(uint32(StatusAway)).Bytes())
	_, payload := nextFrame(t, alice)
	require.Equal(t, []byte{0, 0, 0, 0}, payload, "status with a high sequence is ACKed")

	seq, payload := nextFrame(t, bob)
	require.Equal(t, uint32(protocol.PushPresence), seq)
	r := protocol.NewReader(payload)
	r.Uint32()
	r.Uint32()
	assert.Equal(t, "alice", readString(t, r))
	assert.Equal(t, uint32(StatusAway), r.Uint32())

	// while playing, a status change is stashed instead of applied
	ts.state.mu.Lock()
	alice.status = StatusPlaying
	alice.opponent = "bob"
	ts.state.mu.Unlock()
	drain(t, bob)

	ts.request(alice, 10, protocol.NewBuilder().Uint32(protocol.OpStatus).Uint32(uint32(StatusAvailable)).Bytes())
	_, _ = nextFrame(t, alice) // ACK
	noFrame(t, bob)

	ts.state.mu.Lock()
	assert.Equal(t, StatusPlaying, alice.status)
	assert.Equal(t, StatusAvailable, alice.prevStatus)
	ts.state.mu.Unlock()
}

func TestChallengeAccept_MintsQuark(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	bob := ts.newTestClient(t, "bob", "pw2", "127.0.0.3")
	ts.joinChannel(t, alice, "garou")
	ts.joinChannel(t, bob, "garou")
	drain(t, alice)
	drain(t, bob)

	ts.request(alice, 9, protocol.NewBuilder().Uint32(protocol.OpChallenge).String("bob").String("garou").Bytes())
	_, payload := nextFrame(t, alice)
	require.Equal(t, []byte{0, 0, 0, 0}, payload, "challenge ACKed")

	seq, payload := nextFrame(t, bob)
	require.Equal(t, uint32(protocol.PushChallenge), seq)
	r := protocol.NewReader(payload)
	assert.Equal(t, "alice", readString(t, r))
	assert.Equal(t, "garou", readString(t, r))

	ts.request(bob, 10, protocol.NewBuilder().Uint32(protocol.OpAccept).String("alice").String("garou").Bytes())

	// accept sends no ACK: the first frame each side sees is the quark URI
	for _, s := range []*Session{bob, alice} {
		seq, payload = nextFrame(t, s)
		require.Equal(t, uint32(protocol.PushQuarkURI), seq)
		r = protocol.NewReader(payload)
		assert.Equal(t, "alice", readString(t, r))
		assert.Equal(t, "bob", readString(t, r))
		uri := readString(t, r)
		assert.Contains(t, uri, "quark:served,garou,challenge-")
		assert.Contains(t, uri, ",7000")
	}

	ts.state.mu.Lock()
	defer ts.state.mu.Unlock()
	assert.Equal(t, StatusPlaying, alice.status)
	assert.Equal(t, StatusPlaying, bob.status)
	assert.Equal(t, StatusAvailable, alice.prevStatus)
	assert.Equal(t, SideP1, alice.side)
	assert.Equal(t, SideP2, bob.side)
	assert.Equal(t, "bob", alice.opponent)
	assert.Equal(t, "alice", bob.opponent)
	require.NotEmpty(t, alice.quark)
	assert.Equal(t, alice.quark, bob.quark)
	assert.True(t, archive.ValidToken(alice.quark), "minted token %q", alice.quark)
}

func TestChallenge_RefusedWhenBusy(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	bob := ts.newTestClient(t, "bob", "pw2", "127.0.0.3")
	ts.joinChannel(t, alice, "garou")
	ts.joinChannel(t, bob, "garou")
	drain(t, alice)
	drain(t, bob)

	ts.state.mu.Lock()
	bob.status = StatusAway
	ts.state.mu.Unlock()

	ts.request(alice, 9, protocol.NewBuilder().Uint32(protocol.OpChallenge).String("bob").String("garou").Bytes())
	_, payload := nextFrame(t, alice)
	assert.Equal(t, uint32(protocol.ErrChallengeRefused), binary.BigEndian.Uint32(payload))
	noFrame(t, bob)
}

func TestDecline_InformsChallenger(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	bob := ts.newTestClient(t, "bob", "pw2", "127.0.0.3")
	ts.joinChannel(t, alice, "garou")
	ts.joinChannel(t, bob, "garou")
	drain(t, alice)
	drain(t, bob)

	ts.request(alice, 9, protocol.NewBuilder().Uint32(protocol.OpChallenge).String("bob").String("garou").Bytes())
	drain(t, alice)
	drain(t, bob)

	ts.request(bob, 10, protocol.NewBuilder().Uint32(protocol.OpDecline).String("alice").Bytes())
	_, payload := nextFrame(t, bob)
	require.Equal(t, []byte{0, 0, 0, 0}, payload)

	seq, payload := nextFrame(t, alice)
	require.Equal(t, uint32(protocol.PushDecline), seq)
	assert.Equal(t, "bob", readString(t, protocol.NewReader(payload)))

	// a second decline has nothing to decline
	ts.request(bob, 11, protocol.NewBuilder().Uint32(protocol.OpDecline).String("alice").Bytes())
	_, payload = nextFrame(t, bob)
	assert.Equal(t, uint32(protocol.ErrDeclineRefused), binary.BigEndian.Uint32(payload))
}

func TestCancel_InformsTarget(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	bob := ts.newTestClient(t, "bob", "pw2", "127.0.0.3")
	ts.joinChannel(t, alice, "garou")
	ts.joinChannel(t, bob, "garou")
	drain(t, alice)
	drain(t, bob)

	ts.request(alice, 9, protocol.NewBuilder().Uint32(protocol.OpChallenge).String("bob").String("garou").Bytes())
	drain(t, alice)
	drain(t, bob)

	ts.request(alice, 10, protocol.NewBuilder().Uint32(protocol.OpCancel).String("bob").Bytes())
	_, payload := nextFrame(t, alice)
	require.Equal(t, []byte{0, 0, 0, 0}, payload)

	seq, payload := nextFrame(t, bob)
	require.Equal(t, uint32(protocol.PushCancel), seq)
	assert.Equal(t, "alice", readString(t, protocol.NewReader(payload)))

	ts.request(alice, 11, protocol.NewBuilder().Uint32(protocol.OpCancel).String("bob").Bytes())
	_, payload = nextFrame(t, alice)
	assert.Equal(t, uint32(protocol.ErrCancelRefused), binary.BigEndian.Uint32(payload))
}

func TestWatch_RunningMatch(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	bob := ts.newTestClient(t, "bob", "pw2", "127.0.0.3")
	carol := ts.newTestClient(t, "carol", "pw3", "127.0.0.4")
	for _, s := range []*Session{alice, bob, carol} {
		ts.joinChannel(t, s, "garou")
		drain(t, s)
	}
	ts.request(alice, 9, protocol.NewBuilder().Uint32(protocol.OpChallenge).String("bob").String("garou").Bytes())
	ts.request(bob, 10, protocol.NewBuilder().Uint32(protocol.OpAccept).String("alice").Bytes())
	drain(t, alice)
	drain(t, bob)
	drain(t, carol)

	ts.request(carol, 11, protocol.NewBuilder().Uint32(protocol.OpWatch).String("alice").Bytes())
	_, payload := nextFrame(t, carol)
	require.Equal(t, []byte{0, 0, 0, 0}, payload, "watch ACKed")

	seq, payload := nextFrame(t, carol)
	require.Equal(t, uint32(protocol.PushQuarkURI), seq)
	r := protocol.NewReader(payload)
	assert.Equal(t, "alice", readString(t, r))
	assert.Equal(t, "bob", readString(t, r))
	assert.Contains(t, readString(t, r), "quark:stream,garou,challenge-")
}

func TestWatch_RefusedWhenNotPlaying(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.newTestClient(t, "alice", "pw1", "127.0.0.2")
	carol := ts.newTestClient(t, "carol", "pw3", "127.0.0.4")
	ts.joinChannel(t, alice, "garou")
	ts.joinChannel(t, carol, "garou")
	drain(t, carol)

	ts.request(carol, 11, protocol.NewBuilder().Uint32(protocol.OpWatch).String("alice").Bytes())
	_, payload := nextFrame(t, carol)
	assert.Equal(t, uint32(protocol.ErrWatchRefused), binary.BigEndian.Uint32(payload))
}
