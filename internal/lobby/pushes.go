package lobby

import (
	"github.com/udisondev/ggposrv/internal/protocol"
)

// Push frame builders. Presence record layout is fixed by the client:
//
//	nick, status, opponent (or u32 zero), ip, u32 zero, u32 zero,
//	city, country code, country, port
//
// Callers hold the State mutex while reading session fields.

func writePresenceRecord(b *protocol.Builder, s *Session) {
	b.String(s.nick)
	b.Uint32(uint32(s.status))
	if s.opponent != "" {
		b.String(s.opponent)
	} else {
		b.Uint32(0)
	}
	b.String(s.ip)
	b.Uint32(0)
	b.Uint32(0)
	b.String(s.location.City)
	b.String(s.location.CC)
	b.String(s.location.Country)
	b.Uint32(s.port)
}

// authWelcomeFrame is the presence push sent right after a successful auth:
// the client's own record twice, so the client list shows the user at once.
func authWelcomeFrame(s *Session) []byte {
	b := protocol.NewBuilder()
	b.Uint32(2)
	for range 2 {
		b.Uint32(1)
		writePresenceRecord(b, s)
	}
	return protocol.Encode(protocol.PushPresence, b.Bytes())
}

// presenceUpdateFrame announces s's current state to a channel, with the
// opponent's record attached while a match is on.
func presenceUpdateFrame(s, opponent *Session) []byte {
	b := protocol.NewBuilder()
	b.Uint32(1)
	b.Uint32(1)
	writePresenceRecord(b, s)
	if opponent != nil {
		b.Uint32(1)
		writePresenceRecord(b, opponent)
	}
	return protocol.Encode(protocol.PushPresence, b.Bytes())
}

// presencePartFrame announces that nick left the channel.
func presencePartFrame(nick string) []byte {
	b := protocol.NewBuilder()
	b.Uint32(1)
	b.Uint32(0)
	b.String(nick)
	return protocol.Encode(protocol.PushPresence, b.Bytes())
}

func chatFrame(nick, msg string) []byte {
	b := protocol.NewBuilder()
	b.String(nick)
	b.String(msg)
	return protocol.Encode(protocol.PushChat, b.Bytes())
}

func matchChatFrame(token, nick, msg string) []byte {
	b := protocol.NewBuilder()
	b.String(token)
	b.String(nick)
	b.String(msg)
	return protocol.Encode(protocol.PushMatchChat, b.Bytes())
}

func challengeFrame(challengerNick, channelName string) []byte {
	b := protocol.NewBuilder()
	b.String(challengerNick)
	b.String(channelName)
	return protocol.Encode(protocol.PushChallenge, b.Bytes())
}

func declineFrame(nick string) []byte {
	b := protocol.NewBuilder()
	b.String(nick)
	return protocol.Encode(protocol.PushDecline, b.Bytes())
}

func cancelFrame(nick string) []byte {
	b := protocol.NewBuilder()
	b.String(nick)
	return protocol.Encode(protocol.PushCancel, b.Bytes())
}

// quarkURIFrame carries the match rendezvous URI: "quark:served,..." for
// the two players, "quark:stream,..." for a watcher.
func quarkURIFrame(p1Nick, p2Nick, uri string) []byte {
	b := protocol.NewBuilder()
	b.String(p1Nick)
	b.String(p2Nick)
	b.String(uri)
	return protocol.Encode(protocol.PushQuarkURI, b.Bytes())
}

func spectatorCountFrame(count uint32) []byte {
	b := protocol.NewBuilder()
	b.Uint32(count)
	return protocol.Encode(protocol.PushSpectatorCount, b.Bytes())
}

func autoSpectateFrame() []byte {
	return protocol.Encode(protocol.PushAutoSpectate, nil)
}

func establishedFrame() []byte {
	return protocol.Encode(protocol.PushEstablished, nil)
}

// peerAddressFrame tells a playing emulator where its peer is:
// ip, port, and a flag that is 1 when the receiver plays player one.
func peerAddressFrame(ip string, port uint32, p1 bool) []byte {
	b := protocol.NewBuilder()
	b.String(ip)
	b.Uint32(port)
	if p1 {
		b.Uint32(1)
	} else {
		b.Uint32(0)
	}
	return protocol.Encode(protocol.PushPeerAddress, b.Bytes())
}
