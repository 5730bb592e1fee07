package protocol

// Client request opcodes. The opcode is the first u32 of a request payload.
const (
	OpConnect    = 0x00
	OpAuth       = 0x01
	OpMOTD       = 0x02
	OpList       = 0x03
	OpUsers      = 0x04
	OpJoin       = 0x05
	OpStatus     = 0x06
	OpPrivmsg    = 0x07
	OpChallenge  = 0x08
	OpAccept     = 0x09
	OpDecline    = 0x0A
	OpGetPeer    = 0x0B
	OpGetNicks   = 0x0C
	OpFBAPrivmsg = 0x0F
	OpWatch      = 0x10
	OpSavestate  = 0x11
	OpGameBuffer = 0x12
	OpSpectator  = 0x14
	OpCancel     = 0x1C
)

// PushBoundary separates request sequence numbers from server-initiated
// pushes: any frame with Seq >= PushBoundary is a push, not a reply.
const PushBoundary = 0x80000000

// Server push sequence numbers.
const (
	PushEstablished    = 0xFFFFFFFF // empty payload, sent after join
	PushChat           = 0xFFFFFFFE // str nick, str msg
	PushPresence       = 0xFFFFFFFD // presence records (join/status/part)
	PushChallenge      = 0xFFFFFFFC // str challenger nick, str channel
	PushDecline        = 0xFFFFFFFB // str decliner nick
	PushQuarkURI       = 0xFFFFFFFA // str nick1, str nick2, str uri
	PushPeerAddress    = 0xFFFFFFF9 // str host, u32 port, u32 isP1
	PushMatchChat      = 0xFFFFFFF8 // str quark, str nick, str msg
	PushSpectatorCount = 0xFFFFFFF6 // u32 count
	PushAutoSpectate   = 0xFFFFFFF5 // empty payload
	PushGameBuffer     = 0xFFFFFFF4 // opaque game buffer
	PushSavestate      = 0xFFFFFFF3 // block2 || block1 || opaque buffer
	PushCancel         = 0xFFFFFFEF // str challenger nick
)

// NACK error codes.
const (
	ErrAuthFailed       = 0x06
	ErrUnknownOp        = 0x08 // also join-denied
	ErrChallengeRefused = 0x0A
	ErrWatchRefused     = 0x0B
	ErrAcceptRefused    = 0x0C
	ErrDeclineRefused   = 0x0D
	ErrCancelRefused    = 0x0E
)
