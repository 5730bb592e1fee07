package lobby

import (
	"fmt"
	"math/rand/v2"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Quark is one live match: two playing emulator sessions, the lobby clients
// that agreed to it, and any spectating emulators.
type Quark struct {
	Token string

	p1, p2             *Session // playing emulator connections
	p1client, p2client *Session // the lobby clients behind them
	spectators         mapset.Set[*Session]
	recorded           bool
}

func newQuark(token string) *Quark {
	return &Quark{
		Token:      token,
		spectators: mapset.NewSet[*Session](),
	}
}

// spectatorCount is what the wire reports: every spectator plus one.
func (q *Quark) spectatorCount() uint32 {
	return uint32(q.spectators.Cardinality() + 1)
}

// mintToken generates a fresh quark token. The shape is fixed by the
// emulator side: challenge-<4 digits>-<unix time>.<2 digits>.
func mintToken(now time.Time) string {
	return fmt.Sprintf("challenge-%04d-%d.%02d",
		rand.IntN(9000)+1000, now.Unix(), rand.IntN(90)+10)
}
