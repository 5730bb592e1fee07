package lobby

import (
	mapset "github.com/deckarep/golang-set/v2"
)

const defaultMOTD = "Welcome to the GGPO-NG server.\n" +
	"This is still very beta, some things might not work as expected.\n\n"

// Channel is a per-game chat room. Lobby clients join exactly one channel;
// presence, chat, and challenges stay inside it.
type Channel struct {
	Name  string // join key
	Rom   string // ROM set the emulator should load, empty for the lobby
	Topic string
	MOTD  string

	members mapset.Set[*Session]
}

func newChannel(name, rom, topic string) *Channel {
	return &Channel{
		Name:    name,
		Rom:     rom,
		Topic:   topic,
		MOTD:    defaultMOTD,
		members: mapset.NewSet[*Session](),
	}
}

// Members returns a snapshot of the channel membership.
func (c *Channel) Members() []*Session {
	return c.members.ToSlice()
}
