package peers_test

import (
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerwatch/internal/peers"
)

func TestKeyOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		peer tg.PeerClass
		want peers.Key
	}{
		{name: "user", peer: &tg.PeerUser{UserID: 7}, want: peers.UserKey(7)},
		{name: "chat", peer: &tg.PeerChat{ChatID: 7}, want: peers.ChatKey(7)},
		{name: "channel", peer: &tg.PeerChannel{ChannelID: 7}, want: peers.ChannelKey(7)},
		{name: "negativeID", peer: &tg.PeerUser{UserID: -3}, want: peers.UserKey(-3)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := peers.KeyOf(tc.peer)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, peers.KeyOf(got.Peer()))
		})
	}
}

func TestKeyKindsNeverCollide(t *testing.T) {
	t.Parallel()

	set := map[peers.Key]string{
		peers.UserKey(5):    "user",
		peers.ChatKey(5):    "chat",
		peers.ChannelKey(5): "channel",
	}
	require.Len(t, set, 3)
	assert.NotEqual(t, peers.UserKey(5), peers.ChannelKey(5))
	assert.Equal(t, "channel:5", peers.ChannelKey(5).String())
}

func TestKeyOfUnknownPeerPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { peers.KeyOf(nil) })
}
