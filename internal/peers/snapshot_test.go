package peers_test

import (
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerwatch/internal/peers"
)

func TestNewSnapshotKeepsRealRecords(t *testing.T) {
	t.Parallel()

	alice := newUser(1, 100, "Alice")
	group := &tg.Chat{ID: 2, Title: "Group"}
	news := newChannel(3, 300, "News")

	snap := peers.NewSnapshot(
		[]tg.UserClass{alice, &tg.UserEmpty{ID: 10}},
		[]tg.ChatClass{
			group,
			news,
			&tg.ChatEmpty{ID: 11},
			&tg.ChatForbidden{ID: 12, Title: "Closed"},
			&tg.ChannelForbidden{ID: 13, AccessHash: 1300, Title: "Banned", UntilDate: 1700000000},
		},
	)

	require.Equal(t, 3, snap.Len())

	e, ok := snap.Get(&tg.PeerUser{UserID: 1})
	require.True(t, ok)
	u, ok := e.User()
	require.True(t, ok)
	assert.Same(t, alice, u)
	assert.Equal(t, "Alice", e.DisplayName())

	e, ok = snap.Get(&tg.PeerChat{ChatID: 2})
	require.True(t, ok)
	c, ok := e.Chat()
	require.True(t, ok)
	assert.Same(t, group, c)

	ch, ok := snap.Channel(3)
	require.True(t, ok)
	assert.Same(t, news, ch)

	absent := []tg.PeerClass{
		&tg.PeerUser{UserID: 10},
		&tg.PeerChat{ChatID: 11},
		&tg.PeerChat{ChatID: 12},
		&tg.PeerChannel{ChannelID: 13},
	}
	for _, p := range absent {
		_, ok := snap.Get(p)
		assert.False(t, ok, "peer %v must be absent", p)
	}
}

func TestSnapshotForbiddenMetadata(t *testing.T) {
	t.Parallel()

	snap := peers.NewSnapshot(nil, []tg.ChatClass{
		&tg.ChatForbidden{ID: 12, Title: "Closed"},
		&tg.ChannelForbidden{ID: 13, AccessHash: 1300, Title: "Banned", UntilDate: 1700000000, Megagroup: true},
	})

	r, ok := snap.Forbidden(&tg.PeerChat{ChatID: 12})
	require.True(t, ok)
	assert.Equal(t, peers.Restriction{Key: peers.ChatKey(12), Title: "Closed"}, r)

	r, ok = snap.Forbidden(&tg.PeerChannel{ChannelID: 13})
	require.True(t, ok)
	assert.Equal(t, peers.Restriction{
		Key:       peers.ChannelKey(13),
		Title:     "Banned",
		UntilDate: 1700000000,
		Megagroup: true,
	}, r)

	_, ok = snap.Forbidden(&tg.PeerUser{UserID: 12})
	assert.False(t, ok)
}

func TestSnapshotDuplicateLastWins(t *testing.T) {
	t.Parallel()

	first := newUser(9, 1, "Old")
	second := newUser(9, 2, "New")
	snap := peers.NewSnapshot([]tg.UserClass{first, second}, []tg.ChatClass{
		&tg.Chat{ID: 4, Title: "v1"},
		&tg.Chat{ID: 4, Title: "v2"},
	})

	require.Equal(t, 2, snap.Len())
	u, ok := snap.User(9)
	require.True(t, ok)
	assert.Same(t, second, u)

	c, ok := snap.Chat(4)
	require.True(t, ok)
	assert.Equal(t, "v2", c.Title)
}

func TestSnapshotKindsDoNotCollide(t *testing.T) {
	t.Parallel()

	snap := peers.NewSnapshot(
		[]tg.UserClass{newUser(7, 1, "User seven")},
		[]tg.ChatClass{newChannel(7, 2, "Channel seven")},
	)

	require.Equal(t, 2, snap.Len())
	u, ok := snap.Get(&tg.PeerUser{UserID: 7})
	require.True(t, ok)
	assert.Equal(t, peers.KindUser, u.Kind())

	c, ok := snap.Get(&tg.PeerChannel{ChannelID: 7})
	require.True(t, ok)
	assert.Equal(t, peers.KindChannel, c.Kind())

	_, ok = snap.Get(&tg.PeerChat{ChatID: 7})
	assert.False(t, ok)

	assert.Equal(t, []peers.Key{peers.UserKey(7), peers.ChannelKey(7)}, snap.Keys())
}

func TestEmptySnapshot(t *testing.T) {
	t.Parallel()

	for _, snap := range []*peers.Snapshot{peers.EmptySnapshot(), peers.NewSnapshot(nil, nil), nil} {
		assert.Zero(t, snap.Len())
		for _, p := range []tg.PeerClass{
			&tg.PeerUser{UserID: 1},
			&tg.PeerChat{ChatID: 1},
			&tg.PeerChannel{ChannelID: 1},
		} {
			_, ok := snap.Get(p)
			assert.False(t, ok)
			_, ok = snap.Forbidden(p)
			assert.False(t, ok)
		}
	}
}

func TestSnapshotFromEntities(t *testing.T) {
	t.Parallel()

	snap := peers.SnapshotFromEntities(tg.Entities{
		Users:    map[int64]*tg.User{1: newUser(1, 10, "A")},
		Chats:    map[int64]*tg.Chat{2: {ID: 2, Title: "B"}},
		Channels: map[int64]*tg.Channel{3: newChannel(3, 30, "C")},
	})

	require.Equal(t, 3, snap.Len())
	for _, k := range []peers.Key{peers.UserKey(1), peers.ChatKey(2), peers.ChannelKey(3)} {
		e, ok := snap.GetKey(k)
		require.True(t, ok, k.String())
		assert.Equal(t, k, e.Key())
	}
}

func TestEntityDisplayName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		entity peers.Entity
		want   string
	}{
		{name: "fullName", entity: peers.UserEntity(&tg.User{ID: 1, FirstName: "Ivan", LastName: "Petrov"}), want: "Ivan Petrov"},
		{name: "usernameFallback", entity: peers.UserEntity(&tg.User{ID: 1, Username: "ivan"}), want: "@ivan"},
		{name: "emptyUser", entity: peers.UserEntity(&tg.User{ID: 1}), want: ""},
		{name: "chatTitle", entity: peers.ChatEntity(&tg.Chat{ID: 2, Title: "Team"}), want: "Team"},
		{name: "channelTitle", entity: peers.ChannelEntity(&tg.Channel{ID: 3, Title: "News"}), want: "News"},
		{name: "zero", entity: peers.Entity{}, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.entity.DisplayName())
		})
	}
}
