// Package tracker — владелец peers.Cache на время сессии клиента.
// Оборачивает кэш RWMutex-ом, подключается к gotd как хук апдейтов (вытягивает
// users/chats из каждой пачки) и как ChannelAccessHasher менеджера апдейтов.
package tracker

import (
	"context"
	"sync"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/updates"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"

	"peerwatch/internal/infra/logger"
	"peerwatch/internal/peers"
)

// SnapshotFunc получает снимок сущностей пачки апдейтов и сами апдейты.
// Вызывается синхронно, до передачи пачки дальше по цепочке.
type SnapshotFunc func(ctx context.Context, snap *peers.Snapshot, batch []tg.UpdateClass)

// Tracker — потокобезопасная обёртка над peers.Cache.
type Tracker struct {
	mu         sync.RWMutex
	cache      *peers.Cache
	onSnapshot SnapshotFunc
}

var _ updates.ChannelAccessHasher = (*Tracker)(nil)

// New создаёт трекер с пустым кэшем. onSnapshot может быть nil.
func New(onSnapshot SnapshotFunc) *Tracker {
	return &Tracker{
		cache:      peers.NewCache(),
		onSnapshot: onSnapshot,
	}
}

// SetSelf фиксирует аккаунт сессии; повторные вызовы игнорируются.
func (t *Tracker) SetSelf(u *tg.User) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cache.SetSelf(u)
}

// SelfID паникует до SetSelf, как и peers.Cache.SelfID.
func (t *Tracker) SelfID() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cache.SelfID()
}

// IsSelfBot безопасен в любой момент.
func (t *Tracker) IsSelfBot() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cache.IsSelfBot()
}

// Contains сообщает, можно ли адресовать пира без дополнительных запросов.
func (t *Tracker) Contains(peer tg.PeerClass) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cache.Contains(peer)
}

// InputPeer строит tg.InputPeerClass по накопленным хэшам.
func (t *Tracker) InputPeer(peer tg.PeerClass) (tg.InputPeerClass, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cache.InputPeer(peer)
}

// InputPeerOrEmpty — InputPeer с подстановкой InputPeerEmpty, удобно для offset_peer.
func (t *Tracker) InputPeerOrEmpty(peer tg.PeerClass) tg.InputPeerClass {
	if peer == nil {
		return &tg.InputPeerEmpty{}
	}
	if p, ok := t.InputPeer(peer); ok {
		return p
	}
	return &tg.InputPeerEmpty{}
}

// Apply переносит хэши из users/chats в кэш.
func (t *Tracker) Apply(users []tg.UserClass, chats []tg.ChatClass) int {
	if len(users) == 0 && len(chats) == 0 {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cache.Apply(users, chats)
}

// Stats возвращает число известных пользователей и каналов.
func (t *Tracker) Stats() (users, channels int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cache.Users(), t.cache.Channels()
}

// GetChannelAccessHash отдаёт менеджеру апдейтов хэш канала. userID не
// учитывается: один трекер обслуживает один аккаунт.
func (t *Tracker) GetChannelAccessHash(_ context.Context, _, channelID int64) (int64, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	hash, ok := t.cache.ChannelAccessHash(channelID)
	return hash, ok, nil
}

// SetChannelAccessHash сохраняет хэш канала, найденный менеджером апдейтов.
func (t *Tracker) SetChannelAccessHash(_ context.Context, _, channelID, accessHash int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cache.PutChannel(channelID, accessHash)
	return nil
}

// Hook возвращает обработчик апдейтов, который сначала учитывает сущности пачки,
// затем передаёт её next. next может быть nil.
func (t *Tracker) Hook(next telegram.UpdateHandler) telegram.UpdateHandler {
	return telegram.UpdateHandlerFunc(func(ctx context.Context, u tg.UpdatesClass) error {
		t.observe(ctx, u)
		if next == nil {
			return nil
		}
		return next.Handle(ctx, u)
	})
}

func (t *Tracker) observe(ctx context.Context, u tg.UpdatesClass) {
	var (
		batch []tg.UpdateClass
		users []tg.UserClass
		chats []tg.ChatClass
	)
	switch v := u.(type) {
	case *tg.Updates:
		batch, users, chats = v.Updates, v.Users, v.Chats
	case *tg.UpdatesCombined:
		batch, users, chats = v.Updates, v.Users, v.Chats
	case *tg.UpdateShort:
		batch = []tg.UpdateClass{v.Update}
	default:
		// Короткие сообщения без сущностей: снимок пустой.
		if t.onSnapshot != nil {
			t.onSnapshot(ctx, peers.EmptySnapshot(), nil)
		}
		return
	}

	if learned := t.Apply(users, chats); learned > 0 {
		logger.Debug("tracker: access hashes learned",
			zap.Int("learned", learned),
			zap.Int("users", len(users)),
			zap.Int("chats", len(chats)),
		)
	}

	if t.onSnapshot == nil {
		return
	}
	snap := peers.EmptySnapshot()
	if len(users) > 0 || len(chats) > 0 {
		snap = peers.NewSnapshot(users, chats)
	}
	t.onSnapshot(ctx, snap, batch)
}
