package peers

import (
	"errors"

	"github.com/gotd/td/tg"
)

// ErrSelfUnknown — значение panic при обращении к SelfID до SetSelf.
var ErrSelfUnknown = errors.New("peers: self id queried before it is known")

// Cache накапливает access_hash пользователей и каналов за время сессии и по
// ним строит tg.InputPeer* для исходящих запросов. Обычным группам хэш не нужен.
//
// Пользователи и каналы лежат в разных картах: совпадение числовых ID разных
// типов не смешивается. Кэш только растёт. Блокировок внутри нет: владелец
// (сессия) сам решает, как сериализовать доступ.
type Cache struct {
	users     map[int64]int64
	channels  map[int64]int64
	selfID    int64
	selfKnown bool
	selfBot   bool
}

// NewCache создаёт пустой кэш: ни хэшей, ни self, selfBot=false.
func NewCache() *Cache {
	return &Cache{
		users:    make(map[int64]int64),
		channels: make(map[int64]int64),
	}
}

// SelfID возвращает ID текущего аккаунта. Вызов до SetSelf — ошибка порядка
// инициализации в клиенте, поэтому panic(ErrSelfUnknown), а не error.
func (c *Cache) SelfID() int64 {
	if !c.selfKnown {
		panic(ErrSelfUnknown)
	}
	return c.selfID
}

// IsSelfBot сообщает, что аккаунт — бот. До SetSelf безопасно возвращает false.
func (c *Cache) IsSelfBot() bool {
	return c.selfBot
}

// SelfKnown сообщает, установлен ли self.
func (c *Cache) SelfKnown() bool {
	return c.selfKnown
}

// SetSelf фиксирует собственный аккаунт. Срабатывает один раз: повторные вызовы
// игнорируются и возвращают false. Хэш самого себя тоже запоминается.
func (c *Cache) SetSelf(u *tg.User) bool {
	if u == nil {
		return false
	}
	if !c.SetSelfID(u.ID, u.Bot) {
		return false
	}
	if hash, ok := u.GetAccessHash(); ok && !u.Min {
		c.users[u.ID] = hash
	}
	return true
}

// SetSelfID — вариант SetSelf для случаев, когда известны только ID и признак бота.
func (c *Cache) SetSelfID(id int64, bot bool) bool {
	if c.selfKnown {
		return false
	}
	c.selfID = id
	c.selfBot = bot
	c.selfKnown = true
	return true
}

// Contains сообщает, хватает ли данных, чтобы адресовать пира.
func (c *Cache) Contains(peer tg.PeerClass) bool {
	switch p := peer.(type) {
	case *tg.PeerUser:
		_, ok := c.users[p.UserID]
		return ok
	case *tg.PeerChat:
		return true
	case *tg.PeerChannel:
		_, ok := c.channels[p.ChannelID]
		return ok
	default:
		return false
	}
}

// InputPeer строит адресуемый хэндл для пира. Для пользователя и канала без
// известного хэша возвращает false: хэш должен сначала прийти через Apply/Put*.
func (c *Cache) InputPeer(peer tg.PeerClass) (tg.InputPeerClass, bool) {
	switch p := peer.(type) {
	case *tg.PeerUser:
		hash, ok := c.users[p.UserID]
		if !ok {
			return nil, false
		}
		return &tg.InputPeerUser{UserID: p.UserID, AccessHash: hash}, true
	case *tg.PeerChat:
		return &tg.InputPeerChat{ChatID: p.ChatID}, true
	case *tg.PeerChannel:
		hash, ok := c.channels[p.ChannelID]
		if !ok {
			return nil, false
		}
		return &tg.InputPeerChannel{ChannelID: p.ChannelID, AccessHash: hash}, true
	default:
		return nil, false
	}
}

// InputUser возвращает tg.InputUser для методов, принимающих только пользователя.
func (c *Cache) InputUser(id int64) (*tg.InputUser, bool) {
	hash, ok := c.users[id]
	if !ok {
		return nil, false
	}
	return &tg.InputUser{UserID: id, AccessHash: hash}, true
}

// InputChannel возвращает tg.InputChannel для методов channels.*.
func (c *Cache) InputChannel(id int64) (*tg.InputChannel, bool) {
	hash, ok := c.channels[id]
	if !ok {
		return nil, false
	}
	return &tg.InputChannel{ChannelID: id, AccessHash: hash}, true
}

// UserAccessHash возвращает сохранённый хэш пользователя.
func (c *Cache) UserAccessHash(id int64) (int64, bool) {
	hash, ok := c.users[id]
	return hash, ok
}

// ChannelAccessHash возвращает сохранённый хэш канала.
func (c *Cache) ChannelAccessHash(id int64) (int64, bool) {
	hash, ok := c.channels[id]
	return hash, ok
}

// PutUser запоминает хэш пользователя. Возвращает true, если значение изменилось.
func (c *Cache) PutUser(id, hash int64) bool {
	if id == 0 {
		return false
	}
	old, ok := c.users[id]
	c.users[id] = hash
	return !ok || old != hash
}

// PutChannel запоминает хэш канала. Возвращает true, если значение изменилось.
func (c *Cache) PutChannel(id, hash int64) bool {
	if id == 0 {
		return false
	}
	old, ok := c.channels[id]
	c.channels[id] = hash
	return !ok || old != hash
}

// Apply забирает хэши из users/chats очередного ответа и возвращает число
// новых или изменившихся записей.
//
// min-записи несут хэш, годный только в контексте конкретного сообщения, поэтому
// известный хэш они не перезаписывают. ChannelForbidden свой хэш сохраняет.
func (c *Cache) Apply(users []tg.UserClass, chats []tg.ChatClass) int {
	learned := 0
	for _, user := range users {
		u, ok := user.(*tg.User)
		if !ok || u == nil {
			continue
		}
		hash, ok := u.GetAccessHash()
		if !ok {
			continue
		}
		if _, known := c.users[u.ID]; u.Min && known {
			continue
		}
		if c.PutUser(u.ID, hash) {
			learned++
		}
	}
	for _, chat := range chats {
		switch ch := chat.(type) {
		case *tg.Channel:
			if ch == nil {
				continue
			}
			hash, ok := ch.GetAccessHash()
			if !ok {
				continue
			}
			if _, known := c.channels[ch.ID]; ch.Min && known {
				continue
			}
			if c.PutChannel(ch.ID, hash) {
				learned++
			}
		case *tg.ChannelForbidden:
			if ch != nil && c.PutChannel(ch.ID, ch.AccessHash) {
				learned++
			}
		}
	}
	return learned
}

// Users — число пользователей с известным хэшем.
func (c *Cache) Users() int { return len(c.users) }

// Channels — число каналов с известным хэшем.
func (c *Cache) Channels() int { return len(c.channels) }
