package peers

import (
	"strings"

	"github.com/gotd/td/tg"
)

// Entity — полная запись о пире: ровно одно из полей user/chat/channel не nil.
// Поля самих записей пакет не трактует, кроме ID и имени для отображения.
type Entity struct {
	user    *tg.User
	chat    *tg.Chat
	channel *tg.Channel
}

// UserEntity оборачивает пользователя.
func UserEntity(u *tg.User) Entity { return Entity{user: u} }

// ChatEntity оборачивает обычную группу.
func ChatEntity(c *tg.Chat) Entity { return Entity{chat: c} }

// ChannelEntity оборачивает канал или супергруппу.
func ChannelEntity(c *tg.Channel) Entity { return Entity{channel: c} }

// EntityFromUser отбрасывает заглушку tg.UserEmpty и nil.
func EntityFromUser(user tg.UserClass) (Entity, bool) {
	if u, ok := user.(*tg.User); ok && u != nil {
		return UserEntity(u), true
	}
	return Entity{}, false
}

// EntityFromChat отбрасывает ChatEmpty, ChatForbidden и ChannelForbidden: данных
// для работы с ними нет. Причину запрета при необходимости забирает Snapshot.
func EntityFromChat(chat tg.ChatClass) (Entity, bool) {
	switch c := chat.(type) {
	case *tg.Chat:
		if c != nil {
			return ChatEntity(c), true
		}
	case *tg.Channel:
		if c != nil {
			return ChannelEntity(c), true
		}
	}
	return Entity{}, false
}

// Kind возвращает тип сущности; для нулевого Entity — 0.
func (e Entity) Kind() Kind {
	switch {
	case e.user != nil:
		return KindUser
	case e.chat != nil:
		return KindChat
	case e.channel != nil:
		return KindChannel
	default:
		return 0
	}
}

// Key возвращает ключ, под которым сущность лежит в снимке.
func (e Entity) Key() Key {
	switch {
	case e.user != nil:
		return UserKey(e.user.ID)
	case e.chat != nil:
		return ChatKey(e.chat.ID)
	case e.channel != nil:
		return ChannelKey(e.channel.ID)
	default:
		panic("peers: key of zero entity")
	}
}

// Peer возвращает ссылку на пира этой сущности.
func (e Entity) Peer() tg.PeerClass {
	return e.Key().Peer()
}

func (e Entity) User() (*tg.User, bool)       { return e.user, e.user != nil }
func (e Entity) Chat() (*tg.Chat, bool)       { return e.chat, e.chat != nil }
func (e Entity) Channel() (*tg.Channel, bool) { return e.channel, e.channel != nil }

// DisplayName формирует читаемое имя: «Имя Фамилия» или @username для
// пользователя, заголовок для групп и каналов. Пустая строка — данных нет.
func (e Entity) DisplayName() string {
	switch {
	case e.user != nil:
		full := strings.TrimSpace(e.user.FirstName + " " + e.user.LastName)
		if full != "" {
			return full
		}
		if e.user.Username != "" {
			return "@" + strings.TrimPrefix(e.user.Username, "@")
		}
		return ""
	case e.chat != nil:
		return e.chat.Title
	case e.channel != nil:
		return e.channel.Title
	default:
		return ""
	}
}
