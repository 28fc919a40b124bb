// Package peers — ядро разрешения ссылок на собеседников (tg.PeerClass) в полные
// сущности и в адресуемые хэндлы (tg.InputPeerClass). Пакет содержит три части:
//   - Key — нормализованный ключ пира с учётом типа (user/chat/channel);
//   - Snapshot — неизменяемый снимок сущностей из одного ответа API;
//   - Cache — накопительный кэш access_hash для исходящих запросов.
//
// Всё в пакете синхронно и работает только в памяти. Синхронизация Cache — забота
// владельца сессии (см. internal/tracker).
package peers

import (
	"fmt"

	"github.com/gotd/td/tg"
)

// Kind — тип пира. Числовые ID у пользователей, групп и каналов пересекаются,
// поэтому тип всегда входит в ключ.
type Kind uint8

const (
	KindUser Kind = iota + 1
	KindChat
	KindChannel
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindChat:
		return "chat"
	case KindChannel:
		return "channel"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Key — хешируемый ключ пира. Сравнение учитывает Kind: user:5 и channel:5 различны.
type Key struct {
	Kind Kind
	ID   int64
}

// UserKey возвращает ключ пользователя.
func UserKey(id int64) Key { return Key{Kind: KindUser, ID: id} }

// ChatKey возвращает ключ обычной группы.
func ChatKey(id int64) Key { return Key{Kind: KindChat, ID: id} }

// ChannelKey возвращает ключ канала или супергруппы.
func ChannelKey(id int64) Key { return Key{Kind: KindChannel, ID: id} }

// KeyOf строит ключ из ссылки на пира. У каждой настоящей ссылки ключ есть;
// nil или неизвестный класс — ошибка вызывающего кода, поэтому panic.
func KeyOf(peer tg.PeerClass) Key {
	switch p := peer.(type) {
	case *tg.PeerUser:
		return UserKey(p.UserID)
	case *tg.PeerChat:
		return ChatKey(p.ChatID)
	case *tg.PeerChannel:
		return ChannelKey(p.ChannelID)
	default:
		panic(fmt.Sprintf("peers: unsupported peer type %T", peer))
	}
}

// Peer возвращает ссылку на пира, из которой получается этот же ключ.
func (k Key) Peer() tg.PeerClass {
	switch k.Kind {
	case KindUser:
		return &tg.PeerUser{UserID: k.ID}
	case KindChat:
		return &tg.PeerChat{ChatID: k.ID}
	case KindChannel:
		return &tg.PeerChannel{ChannelID: k.ID}
	default:
		panic(fmt.Sprintf("peers: invalid key kind %d", uint8(k.Kind)))
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.ID)
}
