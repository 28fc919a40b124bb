package peers

import (
	"cmp"
	"slices"

	"github.com/gotd/td/tg"
)

// Snapshot — неизменяемый индекс сущностей из одного ответа API. Многие ответы
// несут рядом списки users и chats; снимок складывает их в одну карту по Key.
//
// После NewSnapshot ни один метод не изменяет состояние, поэтому указатель можно
// отдавать нескольким горутинам без блокировок. nil-снимок ведёт себя как пустой.
type Snapshot struct {
	entities  map[Key]Entity
	forbidden map[Key]Restriction
}

// Restriction сохраняет то, что Telegram сообщил о недоступной группе или канале
// (ChatForbidden/ChannelForbidden). UntilDate — unix-время окончания бана, 0 если бессрочно.
type Restriction struct {
	Key       Key
	Title     string
	UntilDate int
	Broadcast bool
	Megagroup bool
}

// NewSnapshot строит снимок из users и chats в порядке следования. Заглушки
// (UserEmpty, ChatEmpty, *Forbidden) в основную карту не попадают. При повторе
// ключа побеждает более поздняя запись.
func NewSnapshot(users []tg.UserClass, chats []tg.ChatClass) *Snapshot {
	s := &Snapshot{
		entities: make(map[Key]Entity, len(users)+len(chats)),
	}
	for _, u := range users {
		if e, ok := EntityFromUser(u); ok {
			s.entities[e.Key()] = e
		}
	}
	for _, c := range chats {
		if e, ok := EntityFromChat(c); ok {
			s.entities[e.Key()] = e
			delete(s.forbidden, e.Key())
			continue
		}
		s.noteForbidden(c)
	}
	return s
}

// SnapshotFromEntities строит снимок из tg.Entities, которые gotd отдаёт
// обработчикам UpdateDispatcher. Порядка в картах нет, но и дублей тоже.
func SnapshotFromEntities(entities tg.Entities) *Snapshot {
	s := &Snapshot{
		entities: make(map[Key]Entity, len(entities.Users)+len(entities.Chats)+len(entities.Channels)),
	}
	for _, u := range entities.Users {
		if u != nil {
			s.entities[UserKey(u.ID)] = UserEntity(u)
		}
	}
	for _, c := range entities.Chats {
		if c != nil {
			s.entities[ChatKey(c.ID)] = ChatEntity(c)
		}
	}
	for _, c := range entities.Channels {
		if c != nil {
			s.entities[ChannelKey(c.ID)] = ChannelEntity(c)
		}
	}
	return s
}

// EmptySnapshot возвращает снимок без записей для ответов без сопутствующих сущностей.
func EmptySnapshot() *Snapshot {
	return &Snapshot{entities: map[Key]Entity{}}
}

func (s *Snapshot) noteForbidden(chat tg.ChatClass) {
	var r Restriction
	switch c := chat.(type) {
	case *tg.ChatForbidden:
		r = Restriction{Key: ChatKey(c.ID), Title: c.Title}
	case *tg.ChannelForbidden:
		r = Restriction{
			Key:       ChannelKey(c.ID),
			Title:     c.Title,
			UntilDate: c.UntilDate,
			Broadcast: c.Broadcast,
			Megagroup: c.Megagroup,
		}
	default:
		return
	}
	if s.forbidden == nil {
		s.forbidden = make(map[Key]Restriction)
	}
	// Полная запись о том же пире важнее запрета, пришедшего раньше.
	if _, ok := s.entities[r.Key]; ok {
		return
	}
	s.forbidden[r.Key] = r
}

// Get возвращает сущность по ссылке на пира.
func (s *Snapshot) Get(peer tg.PeerClass) (Entity, bool) {
	return s.GetKey(KeyOf(peer))
}

// GetKey — то же, что Get, но по готовому ключу.
func (s *Snapshot) GetKey(key Key) (Entity, bool) {
	if s == nil {
		return Entity{}, false
	}
	e, ok := s.entities[key]
	return e, ok
}

// User возвращает пользователя по ID.
func (s *Snapshot) User(id int64) (*tg.User, bool) {
	e, ok := s.GetKey(UserKey(id))
	if !ok {
		return nil, false
	}
	return e.User()
}

// Chat возвращает обычную группу по ID.
func (s *Snapshot) Chat(id int64) (*tg.Chat, bool) {
	e, ok := s.GetKey(ChatKey(id))
	if !ok {
		return nil, false
	}
	return e.Chat()
}

// Channel возвращает канал по ID.
func (s *Snapshot) Channel(id int64) (*tg.Channel, bool) {
	e, ok := s.GetKey(ChannelKey(id))
	if !ok {
		return nil, false
	}
	return e.Channel()
}

// Forbidden сообщает, что пир пришёл в ответе как недоступный, и почему.
// Такие пиры Get считает отсутствующими.
func (s *Snapshot) Forbidden(peer tg.PeerClass) (Restriction, bool) {
	if s == nil || s.forbidden == nil {
		return Restriction{}, false
	}
	r, ok := s.forbidden[KeyOf(peer)]
	return r, ok
}

// Len — число доступных сущностей в снимке.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entities)
}

// Keys возвращает ключи, отсортированные по (Kind, ID), для детерминированного вывода.
func (s *Snapshot) Keys() []Key {
	if s == nil {
		return nil
	}
	keys := make([]Key, 0, len(s.entities))
	for k := range s.entities {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return keys
}
