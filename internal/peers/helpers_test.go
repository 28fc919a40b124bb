package peers_test

import "github.com/gotd/td/tg"

func newUser(id, hash int64, first string) *tg.User {
	u := &tg.User{ID: id, FirstName: first}
	u.SetAccessHash(hash)
	return u
}

func newChannel(id, hash int64, title string) *tg.Channel {
	c := &tg.Channel{ID: id, Title: title}
	c.SetAccessHash(hash)
	return c
}
