package app

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/gotd/td/tg"

	"peerwatch/internal/infra/logger"
	"peerwatch/internal/infra/pr"
	"peerwatch/internal/peers"
)

const textMaxLen = 50

// PeerChecker — то, что нужно печати от трекера: знаем ли мы хэш пира.
type PeerChecker interface {
	Contains(peer tg.PeerClass) bool
}

// Printer печатает новые сообщения одной строкой, беря имена из снимка пачки.
type Printer struct {
	out   func() io.Writer
	peers PeerChecker
}

// NewPrinter создаёт печать в pr.Stdout.
func NewPrinter(checker PeerChecker) *Printer {
	return &Printer{out: pr.Stdout, peers: checker}
}

// OnSnapshot — tracker.SnapshotFunc.
func (p *Printer) OnSnapshot(_ context.Context, snap *peers.Snapshot, batch []tg.UpdateClass) {
	if logger.IsDebugEnabled() && snap.Len() > 0 {
		logger.Debugf("snapshot: %s", pr.Pf(snap.Keys()))
	}
	for _, upd := range batch {
		var msg tg.MessageClass
		switch u := upd.(type) {
		case *tg.UpdateNewMessage:
			msg = u.Message
		case *tg.UpdateNewChannelMessage:
			msg = u.Message
		default:
			continue
		}
		m, ok := msg.(*tg.Message)
		if !ok || m.PeerID == nil {
			continue
		}
		fmt.Fprintln(p.out(), p.describeMessage(snap, m))
	}
}

// describeMessage формирует строку «<чат> > <автор>: <текст>».
func (p *Printer) describeMessage(snap *peers.Snapshot, m *tg.Message) string {
	line := p.describePeer(snap, m.PeerID)
	if from, ok := m.GetFromID(); ok && from != nil {
		if peers.KeyOf(from) != peers.KeyOf(m.PeerID) {
			line += " > " + p.describePeer(snap, from)
		}
	}
	return line + ": " + truncate(m.Message, textMaxLen)
}

// describePeer называет пира по снимку. Если сущности в пачке нет, сообщает,
// можно ли адресовать пира по накопленным хэшам.
func (p *Printer) describePeer(snap *peers.Snapshot, peer tg.PeerClass) string {
	key := peers.KeyOf(peer)
	if e, ok := snap.Get(peer); ok {
		if name := e.DisplayName(); name != "" {
			return fmt.Sprintf("%s '%s'", kindLabel(e), name)
		}
		return key.String()
	}
	if r, ok := snap.Forbidden(peer); ok {
		return fmt.Sprintf("%s '%s' (forbidden)", key.Kind, r.Title)
	}
	if p.peers != nil && p.peers.Contains(peer) {
		return key.String()
	}
	return key.String() + " (unresolved)"
}

// kindLabel различает канал и супергруппу по флагам.
func kindLabel(e peers.Entity) string {
	if ch, ok := e.Channel(); ok {
		switch {
		case ch.Broadcast:
			return "Channel"
		case ch.Megagroup:
			return "Supergroup"
		}
	}
	switch e.Kind() {
	case peers.KindUser:
		return "User"
	case peers.KindChat:
		return "Chat"
	default:
		return "Channel-like"
	}
}

// truncate режет текст по рунам, а не по байтам.
func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit]) + "..."
}
