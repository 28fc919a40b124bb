package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gotd/td/tg"

	"peerwatch/internal/infra/logger"
	"peerwatch/internal/peers"
	"peerwatch/internal/tracker"
)

const dialogsPageLimit = 100

var errDialogsNotModified = errors.New("dialogs not modified")

// DialogsAPI — часть tg.Client, нужная для выгрузки диалогов.
type DialogsAPI interface {
	MessagesGetDialogs(ctx context.Context, request *tg.MessagesGetDialogsRequest) (tg.MessagesDialogsClass, error)
}

// WarmupStats — итог прогрева кэша по списку диалогов.
type WarmupStats struct {
	Pages     int
	Dialogs   int
	Resolved  int
	Forbidden int
	Learned   int
}

// warmupDialogs постранично выгружает диалоги. Каждая страница превращается в
// Snapshot (для имён) и скармливается трекеру (для хэшей); offset_peer следующей
// страницы строится уже из трекера. pause вызывается между страницами.
func warmupDialogs(ctx context.Context, api DialogsAPI, tr *tracker.Tracker, pause func(context.Context)) (WarmupStats, error) {
	var (
		stats      WarmupStats
		offsetDate int
		offsetID   int
		offsetPeer tg.InputPeerClass = &tg.InputPeerEmpty{}
	)

	for {
		resp, err := api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
			OffsetDate: offsetDate,
			OffsetID:   offsetID,
			OffsetPeer: offsetPeer,
			Limit:      dialogsPageLimit,
		})
		if err != nil {
			return stats, fmt.Errorf("MessagesGetDialogs: %w", err)
		}

		batch, err := normalizeDialogs(resp)
		if errors.Is(err, errDialogsNotModified) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		if len(batch.Dialogs) == 0 {
			return stats, nil
		}

		stats.Pages++
		stats.Learned += tr.Apply(batch.Users, batch.Chats)
		snap := peers.NewSnapshot(batch.Users, batch.Chats)

		var last tg.PeerClass
		for _, dialog := range batch.Dialogs {
			stats.Dialogs++
			peer := dialogPeer(dialog)
			if peer == nil {
				continue
			}
			last = peer
			if _, ok := dialog.(*tg.DialogFolder); ok {
				continue
			}
			if e, ok := snap.Get(peer); ok {
				stats.Resolved++
				logger.Debug("dialog", zap.Stringer("peer", e.Key()), zap.String("name", e.DisplayName()))
				continue
			}
			if r, ok := snap.Forbidden(peer); ok {
				stats.Forbidden++
				logger.Debug("dialog forbidden",
					zap.Stringer("peer", r.Key),
					zap.String("title", r.Title),
					zap.Int("until", r.UntilDate),
				)
			}
		}

		if len(batch.Dialogs) < dialogsPageLimit {
			return stats, nil
		}

		prevDate, prevID := offsetDate, offsetID
		if top := topMessage(batch.Dialogs[len(batch.Dialogs)-1]); top != 0 {
			offsetID = top
			offsetDate = messageDate(batch.Messages, top)
		}
		if offsetDate == 0 {
			offsetDate = prevDate
		}
		if offsetID == 0 {
			offsetID = prevID
		}
		offsetPeer = tr.InputPeerOrEmpty(last)

		if pause != nil {
			pause(ctx)
		}
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
	}
}

func normalizeDialogs(resp tg.MessagesDialogsClass) (*tg.MessagesDialogs, error) {
	switch d := resp.(type) {
	case *tg.MessagesDialogs:
		return d, nil
	case *tg.MessagesDialogsSlice:
		return &tg.MessagesDialogs{
			Dialogs:  d.Dialogs,
			Messages: d.Messages,
			Chats:    d.Chats,
			Users:    d.Users,
		}, nil
	case *tg.MessagesDialogsNotModified:
		return nil, errDialogsNotModified
	default:
		return nil, fmt.Errorf("unexpected dialogs response: %T", resp)
	}
}

func dialogPeer(dialog tg.DialogClass) tg.PeerClass {
	switch d := dialog.(type) {
	case *tg.Dialog:
		return d.Peer
	case *tg.DialogFolder:
		return d.Peer
	default:
		return nil
	}
}

func topMessage(dialog tg.DialogClass) int {
	switch d := dialog.(type) {
	case *tg.Dialog:
		return d.TopMessage
	case *tg.DialogFolder:
		return d.TopMessage
	default:
		return 0
	}
}

// messageDate ищет дату сообщения id среди обычных и сервисных сообщений.
func messageDate(messages []tg.MessageClass, id int) int {
	for _, msg := range messages {
		switch m := msg.(type) {
		case *tg.Message:
			if m.ID == id {
				return m.Date
			}
		case *tg.MessageService:
			if m.ID == id {
				return m.Date
			}
		}
	}
	return 0
}
