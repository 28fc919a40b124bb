// Package app собирает клиент: gotd-клиент с middleware, менеджер апдейтов с
// bbolt-хранилищем состояния и трекер пиров, через который проходят все
// сущности из апдейтов и из выгрузки диалогов.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	boltstor "github.com/gotd/contrib/bbolt"
	"github.com/gotd/contrib/middleware/floodwait"
	"github.com/gotd/contrib/middleware/ratelimit"
	"github.com/gotd/td/telegram"
	tdauth "github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/dcs"
	"github.com/gotd/td/telegram/updates"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"peerwatch/internal/infra/config"
	"peerwatch/internal/infra/logger"
	"peerwatch/internal/infra/storage"
	"peerwatch/internal/infra/telegram/session"
	"peerwatch/internal/telegram/auth"
	telegramruntime "peerwatch/internal/telegram/runtime"
	"peerwatch/internal/tracker"
)

const (
	stateOpenTimeout = time.Second
	warmupWaitMinMs  = 500
	warmupWaitMaxMs  = 1500
)

// App держит зависимости одной сессии клиента.
type App struct {
	env     config.EnvConfig
	tracker *tracker.Tracker
	printer *Printer
	stateDB *bbolt.DB
	updMgr  *updates.Manager
	waiter  *floodwait.Waiter
	client  *telegram.Client
}

// New готовит клиент по конфигурации; сетевых запросов не делает.
func New(env config.EnvConfig) (*App, error) {
	a := &App{env: env}

	a.printer = NewPrinter(nil)
	a.tracker = tracker.New(a.printer.OnSnapshot)
	a.printer.peers = a.tracker

	if err := storage.EnsureDir(env.StateFile); err != nil {
		return nil, fmt.Errorf("ensure state file dir: %w", err)
	}
	db, err := bbolt.Open(env.StateFile, storage.DefaultFilePerm, &bbolt.Options{Timeout: stateOpenTimeout})
	if err != nil {
		return nil, errors.Wrap(err, "open updates state")
	}
	a.stateDB = db

	// Менеджер апдейтов восстанавливает пропуски и отдаёт пачки с сущностями
	// трекеру; хэши каналов для getChannelDifference он берёт оттуда же.
	a.updMgr = updates.New(updates.Config{
		Handler:      a.tracker.Hook(nil),
		Storage:      boltstor.NewStateStorage(db),
		AccessHasher: a.tracker,
		Logger:       logger.Named("updates"),
	})

	a.waiter = floodwait.NewWaiter()
	options := telegram.Options{
		SessionStorage: &session.FileStorage{Path: env.SessionFile},
		UpdateHandler:  a.updMgr,
		Middlewares: []telegram.Middleware{
			a.waiter,
			ratelimit.New(rate.Limit(env.ThrottleRPS), env.ThrottleRPS*2), //nolint:mnd // burst = 2*rate
		},
	}
	if env.TestDC {
		options.DCList = dcs.Test()
	}
	a.client = telegram.NewClient(env.APIID, env.APIHash, options)

	return a, nil
}

// Run авторизуется, фиксирует self, прогревает кэш и слушает апдейты до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.stateDB.Close(); err != nil {
			logger.Warn("close updates state", zap.Error(err))
		}
	}()

	return a.waiter.Run(ctx, func(ctx context.Context) error {
		return a.client.Run(ctx, func(ctx context.Context) error {
			flow := tdauth.NewFlow(auth.TerminalAuthenticator{PhoneNumber: a.env.PhoneNumber}, tdauth.SendCodeOptions{})
			if err := a.client.Auth().IfNecessary(ctx, flow); err != nil {
				return errors.Wrap(err, "auth")
			}

			self, err := a.client.Self(ctx)
			if err != nil {
				return errors.Wrap(err, "get self")
			}
			a.tracker.SetSelf(self)
			logger.Info("Logged in as:",
				zap.String("FirstName", self.FirstName),
				zap.String("Username", self.Username),
				zap.Int64("ID", a.tracker.SelfID()),
				zap.Bool("Bot", a.tracker.IsSelfBot()),
			)

			if a.env.WarmupDialogs && !a.tracker.IsSelfBot() {
				stats, warmErr := warmupDialogs(ctx, a.client.API(), a.tracker, func(ctx context.Context) {
					telegramruntime.WaitRandomTimeMs(ctx, warmupWaitMinMs, warmupWaitMaxMs)
				})
				if warmErr != nil {
					// Без прогрева клиент работает, просто хэши накопятся позже из апдейтов.
					logger.Error("dialogs warmup failed", zap.Error(warmErr))
				}
				users, channels := a.tracker.Stats()
				logger.Info("dialogs warmup done",
					zap.Int("pages", stats.Pages),
					zap.Int("dialogs", stats.Dialogs),
					zap.Int("resolved", stats.Resolved),
					zap.Int("forbidden", stats.Forbidden),
					zap.Int("users", users),
					zap.Int("channels", channels),
				)
			}

			return a.updMgr.Run(ctx, a.client.API(), a.tracker.SelfID(), updates.AuthOptions{
				IsBot: a.tracker.IsSelfBot(),
				OnStart: func(context.Context) {
					logger.Info("Listening for updates...")
				},
			})
		})
	})
}
