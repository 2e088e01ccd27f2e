// Package app assembles the storefront bot: configuration, database,
// session backend, seeding, and the Telegram run options.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"shopbot/core/bootstrap"
	"shopbot/core/logger"
	coretelegram "shopbot/core/telegram"
	"shopbot/core/telegram/router"
	"shopbot/core/telegram/state"
	"shopbot/core/telegram/ui"
	"shopbot/internal/bot"
	"shopbot/internal/store"
)

// App owns the wired application components for one bot process.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	store    store.Store
	sessions state.Manager
	bot      *bot.Bot
}

// Bootstrap initializes logging, database, migrations and seed data, then
// wires the handlers.
func Bootstrap(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	st := store.NewSQL(res.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	seeders := []bootstrap.Seeder{
		bootstrap.SeederFunc(func(ctx context.Context, _ bootstrap.Storage) error {
			return st.SeedCategories(ctx, store.DefaultCategories)
		}),
		bootstrap.SeederFunc(func(ctx context.Context, _ bootstrap.Storage) error {
			return st.SeedBanners(ctx, store.DefaultBanners)
		}),
	}
	if err := bootstrap.RunSeeders(ctx, res.DB, seeders); err != nil {
		_ = res.DB.Close()
		return nil, fmt.Errorf("seed reference data: %w", err)
	}

	sessions, err := buildSessions(cfg)
	if err != nil {
		_ = res.DB.Close()
		return nil, err
	}

	return &App{
		cfg:      cfg,
		db:       res.DB,
		store:    st,
		sessions: sessions,
		bot:      bot.New(st, sessions, cfg.Telegram.AdminIDs),
	}, nil
}

func buildSessions(cfg *Config) (state.Manager, error) {
	if cfg.Sessions.Backend == SessionsRedis {
		mgr, err := state.NewRedisManager(cfg.Sessions.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis sessions: %w", err)
		}
		return mgr, nil
	}
	return state.NewMemoryManager(), nil
}

// TelegramRunOptions builds the registry, routes and middleware chain for
// the bot runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.bot.Register(reg)

	var fallbacks ui.FallbackProvider = a.bot
	reg.SetCallbackNotFound(fallbacks.UnknownCallback())

	adminIDs := a.cfg.Telegram.AdminIDs

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs: adminIDs,
	})
	routes = append(routes, router.TextRoutes(a.sessions, reg, router.TextOptions{
		UnknownText:  fallbacks.UnknownText(),
		UnknownPhoto: fallbacks.UnknownPhoto(),
		AdminIDs:     adminIDs,
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: fallbacks.UnknownCallback(),
	}))

	return coretelegram.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Config, nil),
		Routes:      routes,
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			if err := a.db.Close(); err != nil {
				logger.DB.Error("db close failed")
				return err
			}
			return nil
		},
	}, nil
}
