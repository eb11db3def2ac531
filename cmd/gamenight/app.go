package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"gamenight/internal/adapters/discord"
	"gamenight/internal/application"
	"gamenight/internal/config"
	"gamenight/internal/infrastructure/clock"
	"gamenight/internal/infrastructure/database"
	"gamenight/internal/infrastructure/database/sqlc_generated"
	"gamenight/internal/infrastructure/i18n"
	"gamenight/internal/infrastructure/memory"
	"gamenight/internal/infrastructure/metrics"
	"gamenight/internal/infrastructure/notify"
	"gamenight/internal/ports/output"
	pkgdiscord "gamenight/pkg/discord"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	registry   *prometheus.Registry
	translator *i18n.Translator
	bot        *discord.Bot

	events       *application.EventService
	participants *application.ParticipantService
	lifecycle    *application.LifecycleService
	leaderboard  *application.LeaderboardService
	scheduler    *application.SchedulerService

	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	var (
		eventRepo       output.EventRepository
		participantRepo output.ParticipantRepository
	)
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		eventRepo = memory.NewEventRepository()
		participantRepo = memory.NewParticipantRepository()
	default:
		pool, err := database.NewPool(ctx, cfg.Database.URL, logger)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		a.closers = append(a.closers, pool.Close)
		q := sqlc_generated.New(pool)
		eventRepo = database.NewEventRepository(q)
		participantRepo = database.NewParticipantRepository(pool, q)
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewPrometheus(a.registry)

	a.translator = i18n.NewTranslator(cfg.Locale, logger)
	notifier, err := a.notifiers(logger)
	if err != nil {
		a.close()
		return nil, err
	}

	clk := clock.System{}
	a.events = application.NewEventService(eventRepo, logger)
	a.participants = application.NewParticipantService(participantRepo, eventRepo, clk, logger)
	a.lifecycle = application.NewLifecycleService(eventRepo, a.participants, notifier, clk, m, logger, application.LifecycleConfig{
		Buffer:        cfg.Scheduler.Buffer,
		NoShowGrace:   cfg.Lifecycle.NoShowGrace,
		NotifyTimeout: cfg.Lifecycle.NotifyTimeout,
	})
	a.leaderboard = application.NewLeaderboardService(eventRepo, participantRepo)
	a.scheduler = application.NewSchedulerService(eventRepo, a.lifecycle, notifier, clk, m, logger, application.SchedulerConfig{
		Buffer:          cfg.Scheduler.Buffer,
		ReminderTimeout: cfg.Lifecycle.NotifyTimeout,
	})
	return a, nil
}

// notifiers always logs, and adds Discord and NATS when configured.
func (a *app) notifiers(logger *slog.Logger) (output.Notifier, error) {
	loc := a.cfg.Location()
	targets := notify.Multi{notify.NewLog(logger, a.translator, a.cfg.Locale, loc)}

	if a.cfg.Discord.Token != "" {
		bot, err := discord.NewBot(a.cfg.Discord.Token, logger)
		if err != nil {
			return nil, err
		}
		a.bot = bot
		embeds := pkgdiscord.EmbedContext{Translator: a.translator, Locale: a.cfg.Locale, Location: loc}
		targets = append(targets, discord.NewNotifier(bot.Session(), a.cfg.Discord.ChannelID, embeds, logger))
	}

	if a.cfg.NATS.URL != "" {
		nc, err := notify.Connect(a.cfg.NATS.URL, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			if err := nc.Drain(); err != nil {
				logger.Warn("nats drain failed", "error", err)
			}
		})
		targets = append(targets, notify.NewNATS(nc, a.cfg.NATS.SubjectPrefix, logger))
	}

	logger.Info("notifiers configured", "count", len(targets))
	return targets, nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
