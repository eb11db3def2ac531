package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	httpadapter "gamenight/internal/adapters/http"
	"gamenight/internal/adapters/scheduler"
	"gamenight/internal/config"
	"gamenight/internal/domain"
	"gamenight/internal/infrastructure/database"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and the background scheduler",
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if err := cfg.ValidateServer(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.Store == config.StorePostgres {
				if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath, logger); err != nil {
					return err
				}
			}

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			if a.bot != nil {
				if err := a.bot.Open(); err != nil {
					return err
				}
				defer a.bot.Close()
			}

			driver, err := newDriver(ctx, a)
			if err != nil {
				return err
			}
			if driver != nil {
				if err := driver.Start(ctx); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr: cfg.HTTP.Addr,
				Handler: httpadapter.NewRouter(httpadapter.Services{
					Events:       a.events,
					Lifecycle:    a.lifecycle,
					Participants: a.participants,
					Leaderboard:  a.leaderboard,
					Scheduler:    a.scheduler,
				}, a.translator, httpadapter.Options{
					JWTSecret:     cfg.Auth.JWTSecret,
					CronSecret:    cfg.Auth.CronSecret,
					DefaultLocale: cfg.Locale,
					Metrics:       promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
				}, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				logger.Info("http server listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
			}()

			var serveErr error
			select {
			case <-ctx.Done():
				logger.Info("shutdown requested")
			case serveErr = <-errc:
				logger.Error("http server failed", "error", serveErr)
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http shutdown failed", "error", err)
			}
			if driver != nil {
				if err := driver.Stop(shutdownCtx); err != nil {
					logger.Warn("scheduler shutdown failed", "error", err)
				}
			}
			a.lifecycle.WaitNotifications()
			logger.Info("shutdown complete")
			return serveErr
		},
	}
}

func newDriver(ctx context.Context, a *app) (scheduler.Driver, error) {
	switch a.cfg.Scheduler.Driver {
	case config.DriverNone:
		a.logger.Info("background scheduler disabled; use the cron endpoint or the sweep command")
		return nil, nil
	case config.DriverRiver:
		if err := scheduler.MigrateRiver(ctx, a.pool, a.logger); err != nil {
			return nil, err
		}
		return scheduler.NewRiver(a.pool, a.scheduler, a.cfg.Scheduler.Interval, a.logger)
	default:
		return scheduler.NewTicker(a.scheduler, a.cfg.Scheduler.Interval, a.logger), nil
	}
}

func sweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "run one scheduler sweep and print its summary as JSON",
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			a, err := newApp(c.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			summary := a.scheduler.RunScheduledTransitions(c.Context)
			a.lifecycle.WaitNotifications()

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return err
			}
			if !summary.Success {
				return cli.Exit("sweep finished with errors", 2)
			}
			return nil
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: func(c *cli.Context) error {
					cfg, logger, err := setup()
					if err != nil {
						return err
					}
					return database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath, logger)
				},
			},
			{
				Name:  "down",
				Usage: "roll back migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
				},
				Action: func(c *cli.Context) error {
					cfg, logger, err := setup()
					if err != nil {
						return err
					}
					return database.RollbackMigrations(cfg.Database.URL, cfg.Database.MigrationsPath, c.Int("steps"), logger)
				},
			},
		},
	}
}

func transitionCommand() *cli.Command {
	return &cli.Command{
		Name:  "transition",
		Usage: "move an event to another status as its organizer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "event", Required: true, Usage: "event ID"},
			&cli.StringFlag{Name: "to", Required: true, Usage: "target status"},
			&cli.StringFlag{Name: "organizer", Required: true, Usage: "organizer user ID"},
			&cli.BoolFlag{Name: "archive", Usage: "archive right after completion"},
			&cli.BoolFlag{Name: "results-visible", Usage: "publish results on completion"},
			&cli.BoolFlag{Name: "no-notify", Usage: "skip the status change notification"},
		},
		Action: func(c *cli.Context) error {
			eventID, err := uuid.Parse(c.String("event"))
			if err != nil {
				return fmt.Errorf("invalid --event: %w", err)
			}
			to := domain.EventStatus(c.String("to"))
			if !to.Valid() {
				return fmt.Errorf("invalid --to %q", to)
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			a, err := newApp(c.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			opts := &domain.CompletionOptions{Archive: c.Bool("archive")}
			if c.IsSet("results-visible") {
				v := c.Bool("results-visible")
				opts.ResultsVisible = &v
			}
			if c.Bool("no-notify") {
				v := false
				opts.Notify = &v
			}

			result, err := a.lifecycle.RequestTransition(c.Context, eventID, to, domain.OrganizerActor(c.String("organizer")), opts)
			if err != nil {
				return err
			}
			a.lifecycle.WaitNotifications()

			fmt.Fprintf(c.App.Writer, "%s: %s -> %s applied=%t\n", eventID, result.From, result.To, result.Applied)
			if result.SideEffectErr != nil {
				return cli.Exit(fmt.Sprintf("status changed but side effects failed: %v", result.SideEffectErr), 2)
			}
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue an API bearer token for a user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Required: true, Usage: "user ID (token subject)"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := httpadapter.IssueToken([]byte(cfg.Auth.JWTSecret), c.String("user"), c.Duration("ttl"), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
