// Package app wires configuration, storage, the Telegram bot and the
// schedule engine together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"kalimerabot/internal/adapter/scheduler"
	"kalimerabot/internal/adapter/telegram"
	"kalimerabot/internal/adapter/telegram/handlers"
	"kalimerabot/internal/adapter/telegram/middleware"
	"kalimerabot/internal/config"
	"kalimerabot/internal/engine"
	"kalimerabot/internal/notify"
	"kalimerabot/internal/platform/logger"
	"kalimerabot/internal/platform/pg"
	"kalimerabot/internal/store"
	"kalimerabot/pkg/retry"
)

// App wires application components.
type App struct {
	cfg      config.Config
	log      *slog.Logger
	closeLog func() error
}

// New creates a new App instance and loads configuration.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, closeLog := logger.New(logger.Options{
		Env:          cfg.Env,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
		ErrorFile:    cfg.Log.ErrorFile,
		App:          "kalimerabot",
	})
	return &App{cfg: cfg, log: log, closeLog: closeLog}, nil
}

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	defer func() { _ = a.closeLog() }()
	a.log.Info("starting", "env", a.cfg.Env, "db_driver", a.cfg.DB.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(a.cfg.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	admins := middleware.NewACL(a.cfg.AdminIDs)
	rate := middleware.NewRateLimiter(time.Second)

	var disp *telegram.Dispatcher
	opts := []bot.Option{
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, upd *models.Update) {
			disp.Dispatch(ctx, upd)
		}),
		bot.WithAllowedUpdates([]string{"message", "callback_query"}),
	}
	if a.cfg.Telegram.WebhookSecret != "" {
		opts = append(opts, bot.WithWebhookSecretToken(a.cfg.Telegram.WebhookSecret))
	}

	b, err := bot.New(a.cfg.Telegram.Token, opts...)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	worker := notify.NewWorker(
		telegram.NewTransport(b),
		func(ctx context.Context, chatID int64) error {
			return st.UpsertEnabled(ctx, chatID, false)
		},
		notify.Options{
			PaceDelay:        a.cfg.Schedule.PaceDelay,
			MaxRateLimitWait: a.cfg.Schedule.MaxRateLimitWait,
		},
		a.log.With("component", "notify"),
	)

	h := handlers.New(handlers.Config{
		Store:           st,
		Broadcaster:     worker,
		Admins:          admins,
		Logger:          a.log.With("component", "handlers"),
		ActivityLogPath: a.cfg.Log.File,
		ErrorLogPath:    a.cfg.Log.ErrorFile,
	})
	disp = telegram.NewDispatcher(b, 8, middleware.Chain(h.Handle, rate.Middleware))
	defer disp.Close()

	eng := engine.New(st, worker, loc, a.cfg.Schedule.Message, a.log.With("component", "engine"))

	sched := scheduler.New(ctx, a.log.With("component", "scheduler"))
	sched.AddTickerJob(a.cfg.Schedule.TickInterval, eng.Tick, scheduler.JobOptions{
		Name:         "schedule-tick",
		InitialDelay: a.cfg.Schedule.InitialDelay,
		// a slow delivery run delays the next check, it never skips it
		OverlapPolicy: scheduler.DelayIfRunning,
	})
	if _, err := sched.AddCronJob("0 9 * * *", func(ctx context.Context) error {
		enabled, total, err := st.Counts(ctx)
		if err != nil {
			return err
		}
		a.log.Info("daily stats", "enabled", enabled, "total", total)
		return nil
	}, scheduler.JobOptions{Name: "daily-stats"}); err != nil {
		return fmt.Errorf("add stats job: %w", err)
	}
	sched.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = sched.StopContext(stopCtx)
	}()

	if a.cfg.Telegram.WebhookURL != "" {
		return a.runWebhook(ctx, b, st)
	}

	a.log.Info("polling for updates")
	go b.Start(ctx)
	<-ctx.Done()
	a.log.Info("shutting down")
	return nil
}

// openStore connects to the configured backend, retrying while the
// database comes up.
func (a *App) openStore(ctx context.Context) (store.Store, error) {
	if a.cfg.DB.Driver == "postgres" {
		if err := pg.WaitForDB(ctx, a.cfg.DB.DSN, 30*time.Second); err != nil {
			return nil, fmt.Errorf("wait for database: %w", err)
		}
	}

	var st store.Store

	cfg := retry.DefaultConfig()
	cfg.OnRetry = func(attempt int, err error, next time.Duration) {
		a.log.Warn("store not ready, retrying", "attempt", attempt, "error", err, "next_in", next)
	}

	err := retry.Do(ctx, cfg, func(ctx context.Context) error {
		var err error
		switch a.cfg.DB.Driver {
		case "postgres":
			st, err = store.OpenPostgres(ctx, a.cfg.DB.DSN)
		default:
			st, err = store.OpenSQLite(ctx, a.cfg.DB.Path)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// pinger is the slice of the store the health endpoint needs.
type pinger interface {
	Ping(ctx context.Context) error
}

// healthzHandler reports 204 while the store answers queries and 503
// once it stops, so an orchestrator can restart the process.
func healthzHandler(p pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := p.Ping(c.Request.Context()); err != nil {
			c.Status(http.StatusServiceUnavailable)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (a *App) runWebhook(ctx context.Context, b *bot.Bot, st store.Store) error {
	_, err := b.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:         a.cfg.Telegram.WebhookURL,
		SecretToken: a.cfg.Telegram.WebhookSecret,
	})
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	if a.cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/telegram/webhook", gin.WrapH(b.WebhookHandler()))
	r.GET("/healthz", healthzHandler(st))

	srv := &http.Server{Addr: a.cfg.HTTP.Addr, Handler: r}
	go func() {
		a.log.Info("webhook server listening", "addr", a.cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("server", "error", err)
		}
	}()
	go b.StartWebhook(ctx)

	<-ctx.Done()
	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
