package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calmaflow/calma-bot/internal/bot"
	"github.com/calmaflow/calma-bot/internal/database"
	"github.com/calmaflow/calma-bot/internal/health"
	"github.com/calmaflow/calma-bot/internal/leadcache"
	"github.com/calmaflow/calma-bot/internal/leadstore"
	"github.com/calmaflow/calma-bot/internal/lifecycle"
	"github.com/calmaflow/calma-bot/internal/middleware"
	"github.com/calmaflow/calma-bot/internal/repository"
	"github.com/calmaflow/calma-bot/internal/tasks"
	"github.com/calmaflow/calma-bot/pkg/config"
	"github.com/calmaflow/calma-bot/pkg/graceful"
	"github.com/calmaflow/calma-bot/pkg/logger"
	redisclient "github.com/calmaflow/calma-bot/pkg/redis"

	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(*cfg)
	slog.SetDefault(log)
	config.Watch(v, log)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			log.Warn("sentry init failed, continuing without it", slog.Any("error", err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	log.Info("starting calma bot",
		slog.String("env", cfg.AppEnv),
		slog.Bool("store", cfg.DatabaseEnabled()),
		slog.Bool("operator", cfg.OperatorEnabled()),
		slog.Bool("contact", cfg.ContactEnabled()),
		slog.Bool("redis_cache", cfg.RedisEnabled()),
	)

	shutdown := lifecycle.NewShutdown(log)

	db := openStore(ctx, cfg, log)
	if db != nil {
		shutdown.Register("database", func(context.Context) error {
			return db.Close()
		})
	}

	var store *leadstore.Adapter
	if db != nil {
		repo := repository.NewLeadRepository(db, log)
		store = leadstore.New(repo, log, cfg.Store.Timeout)
	}

	cache, redisCli := buildCache(ctx, cfg, log)
	if redisCli != nil {
		shutdown.Register("redis", func(context.Context) error {
			return redisCli.Close()
		})
	}

	runner := tasks.NewRunner(log)
	shutdown.Register("background-tasks", runner.Shutdown)

	b, err := bot.New(*cfg, log, cache, store, runner)
	if err != nil {
		log.Error("failed to initialize bot", slog.Any("error", err))
		os.Exit(1)
	}
	shutdown.Register("telegram-bot", func(context.Context) error {
		b.Stop()
		return nil
	})

	checker := health.NewChecker(log)
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))
	if db != nil {
		checker.AddCheck("database", health.NewDBChecker(db))
	}
	if redisCli != nil {
		checker.AddCheck("redis", health.NewRedisChecker(redisCli))
	}

	go serveDiagnostics(ctx, cfg, log, checker)

	go b.Start()
	log.Info("bot started")

	<-ctx.Done()

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 15 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
	}

	log.Info("calma bot stopped")
}

// openStore opens the lead database when credentials are configured. A
// database that is configured but unreachable still yields a handle: the
// store adapter absorbs failures and the flow runs cache-only meanwhile.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) *sql.DB {
	if !cfg.DatabaseEnabled() {
		log.Info("lead store not configured, running cache-only")
		return nil
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Warn("failed to open lead store, running cache-only", slog.Any("error", err))
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		log.Warn("lead store unreachable at startup", slog.Any("error", err))
		return db
	}

	migrator := database.NewMigrator(db, log)
	if err := migrator.ApplyDir(ctx, "migrations"); err != nil {
		log.Warn("failed to apply migrations", slog.Any("error", err))
	}

	return db
}

// buildCache selects the session cache backend. Redis problems degrade to
// the in-process map.
func buildCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (leadcache.Cache, *goredis.Client) {
	if !cfg.RedisEnabled() {
		return leadcache.NewMemory(), nil
	}

	client, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis cache unavailable, using in-memory cache", slog.Any("error", err))
		return leadcache.NewMemory(), nil
	}

	log.Info("using redis session cache", slog.String("addr", cfg.Redis.Addr))
	return leadcache.NewRedis(client, log), client
}

func serveDiagnostics(ctx context.Context, cfg *config.Config, log *slog.Logger, checker *health.Checker) {
	port := cfg.Server.Port
	if port == "" {
		port = ":8080"
	}
	if port[0] != ':' {
		port = ":" + port
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", checker.Handler())

	var handler http.Handler = mux
	handler = middleware.Logging(log)(handler)
	handler = logger.Middleware(handler)

	srv := graceful.NewServer(log, &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}, cfg.Server.ShutdownTimeout)

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error("diagnostics server stopped", slog.Any("error", err))
	}
}
