// Package app wires the configured adapters into the short link service and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/shortlinks/internal/adapter/cache/memory"
	"github.com/vadimbarashkov/shortlinks/internal/adapter/cache/redis"
	"github.com/vadimbarashkov/shortlinks/internal/config"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
	"github.com/vadimbarashkov/shortlinks/internal/usecase"
	"github.com/vadimbarashkov/shortlinks/migrations"
	"github.com/vadimbarashkov/shortlinks/pkg/clock"
	"github.com/vadimbarashkov/shortlinks/pkg/codegen"
	"github.com/vadimbarashkov/shortlinks/pkg/postgres"
	"github.com/vadimbarashkov/shortlinks/pkg/sqlite"
	"golang.org/x/sync/errgroup"

	httpdelivery "github.com/vadimbarashkov/shortlinks/internal/adapter/delivery/http"
	memoryrepo "github.com/vadimbarashkov/shortlinks/internal/adapter/repository/memory"
	postgresrepo "github.com/vadimbarashkov/shortlinks/internal/adapter/repository/postgres"
	sqliterepo "github.com/vadimbarashkov/shortlinks/internal/adapter/repository/sqlite"
)

const shutdownTimeout = 10 * time.Second

type linkRepository interface {
	Exists(ctx context.Context, code string) (bool, error)
	Add(ctx context.Context, link *entity.Link) error
	GetByCode(ctx context.Context, code string) (*entity.Link, error)
	Update(ctx context.Context, link *entity.Link) error
}

type linkCache interface {
	Get(ctx context.Context, code string) (entity.CacheEntry, bool)
	Set(ctx context.Context, code string, entry entity.CacheEntry, ttl time.Duration)
}

func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer closeRepo()

	clk := clock.System{}

	cache, closeCache, err := openCache(ctx, cfg, clk, logger.Logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer closeCache()

	uc := usecase.New(repo, cache, codegen.Base62{}, clk, useCaseOptions(cfg), logger.Logger)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        httpdelivery.NewRouter(logger, uc),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		logger.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("env", cfg.Env),
			slog.String("storage", cfg.Storage.Driver),
			slog.String("cache", cfg.Cache.Driver),
		)

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

func useCaseOptions(cfg *config.Config) usecase.Options {
	return usecase.Options{
		BaseURL:          cfg.BaseURL,
		CodeLength:       cfg.ShortCode.Length,
		MaxAttempts:      cfg.ShortCode.MaxAttempts,
		MinTTL:           cfg.Expiration.MinTTL,
		MaxTTL:           cfg.Expiration.MaxTTL,
		CacheTTL:         cfg.Cache.TTL,
		NegativeCacheTTL: cfg.Cache.NegativeTTL,
	}
}

func noop() error { return nil }

// openRepository opens the configured durable store, bringing its schema up to date.
func openRepository(ctx context.Context, cfg *config.Config) (linkRepository, func() error, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pg := cfg.Storage.Postgres
		dsn := pg.DSN()

		if err := postgres.RunMigrations(migrations.Postgres, "postgres", dsn); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		db, err := postgres.New(ctx, dsn,
			postgres.WithConnMaxIdleTime(pg.ConnMaxIdleTime),
			postgres.WithConnMaxLifetime(pg.ConnMaxLifetime),
			postgres.WithMaxIdleConns(pg.MaxIdleConns),
			postgres.WithMaxOpenConns(pg.MaxOpenConns),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		return postgresrepo.NewLinkRepository(db), db.Close, nil

	case config.StorageSQLite:
		path := cfg.Storage.SQLite.Path

		if err := sqlite.RunMigrations(migrations.SQLite, "sqlite", path); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		db, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}

		return sqliterepo.NewLinkRepository(db), db.Close, nil

	case config.StorageMemory:
		return memoryrepo.NewLinkRepository(), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// openCache opens the configured volatile cache. An unreachable Redis is logged
// and tolerated: the cache degrades every operation to a miss until it recovers.
func openCache(ctx context.Context, cfg *config.Config, clk clock.Clock, logger *slog.Logger) (linkCache, func() error, error) {
	switch cfg.Cache.Driver {
	case config.CacheRedis:
		rc := cfg.Cache.Redis

		client := goredis.NewClient(&goredis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})

		cache := redis.NewLinkCache(client, rc.Prefix, logger)
		if err := cache.Ping(ctx); err != nil {
			logger.Warn("redis is unreachable, cache degraded", slog.String("addr", rc.Addr), slog.Any("err", err))
		}

		return cache, client.Close, nil

	case config.CacheMemory:
		return memory.NewLinkCache(cfg.Cache.Capacity, clk), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}
