package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/actuallystonmai/moodtune-service/internal/cache"
	"github.com/actuallystonmai/moodtune-service/internal/config"
	"github.com/actuallystonmai/moodtune-service/internal/handler"
	"github.com/actuallystonmai/moodtune-service/internal/logging"
	"github.com/actuallystonmai/moodtune-service/internal/model"
	"github.com/actuallystonmai/moodtune-service/internal/ranking"
	"github.com/actuallystonmai/moodtune-service/internal/repository"
	"github.com/actuallystonmai/moodtune-service/internal/router"
	"github.com/actuallystonmai/moodtune-service/internal/service"
	"github.com/actuallystonmai/moodtune-service/internal/session"
	"github.com/actuallystonmai/moodtune-service/seeds"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to parse database config")
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool); err != nil {
		logging.Fatal().Err(err).Msg("database not ready")
	}
	logging.Info().Msg("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := runMigration(ctx, pool, "migrations/create_tables.down.sql"); err != nil {
			logging.Fatal().Err(err).Msg("failed to migrate down")
		}
		logging.Info().Msg("migrations dropped")
		return
	}

	if err := runMigration(ctx, pool, "migrations/create_tables.up.sql"); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate up")
	}
	logging.Info().Msg("migrations applied")

	// ------------ Setup Seed Data ---------------
	seeded, err := checkSeed(ctx, pool)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to check seed")
	}

	// ------------ Redis ---------------
	var rdb *redis.Client
	if cfg.NeedsRedis() {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to parse redis url")
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}

	// ------------ Sessions ---------------
	var sessions session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		if err := rdb.Ping(ctx).Err(); err != nil {
			logging.Fatal().Err(err).Msg("redis session backend unreachable")
		}
		sessions = session.NewRedisStore(rdb, cfg.SessionHistorySize)
	default:
		sessions = session.NewMemoryStore(cfg.SessionHistorySize)
	}
	logging.Info().Str("backend", cfg.SessionBackend).Int("history", cfg.SessionHistorySize).Msg("session store ready")

	// ------------ Catalog cache ---------------
	var snapshots service.SnapshotCache
	if cfg.CatalogCacheEnabled {
		catalogCache := cache.NewCache(rdb, cfg.CacheTTL)
		if err := catalogCache.Ping(ctx); err != nil {
			logging.Warn().Err(err).Msg("redis unavailable, catalog cache disabled")
		} else {
			if seeded {
				if err := catalogCache.Invalidate(ctx); err != nil {
					logging.Warn().Err(err).Msg("failed to invalidate catalog snapshot")
				}
			}
			snapshots = catalogCache
		}
	}

	// ------------ Service ---------------
	repo := repository.NewRepository(pool)
	classifier := model.NewClient()
	svc := service.NewService(service.Deps{
		Catalog:         repo,
		Cache:           snapshots,
		Plays:           repo,
		Classifier:      classifier,
		Ranker:          ranking.NewRanker(classifier, sessions, ranking.WithConfig(cfg.Ranking)),
		Sessions:        sessions,
		BreakerFailures: cfg.BreakerFailures,
		BreakerTimeout:  cfg.BreakerTimeout,
	})

	counts, err := svc.RefreshModel(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("mood model not fitted, using prototype centroids")
	} else {
		logging.Info().Interface("labels", counts).Strs("classes", classifier.Classes()).Msg("mood model fitted")
	}

	// ---------------- Server --------------------
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(handler.NewHandler(svc)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		logging.Info().Int("attempt", i+1).Msg("waiting for database")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func runMigration(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

// checkSeed seeds an empty catalog and reports whether it did.
func checkSeed(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM songs").Scan(&count); err != nil {
		return false, fmt.Errorf("check songs count: %w", err)
	}
	if count > 0 {
		logging.Info().Int("songs", count).Msg("database already seeded, skipping")
		return false, nil
	}
	return true, seeds.Setup(ctx, pool)
}
