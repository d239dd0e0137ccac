package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/homevista/property-listings/pkg/cache"
	"github.com/homevista/property-listings/pkg/cachestats"
	"github.com/homevista/property-listings/pkg/config"
	"github.com/homevista/property-listings/pkg/listing"
	"github.com/homevista/property-listings/pkg/logging"
	"github.com/homevista/property-listings/pkg/seed"
	"github.com/homevista/property-listings/pkg/server"
	"github.com/homevista/property-listings/pkg/store/sqlite"
)

func main() {
	root := &cobra.Command{
		Use:          "property-server",
		Short:        "Property listings service with a read-through Redis cache",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer db.Close()
			logger.Info().Str("path", cfg.DBPath).Msg("Connected to SQLite store")

			ctx := cmd.Context()
			client, rdb, err := newCacheClient(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			manager := cache.NewManager(client, db)
			hooks := cache.NewHooks(manager)
			service := listing.NewService(db, hooks)

			var backend cachestats.Backend
			if rdb != nil {
				backend = rdb
			}
			collector := cachestats.NewCollector(backend)

			srv := server.New(service, manager, collector)
			return srv.Start(cfg.Addr)
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample property data set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			client, _, err := newCacheClient(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			// Seeding goes through the same write path as the HTTP
			// surface, so the change hooks invalidate any snapshot a
			// running server may have cached.
			manager := cache.NewManager(client, db)
			service := listing.NewService(db, cache.NewHooks(manager))

			result, err := seed.Run(ctx, service)
			if err != nil {
				return fmt.Errorf("seed properties: %w", err)
			}
			logger.Info().
				Int("created", result.Created).
				Int("existing", result.Existing).
				Msg("Seeding complete")
			return nil
		},
	}
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, fmt.Errorf("load config: %w", err)
	}
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})
	return cfg, logger, nil
}

// newCacheClient connects to Redis when an address is configured, or
// falls back to the in-process cache. The *redis.Client return is nil
// in the fallback case; the stats collector then reports an
// error-marked result instead of backend statistics.
func newCacheClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cache.Client, *redis.Client, error) {
	if cfg.RedisAddr == "" {
		logger.Warn().Msg("No Redis address configured, using in-process cache")
		return cache.NewMemoryClient(), nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
	return cache.NewRedisClient(rdb), rdb, nil
}
