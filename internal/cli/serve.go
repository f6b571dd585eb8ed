package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldlab/corpusgraph/internal/server"
	"github.com/fieldlab/corpusgraph/pkg/cache"
	"github.com/fieldlab/corpusgraph/pkg/pipeline"
	"github.com/fieldlab/corpusgraph/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the corpusgraph HTTP API",
		Long: `Run the corpusgraph HTTP API.

The server exposes ad-hoc graph builds, stored corpora, filter metadata,
and build statistics. Backends (cache, store) are selected in the TOML
config file; without one, the server runs with a local file cache and an
in-memory store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx := cmd.Context()

			cch, err := openCache(ctx, cfg.Cache)
			if err != nil {
				return err
			}

			st, err := openStore(ctx, cfg.Store)
			if err != nil {
				_ = cch.Close()
				return err
			}
			defer func() {
				_ = st.Close(context.Background())
			}()

			runner := pipeline.NewRunner(cch, nil, c.Logger)
			defer runner.Close()

			srv := server.New(server.Options{
				Addr:   cfg.Addr,
				Store:  st,
				Runner: runner,
				Logger: c.Logger,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// openCache builds the configured cache backend. Redis connections are
// retried with backoff before giving up.
func openCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "file":
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case "redis":
		var cch cache.Cache
		err := cache.RetryWithBackoff(ctx, func() error {
			var err error
			cch, err = cache.NewRedisCache(ctx, cache.RedisOptions{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return cch, nil
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}

// openStore builds the configured corpus store backend.
func openStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		var st *store.MongoStore
		err := cache.RetryWithBackoff(ctx, func() error {
			var err error
			st, err = store.NewMongoStore(ctx, store.MongoOptions{
				URI:      cfg.Mongo.URI,
				Database: cfg.Mongo.Database,
			})
			return cache.Retryable(err)
		})
		if err != nil {
			return nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}
}
