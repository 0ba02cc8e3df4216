package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/springembed/internal/api"
	"github.com/matzehuels/springembed/pkg/cache"
	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/pipeline"
	"github.com/matzehuels/springembed/pkg/store"
)

// serveKeys maps serve flag names onto config keys.
var serveKeys = map[string]string{
	"addr":           "serve.addr",
	"redis":          "serve.redis_addr",
	"cache-scope":    "serve.cache_scope",
	"mongo-uri":      "serve.mongo_uri",
	"mongo-database": "serve.mongo_database",
	"ttl":            "serve.layout_ttl",
	"no-cache":       "serve.no_cache",
}

// sweepInterval is how often expired layouts are purged from stores that
// do not expire records themselves.
const sweepInterval = time.Minute

func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Layouts are cached in Redis when --redis is set (file cache otherwise) and
stored in MongoDB when --mongo-uri is set (in memory otherwise). Solver flags
set the defaults that request options are applied on top of.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.bindFlags(cmd.Flags(), layoutKeys); err != nil {
				return err
			}
			return c.bindFlags(cmd.Flags(), serveKeys)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	d := DefaultConfig().Serve
	cmd.Flags().String("addr", d.Addr, "listen address")
	cmd.Flags().String("redis", d.RedisAddr, "Redis address for the layout cache")
	cmd.Flags().String("cache-scope", d.CacheScope, "prefix for cache keys on a shared backend")
	cmd.Flags().String("mongo-uri", d.MongoURI, "MongoDB URI for the layout store")
	cmd.Flags().String("mongo-database", d.MongoDB, "MongoDB database name")
	cmd.Flags().String("ttl", d.LayoutTTL, "how long stored layouts stay retrievable")
	cmd.Flags().Bool("no-cache", d.NoCache, "disable caching")
	addLayoutFlags(cmd.Flags())
	registerLayoutCompletions(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg Config) error {
	ttl, err := time.ParseDuration(cfg.Serve.LayoutTTL)
	if err != nil || ttl <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid layout ttl %q", cfg.Serve.LayoutTTL)
	}

	ch, err := c.serveCache(ctx, cfg.Serve)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if cfg.Serve.CacheScope != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Serve.CacheScope)
	}
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	defer runner.Close()

	st, err := c.serveStore(ctx, cfg.Serve)
	if err != nil {
		return err
	}
	defer st.Close()
	go sweep(ctx, st, sweepInterval, c.Logger)

	srv := api.New(api.Config{
		Runner:   runner,
		Store:    st,
		Defaults: cfg.Layout,
		Logger:   c.Logger,
		TTL:      ttl,
	})

	printInfo("Serving on %s", StyleHighlight.Render(cfg.Serve.Addr))
	return srv.ListenAndServe(ctx, cfg.Serve.Addr)
}

func (c *CLI) serveCache(ctx context.Context, cfg ServeConfig) (cache.Cache, error) {
	if cfg.NoCache {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr == "" {
		return newCache(false)
	}
	rc := cache.DefaultRedisConfig()
	rc.Addr = cfg.RedisAddr
	c.Logger.Info("connecting to redis", "addr", rc.Addr)
	ch, err := cache.NewRedisCache(ctx, rc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCache, err, "connect to redis")
	}
	return ch, nil
}

func (c *CLI) serveStore(ctx context.Context, cfg ServeConfig) (store.Store, error) {
	if cfg.MongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	mc := store.DefaultMongoConfig()
	mc.URI = cfg.MongoURI
	if cfg.MongoDB != "" {
		mc.Database = cfg.MongoDB
	}
	c.Logger.Info("connecting to mongodb", "database", mc.Database)
	return store.NewMongoStore(ctx, mc)
}

// sweep purges expired records until ctx is done.
func sweep(ctx context.Context, st store.Store, every time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := st.Cleanup(ctx); err != nil {
				logger.Warn("store cleanup failed", "error", err)
			}
		}
	}
}
