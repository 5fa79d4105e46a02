package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modgraph/pkg/cache"
	"github.com/matzehuels/modgraph/pkg/observability/metrics"
	"github.com/matzehuels/modgraph/pkg/pipeline"
	"github.com/matzehuels/modgraph/pkg/server"
	"github.com/matzehuels/modgraph/pkg/store"
)

// Environment variables read by serve. Flags take precedence.
const (
	envAddr      = "MODGRAPH_ADDR"
	envRedisAddr = "MODGRAPH_REDIS_ADDR"
	envMongoURI  = "MODGRAPH_MONGO_URI"
	envMongoDB   = "MODGRAPH_MONGO_DB"
	envPrefix    = "MODGRAPH_CACHE_PREFIX"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	redisAddr string // shared result cache; local file cache when empty
	mongoURI  string // run history; in-memory when empty
	mongoDB   string
	prefix    string // cache key namespace, for deployments sharing one Redis
	noCache   bool
	noMetrics bool
	timeout   time.Duration
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      envOr(envAddr, server.DefaultAddr),
		redisAddr: os.Getenv(envRedisAddr),
		mongoURI:  os.Getenv(envMongoURI),
		mongoDB:   envOr(envMongoDB, store.DefaultMongoDatabase),
		prefix:    os.Getenv(envPrefix),
		timeout:   server.DefaultTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the decomposition API over HTTP",
		Long: `Serve exposes POST /v1/decompose and the run history over HTTP.

Results are cached in Redis when --redis is set (or ` + envRedisAddr + `),
otherwise in the local cache directory. Runs are kept in MongoDB when
--mongo-uri is set (or ` + envMongoURI + `), otherwise in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address (env "+envAddr+")")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", opts.redisAddr, "Redis address for the result cache (env "+envRedisAddr+")")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", opts.mongoURI, "MongoDB URI for run history (env "+envMongoURI+")")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database (env "+envMongoDB+")")
	cmd.Flags().StringVar(&opts.prefix, "cache-prefix", opts.prefix, "namespace for cache keys (env "+envPrefix+")")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not expose /metrics")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request deadline")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	rc, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if opts.prefix != "" {
		keyer = cache.NewScopedKeyer(nil, opts.prefix)
	}
	runner := pipeline.NewRunner(rc, keyer, c.Logger)
	defer runner.Close()

	st, err := serveStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close()

	cfg := server.Config{
		Addr:    opts.addr,
		Runner:  runner,
		Store:   st,
		Logger:  logger,
		Timeout: opts.timeout,
	}
	if !opts.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics.New(reg).Register()
		cfg.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	return server.New(cfg).ListenAndServe(ctx)
}

func (c *CLI) serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache || opts.redisAddr == "" {
		return newCache(opts.noCache)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	c.Logger.Info("using redis cache", "addr", opts.redisAddr)
	return rc, nil
}

func serveStore(ctx context.Context, opts *serveOpts) (store.Store, error) {
	if opts.mongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(ctx, store.MongoConfig{URI: opts.mongoURI, Database: opts.mongoDB})
	if err != nil {
		return nil, fmt.Errorf("mongo store: %w", err)
	}
	return ms, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
