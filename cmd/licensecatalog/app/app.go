package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/mediocregopher/radix/v3"
	goprom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/api/core"
	"go.opentelemetry.io/otel/api/key"
	"go.opentelemetry.io/otel/api/trace"
	"go.opentelemetry.io/otel/exporters/metric/prometheus"
	"go.opentelemetry.io/otel/exporters/trace/jaeger"
	"go.opentelemetry.io/otel/exporters/trace/zipkin"
	"go.opentelemetry.io/otel/plugin/othttp"
	"go.opentelemetry.io/otel/sdk/metric/controller/push"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xakep666/licensecatalog/pkg/api"
	"github.com/xakep666/licensecatalog/pkg/cache"
	"github.com/xakep666/licensecatalog/pkg/catalog"
	"github.com/xakep666/licensecatalog/pkg/health"
	"github.com/xakep666/licensecatalog/pkg/observ"
)

type App struct {
	logger      *zap.Logger
	servers     []*http.Server
	stopWatcher func()
	tracerFlush func()
}

func NewApp(cfg Config) (*App, error) {
	var logger *zap.Logger
	if cfg.Debug {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}

	logger.Info("Running with config", zap.Reflect("config", cfg))

	tracer, tracerFlush, err := setupTracer(&cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("tracer setup failed: %w", err)
	}

	pushController, metricHandler, err := setupPrometheus(logger)
	if err != nil {
		return nil, fmt.Errorf("prometheus init failed: %w", err)
	}

	meter := pushController.Meter("")

	idx, err := BuildCatalog(context.Background(), logger, &cfg, tracer)
	if err != nil {
		return nil, fmt.Errorf("catalog init failed: %w", err)
	}

	logger.Info("Catalog built", zap.Int("licenses", idx.Len()))

	current := catalog.NewAtomic(idx)

	stopWatcher := func() {}
	if cfg.Catalog.Source == CatalogSourceFile && cfg.Catalog.WatchFiles {
		stopWatcher, err = watchCatalogFiles(logger, &cfg, tracer, current)
		if err != nil {
			return nil, fmt.Errorf("catalog watcher setup failed: %w", err)
		}
	}

	var redisClient radix.Client

	if cfg.Cache != nil && cfg.Cache.Type == CacheTypeRedis {
		redisClient, err = setupRedis(&cfg)
		if err != nil {
			return nil, fmt.Errorf("redis client setup failed: %w", err)
		}
	}

	resolver, err := setupCache(&cfg, redisClient, cache.Direct{
		Resolver: &observ.Resolver{
			Resolver: current,
			Meter:    meter,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("setup cache failed: %w", err)
	}

	healthHandler := healthEndpoint(current, redisClient)

	mux := http.NewServeMux()
	observMiddleware := observ.Middleware(logger, pushController.Meter("http_requests"))
	mux.Handle("/v1/license",
		othttp.NewHandler(
			observMiddleware(api.LookupHandler(resolver)),
			"license lookup",
			othttp.WithTracer(tracer),
		),
	)
	mux.HandleFunc("/metrics", metricHandler)
	addPprofHandlers(&cfg, mux)

	servers := []*http.Server{{
		Addr:    cfg.Server.ListenAddr,
		Handler: mux,
		ErrorLog: func() *log.Logger {
			l, _ := zap.NewStdLogAt(logger, zap.ErrorLevel)
			return l
		}(),
	}}

	if cfg.HealthServer != nil {
		healthMux := http.NewServeMux()
		healthMux.Handle("/health", healthHandler)
		servers = append(servers, &http.Server{
			Addr:    cfg.HealthServer.ListenAddr,
			Handler: healthMux,
		})
	} else {
		mux.Handle("/health", healthHandler)
	}

	return &App{
		logger:      logger,
		servers:     servers,
		stopWatcher: stopWatcher,
		tracerFlush: tracerFlush,
	}, nil
}

func (a *App) Run() error {
	var eg errgroup.Group

	for _, server := range a.servers {
		server := server
		a.logger.Info("Serving HTTP Requests", zap.String("listen_addr", server.Addr))
		eg.Go(func() error {
			err := server.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}

			return err
		})
	}

	return eg.Wait()
}

func (a *App) Stop(ctx context.Context) error {
	a.logger.Info("Stopping")
	a.stopWatcher()
	defer a.tracerFlush()

	var eg errgroup.Group
	for _, server := range a.servers {
		server := server
		eg.Go(func() error { return server.Shutdown(ctx) })
	}

	return eg.Wait()
}

func healthEndpoint(current *catalog.Atomic, redisClient radix.Client) *health.Health {
	opts := []health.Option{
		health.WithTimeout(5 * time.Second),
		health.WithChecker("catalog", health.CheckerFunc(func(ctx context.Context) error {
			if current.Load().Len() == 0 {
				return fmt.Errorf("catalog is empty")
			}

			return nil
		})),
	}

	if redisClient != nil {
		opts = append(opts, health.WithChecker("redis", health.CheckerFunc(func(ctx context.Context) error {
			return redisClient.Do(radix.Cmd(nil, "PING"))
		})))
	}

	return health.NewHealth(opts...)
}

func setupRedis(cfg *Config) (radix.Client, error) {
	addrs := cfg.Cache.Redis.Addrs
	if len(addrs) == 0 {
		return nil, fmt.Errorf("redis addres(es) required for using redis as cache")
	}

	var dialOpts []radix.DialOpt
	if cfg.Cache.Redis.DB > 0 {
		dialOpts = append(dialOpts, radix.DialSelectDB(cfg.Cache.Redis.DB))
	}
	if cfg.Cache.Redis.Password != "" {
		dialOpts = append(dialOpts, radix.DialAuthPass(cfg.Cache.Redis.Password))
	}
	if cfg.Cache.Redis.ConnectTimeout > 0 {
		dialOpts = append(dialOpts, radix.DialConnectTimeout(cfg.Cache.Redis.ConnectTimeout))
	}
	if cfg.Cache.Redis.ReadTimeout > 0 {
		dialOpts = append(dialOpts, radix.DialReadTimeout(cfg.Cache.Redis.ReadTimeout))
	}
	if cfg.Cache.Redis.WriteTimeout > 0 {
		dialOpts = append(dialOpts, radix.DialWriteTimeout(cfg.Cache.Redis.WriteTimeout))
	}

	customConnFunc := func(network, addr string) (radix.Conn, error) {
		return radix.Dial(network, addr, dialOpts...)
	}

	poolSize := 10
	if cfg.Cache.Redis.PoolSize > 0 {
		poolSize = cfg.Cache.Redis.PoolSize
	}

	if len(addrs) == 1 {
		return radix.NewPool("tcp", cfg.Cache.Redis.Addrs[0], poolSize, radix.PoolConnFunc(customConnFunc))
	} else {
		return radix.NewCluster(cfg.Cache.Redis.Addrs, radix.ClusterPoolFunc(func(network, addr string) (radix.Client, error) {
			return radix.NewPool(network, addr, poolSize, radix.PoolConnFunc(customConnFunc))
		}))
	}
}

func setupCache(cfg *Config, redisClient radix.Client, cacher cache.Cacher) (cache.Cacher, error) {
	if cfg.Cache == nil {
		return cacher, nil
	}

	switch cfg.Cache.Type {
	case CacheTypeMemory:
		return &cache.MemoryCache{
			Backed: cacher,
		}, nil
	case CacheTypeMemLRU:
		return cache.NewMemLRU(cacher, cfg.Cache.SizeItems)
	case CacheTypeRedis:
		return &cache.RedisCache{
			Backed: cacher,
			Client: redisClient,
			TTL:    cfg.Cache.Redis.TTL,
		}, nil
	default:
		return nil, fmt.Errorf("invalid cache type: %s", cfg.Cache.Type)
	}
}

func addPprofHandlers(cfg *Config, mux *http.ServeMux) {
	if cfg.Server.EnablePprof {
		mux.HandleFunc("/pprof/", pprof.Index)
		mux.HandleFunc("/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/pprof/profile", pprof.Profile)
		mux.HandleFunc("/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/pprof/trace", pprof.Trace)
	}
}

func setupTracer(cfg *Config, logger *zap.Logger) (tracer trace.Tracer, flush func(), err error) {
	if cfg.Trace == nil {
		return trace.NoopTracer{}, func() {}, nil
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.Trace.SampleProbability > 0 {
		sampler = sdktrace.ProbabilitySampler(cfg.Trace.SampleProbability)
	}

	switch cfg.Trace.TracerType {
	case JaegerTracer:
		logger := logger.With(zap.String("component", "jaeger_exporter"))
		jt, flush, err := jaeger.NewExportPipeline(
			jaeger.WithCollectorEndpoint(cfg.Trace.CollectorAddress),
			jaeger.WithProcess(jaeger.Process{
				ServiceName: "licensecatalog",
				Tags: []core.KeyValue{
					key.String("exporter", "jaeger"),
				},
			}),
			jaeger.RegisterAsGlobal(),
			jaeger.WithSDK(&sdktrace.Config{DefaultSampler: sampler}),
			jaeger.WithOnError(func(err error) {
				logger.Error("span upload failed", zap.Error(err))
			}),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("jaeger setup failed: %w", err)
		}

		return jt.Tracer(""), flush, nil
	case ZipkinTracer:
		zexp, err := zipkin.NewExporter(
			cfg.Trace.CollectorAddress,
			"licensecatalog",
			zipkin.WithLogger(zap.NewStdLog(logger.With(zap.String("component", "zipkin_exporter")))),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("zipkin exporter setup failed: %w", err)
		}

		tp, err := sdktrace.NewProvider(
			sdktrace.WithBatcher(zexp),
			sdktrace.WithResourceAttributes(key.String("exporter", "zipkin")),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("zipkin trace provider setup failed: %w", err)
		}

		return tp.Tracer(""), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown tracer type %s", cfg.Trace.TracerType)
	}
}

func setupPrometheus(logger *zap.Logger) (*push.Controller, http.HandlerFunc, error) {
	logger = logger.With(zap.String("component", "prometheus_push_controller"))

	reg := goprom.NewPedanticRegistry()
	reg.MustRegister(
		goprom.NewGoCollector(),
		goprom.NewBuildInfoCollector(),
	)

	return prometheus.NewExportPipeline(prometheus.Config{
		Registry:                reg,
		DefaultSummaryQuantiles: []float64{0.5, 0.9, 0.99, 1},
		DefaultHistogramBoundaries: []core.Number{
			core.NewFloat64Number(.0001),
			core.NewFloat64Number(.0005),
			core.NewFloat64Number(.001),
			core.NewFloat64Number(.005),
			core.NewFloat64Number(.01),
			core.NewFloat64Number(.05),
			core.NewFloat64Number(.1),
			core.NewFloat64Number(.5),
			core.NewFloat64Number(1),
			core.NewFloat64Number(5),
		},
		OnError: func(err error) {
			logger.Error("Push controller error", zap.Error(err))
		},
	},
		10*time.Second,
	)
}
