package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Wishlist-Squad/Wishlist/internal/client"
	"github.com/Wishlist-Squad/Wishlist/internal/config"
	"github.com/Wishlist-Squad/Wishlist/internal/console"
	"github.com/Wishlist-Squad/Wishlist/internal/event"
	"github.com/Wishlist-Squad/Wishlist/internal/guard"
	handler "github.com/Wishlist-Squad/Wishlist/internal/handler/http"
	"github.com/Wishlist-Squad/Wishlist/pkg/database"
	"github.com/Wishlist-Squad/Wishlist/pkg/health"
	"github.com/Wishlist-Squad/Wishlist/pkg/httpclient"
	pkgkafka "github.com/Wishlist-Squad/Wishlist/pkg/kafka"
	"github.com/Wishlist-Squad/Wishlist/pkg/tracing"
)

const serviceName = "wishlist-console"

// App wires together all dependencies and runs the wishlist console.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	shutdownTP func(context.Context) error
	stop       context.CancelFunc
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	// Initialize tracing.
	tcfg := tracing.DefaultConfig(serviceName)
	tcfg.Environment = cfg.Environment
	tcfg.Enabled = cfg.OTELEnabled
	tcfg.OTLPEndpoint = cfg.OTELEndpoint
	tcfg.SampleRate = cfg.OTELSampleRate
	shutdownTP, err := tracing.InitTracer(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.shutdownTP = shutdownTP

	// Wishlist service client behind a circuit breaker. Readiness pings skip it.
	hcfg := httpclient.DefaultConfig()
	hcfg.Timeout = cfg.BackendTimeout
	hcfg.MaxRetries = cfg.BackendMaxRetries
	cbcfg := httpclient.DefaultCircuitBreakerConfig("wishlist-service")
	cbcfg.FailureRatio = cfg.BreakerFailureRatio
	cbcfg.MinRequests = cfg.BreakerMinRequests
	cbcfg.Timeout = cfg.BreakerOpenTimeout
	plain := httpclient.New(hcfg)
	api := client.New(cfg.WishlistServiceURL,
		httpclient.NewCircuitBreakerClient(plain, cbcfg, logger),
		logger,
		client.WithReadiness(plain),
	)

	healthHandler := health.NewHandler()
	healthHandler.Register("wishlist-service", api.Ping)

	// Pending guard.
	var g guard.Guard = guard.NewMemory()
	if cfg.RedisAddr != "" {
		database.SetSlowCommandLogging(cfg.SlowCommandThreshold(), logger)
		rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			a.closeTracing()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		a.rdb = rdb
		redisGuard := guard.NewRedis(rdb, cfg.PendingTTL, logger)
		healthHandler.RegisterNonCritical("redis", redisGuard.Ping)
		g = redisGuard
	} else {
		logger.Info("pending guards kept in process memory")
	}

	// Action events.
	var recorder event.ActionRecorder = event.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
		recorder = event.NewProducer(a.producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	ctrl := console.NewController(api, g, recorder, logger)

	routerCtx, stop := context.WithCancel(context.Background())
	a.stop = stop
	router := handler.NewRouter(routerCtx, ctrl, healthHandler, logger, handler.RouterConfig{
		ServiceName:    serviceName,
		SessionCookie:  cfg.SessionCookie,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.BackendTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("wishlist_service", a.cfg.WishlistServiceURL),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}
	a.stop()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.shutdownTP(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}

func (a *App) closeTracing() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.shutdownTP(ctx)
}
