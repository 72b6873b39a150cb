package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/seating-chart/internal/config"
	"github.com/iliyamo/seating-chart/internal/database"
	"github.com/iliyamo/seating-chart/internal/handler"
	"github.com/iliyamo/seating-chart/internal/logger"
	"github.com/iliyamo/seating-chart/internal/middleware"
	"github.com/iliyamo/seating-chart/internal/persist"
	"github.com/iliyamo/seating-chart/internal/queue"
	"github.com/iliyamo/seating-chart/internal/router"
	"github.com/iliyamo/seating-chart/internal/seating"
	queue_publisher "github.com/iliyamo/seating-chart/internal/service"
	"github.com/iliyamo/seating-chart/internal/telemetry"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		lg.Warn("redis unreachable; kiosk rate limit and cache disabled", zap.String("addr", cfg.Redis.Address()))
	} else {
		defer rdb.Close()
	}

	sink, closeSink, err := openSink(ctx, cfg, rdb)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer func() { _ = closeSink.Close() }()

	store := seating.New(lg.Named("seating"))
	loaded, err := persist.Restore(ctx, sink, store)
	if err != nil {
		// Start without a chart; the next mutation overwrites the document.
		lg.Error("restore chart failed", zap.Error(err))
	}
	lg.Info("storage ready", zap.String("backend", cfg.StorageBackend), zap.Bool("chart_restored", loaded))

	mirror := persist.NewMirror(sink, lg.Named("persist"))
	defer mirror.Close()
	store.Subscribe(mirror.Observe)

	notifier := queue_publisher.NewNotifier(cfg.RabbitMQURL, lg.Named("publisher"))
	defer notifier.Close()
	if notifier != nil {
		store.Subscribe(notifier.Observe)
		go func() {
			if err := queue.StartChangeLogConsumer(ctx, cfg.RabbitMQURL, cfg.ChangeLogDir, lg); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("change log consumer stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	router.RegisterRoutes(e, handler.NewHealthHandler(store))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg))
	router.RegisterKiosk(e, handler.NewKioskHandler(store),
		middleware.NewTokenBucket(cfg.RateLimit, rdb, lg.Named("ratelimit")),
		middleware.NewRedisCache(cfg.Cache, rdb, store.Revision, lg.Named("cache")),
	)
	router.RegisterPlanning(e, handler.NewPlanningHandler(store, lg.Named("planning")), cfg.JWTSecret)

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		lg.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	lg.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(sctx)
}

// openSink builds the storage backend chosen by STORAGE_BACKEND.  The
// returned closer releases whatever the backend opened.
func openSink(ctx context.Context, cfg config.Config, rdb *redis.Client) (persist.Sink, io.Closer, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		if rdb == nil {
			return nil, nil, errors.New("redis backend selected but redis is unreachable")
		}
		return persist.NewRedisSink(rdb, cfg.StorageKey), closerFunc(func() error { return nil }), nil
	case config.BackendMySQL:
		db, err := database.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		s := persist.NewMySQLSink(db, cfg.StorageKey)
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return s, db, nil
	default:
		s, err := persist.OpenBolt(cfg.BoltPath, cfg.StorageKey)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
