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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/nightlife/listings/internal/config"
	"github.com/nightlife/listings/internal/db"
	"github.com/nightlife/listings/internal/db/memory"
	dbMongo "github.com/nightlife/listings/internal/db/mongo"
	dbValkey "github.com/nightlife/listings/internal/db/valkey"
	"github.com/nightlife/listings/internal/domain/bucket"
	domvenue "github.com/nightlife/listings/internal/domain/venue"
	logpkg "github.com/nightlife/listings/internal/logger"
	"github.com/nightlife/listings/internal/metrics"
	bucketrepo "github.com/nightlife/listings/internal/repository/bucket"
	eventrepo "github.com/nightlife/listings/internal/repository/event"
	venuerepo "github.com/nightlife/listings/internal/repository/venue"
	chiTransport "github.com/nightlife/listings/internal/transport/chi"
	healthuc "github.com/nightlife/listings/internal/usecase/health"
	searchuc "github.com/nightlife/listings/internal/usecase/search"
	"github.com/nightlife/listings/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting listings API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("bucket_source", cfg.Buckets.Source),
	)

	ctx := context.Background()

	store, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open document store", zap.Error(err))
	}
	defer func() { _ = store.Close(context.Background()) }()

	// Bucket tables: from the config file, or from Valkey with the config's
	// capacity breakpoints as fallback.
	var (
		lookup     *bucket.Lookup
		bucketPing healthuc.Pinger
	)
	switch cfg.Buckets.Source {
	case config.BucketSourceValkey:
		kv, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Buckets.Valkey.Addrs,
			Password: cfg.Buckets.Valkey.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create bucket store", zap.Error(err))
		}
		defer kv.Close()

		readiness := time.Duration(cfg.Buckets.Valkey.ReadinessTimeout) * time.Second
		if err := kv.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Bucket store not ready", zap.Error(err))
		}
		lookup, err = bucketrepo.NewLoader(kv, cfg.Buckets.Valkey.KeyPrefix).Load(ctx, cfg.Buckets.Capacity)
		if err != nil {
			logger.Fatal("Failed to load bucket tables", zap.Error(err))
		}
		bucketPing = kv
	default:
		lookup, err = cfg.Buckets.Lookup()
		if err != nil {
			logger.Fatal("Invalid bucket tables", zap.Error(err))
		}
	}
	logger.Info("Bucket tables loaded", zap.Int("cities", lookup.Len()))

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	venues := venuerepo.New(store.Collection(venuerepo.Collection), lookup)
	events := eventrepo.New(store.Collection(eventrepo.Collection))

	searchSvc := searchuc.New(venues, events, lookup, searchuc.Config{
		DefaultLimit: cfg.Search.DefaultPageSize,
		MaxLimit:     cfg.Search.MaxPageSize,
	}, logger)
	healthSvc := healthuc.New(store, bucketPing)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.CORSMiddleware(cfg.CORS.AllowedOrigins, time.Duration(cfg.CORS.MaxAgeSec)*time.Second))
	r.Use(chiTransport.RateLimitMiddleware(cfg.RateLimit.RequestsPerMinute))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore creates the document store for the configured driver and waits
// until it is ready.
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		if cfg.SeedFile != "" {
			if err := store.LoadFile(cfg.SeedFile); err != nil {
				return nil, fmt.Errorf("seed memory store: %w", err)
			}
		}
		logger.Info("Using in-memory store",
			zap.String("seed_file", cfg.SeedFile),
			zap.Int("venues", store.Len(venuerepo.Collection)),
			zap.Int("events", store.Len(eventrepo.Collection)),
		)
		return store, nil

	case config.DriverMongo:
		store, err := dbMongo.NewStore(ctx, dbMongo.Config{
			URI:            cfg.URI,
			Database:       cfg.Name,
			ConnectTimeout: time.Duration(cfg.ConnectTimeoutSec) * time.Second,
			QueryTimeout:   time.Duration(cfg.QueryTimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("mongodb not ready: %w", err)
		}
		// $geoNear needs a 2dsphere index on the venue point.
		if err := store.EnsureGeoIndex(ctx, venuerepo.Collection, domvenue.FieldGeo); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("ensure geo index: %w", err)
		}
		logger.Info("Connected to MongoDB", zap.String("database", cfg.Name))
		return store, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}
