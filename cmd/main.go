package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/cdyhdrxj/store-backend/internal/auth"
	"github.com/cdyhdrxj/store-backend/internal/catalog"
	"github.com/cdyhdrxj/store-backend/internal/config"
	"github.com/cdyhdrxj/store-backend/internal/db"
	"github.com/cdyhdrxj/store-backend/internal/events"
	httpapi "github.com/cdyhdrxj/store-backend/internal/http"
	"github.com/cdyhdrxj/store-backend/internal/media"
	"github.com/cdyhdrxj/store-backend/internal/notify"
	"github.com/cdyhdrxj/store-backend/internal/obs"
	"github.com/cdyhdrxj/store-backend/internal/purchase"
	"github.com/cdyhdrxj/store-backend/internal/user"
)

func main() {
	cfg := config.Load()

	logger, err := obs.NewLogger(os.Getenv("DEBUG") == "1")
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := obs.SetupTracing(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	repo := catalog.NewPostgresRepository(pool)
	users := user.NewPostgresRepository(pool)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	registry := notify.NewRegistry(logger)

	// --- AMQP (optional) ---
	var sink purchase.EventSink
	if cfg.RabbitURL != "" {
		conn := events.MustDial(cfg.RabbitURL)
		defer conn.Close()

		pub, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatal("amqp publisher", zap.Error(err))
		}
		defer pub.Close()
		sink = pub
	}

	purchases := purchase.NewService(repo, registry, sink, logger)

	storage, err := media.New(cfg.UploadDir, cfg.MaxUploadSize,
		[]string{"image/jpeg", "image/png", "image/gif"})
	if err != nil {
		logger.Fatal("media storage", zap.Error(err))
	}

	// --- HTTP ---
	h := httpapi.NewHandler(httpapi.Deps{
		Items:     repo,
		Taxonomy:  repo,
		Images:    repo,
		Users:     users,
		Tokens:    tokens,
		Purchases: purchases,
		Registry:  registry,
		Media:     storage,
		Logger:    logger,
	})
	router := httpapi.NewRouter(h, tokens, users, cfg.CORSAllowOrigins)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("fatal error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	_ = httpServer.Shutdown(shutdownCtx)
	_ = shutdownTracing(shutdownCtx)
	cancel()

	logger.Info("shutdown complete")
}
