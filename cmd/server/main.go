package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lulicroppi/malaly-merceria/internal/blob"
	"github.com/lulicroppi/malaly-merceria/internal/config"
	"github.com/lulicroppi/malaly-merceria/internal/core"
	"github.com/lulicroppi/malaly-merceria/internal/logging"
	"github.com/lulicroppi/malaly-merceria/internal/transport"
	"github.com/lulicroppi/malaly-merceria/internal/web"
)

func main() {
	// Load .env file if it exists; real environment variables win
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"document_mode", cfg.Document.Mode,
		"storage_backend", cfg.Storage.Backend,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()

	// The proxy store only exists when this process owns the document
	var store blob.Store
	if cfg.Document.Mode == config.ModeLocal {
		s, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			slog.Error("failed to open storage", "backend", cfg.Storage.Backend, "error", err)
			os.Exit(1)
		}
		defer closeStore()
		store = s
		slog.Info("storage ready", "backend", store.Name(), "key", cfg.Storage.DocumentKey)
	}

	doc := openDocument(cfg, store)
	repo := core.NewRepository(core.WithCollation(cfg.Document.Collation()))

	if cfg.Document.BootstrapOnStart {
		res, err := core.Bootstrap(ctx, doc)
		if err != nil {
			slog.Error("document bootstrap failed", "error", err, "code", core.MapError(err).Code)
			os.Exit(1)
		}
		slog.Info("document bootstrap complete",
			"new_document", res.NewDocument,
			"created_tables", res.Created,
			"persisted", res.Persisted,
		)
	}

	server := web.NewServer(cfg, repo, doc, store)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Shutdown also waits for in-flight document uploads
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore connects the configured blob backend. The returned func
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config) (blob.Store, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.BackendFS:
		s, err := blob.NewFS(cfg.Storage.Dir)
		return s, noop, err

	case config.BackendPostgres:
		pool, err := blob.OpenPostgres(ctx, cfg.Storage.DatabaseURL, cfg.Storage.MaxConns)
		if err != nil {
			return nil, noop, err
		}
		s, err := blob.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return s, pool.Close, nil

	case config.BackendRedis:
		rdb, err := blob.OpenRedis(ctx, cfg.Storage.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return blob.NewRedis(rdb, cfg.Storage.RedisPrefix), func() { _ = rdb.Close() }, nil

	case config.BackendMemory:
		slog.Warn("memory storage backend: the document is lost on restart")
		return blob.NewMemory(), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// openDocument builds the document handle the repository works against.
func openDocument(cfg *config.Config, store blob.Store) transport.Document {
	var doc transport.Document
	if cfg.Document.Mode == config.ModeRemote {
		doc = transport.NewHTTPDocument(cfg.Document.URL, cfg.Storage.Token, cfg.Document.Timeout)
		slog.Info("using remote document", "url", cfg.Document.URL)
	} else {
		doc = transport.NewStoreDocument(store, cfg.Storage.DocumentKey)
	}

	if cfg.Document.FallbackDir != "" {
		slog.Info("download fallback enabled", "dir", cfg.Document.FallbackDir)
		return transport.WithDownloadFallback(doc, cfg.Document.FallbackDir)
	}
	return doc
}
