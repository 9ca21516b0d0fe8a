package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/penerbit-id/naskah/internal/config"
	"github.com/penerbit-id/naskah/internal/manuscripts"
	"github.com/penerbit-id/naskah/internal/metadata"
	"github.com/penerbit-id/naskah/internal/storage"
	"github.com/penerbit-id/naskah/internal/ui/forms"
	"github.com/penerbit-id/naskah/logging"
)

const metadataTimeout = 15 * time.Second

// newLogger builds the process logger: console output plus the rotating log
// file when a log directory is configured. The returned func closes the file.
func newLogger(cfg config.Config, name string, console io.Writer) (*logging.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(name, level, console)
	if cfg.Log.Path() == "" {
		return logger, func() {}, nil
	}
	fw, err := logging.NewFileWriter(cfg.Log.FileOptions())
	if err != nil {
		return nil, nil, err
	}
	logger.AddWriter(fw)
	return logger, func() { _ = fw.Close() }, nil
}

// openStore opens the configured submission store.
func openStore(ctx context.Context, cfg config.Config) (storage.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		return storage.NewPostgresStore(pool), pool.Close, nil
	case config.StoreMemory:
		return storage.NewMemoryStore(), func() {}, nil
	default:
		store, err := storage.NewJSONStore(
			filepath.Join(cfg.App.Data, "publishers.json"),
			filepath.Join(cfg.App.Data, "submissions.json"),
		)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

// newService wires the store, the manuscript file store and the publisher
// metadata fetcher into a manuscripts.Service.
func newService(ctx context.Context, cfg config.Config, logger *logging.Logger) (*manuscripts.Service, func(), error) {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	files, err := storage.NewFileStore(filepath.Join(cfg.App.Data, "manuscripts"), forms.MaxManuscriptBytes)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	fetcher := metadata.NewFetcher(&http.Client{Timeout: metadataTimeout}, logger).
		WithThrottle(metadata.NewThrottle(metadata.DefaultInterval))
	svc, err := manuscripts.New(manuscripts.Options{
		Store:    store,
		Files:    files,
		Metadata: fetcher,
		Logger:   logger,
	})
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return svc, closeStore, nil
}
