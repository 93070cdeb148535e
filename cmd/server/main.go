package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/richsheet/internal/cache"
	"github.com/JonMunkholm/richsheet/internal/config"
	"github.com/JonMunkholm/richsheet/internal/logging"
	"github.com/JonMunkholm/richsheet/internal/pipeline"
	"github.com/JonMunkholm/richsheet/internal/source"
	"github.com/JonMunkholm/richsheet/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
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
		"source_driver", cfg.Source.Driver,
		"cache_driver", cfg.Cache.Driver,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	// Build the sheet source
	var src source.Source
	switch strings.ToLower(cfg.Source.Driver) {
	case config.SourceDriverPostgres:
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			slog.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}

		poolConfig.MaxConns = int32(cfg.Database.MaxConns)
		poolConfig.MinConns = int32(cfg.Database.MinConns)
		poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
		poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		// Log which database we connected to
		if u, err := url.Parse(cfg.Database.URL); err == nil {
			dbName := strings.TrimPrefix(u.Path, "/")
			slog.Info("connected to database", "name", dbName, "table", cfg.Source.Table)
		} else {
			slog.Info("connected to database", "table", cfg.Source.Table)
		}

		pgSrc, err := source.NewPostgresSource(pool, cfg.Source.Table)
		if err != nil {
			slog.Error("failed to create postgres source", "error", err)
			os.Exit(1)
		}
		src = pgSrc

	case config.SourceDriverCSV:
		csvSrc, err := source.NewCSVSource(cfg.Source.Path)
		if err != nil {
			slog.Error("failed to create csv source", "error", err)
			os.Exit(1)
		}
		slog.Info("reading sheet from csv file", "path", cfg.Source.Path)
		src = csvSrc

	default:
		fileSrc, err := source.NewFileSource(cfg.Source.Path)
		if err != nil {
			slog.Error("failed to create file source", "error", err)
			os.Exit(1)
		}
		slog.Info("reading sheet from file", "path", cfg.Source.Path)
		src = fileSrc
	}

	// Build the cache store
	var store cache.Store
	switch strings.ToLower(cfg.Cache.Driver) {
	case config.CacheDriverSQLite:
		sqliteStore, err := cache.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			slog.Error("failed to open cache database", "error", err, "path", cfg.Cache.Path)
			os.Exit(1)
		}
		store = sqliteStore
		slog.Info("cache store ready", "driver", cfg.Cache.Driver, "path", cfg.Cache.Path)

	default:
		store = cache.NewMemoryStore(cfg.Cache.SweepInterval)
		slog.Info("cache store ready", "driver", cfg.Cache.Driver)
	}
	defer store.Close()

	manager, err := cache.NewManager(store, cache.ManagerConfig{
		PrimaryKey: cfg.Cache.PrimaryKey,
		BackupKey:  cfg.Cache.BackupKey,
		PrimaryTTL: cfg.Cache.PrimaryTTL,
		BackupTTL:  cfg.Cache.BackupTTL,
		Validate:   pipeline.ValidatePayload,
	}, slog.Default())
	if err != nil {
		slog.Error("failed to create cache manager", "error", err)
		os.Exit(1)
	}

	// Create the table service
	service, err := pipeline.New(pipeline.Config{
		Source:         src,
		Cache:          manager,
		Fields:         pipeline.FieldsWithAliases(aliasOverrides(cfg)),
		ComputedColumn: cfg.Pipeline.ComputedColumn,
		BatchSize:      cfg.Pipeline.BatchSize,
		Logger:         slog.Default(),
	})
	if err != nil {
		slog.Error("failed to create table service", "error", err)
		os.Exit(1)
	}

	// Create server with config
	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	// Warm both cache tiers at boot so the first request hits the cache
	if cfg.Pipeline.PreloadOnStart {
		go func() {
			res := service.Preload(jobCtx)
			if res.Success {
				slog.Info("preload complete", "message", res.Message)
			} else {
				slog.Warn("preload failed", "message", res.Message)
			}
		}()
	}

	// Keep the cache warm past the primary TTL
	if cfg.Pipeline.RefreshInterval > 0 {
		go service.StartRefreshScheduler(jobCtx, cfg.Pipeline.RefreshInterval)
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// aliasOverrides maps configured per-column alias lists onto field keys.
func aliasOverrides(cfg *config.Config) map[string][]string {
	return map[string][]string{
		pipeline.FieldDateSubmitted: cfg.Pipeline.DateSubmittedAliases,
		pipeline.FieldTitle:         cfg.Pipeline.TitleAliases,
		pipeline.FieldContent:       cfg.Pipeline.ContentAliases,
		pipeline.FieldCategories:    cfg.Pipeline.CategoriesAliases,
		pipeline.FieldPostBy:        cfg.Pipeline.PostByAliases,
		pipeline.FieldPublished:     cfg.Pipeline.PublishedAliases,
		pipeline.FieldNotes:         cfg.Pipeline.NotesAliases,
	}
}
