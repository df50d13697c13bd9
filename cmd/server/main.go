package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"runtime"
	"syscall"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/logger"
	"bookshelf/internal/response"
	"bookshelf/internal/server"
	"bookshelf/internal/service"
)

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration: " + err.Error())
		os.Exit(1)
	}

	err = logger.SetupSLog(cfg.Level(), cfg.LogFormat, path.Dir(path.Dir(path.Dir(thisFile))), middleware.RequestIDKey)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to parse BOOKS_DATABASE_URL: " + err.Error())
		os.Exit(1)
	}

	pgCfg.ConnConfig.Tracer = logger.NewPGXTracer(slog.Default())

	pg, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		slog.Error("Failed to create postgres pool: " + err.Error())
		os.Exit(1)
	}
	defer pg.Close()

	if cfg.AutoMigrate {
		if err := migrate(ctx, pg); err != nil {
			slog.Error("Failed to migrate database: " + err.Error())
			os.Exit(1)
		}
	}

	authorsSvc, booksSvc := service.New(pg, slog.Default())
	rr := &response.Responder{DebugMode: cfg.DebugMode}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	server.Health(r, pg, rr)
	server.Static(r)
	r.Mount("/", server.Handler(authorsSvc, booksSvc, rr))

	srv := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening on " + cfg.BindAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		slog.Error("aborting: " + err.Error())
		os.Exit(1)
	case <-ctx.Done():
	}

	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Graceful shutdown failed: " + err.Error())
	}
}

func migrate(ctx context.Context, pg *pgxpool.Pool) error {
	conn, err := pg.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return database.Migrate(ctx, conn.Conn(), slog.Default())
}
