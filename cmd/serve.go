package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"tunebridge/internal/matcher"
	"tunebridge/internal/repositories"
	"tunebridge/internal/server"
	"tunebridge/internal/shared"
	"tunebridge/internal/tasks"
)

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if host := cmd.String("host"); host != "" {
		r.config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		r.config.Server.Port = int(port)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	jobs := repositories.NewJobRepository(db)
	cache := repositories.NewTrackCacheAdapter(repositories.NewTrackRepository(db))
	engine := tasks.NewSearchEngine(r.catalog, matcher.New(matcherConfig(r.config)), cache, r.logger)

	router := server.NewBasicRouter()
	router.Handler(server.NewHealthHandler(r.catalog, db))
	router.Handler(server.NewSearchHandler(engine, jobs, r.config.Batch, r.logger))
	router.Handler(server.NewConversionHandler(jobs, r.logger))
	router.Handler(server.NewPlaylistHandler(r.catalog, jobs, r.logger))

	// CORS wraps the router itself so preflight requests are answered before
	// method matching can reject them.
	var handler http.Handler = router
	for _, m := range []server.Middleware{
		server.RateLimit(r.config.Server.RateLimit),
		server.CORS(),
		server.RequestLogger(r.logger),
	} {
		handler = m(handler)
	}

	httpServer := &http.Server{
		Addr:    r.config.Addr(),
		Handler: handler,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("starting server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	notifyCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-notifyCtx.Done():
		r.logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// openDatabase opens the configured database, applies pool settings, and runs migrations.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
