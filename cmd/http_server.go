package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/storage"
	"github.com/frahmantamala/school-admin/internal/transport/rest"
)

const shutdownTimeout = 30 * time.Second

func newHTTPServerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start HTTP server",
		Long:  `Start the reference REST service the client commands talk to.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return startHTTPServer(cmd.Context(), a)
		},
	}
}

type Dependencies struct {
	Config *internal.Config
	Store  *storage.Store
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer(ctx context.Context, a *app) error {
	deps, err := initializeDependencies(a)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := deps.Store.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	}()

	cfg := deps.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		deps.Logger.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		deps.Logger.Info("received signal, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	deps.Logger.Info("server stopped")
	return nil
}

func initializeDependencies(a *app) (*Dependencies, error) {
	if err := a.cfg.ValidateServer(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store, err := storage.Open(a.cfg.Database, a.logger)
	if err != nil {
		return nil, err
	}

	router, err := rest.NewServer(a.cfg, store, a.clock, a.logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Dependencies{
		Config: a.cfg,
		Store:  store,
		Router: router,
		Logger: a.logger,
	}, nil
}
