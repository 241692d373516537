package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	httphandler "github.com/ericfisherdev/ghmirror/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/ghmirror/internal/adapter/driving/web"
	"github.com/ericfisherdev/ghmirror/internal/application"
	"github.com/ericfisherdev/ghmirror/internal/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Example: `  # Browse any public repository on localhost:8080
  ghmirror serve

  # Restrict browsing to two repositories
  GHMIRROR_DEMO_REPOS=vercel/next.js,facebook/react ghmirror serve --listen-addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"cache_ttl", cfg.CacheTTL,
		"per_page", cfg.PerPage,
		"demo_repos", cfg.DemoRepos,
	)

	// 1. Wire the gateway.
	ghClient, allowList, err := newGateway(cfg)
	if err != nil {
		return err
	}

	// 2. Create application services.
	logger := slog.Default()
	repoSvc := application.NewRepoService(ghClient, logger)
	listSvc := application.NewListService(ghClient, logger)
	conversationSvc := application.NewConversationService(ghClient, logger)
	searchSvc := application.NewSearchService(ghClient, allowList, logger)

	// 3. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(searchSvc, logger)
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 4. Create web handler and register page routes.
	webHandler := webhandler.NewHandler(repoSvc, listSvc, conversationSvc, searchSvc, allowList, cfg.PerPage, logger)
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	slog.Info("ghmirror started",
		"listen_addr", cfg.ListenAddr,
		"demo_mode", allowList.Enabled(),
	)

	// 5. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	// 6. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
