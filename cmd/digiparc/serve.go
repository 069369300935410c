package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"digiparc/internal/backend"
	"digiparc/internal/catalog"
	"digiparc/internal/config"
	"digiparc/internal/gql"
	"digiparc/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const readHeaderTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			listener, err := net.Listen("tcp", cfg.ListenAddr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
			}
			return serve(ctx, cfg, listener, opts.logger)
		},
	}
}

// serve runs the web server on listener until ctx is canceled, then
// drains in-flight requests for at most cfg.ShutdownTimeout.
func serve(ctx context.Context, cfg config.Config, listener net.Listener, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	handler, err := web.NewHandler(cfg, newCatalogService(cfg), logger)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("handler setup failed: %w", err)
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("digiparc server listening",
			zap.String("addr", listener.Addr().String()),
			zap.String("backend", cfg.Backend.Kind),
		)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("digiparc server shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return group.Wait()
}

func newCatalogService(cfg config.Config) *catalog.Service {
	var finders catalog.Finders

	switch cfg.Backend.Kind {
	case config.BackendGraphQL:
		client := gql.NewClient(cfg.Backend)
		finders = catalog.Finders{
			Formations:   gql.NewFormationFinder(client),
			Subscribers:  gql.NewSubscriberFinder(client),
			Inscriptions: gql.NewInscriptionFinder(client),
		}
	default:
		client := backend.NewHTTPClient(cfg.Backend.AuthToken, cfg.Backend.Timeout)
		finders = catalog.Finders{
			Formations:   backend.NewFinder[catalog.Formation](client, cfg.Backend.BaseURL, "formations"),
			Subscribers:  backend.NewFinder[catalog.Subscriber](client, cfg.Backend.BaseURL, "subscribers"),
			Inscriptions: backend.NewFinder[catalog.Inscription](client, cfg.Backend.BaseURL, "inscriptions"),
		}
	}

	return catalog.NewService(finders, cfg.RootURL)
}
