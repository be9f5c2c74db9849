package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/service-catalog/internal/handler"
	"github.com/deppfellow/service-catalog/internal/router"
)

// DefaultContextTimeout bounds the graceful shutdown, in seconds.
const DefaultContextTimeout = 30

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web app",
	Long: `Starts the HTTP server with the catalog pages, the admin page and the
JSON API. When jobs are enabled the catalog change worker runs in the same
process. SIGINT or SIGTERM shuts everything down gracefully.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := current.server
	log := srv.Logger

	handlers := handler.NewHandlers(srv, current.services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	if srv.Job != nil {
		if err := srv.Job.Start(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			log.Error().Err(err).Msg("server stopped")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	current.closed = true
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		srv.LoggerService.Shutdown()
		return err
	}

	srv.LoggerService.Shutdown()
	log.Info().Msg("server exited properly")
	return nil
}
