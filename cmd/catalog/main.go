// Command catalog runs the service catalog web app and offers the same
// admin operations from the terminal.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/deppfellow/service-catalog/internal/config"
	"github.com/deppfellow/service-catalog/internal/errs"
	"github.com/deppfellow/service-catalog/internal/logger"
	"github.com/deppfellow/service-catalog/internal/repository"
	"github.com/deppfellow/service-catalog/internal/server"
	"github.com/deppfellow/service-catalog/internal/service"
)

// app is built once per invocation by the root command's pre-run hook.
type app struct {
	server   *server.Server
	repos    *repository.Repositories
	services *service.Services

	// closed is set once serve has shut the server down itself.
	closed bool
}

var (
	backend string
	current *app
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Service catalog viewer with an admin page",
	Long: `catalog serves the public service list, the detail page and the admin
page, backed by one persisted slot holding the whole list.

Configuration comes from CATALOG_* environment variables (a .env file is
loaded when present). Run "catalog serve" to start the web app.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current == nil || current.closed {
			return
		}
		if err := current.server.Close(); err != nil {
			current.server.Logger.Error().Err(err).Msg("failed to close resources")
		}
		current.server.LoggerService.Shutdown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Override the storage backend (memory, file, redis, postgres, sqlite)")

	servicesCmd.AddCommand(servicesListCmd)
	servicesCmd.AddCommand(servicesAddCmd)
	servicesCmd.AddCommand(servicesEditCmd)
	servicesCmd.AddCommand(servicesDeleteCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError prints the error and, for rejected input, each field error.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, err)

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		for _, fe := range httpErr.Errors {
			fmt.Fprintf(w, "  %s: %s\n", fe.Field, fe.Error)
		}
	}
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	if backend != "" {
		cfg.Store.Backend = backend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		_ = srv.Close()
		loggerService.Shutdown()
		return nil, fmt.Errorf("failed to create services: %w", err)
	}

	return &app{server: srv, repos: repos, services: services}, nil
}
