package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PriceDigest/internal/api"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API and serve the output directory.

Endpoints:
  GET /api/ping                      - liveness
  GET /api/generate?ticker=&days=    - generate and record a document
  GET /api/documents/{ticker}        - stored document
  GET /api/history/{ticker}          - past generations (needs sqlite)
  GET /api/records/{ticker}          - stored daily records (needs sqlite)
  GET /metrics                       - Prometheus metrics
  GET /*                             - files from the output directory`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	handler := api.NewHandler(a.collector, a.stores(), a.cfg.Output.Dir, a.cfg.Server.GenerateTimeout, a.log)
	router := api.NewRouter(handler, a.metrics.Handler(), a.log)
	srv := api.NewServer(addr, a.cfg.Server.GenerateTimeout, router, a.log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		a.log.Info("shutdown signal received, stopping")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
