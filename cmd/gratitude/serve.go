// ABOUTME: Cobra command that runs the in-memory journal API backend.
// ABOUTME: Serves the entries endpoint over HTTP until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/gratitude/internal/config"
	"github.com/2389-research/gratitude/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local journal API",
	Long: `Run an in-memory journal API for development and testing.

Entries live only as long as the process. Point the client at
http://<addr><base-path> with the same API key.`,
	RunE: runServe,
}

// Flags
var (
	serveAddr     string
	serveAPIKey   string
	serveBasePath string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "Listen address")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "API key clients must send (default: configured api.key)")
	serveCmd.Flags().StringVar(&serveBasePath, "base-path", server.DefaultBasePath, "Path of the entries endpoint")
}

func runServe(cmd *cobra.Command, args []string) error {
	apiKey := serveAPIKey
	if apiKey == "" && globalConfig != nil {
		apiKey = globalConfig.API.Key
	}
	if apiKey == "" {
		return fmt.Errorf("an API key is required: pass --api-key or set %s_API_KEY", config.EnvPrefix)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(server.NewStore(), apiKey,
		server.WithBasePath(serveBasePath),
		server.WithLogger(globalLog),
	)
	httpServer := &http.Server{
		Addr:              serveAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	globalLog.Info().Str("addr", serveAddr).Str("base_path", serveBasePath).Msg("serving journal API")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	globalLog.Info().Msg("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}
