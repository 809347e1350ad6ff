package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sunstyle/sunstyle/internal/server"
)

// newServeCommand creates the serve command.
func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the realtime catalog server",
		Long: `Start the realtime catalog server.

Features:
  - WebSocket endpoint for the catalog protocol ({prefix}/ws)
  - Server-Sent Events stream of accepted items ({prefix}/updates/stream)
  - REST catalog snapshot ({prefix}/prendas)
  - Static file serving for the web client (--public)
  - Request logging, panic recovery, CORS
  - Graceful shutdown with connection draining`,
		Example: `  # Start on default port 3000
  sunstyle serve

  # Custom port, serving the bundled web client
  sunstyle serve --port 8080 --public ./public

  # Restrict CORS origins
  sunstyle serve --cors-origins "https://sunstyle.example.com"`,
		RunE: runServe,
	}

	cmd.Flags().IntP("port", "p", 0, "Server port (overrides config)")
	cmd.Flags().String("host", "", "Bind address (overrides config)")
	cmd.Flags().String("db", "", "Path to the persisted catalog document")
	cmd.Flags().String("public", "", "Directory of static web client files")
	cmd.Flags().String("prefix", "", "API path prefix")
	cmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins (default: all)")
	cmd.Flags().Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	cmd.Flags().Duration("idle-timeout", 120*time.Second, "HTTP idle timeout")

	return cmd
}

// runServe starts the server with graceful shutdown.
func runServe(cmd *cobra.Command, _ []string) error {
	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.Host
	srvCfg.Port = cfg.Port
	srvCfg.PathPrefix = cfg.PathPrefix
	srvCfg.DBPath = cfg.DBPath
	srvCfg.PublicDir = cfg.PublicDir
	srvCfg.CORSEnabled = cfg.CORSEnabled
	srvCfg.CORSOrigins = cfg.CORSOrigins

	// Flags override config and environment
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		srvCfg.Port = port
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		srvCfg.Host = host
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		srvCfg.DBPath = db
	}
	if public, _ := cmd.Flags().GetString("public"); public != "" {
		srvCfg.PublicDir = public
	}
	if prefix, _ := cmd.Flags().GetString("prefix"); prefix != "" {
		srvCfg.PathPrefix = prefix
	}
	if origins, _ := cmd.Flags().GetStringSlice("cors-origins"); len(origins) > 0 {
		srvCfg.CORSOrigins = origins
	}
	srvCfg.ReadTimeout, _ = cmd.Flags().GetDuration("read-timeout")
	srvCfg.IdleTimeout, _ = cmd.Flags().GetDuration("idle-timeout")

	logger.Info().
		Str("host", srvCfg.Host).
		Int("port", srvCfg.Port).
		Str("db", srvCfg.DBPath).
		Str("prefix", srvCfg.PathPrefix).
		Msg("Starting catalog server")

	srv := server.New(srvCfg, logger)
	srv.Start()

	httpServer := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", srvCfg.Host, srvCfg.Port),
		Handler:     srv.Handler(),
		ReadTimeout: srvCfg.ReadTimeout,
		IdleTimeout: srvCfg.IdleTimeout,
	}

	return startServerWithGracefulShutdown(httpServer, srv, logger)
}

// startServerWithGracefulShutdown starts the server and drains it on
// SIGINT/SIGTERM.
func startServerWithGracefulShutdown(httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Msg("Server starting")

		fmt.Printf("Servidor corriendo en http://%s\n", httpServer.Addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("background services shutdown failed: %w", err)
		}

		logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}
