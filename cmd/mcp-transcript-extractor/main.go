package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/a3tai/mcp-transcript-extractor/internal/config"
	"github.com/a3tai/mcp-transcript-extractor/internal/httpapi"
	"github.com/a3tai/mcp-transcript-extractor/internal/logging"
	"github.com/a3tai/mcp-transcript-extractor/internal/mcp"
	"github.com/a3tai/mcp-transcript-extractor/internal/service"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

const shutdownTimeout = 10 * time.Second

// setupLogging builds the application logger and routes the standard library
// logger through it. In stdio mode the MCP client owns the terminal, so only
// warnings and errors are written unless debug logging is requested.
func setupLogging(cfg *config.Config, output io.Writer) *logging.Logger {
	level := cfg.LogLevel
	if cfg.IsStdioMode() && !cfg.IsDebug() && logging.ParseLevel(level) < zerolog.WarnLevel {
		level = "warn"
	}

	logger := logging.New(logging.Config{
		Level:       level,
		Format:      cfg.LogFormat,
		Output:      output,
		ServiceName: cfg.ServerName,
	})

	log.SetFlags(0)
	log.SetOutput(logger.Writer(zerolog.InfoLevel))

	return logger
}

// newHTTPServer wires the HTTP form and API onto an http.Server.
func newHTTPServer(cfg *config.Config, svc *service.Service, logger *logging.Logger) *http.Server {
	router := httpapi.NewRouter(svc, logger, httpapi.RouterConfig{
		ServiceName:    cfg.ServerName,
		Version:        cfg.Version,
		RequestTimeout: cfg.RequestTimeout,
		MaxUploadSize:  cfg.MaxFileSize,
	})

	return &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
		ErrorLog:          log.New(logger.Writer(zerolog.ErrorLevel), "", 0),
	}
}

// serveHTTP serves on ln until ctx is done, then shuts the server down
// gracefully, forcing it closed if in-flight requests outlast the timeout.
func serveHTTP(ctx context.Context, srv *http.Server, ln net.Listener, logger *logging.Logger) error {
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		logger.Info().Msg("shutdown requested, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := srv.Close(); closeErr != nil {
			return fmt.Errorf("failed to close server: %w", closeErr)
		}
		return err
	}

	logger.Info().Msg("server stopped successfully")
	return nil
}

// runServerMode serves the upload form and extraction API over HTTP.
func runServerMode(ctx context.Context, cfg *config.Config, svc *service.Service, logger *logging.Logger) error {
	ln, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address(), err)
	}
	return serveHTTP(ctx, newHTTPServer(cfg, svc, logger), ln, logger)
}

// runStdioMode serves MCP over stdin and stdout. The parent process controls
// the lifecycle; closing stdin ends the run.
func runStdioMode(ctx context.Context, cfg *config.Config, svc *service.Service, logger *logging.Logger) error {
	server, err := mcp.NewServer(cfg, svc, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(ctx)
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	svc, err := service.NewService(cfg.MaxFileSize, cfg.TranscriptDirectory, logger)
	if err != nil {
		return fmt.Errorf("failed to create extraction service: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("starting")

	if cfg.IsServerMode() {
		return runServerMode(ctx, cfg, svc, logger)
	}
	return runStdioMode(ctx, cfg, svc, logger)
}

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger := setupLogging(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		stop()
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP Transcript Extractor\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
