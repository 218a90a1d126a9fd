// The server command runs the text file analysis server: it accepts upload
// connections, stores each received file, analyzes its text and appends the
// counts to a shared result file.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"textmetrics/internal/config"
	"textmetrics/internal/server"
	"textmetrics/internal/storage"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to TOML config file")
		host       = flag.String("host", "", "host to listen on")
		port       = flag.Int("port", -1, "port to listen on")
		uploadDir  = flag.String("upload-dir", "", "directory to store received files")
		resultFile = flag.String("result-file", "", "file to append analysis results")
		logLevel   = flag.String("log-level", "", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	cfg := config.DefaultServer()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadServer(*configPath); err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	// Flags override config file values.
	if *host != "" {
		cfg.Host = *host
	}
	if *port >= 0 {
		cfg.Port = *port
	}
	if *uploadDir != "" {
		cfg.UploadDir = *uploadDir
	}
	if *resultFile != "" {
		cfg.ResultFile = *resultFile
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("invalid log level", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("upload directory", "dir", cfg.UploadDir)
	slog.Info("result file", "path", cfg.ResultFile)

	sink, err := storage.OpenResultSink(cfg.ResultFile)
	if err != nil {
		slog.Error("failed to open result file", "error", err)
		os.Exit(1)
	}
	defer sink.Close()

	srv := server.New(cfg.Addr(), cfg.Limits(), storage.NewUploadStore(cfg.UploadDir), sink)
	if err := srv.Start(); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
