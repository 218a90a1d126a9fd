// The client command sends one local file to the analysis server and prints
// the server's raw textual response.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"textmetrics/internal/client"
	"textmetrics/internal/config"
)

// Exit codes per failure class, so scripts can tell a missing local file
// from an unreachable server.
const (
	exitUsage     = 1
	exitLocalFile = 2
	exitConnect   = 3
	exitTransfer  = 4
)

func main() {
	var (
		configPath = flag.String("config", "", "path to TOML config file")
		host       = flag.String("host", "", "server address")
		port       = flag.Int("port", -1, "server port")
		timeout    = flag.Duration("timeout", 0, "dial timeout")
		logLevel   = flag.String("log-level", "", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] FILE\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(exitUsage)
	}

	cfg := config.DefaultClient()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadClient(*configPath); err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(exitUsage)
		}
	}
	if *host != "" {
		cfg.Host = *host
	}
	if *port >= 0 {
		cfg.Port = *port
	}
	if *timeout > 0 {
		cfg.Timeout = config.Duration{Duration: *timeout}
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("invalid log level", "error", err)
		os.Exit(exitUsage)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	resp, err := client.Send(cfg.Addr(), flag.Arg(0), cfg.Timeout.Duration)
	if err != nil {
		slog.Error("upload failed", "error", err)
		os.Exit(exitCode(err))
	}

	fmt.Println("Server response:")
	fmt.Println(resp)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, client.ErrLocalFile):
		return exitLocalFile
	case errors.Is(err, client.ErrConnect):
		return exitConnect
	case errors.Is(err, client.ErrTransfer):
		return exitTransfer
	default:
		return exitUsage
	}
}
