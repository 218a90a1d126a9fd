package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"textmetrics/internal/protocol"
)

// Server holds the analysis server configuration. Values come from an
// optional TOML file with command-line flags layered on top.
type Server struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	UploadDir     string `toml:"upload_dir"`
	ResultFile    string `toml:"result_file"`
	MaxNameLen    int    `toml:"max_name_len"`
	MaxContentLen int64  `toml:"max_content_len"`
	LogLevel      string `toml:"log_level"`
}

// Client holds the upload client configuration.
type Client struct {
	Host     string   `toml:"host"`
	Port     int      `toml:"port"`
	Timeout  Duration `toml:"timeout"`
	LogLevel string   `toml:"log_level"`
}

// Duration wraps time.Duration so TOML files can use strings like "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = v
	return nil
}

// DefaultServer returns the server defaults.
func DefaultServer() Server {
	return Server{
		Host:          "127.0.0.1",
		Port:          8888,
		UploadDir:     "uploads",
		ResultFile:    "analysis_result.txt",
		MaxNameLen:    protocol.DefaultMaxNameLen,
		MaxContentLen: protocol.DefaultMaxContentLen,
		LogLevel:      "info",
	}
}

// DefaultClient returns the client defaults.
func DefaultClient() Client {
	return Client{
		Host:     "127.0.0.1",
		Port:     8888,
		Timeout:  Duration{5 * time.Second},
		LogLevel: "info",
	}
}

// LoadServer reads a server config file, starting from the defaults.
// Unknown keys are rejected so typos do not silently fall back to
// defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Server{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Server{}, fmt.Errorf("unknown keys in %s: %v", path, keys)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadClient reads a client config file, starting from the defaults.
func LoadClient(path string) (Client, error) {
	cfg := DefaultClient()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Client{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Client{}, fmt.Errorf("unknown keys in %s: %v", path, keys)
	}
	if err := cfg.Validate(); err != nil {
		return Client{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the server configuration for values the server cannot
// run with.
func (c Server) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("upload_dir must not be empty")
	}
	if c.ResultFile == "" {
		return fmt.Errorf("result_file must not be empty")
	}
	if c.MaxNameLen <= 0 {
		return fmt.Errorf("max_name_len must be positive")
	}
	if c.MaxContentLen <= 0 {
		return fmt.Errorf("max_content_len must be positive")
	}

	return nil
}

// Validate checks the client configuration.
func (c Client) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

// Addr returns the host:port the server listens on.
func (c Server) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Addr returns the host:port the client dials.
func (c Client) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Limits converts the configured maxima into protocol limits.
func (c Server) Limits() protocol.Limits {
	return protocol.Limits{
		MaxNameLen:    c.MaxNameLen,
		MaxContentLen: c.MaxContentLen,
	}
}

// ParseLogLevel maps a config string to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
