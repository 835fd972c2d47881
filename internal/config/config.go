package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Log formats
	LogFormatJSON    = "json"
	LogFormatConsole = "console"

	// Default values
	DefaultPort           = 8080
	DefaultHost           = "127.0.0.1"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = LogFormatJSON
	DefaultMaxFileSize    = 100 * 1024 * 1024 // 100MB
	DefaultRequestTimeout = 60 * time.Second

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "MCP_TRANSCRIPT"
)

// Config holds all configuration for the transcript extractor
type Config struct {
	// Server configuration
	Mode           string // "server" or "stdio"
	Host           string
	Port           int
	RequestTimeout time.Duration

	// Transcript configuration
	TranscriptDirectory string
	MaxFileSize         int64 // Maximum transcript file or upload size in bytes

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	LogFormat  string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:                ModeStdio, // Default to stdio mode for MCP compatibility
		Host:                DefaultHost,
		Port:                DefaultPort,
		RequestTimeout:      DefaultRequestTimeout,
		TranscriptDirectory: currentDir,
		MaxFileSize:         DefaultMaxFileSize,
		Version:             "1.0.0",
		ServerName:          "mcp-transcript-extractor",
		LogLevel:            DefaultLogLevel,
		LogFormat:           DefaultLogFormat,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.TranscriptDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.TranscriptDirectory); err == nil {
			cfg.TranscriptDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ErrVersionRequested is returned by LoadFromFlags when --version is given.
var ErrVersionRequested = errors.New("version requested")

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.TranscriptDirectory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("logformat", cfg.LogFormat)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("requesttimeout", cfg.RequestTimeout)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.TranscriptDirectory, "Directory containing transcript files")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.String("logformat", cfg.LogFormat, "Log format (json, console)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum transcript file or upload size in bytes")
	pflag.Duration("requesttimeout", cfg.RequestTimeout, "Per-request timeout (server mode only)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "loglevel", "logformat", "maxfilesize", "requesttimeout",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Transcript Extractor - extracts car-sales fields from customer transcripts\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                              "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/transcripts                   "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/transcripts     # upload form and API\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081      # server on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  MCP_TRANSCRIPT_MODE            Server mode\n")
		fmt.Fprintf(os.Stderr, "  MCP_TRANSCRIPT_HOST            Server host\n")
		fmt.Fprintf(os.Stderr, "  MCP_TRANSCRIPT_PORT            Server port\n")
		fmt.Fprintf(os.Stderr, "  MCP_TRANSCRIPT_DIR             Transcript directory\n")
		fmt.Fprintf(os.Stderr, "  MCP_TRANSCRIPT_LOGLEVEL        Log level\n")
		fmt.Fprintf(os.Stderr, "  MCP_TRANSCRIPT_LOGFORMAT       Log format\n")
		fmt.Fprintf(os.Stderr, "  MCP_TRANSCRIPT_MAXFILESIZE     Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  MCP_TRANSCRIPT_REQUESTTIMEOUT  Request timeout\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.TranscriptDirectory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.LogFormat = viper.GetString("logformat")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.RequestTimeout = viper.GetDuration("requesttimeout")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Port and timeout only matter for server mode
	if c.Mode == ModeServer {
		if c.Port < 1 || c.Port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		if c.RequestTimeout <= 0 {
			return errors.New("request timeout must be positive")
		}
	}

	if c.TranscriptDirectory == "" {
		return errors.New("transcript directory cannot be empty")
	}

	// Check if transcript directory exists, create if it doesn't
	if _, err := os.Stat(c.TranscriptDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.TranscriptDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create transcript directory %s: %w", c.TranscriptDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access transcript directory %s: %w", c.TranscriptDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatConsole {
		return fmt.Errorf("invalid log format: %s (must be one of: json, console)", c.LogFormat)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, TranscriptDirectory: %s, LogLevel: %s, "+
		"LogFormat: %s, MaxFileSize: %d, RequestTimeout: %s}",
		c.Mode, c.Host, c.Port, c.TranscriptDirectory, c.LogLevel, c.LogFormat, c.MaxFileSize, c.RequestTimeout)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
