package config

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var envVars = []string{
	"MCP_TRANSCRIPT_MODE",
	"MCP_TRANSCRIPT_HOST",
	"MCP_TRANSCRIPT_PORT",
	"MCP_TRANSCRIPT_DIR",
	"MCP_TRANSCRIPT_LOGLEVEL",
	"MCP_TRANSCRIPT_LOGFORMAT",
	"MCP_TRANSCRIPT_MAXFILESIZE",
	"MCP_TRANSCRIPT_REQUESTTIMEOUT",
}

// resetFlags gives each test a fresh pflag.CommandLine and viper.
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

func clearEnvVars() {
	for _, name := range envVars {
		os.Unsetenv(name)
	}
}

// withArgs runs LoadFromFlags with args and restores global state afterwards.
func withArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	})

	os.Args = append([]string{"mcp-transcript-extractor"}, args...)
	resetFlags()
	return LoadFromFlags()
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	clearEnvVars()
	cfg, err := withArgs(t)
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.Port != 8080 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 8080)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LoadFromFlags() LogFormat = %v, want %v", cfg.LogFormat, "json")
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("LoadFromFlags() RequestTimeout = %v, want %v", cfg.RequestTimeout, DefaultRequestTimeout)
	}
	if cfg.TranscriptDirectory == "" {
		t.Error("LoadFromFlags() TranscriptDirectory should not be empty")
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantMode    string
		wantHost    string
		wantPort    int
		wantLevel   string
		wantFormat  string
		wantMaxSize int64
		wantTimeout time.Duration
	}{
		{
			name:        "stdio mode with custom directory",
			wantMode:    "stdio",
			wantHost:    "127.0.0.1",
			wantPort:    8080,
			wantLevel:   "info",
			wantFormat:  "json",
			wantMaxSize: 100 * 1024 * 1024,
			wantTimeout: time.Minute,
		},
		{
			name:        "server mode with custom host and port",
			args:        []string{"--mode=server", "--host=0.0.0.0", "--port=9090"},
			wantMode:    "server",
			wantHost:    "0.0.0.0",
			wantPort:    9090,
			wantLevel:   "info",
			wantFormat:  "json",
			wantMaxSize: 100 * 1024 * 1024,
			wantTimeout: time.Minute,
		},
		{
			name:        "debug console logging",
			args:        []string{"--loglevel=debug", "--logformat=console"},
			wantMode:    "stdio",
			wantHost:    "127.0.0.1",
			wantPort:    8080,
			wantLevel:   "debug",
			wantFormat:  "console",
			wantMaxSize: 100 * 1024 * 1024,
			wantTimeout: time.Minute,
		},
		{
			name:        "custom limits",
			args:        []string{"--maxfilesize=50000000", "--requesttimeout=15s"},
			wantMode:    "stdio",
			wantHost:    "127.0.0.1",
			wantPort:    8080,
			wantLevel:   "info",
			wantFormat:  "json",
			wantMaxSize: 50000000,
			wantTimeout: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()
			tempDir := t.TempDir()

			cfg, err := withArgs(t, append(tt.args, "--dir="+tempDir)...)
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}

			if cfg.Mode != tt.wantMode {
				t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, tt.wantMode)
			}
			if cfg.Host != tt.wantHost {
				t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, tt.wantHost)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, tt.wantPort)
			}
			if cfg.LogLevel != tt.wantLevel {
				t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, tt.wantLevel)
			}
			if cfg.LogFormat != tt.wantFormat {
				t.Errorf("LoadFromFlags() LogFormat = %v, want %v", cfg.LogFormat, tt.wantFormat)
			}
			if cfg.MaxFileSize != tt.wantMaxSize {
				t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, tt.wantMaxSize)
			}
			if cfg.RequestTimeout != tt.wantTimeout {
				t.Errorf("LoadFromFlags() RequestTimeout = %v, want %v", cfg.RequestTimeout, tt.wantTimeout)
			}
			if cfg.TranscriptDirectory != tempDir {
				t.Errorf("LoadFromFlags() TranscriptDirectory = %v, want %v", cfg.TranscriptDirectory, tempDir)
			}
		})
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	clearEnvVars()
	tempDir := t.TempDir()

	t.Setenv("MCP_TRANSCRIPT_MODE", "server")
	t.Setenv("MCP_TRANSCRIPT_HOST", "192.168.1.1")
	t.Setenv("MCP_TRANSCRIPT_PORT", "3000")
	t.Setenv("MCP_TRANSCRIPT_DIR", tempDir)
	t.Setenv("MCP_TRANSCRIPT_LOGLEVEL", "warn")
	t.Setenv("MCP_TRANSCRIPT_LOGFORMAT", "console")
	t.Setenv("MCP_TRANSCRIPT_MAXFILESIZE", "200000000")
	t.Setenv("MCP_TRANSCRIPT_REQUESTTIMEOUT", "90s")

	cfg, err := withArgs(t)
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "server" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "server")
	}
	if cfg.Host != "192.168.1.1" {
		t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, "192.168.1.1")
	}
	if cfg.Port != 3000 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 3000)
	}
	if cfg.TranscriptDirectory != tempDir {
		t.Errorf("LoadFromFlags() TranscriptDirectory = %v, want %v", cfg.TranscriptDirectory, tempDir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "warn")
	}
	if cfg.LogFormat != "console" {
		t.Errorf("LoadFromFlags() LogFormat = %v, want %v", cfg.LogFormat, "console")
	}
	if cfg.MaxFileSize != 200000000 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 200000000)
	}
	if cfg.RequestTimeout != 90*time.Second {
		t.Errorf("LoadFromFlags() RequestTimeout = %v, want %v", cfg.RequestTimeout, 90*time.Second)
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	clearEnvVars()
	t.Setenv("MCP_TRANSCRIPT_MODE", "server")
	t.Setenv("MCP_TRANSCRIPT_HOST", "192.168.1.1")
	t.Setenv("MCP_TRANSCRIPT_PORT", "3000")

	cfg, err := withArgs(t, "--mode=stdio", "--host=localhost", "--port=8888", "--dir="+t.TempDir())
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v (should override env)", cfg.Mode, "stdio")
	}
	if cfg.Host != "localhost" {
		t.Errorf("LoadFromFlags() Host = %v, want %v (should override env)", cfg.Host, "localhost")
	}
	if cfg.Port != 8888 {
		t.Errorf("LoadFromFlags() Port = %v, want %v (should override env)", cfg.Port, 8888)
	}
}

func TestLoadFromFlags_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"invalid mode", []string{"--mode=invalid"}, "mode must be either 'stdio' or 'server'"},
		{"invalid port", []string{"--mode=server", "--port=99999"}, "port must be between 1 and 65535"},
		{"invalid log level", []string{"--loglevel=invalid"}, "invalid log level"},
		{"invalid log format", []string{"--logformat=xml"}, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()
			_, err := withArgs(t, append(tt.args, "--dir="+t.TempDir())...)
			if err == nil {
				t.Fatalf("LoadFromFlags() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFromFlags() error = %v, want error about %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	clearEnvVars()
	_, err := withArgs(t, "--version")
	if !errors.Is(err, ErrVersionRequested) {
		t.Errorf("LoadFromFlags() error = %v, want ErrVersionRequested", err)
	}
}
