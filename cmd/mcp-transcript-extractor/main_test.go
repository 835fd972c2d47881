package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/a3tai/mcp-transcript-extractor/internal/config"
	"github.com/a3tai/mcp-transcript-extractor/internal/logging"
	"github.com/a3tai/mcp-transcript-extractor/internal/service"
)

const testVersion = "1.2.3"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeServer
	cfg.TranscriptDirectory = t.TempDir()
	cfg.Port = 0
	cfg.Version = testVersion
	cfg.RequestTimeout = 5 * time.Second
	cfg.MaxFileSize = 1 << 20
	return cfg
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	tests := []struct {
		name     string
		version  string
		build    string
		commit   string
		expected []string
	}{
		{
			name:    "build flags set",
			version: testVersion,
			build:   "2023-12-01_10:30:00",
			commit:  "abc123",
			expected: []string{
				"MCP Transcript Extractor",
				"Version: " + testVersion,
				"Build Time: 2023-12-01_10:30:00",
				"Git Commit: abc123",
				"Built with:",
			},
		},
		{
			name:    "defaults",
			version: "dev",
			build:   "unknown",
			commit:  "unknown",
			expected: []string{
				"Version: dev",
				"Build Time: unknown",
				"Git Commit: unknown",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, buildTime, gitCommit = tt.version, tt.build, tt.commit

			var buf bytes.Buffer
			printVersion(&buf)

			output := buf.String()
			for _, expected := range tt.expected {
				if !strings.Contains(output, expected) {
					t.Errorf("printVersion() output missing %q\nActual output:\n%s", expected, output)
				}
			}
		})
	}
}

func TestSetupLogging(t *testing.T) {
	originalOutput := log.Writer()
	originalFlags := log.Flags()
	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	tests := []struct {
		name        string
		mode        string
		level       string
		wantInfo    bool
		wantDebug   bool
		wantWarning bool
	}{
		{name: "server mode info", mode: config.ModeServer, level: "info", wantInfo: true, wantWarning: true},
		{name: "stdio mode info is quiet", mode: config.ModeStdio, level: "info", wantWarning: true},
		{name: "stdio mode debug", mode: config.ModeStdio, level: "debug", wantInfo: true, wantDebug: true, wantWarning: true},
		{name: "stdio mode error", mode: config.ModeStdio, level: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Mode:       tt.mode,
				LogLevel:   tt.level,
				LogFormat:  config.LogFormatJSON,
				ServerName: "test-extractor",
			}

			var buf bytes.Buffer
			logger := setupLogging(cfg, &buf)

			log.Println("bridged message")
			logger.Debug().Msg("debug message")
			logger.Warn().Msg("warning message")

			output := buf.String()
			if got := strings.Contains(output, `"message":"bridged message"`); got != tt.wantInfo {
				t.Errorf("info visible = %v, want %v\n%s", got, tt.wantInfo, output)
			}
			if got := strings.Contains(output, "debug message"); got != tt.wantDebug {
				t.Errorf("debug visible = %v, want %v\n%s", got, tt.wantDebug, output)
			}
			if got := strings.Contains(output, "warning message"); got != tt.wantWarning {
				t.Errorf("warning visible = %v, want %v\n%s", got, tt.wantWarning, output)
			}
			if tt.wantInfo && !strings.Contains(output, `"service":"test-extractor"`) {
				t.Errorf("service field missing\n%s", output)
			}
			if log.Flags() != 0 {
				t.Errorf("log flags = %v, want 0", log.Flags())
			}
		})
	}
}

func TestServeHTTP_GracefulShutdown(t *testing.T) {
	cfg := testConfig(t)
	svc, err := service.NewService(cfg.MaxFileSize, cfg.TranscriptDirectory, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := logging.Nop()
	done := make(chan error, 1)
	go func() {
		done <- serveHTTP(ctx, newHTTPServer(cfg, svc, logger), ln, logger)
	}()

	base := "http://" + ln.Addr().String()

	resp, err := http.Get(base + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.PostForm(base+"/extract", url.Values{"textarea_input": {"Looking for a Silver SUV"}})
	if err != nil {
		t.Fatalf("POST /extract: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /extract status = %d, body %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"CarType": "suv"`) || !strings.Contains(string(body), `"Color": "silver"`) {
		t.Errorf("unexpected extraction result:\n%s", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serveHTTP() error = %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("serveHTTP() did not return after cancellation")
	}
}

func TestServeHTTP_ListenerClosed(t *testing.T) {
	cfg := testConfig(t)
	svc, err := service.NewService(cfg.MaxFileSize, cfg.TranscriptDirectory, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ln.Close()

	logger := logging.Nop()
	err = serveHTTP(context.Background(), newHTTPServer(cfg, svc, logger), ln, logger)
	if err == nil {
		t.Error("serveHTTP() on a closed listener should fail")
	}
}

func TestRun_StdioModeEndsWithContext(t *testing.T) {
	cfg := testConfig(t)
	cfg.Mode = config.ModeStdio

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, logging.Nop())
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run() did not return for a cancelled context")
	}
}

func TestRun_InvalidDirectory(t *testing.T) {
	cfg := testConfig(t)
	cfg.TranscriptDirectory = ""

	if err := run(context.Background(), cfg, logging.Nop()); err == nil {
		t.Error("run() with an empty transcript directory should fail")
	}
}

func TestNewHTTPServer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Host = "0.0.0.0"
	cfg.Port = 9090

	svc, err := service.NewService(cfg.MaxFileSize, cfg.TranscriptDirectory, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	srv := newHTTPServer(cfg, svc, logging.Nop())
	if srv.Addr != "0.0.0.0:9090" {
		t.Errorf("Addr = %s, want 0.0.0.0:9090", srv.Addr)
	}
	if srv.ReadTimeout != cfg.RequestTimeout {
		t.Errorf("ReadTimeout = %s, want %s", srv.ReadTimeout, cfg.RequestTimeout)
	}
	if srv.WriteTimeout <= srv.ReadTimeout {
		t.Errorf("WriteTimeout %s should exceed ReadTimeout %s", srv.WriteTimeout, srv.ReadTimeout)
	}
	if srv.Handler == nil {
		t.Error("Handler not set")
	}
}
