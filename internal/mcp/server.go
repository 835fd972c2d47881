package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/a3tai/mcp-transcript-extractor/internal/config"
	"github.com/a3tai/mcp-transcript-extractor/internal/descriptions"
	"github.com/a3tai/mcp-transcript-extractor/internal/diagnostics"
	"github.com/a3tai/mcp-transcript-extractor/internal/intake"
	"github.com/a3tai/mcp-transcript-extractor/internal/logging"
	"github.com/a3tai/mcp-transcript-extractor/internal/service"
	"github.com/a3tai/mcp-transcript-extractor/internal/transcript"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *service.Service
	mcpServer *server.MCPServer
	logger    *logging.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, svc *service.Service, logger *logging.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if svc == nil {
		return nil, errors.New("service cannot be nil")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:    cfg,
		service:   svc,
		mcpServer: mcpServer,
		logger:    logger.WithOperation("mcp"),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"transcript_extract",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_extract")),
		mcp.WithString("text",
			mcp.Description("Free transcript text, appended after any files"),
		),
		mcp.WithArray("paths",
			mcp.Description("Transcript files (.txt or .pdf) inside the configured directory, read in order"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("format",
			mcp.Description("Output format: json (default) or yaml"),
			mcp.Enum(string(transcript.FormatJSON), string(transcript.FormatYAML)),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtract)

	normalizeTool := mcp.NewTool(
		"transcript_normalize",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_normalize")),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to normalize"),
		),
	)
	s.mcpServer.AddTool(normalizeTool, s.handleNormalize)

	pdfTextTool := mcp.NewTool(
		"transcript_pdf_text",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_pdf_text")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the configured directory"),
		),
	)
	s.mcpServer.AddTool(pdfTextTool, s.handlePDFText)

	searchTool := mcp.NewTool(
		"transcript_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchDirectory)

	rulesTool := mcp.NewTool(
		"transcript_rules",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_rules")),
	)
	s.mcpServer.AddTool(rulesTool, s.handleRules)

	serverInfoTool := mcp.NewTool(
		"transcript_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("transcript_server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	text := ""
	if v, ok := args["text"].(string); ok {
		text = v
	}

	paths, err := stringSlice(args["paths"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	formatName := ""
	if v, ok := args["format"].(string); ok {
		formatName = v
	}
	format, err := transcript.ParseFormat(formatName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.service.ExtractFiles(ctx, service.ExtractFilesRequest{Paths: paths, Text: text})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rendered, err := transcript.Render(report.Result, format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(rendered)),
			mcp.NewTextContent(s.formatExtractSummary(report)),
		},
	}, nil
}

func (s *Server) handleNormalize(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.service.NormalizeText(service.NormalizeTextRequest{Text: text})
	return mcp.NewToolResultText(result.Normalized), nil
}

func (s *Server) handlePDFText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ReadPDFText(service.PDFTextRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatPDFTextResult(result)), nil
}

func (s *Server) handleSearchDirectory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory := s.config.TranscriptDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.service.SearchDirectory(intake.SearchDirectoryRequest{
		Directory: directory,
		Query:     query,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No transcript files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = s.formatSearchDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleRules(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatRules(s.service.Rules())), nil
}

func (s *Server) handleServerInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.service.ServerInfo(ctx, s.config.ServerName, s.config.Version)
	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

// stringSlice accepts a JSON array of strings. A missing value is an empty list.
func stringSlice(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("paths[%d] must be a string", i)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, errors.New("paths must be an array of strings")
	}
}

// Formatting methods
func (s *Server) formatExtractSummary(report *service.ExtractReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report: %s\n", report.ID)
	fmt.Fprintf(&b, "Fields matched: %d\n", report.Matched)

	if len(report.Sources) > 0 {
		b.WriteString("\nSources:\n")
		for i, src := range report.Sources {
			fmt.Fprintf(&b, "%d. %s (%s, %d characters", i+1, src.Name, src.Kind, src.Characters)
			if src.Pages > 0 {
				fmt.Fprintf(&b, ", %d pages", src.Pages)
			}
			if src.Skipped {
				b.WriteString(", skipped")
			}
			b.WriteString(")\n")
		}
	}

	if report.Diagnostics.Len() > 0 {
		fmt.Fprintf(&b, "\nDiagnostics: %s\n", report.Diagnostics.Summary())
		for _, d := range report.Diagnostics.Items {
			fmt.Fprintf(&b, "- [%s] %s\n", d.Severity, d.Error())
		}
	}

	return b.String()
}

func (s *Server) formatPDFTextResult(result *service.PDFTextResult) string {
	text := fmt.Sprintf("PDF: %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	if result.Version != "" {
		text += fmt.Sprintf("Version: %s\n", result.Version)
	}
	text += fmt.Sprintf("Encrypted: %t\n", result.Encrypted)
	text += fmt.Sprintf("Characters: %d\n", result.Characters)

	if empty := result.Diagnostics.OfKind(diagnostics.KindPageEmpty); len(empty) > 0 {
		pages := make([]string, 0, len(empty))
		for _, d := range empty {
			pages = append(pages, strconv.Itoa(d.Page))
		}
		text += fmt.Sprintf("Empty pages: %s\n", strings.Join(pages, ", "))
	}

	if result.Diagnostics.Len() > 0 {
		text += fmt.Sprintf("\nDiagnostics: %s\n", result.Diagnostics.Summary())
		for _, d := range result.Diagnostics.Items {
			text += fmt.Sprintf("- [%s] %s\n", d.Severity, d.Error())
		}
	}

	if result.Characters == 0 {
		text += "\nWARNING: no text layer found. Scanned PDFs need OCR before extraction.\n"
		return text
	}

	text += "\nContent:\n"
	text += result.Text
	return text
}

func (s *Server) formatSearchDirectoryResult(result *intake.SearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d transcript file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Type: %s\n", file.Kind)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatRules(rules []service.RuleInfo) string {
	text := fmt.Sprintf("%d extraction rules, applied to normalized text:\n\n", len(rules))
	for i, rule := range rules {
		text += fmt.Sprintf("%d. %s -> %s\n", i+1, rule.Field, rule.Path)
		text += fmt.Sprintf("   Pattern: %s\n", rule.Pattern)
	}
	return text
}

func (s *Server) formatServerInfoResult(result *service.ServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("Accepted Files: %s\n", strings.Join(result.SupportedFormats, ", "))
	text += fmt.Sprintf("Output Formats: %s\n", strings.Join(result.OutputFormats, ", "))
	text += fmt.Sprintf("Extraction Rules: %d\n\n", result.RuleCount)

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("Directory Contents (%d transcript files found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "Directory Contents: No transcript files found in default directory\n\n"
	}

	text += "Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n- %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance

	return text
}

// Run serves MCP over stdin and stdout until ctx is cancelled or stdin closes.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve serves MCP over the given streams.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Debug().
		Str("directory", s.config.TranscriptDirectory).
		Msg("starting MCP server in stdio mode")

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(s.logger.Writer(zerolog.ErrorLevel), "", 0))

	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// MCPServer exposes the underlying server for in-process transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}
