package service

import (
	"context"
	"fmt"
	"time"

	"github.com/a3tai/mcp-transcript-extractor/internal/intake"
	"github.com/a3tai/mcp-transcript-extractor/internal/transcript"
)

const (
	serverInfoFileLimit = 100
	serverInfoScanLimit = 5 * time.Second
)

// ServerInfo returns server information, the transcripts currently in the
// configured directory and usage guidance. A slow or failing directory scan
// yields empty contents rather than an error.
func (s *Service) ServerInfo(ctx context.Context, serverName, version string) *ServerInfoResult {
	directory := s.pathValidator.GetConfiguredDirectory()

	return &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  directory,
		MaxFileSize:       s.maxFileSize,
		AvailableTools:    availableTools,
		DirectoryContents: s.scanDirectory(ctx, directory),
		SupportedFormats:  intake.AllowedExtensions(),
		OutputFormats:     []string{string(transcript.FormatJSON), string(transcript.FormatYAML)},
		RuleCount:         len(transcript.Rules()),
		UsageGuidance:     s.usageGuidance(),
	}
}

func (s *Service) scanDirectory(ctx context.Context, directory string) []intake.FileInfo {
	ctx, cancel := context.WithTimeout(ctx, serverInfoScanLimit)
	defer cancel()

	resultChan := make(chan []intake.FileInfo, 1)
	go func() {
		result, err := s.search.SearchDirectory(intake.SearchDirectoryRequest{Directory: directory})
		if err != nil {
			resultChan <- nil
			return
		}
		resultChan <- result.Files
	}()

	select {
	case files := <-resultChan:
		if files == nil {
			return []intake.FileInfo{}
		}
		if len(files) > serverInfoFileLimit {
			files = files[:serverInfoFileLimit]
		}
		return files
	case <-ctx.Done():
		s.logger.Warn().Str("directory", directory).Msg("directory scan timed out")
		return []intake.FileInfo{}
	}
}

var availableTools = []ToolInfo{
	{
		Name:        "transcript_extract",
		Description: "Extract car-sales fields from transcript text and .txt/.pdf files",
		Parameters: "text (optional): free transcript text, paths (optional): transcript files, " +
			"format (optional): json or yaml",
	},
	{
		Name:        "transcript_normalize",
		Description: "Show text exactly as the extraction rules see it",
		Parameters:  "text (required): text to normalize",
	},
	{
		Name:        "transcript_pdf_text",
		Description: "Read the text layer of a PDF transcript with per-page diagnostics",
		Parameters:  "path (required): path to the PDF file",
	},
	{
		Name:        "transcript_search_directory",
		Description: "List .txt and .pdf transcripts with optional fuzzy name search",
		Parameters: "directory (optional): directory to search (uses default if empty), " +
			"query (optional): search query for fuzzy matching",
	},
	{
		Name:        "transcript_rules",
		Description: "List the extraction rules and where each result lands",
		Parameters:  "none",
	},
	{
		Name:        "transcript_server_info",
		Description: "Get server information, available tools and transcript files",
		Parameters:  "none",
	},
}

func (s *Service) usageGuidance() string {
	return `Transcript Extractor Usage Guide:

1. FIND TRANSCRIPTS:
   - Use 'transcript_search_directory' to list .txt and .pdf files

2. EXTRACT:
   - Use 'transcript_extract' with 'paths', 'text' or both
   - Files are read in the order given and 'text' is appended last
   - Every field is either the first matching phrase or null

3. DEBUG A MISSING FIELD:
   - Use 'transcript_normalize' to see the lowercased, punctuation-free text
   - Use 'transcript_rules' to see each field's pattern
   - Use 'transcript_pdf_text' to check what a PDF actually contains

IMPORTANT NOTES:
- Paths must be inside ` + s.pathValidator.GetConfiguredDirectory() + `
- The server can handle files up to ` + fmt.Sprintf("%d", s.maxFileSize/(1024*1024)) + `MB
- Scanned PDFs without a text layer yield empty text and a diagnostic`
}
