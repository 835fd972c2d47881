package service

import (
	"github.com/a3tai/mcp-transcript-extractor/internal/diagnostics"
	"github.com/a3tai/mcp-transcript-extractor/internal/intake"
	"github.com/a3tai/mcp-transcript-extractor/internal/transcript"
)

// ExtractRequest carries in-memory sources plus optional free text, which is
// appended after every source. RequestID, when set, tags log lines in place
// of the report ID so they join the caller's request log.
type ExtractRequest struct {
	RequestID string
	Sources   []intake.Source
	Text      string
}

// ExtractFilesRequest names on-disk transcripts inside the configured directory.
type ExtractFilesRequest struct {
	Paths []string `json:"paths"`
	Text  string   `json:"text,omitempty"`
}

// ExtractReport is the outcome of one extraction request.
type ExtractReport struct {
	ID             string                       `json:"id"`
	Result         *transcript.ExtractionResult `json:"result"`
	Matched        int                          `json:"matched"`
	NormalizedText string                       `json:"normalized_text"`
	Sources        []intake.SourceSummary       `json:"sources"`
	Diagnostics    diagnostics.Collection       `json:"diagnostics"`
}

// NormalizeTextRequest represents a request to normalize free text
type NormalizeTextRequest struct {
	Text string `json:"text"`
}

// NormalizeTextResult holds the normalized form of a text
type NormalizeTextResult struct {
	Normalized string `json:"normalized"`
	Characters int    `json:"characters"`
}

// PDFTextRequest represents a request to read the text of one PDF file
type PDFTextRequest struct {
	Path string `json:"path"`
}

// PDFTextResult holds the text layer of a PDF and what went wrong reading it
type PDFTextResult struct {
	Path        string                 `json:"path"`
	Text        string                 `json:"text"`
	Pages       int                    `json:"pages"`
	Version     string                 `json:"version,omitempty"`
	Encrypted   bool                   `json:"encrypted"`
	Characters  int                    `json:"characters"`
	Diagnostics diagnostics.Collection `json:"diagnostics"`
}

// RuleInfo describes one extraction rule.
type RuleInfo struct {
	Field   string `json:"field"`
	Pattern string `json:"pattern"`
	Path    string `json:"path"`
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName        string            `json:"server_name"`
	Version           string            `json:"version"`
	DefaultDirectory  string            `json:"default_directory"`
	MaxFileSize       int64             `json:"max_file_size"`
	AvailableTools    []ToolInfo        `json:"available_tools"`
	DirectoryContents []intake.FileInfo `json:"directory_contents"`
	SupportedFormats  []string          `json:"supported_formats"`
	OutputFormats     []string          `json:"output_formats"`
	RuleCount         int               `json:"rule_count"`
	UsageGuidance     string            `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  string `json:"parameters"`
}
