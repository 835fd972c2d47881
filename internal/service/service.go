// Package service runs the transcript extraction pipeline for the MCP and HTTP
// surfaces.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/a3tai/mcp-transcript-extractor/internal/diagnostics"
	"github.com/a3tai/mcp-transcript-extractor/internal/intake"
	"github.com/a3tai/mcp-transcript-extractor/internal/logging"
	"github.com/a3tai/mcp-transcript-extractor/internal/pdf"
	"github.com/a3tai/mcp-transcript-extractor/internal/transcript"
)

// TextSourceName labels free text in source summaries and diagnostics.
const TextSourceName = "textarea_input"

// Service orchestrates intake, PDF reading and field extraction.
type Service struct {
	maxFileSize   int64
	reader        *pdf.Reader
	stats         *pdf.Stats
	collector     *intake.Collector
	validator     *intake.Validator
	search        *intake.Search
	pathValidator *intake.PathValidator
	logger        *logging.Logger
}

// NewService creates a service rooted at configuredDirectory. A nil logger
// discards output.
func NewService(maxFileSize int64, configuredDirectory string, logger *logging.Logger) (*Service, error) {
	pathValidator, err := intake.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	reader := pdf.NewReader()
	stats := pdf.NewStats()

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        reader,
		stats:         stats,
		collector:     intake.NewCollector(reader, stats),
		validator:     intake.NewValidator(maxFileSize),
		search:        intake.NewSearch(maxFileSize),
		pathValidator: pathValidator,
		logger:        logger,
	}, nil
}

// Extract concatenates the sources, then req.Text, normalizes the result and
// runs every rule over it. It fails only when ctx is done.
func (s *Service) Extract(ctx context.Context, req ExtractRequest) (*ExtractReport, error) {
	id := uuid.NewString()
	requestID := req.RequestID
	if requestID == "" {
		requestID = id
	}
	log := s.logger.WithRequest(requestID).WithOperation("extract").With("report_id", id)

	sources := make([]intake.Source, 0, len(req.Sources)+1)
	sources = append(sources, req.Sources...)
	if req.Text != "" {
		sources = append(sources, intake.TextSource(TextSourceName, req.Text))
	}

	collection, err := s.collector.Collect(ctx, sources)
	if err != nil {
		log.Warn().Err(err).Msg("extraction abandoned")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		log.Warn().Err(err).Msg("extraction abandoned")
		return nil, fmt.Errorf("extraction aborted: %w", err)
	}

	for _, d := range collection.Diagnostics.Items {
		logDiagnostic(log, d)
	}

	result, normalized := transcript.ExtractText(collection.Text)
	matched := result.Matched()

	log.Info().
		Int("sources", len(collection.Sources)).
		Int("characters", utf8.RuneCountInString(collection.Text)).
		Int("matched", matched).
		Msg("extraction complete")

	return &ExtractReport{
		ID:             id,
		Result:         result,
		Matched:        matched,
		NormalizedText: normalized,
		Sources:        collection.Sources,
		Diagnostics:    collection.Diagnostics,
	}, nil
}

// ExtractFiles reads transcripts from the configured directory, in the given
// order, and extracts from them plus req.Text.
func (s *Service) ExtractFiles(ctx context.Context, req ExtractFilesRequest) (*ExtractReport, error) {
	sources := make([]intake.Source, 0, len(req.Paths))
	for _, path := range req.Paths {
		data, resolved, err := s.readFile(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, intake.FileSource(filepath.Base(resolved), data))
	}

	return s.Extract(ctx, ExtractRequest{Sources: sources, Text: req.Text})
}

// NormalizeText returns the text exactly as the rules see it.
func (s *Service) NormalizeText(req NormalizeTextRequest) *NormalizeTextResult {
	normalized := transcript.Normalize(req.Text)
	return &NormalizeTextResult{
		Normalized: normalized,
		Characters: utf8.RuneCountInString(normalized),
	}
}

// ReadPDFText returns the text layer of one PDF inside the configured directory.
// Unreadable documents produce empty text and diagnostics, not an error.
func (s *Service) ReadPDFText(req PDFTextRequest) (*PDFTextResult, error) {
	data, resolved, err := s.readFile(req.Path)
	if err != nil {
		return nil, err
	}
	if intake.KindOf(resolved) != intake.KindPDF {
		return nil, fmt.Errorf("not a PDF file: %s", resolved)
	}

	name := filepath.Base(resolved)
	result := &PDFTextResult{Path: resolved}

	if info, err := s.stats.Probe(data); err != nil {
		result.Diagnostics.AddFor(name, diagnostics.Wrap(diagnostics.KindProbeFailed, err))
	} else {
		result.Pages = info.Pages
		result.Version = info.Version
		result.Encrypted = info.Encrypted
	}

	text, diags := s.reader.ExtractText(data)
	result.Diagnostics.Merge(name, diags)
	result.Text = text
	result.Characters = utf8.RuneCountInString(text)

	log := s.logger.WithOperation("pdf_text")
	for _, d := range result.Diagnostics.Items {
		logDiagnostic(log, d)
	}

	return result, nil
}

// SearchDirectory lists transcripts. An empty directory means the configured one.
func (s *Service) SearchDirectory(req intake.SearchDirectoryRequest) (*intake.SearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.search.SearchDirectory(req)
}

// Rules lists the extraction rules in evaluation order.
func (s *Service) Rules() []RuleInfo {
	rules := transcript.Rules()
	infos := make([]RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, RuleInfo{
			Field:   string(rule.Field),
			Pattern: rule.Pattern.String(),
			Path:    rule.Path(),
		})
	}
	return infos
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// GetConfiguredDirectory returns the transcript directory.
func (s *Service) GetConfiguredDirectory() string {
	return s.pathValidator.GetConfiguredDirectory()
}

func (s *Service) readFile(path string) ([]byte, string, error) {
	resolved, err := s.pathValidator.NormalizePath(path)
	if err != nil {
		return nil, "", fmt.Errorf("security validation failed: %w", err)
	}

	if _, err := s.validator.ValidateFile(resolved); err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", resolved, err)
	}
	return data, resolved, nil
}

func logDiagnostic(log *logging.Logger, d *diagnostics.Diagnostic) {
	level := zerolog.DebugLevel
	switch d.Severity {
	case diagnostics.SeverityError:
		level = zerolog.ErrorLevel
	case diagnostics.SeverityWarning:
		level = zerolog.WarnLevel
	case diagnostics.SeverityInfo:
		level = zerolog.InfoLevel
	}

	event := log.WithLevel(level).
		Str("kind", string(d.Kind)).
		Str("source", d.Source)
	if d.Page > 0 {
		event = event.Int("page", d.Page)
	}
	event.Msg(d.Message)
}
