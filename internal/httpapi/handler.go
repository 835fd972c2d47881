package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/a3tai/mcp-transcript-extractor/internal/diagnostics"
	"github.com/a3tai/mcp-transcript-extractor/internal/intake"
	"github.com/a3tai/mcp-transcript-extractor/internal/logging"
	"github.com/a3tai/mcp-transcript-extractor/internal/service"
	"github.com/a3tai/mcp-transcript-extractor/internal/transcript"
)

const (
	filesField    = "files"
	textareaField = "textarea_input"
	formatField   = "format"

	// multipartMemory is how much of a multipart body is held in memory
	// before parts spill to temporary files.
	multipartMemory = 32 << 20
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Handler serves the upload form and extraction endpoints.
type Handler struct {
	service *service.Service
	logger  *logging.Logger
	config  RouterConfig
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, logger *logging.Logger, cfg RouterConfig) *Handler {
	return &Handler{
		service: svc,
		logger:  logger,
		config:  cfg,
	}
}

type formPage struct {
	ServiceName string
	Version     string
	Accept      string
	MaxUploadMB int64
}

type resultPage struct {
	ReportID    string
	Matched     int
	Output      string
	Sources     []intake.SourceSummary
	Diagnostics []*diagnostics.Diagnostic
}

// Form handles GET /.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	accept := make([]string, 0, len(intake.AllowedExtensions()))
	for _, ext := range intake.AllowedExtensions() {
		accept = append(accept, "."+ext)
	}

	h.renderHTML(w, r, http.StatusOK, "index.html", formPage{
		ServiceName: h.config.ServiceName,
		Version:     h.config.Version,
		Accept:      strings.Join(accept, ","),
		MaxUploadMB: h.config.MaxUploadSize / (1024 * 1024),
	})
}

// Extract handles POST / and POST /extract. It accepts repeated "files"
// parts and an optional "textarea_input" field.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	if h.config.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	}

	// ParseMultipartForm swallows url-encoded body errors, including the size
	// cap, and reports only ErrNotMultipart.
	if err := r.ParseForm(); err != nil {
		h.writeFormError(w, err)
		return
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.writeFormError(w, err)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	format, err := transcript.ParseFormat(formatName(r))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid format", err.Error())
		return
	}

	report, err := h.service.Extract(r.Context(), service.ExtractRequest{
		RequestID: chimiddleware.GetReqID(r.Context()),
		Sources:   uploadedSources(r),
		Text:      r.FormValue(textareaField),
	})
	if err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		h.writeError(w, status, "extraction aborted", err.Error())
		return
	}

	rendered, err := transcript.Render(report.Result, format)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "render failed", err.Error())
		return
	}

	w.Header().Set("X-Report-ID", report.ID)

	if wantsHTML(r) {
		h.renderHTML(w, r, http.StatusOK, "result.html", resultPage{
			ReportID:    report.ID,
			Matched:     report.Matched,
			Output:      string(rendered),
			Sources:     report.Sources,
			Diagnostics: report.Diagnostics.Items,
		})
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rendered)
}

// Rules handles GET /rules.
func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"rules": h.service.Rules(),
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.config.ServiceName,
		"version": h.config.Version,
	})
}

// uploadedSources reads every "files" part in submission order. Parts with no
// file name are the empty file input of a browser form and are ignored. A part
// that cannot be read becomes a failed source rather than failing the request.
func uploadedSources(r *http.Request) []intake.Source {
	if r.MultipartForm == nil {
		return nil
	}

	headers := r.MultipartForm.File[filesField]
	sources := make([]intake.Source, 0, len(headers))
	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}
		data, err := readPart(fh)
		if err != nil {
			sources = append(sources, intake.FailedSource(fh.Filename, err))
			continue
		}
		sources = append(sources, intake.FileSource(fh.Filename, data))
	}
	return sources
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func formatName(r *http.Request) string {
	if name := r.URL.Query().Get(formatField); name != "" {
		return name
	}
	return r.FormValue(formatField)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func (h *Handler) renderHTML(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf strings.Builder
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.WithRequest(chimiddleware.GetReqID(r.Context())).Error().
			Err(err).Str("template", name).Msg("template render failed")
		h.writeError(w, http.StatusInternalServerError, "render failed", "")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, buf.String())
}

func (h *Handler) writeFormError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.writeError(w, http.StatusRequestEntityTooLarge, "request too large",
			fmt.Sprintf("limit is %d bytes", maxErr.Limit))
		return
	}
	h.writeError(w, http.StatusBadRequest, "invalid form", err.Error())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{
		"error": message,
	}
	if detail != "" {
		resp["details"] = detail
	}
	h.writeJSON(w, status, resp)
}
