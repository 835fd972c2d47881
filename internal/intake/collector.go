package intake

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/a3tai/mcp-transcript-extractor/internal/diagnostics"
	"github.com/a3tai/mcp-transcript-extractor/internal/pdf"
)

// TextExtractor converts PDF bytes to text without failing.
type TextExtractor interface {
	ExtractText(data []byte) (string, diagnostics.Collection)
}

// Prober reads PDF structure. A nil Prober disables probing.
type Prober interface {
	Probe(data []byte) (*pdf.DocumentInfo, error)
}

// Collector concatenates sources into one transcript.
type Collector struct {
	extractor TextExtractor
	prober    Prober
}

// NewCollector creates a collector. prober may be nil.
func NewCollector(extractor TextExtractor, prober Prober) *Collector {
	return &Collector{
		extractor: extractor,
		prober:    prober,
	}
}

// Collect reads every source in order and concatenates their text with no
// separator. Unsupported files are skipped. The only error is a cancelled
// context, checked between sources.
func (c *Collector) Collect(ctx context.Context, sources []Source) (*Collection, error) {
	collection := &Collection{
		Sources: make([]SourceSummary, 0, len(sources)),
	}

	var builder strings.Builder
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collect aborted before %s: %w", src.Name, err)
		}

		summary := SourceSummary{
			Name:  src.Name,
			Kind:  src.Kind,
			Bytes: len(src.Data),
		}

		var text string
		switch {
		case src.Err != nil:
			summary.Skipped = true
			collection.Diagnostics.AddFor(src.Name, diagnostics.Wrap(diagnostics.KindReadFailed, src.Err))
		case src.Kind == KindText, src.Kind == KindTXT:
			text = string(src.Data)
		case src.Kind == KindPDF:
			text, summary.Pages = c.readPDF(src, &collection.Diagnostics)
		default:
			summary.Skipped = true
			collection.Diagnostics.AddFor(src.Name,
				diagnostics.New(diagnostics.KindUnsupportedFile, "file type not accepted, skipped"))
		}

		summary.Characters = utf8.RuneCountInString(text)
		builder.WriteString(text)
		collection.Sources = append(collection.Sources, summary)
	}

	collection.Text = builder.String()
	return collection, nil
}

func (c *Collector) readPDF(src Source, diags *diagnostics.Collection) (string, int) {
	pages := 0
	if c.prober != nil {
		info, err := c.prober.Probe(src.Data)
		switch {
		case err != nil:
			diags.AddFor(src.Name, diagnostics.Wrap(diagnostics.KindProbeFailed, err))
		case info.Encrypted:
			pages = info.Pages
			diags.AddFor(src.Name, diagnostics.New(diagnostics.KindEncrypted, "document is encrypted"))
		default:
			pages = info.Pages
		}
	}

	text, pdfDiags := c.extractor.ExtractText(src.Data)
	diags.Merge(src.Name, pdfDiags)
	return text, pages
}
