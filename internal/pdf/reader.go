package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-transcript-extractor/internal/diagnostics"
)

// Reader turns PDF bytes into plain text. It never fails: documents it cannot
// open produce an empty string and a diagnostic, and unreadable pages are
// skipped.
type Reader struct{}

// NewReader creates a new PDF text reader
func NewReader() *Reader {
	return &Reader{}
}

// ExtractText returns the text of every page in page order, concatenated
// without separators, plus the problems met along the way.
func (r *Reader) ExtractText(data []byte) (string, diagnostics.Collection) {
	var diags diagnostics.Collection

	pdfReader, err := openReader(data)
	if err != nil {
		diags.Add(diagnostics.Wrap(diagnostics.KindDocumentOpen, err))
		return "", diags
	}

	numPages, err := pageCount(pdfReader)
	if err != nil {
		diags.Add(diagnostics.Wrap(diagnostics.KindDocumentOpen, err))
		return "", diags
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		content, err := pageText(pdfReader, pageNum)
		if err != nil {
			diags.Add(diagnostics.Wrap(diagnostics.KindPageFailed, err).WithPage(pageNum))
			continue
		}
		if content == "" {
			diags.Add(diagnostics.New(diagnostics.KindPageEmpty, "no text extracted").WithPage(pageNum))
			continue
		}
		builder.WriteString(content)
	}

	return builder.String(), diags
}

// openReader wraps pdf.NewReader; the parser panics on some malformed input.
func openReader(data []byte) (reader *pdf.Reader, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty PDF content")
	}

	defer func() {
		if rec := recover(); rec != nil {
			reader = nil
			err = fmt.Errorf("failed to open PDF: %v", rec)
		}
	}()

	reader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return reader, nil
}

func pageCount(reader *pdf.Reader) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			n = 0
			err = fmt.Errorf("failed to read page tree: %v", rec)
		}
	}()
	return reader.NumPage(), nil
}

func pageText(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("failed to extract text: %v", rec)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return content, nil
}
