// Package diagnostics records recoverable problems met while reading
// transcripts. Nothing in here aborts a request; a Collection travels next to
// the extracted text and is handed to the logger and to API responses.
package diagnostics

import (
	"fmt"
)

// Kind categorizes a recovered problem.
type Kind string

const (
	KindDocumentOpen    Kind = "document_open"
	KindPageEmpty       Kind = "page_empty"
	KindPageFailed      Kind = "page_failed"
	KindEncrypted       Kind = "encrypted"
	KindProbeFailed     Kind = "probe_failed"
	KindUnsupportedFile Kind = "unsupported_file"
	KindReadFailed      Kind = "read_failed"
)

// Severity indicates how much of a source was lost.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a string representation of the Severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name in JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Severity returns the default severity for a kind.
func (k Kind) Severity() Severity {
	switch k {
	case KindDocumentOpen, KindReadFailed:
		return SeverityError
	case KindPageEmpty, KindPageFailed, KindEncrypted:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Diagnostic describes one recovered problem. Page is 1-based; zero means the
// problem concerns the whole source.
type Diagnostic struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Source   string   `json:"source,omitempty"`
	Page     int      `json:"page,omitempty"`
	Message  string   `json:"message"`
}

// New creates a diagnostic with the default severity for kind.
func New(kind Kind, message string) *Diagnostic {
	return &Diagnostic{
		Kind:     kind,
		Severity: kind.Severity(),
		Message:  message,
	}
}

// Wrap creates a diagnostic from an error.
func Wrap(kind Kind, err error) *Diagnostic {
	if err == nil {
		return New(kind, "")
	}
	return New(kind, err.Error())
}

// WithSource sets the source name and returns the diagnostic for chaining.
func (d *Diagnostic) WithSource(source string) *Diagnostic {
	d.Source = source
	return d
}

// WithPage sets the page number and returns the diagnostic for chaining.
func (d *Diagnostic) WithPage(page int) *Diagnostic {
	d.Page = page
	return d
}

// Error implements the error interface
func (d *Diagnostic) Error() string {
	switch {
	case d.Source != "" && d.Page > 0:
		return fmt.Sprintf("[%s] %s page %d: %s", d.Kind, d.Source, d.Page, d.Message)
	case d.Source != "":
		return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Source, d.Message)
	case d.Page > 0:
		return fmt.Sprintf("[%s] page %d: %s", d.Kind, d.Page, d.Message)
	default:
		return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
	}
}

// Collection is an ordered list of diagnostics. The zero value is ready to use.
type Collection struct {
	Items []*Diagnostic `json:"items"`
}

// Add appends d.
func (c *Collection) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	c.Items = append(c.Items, d)
}

// AddFor appends d after tagging it with source.
func (c *Collection) AddFor(source string, d *Diagnostic) {
	if d == nil {
		return
	}
	if d.Source == "" {
		d.Source = source
	}
	c.Add(d)
}

// Merge appends every item of other, tagging untagged items with source.
func (c *Collection) Merge(source string, other Collection) {
	for _, d := range other.Items {
		c.AddFor(source, d)
	}
}

// Len returns the number of diagnostics.
func (c *Collection) Len() int {
	return len(c.Items)
}

// Count returns the number of errors and of warnings. Info entries are not counted.
func (c *Collection) Count() (errors, warnings int) {
	for _, d := range c.Items {
		switch d.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// OfKind returns the diagnostics with the given kind.
func (c *Collection) OfKind(kind Kind) []*Diagnostic {
	var out []*Diagnostic
	for _, d := range c.Items {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Summary returns a text summary of all errors and warnings
func (c *Collection) Summary() string {
	errorCount, warningCount := c.Count()
	if errorCount == 0 && warningCount == 0 {
		return "No errors or warnings"
	}
	return fmt.Sprintf("Found %d error(s) and %d warning(s)", errorCount, warningCount)
}
