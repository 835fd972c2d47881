package intake

import "github.com/a3tai/mcp-transcript-extractor/internal/diagnostics"

// Kind identifies how a source's bytes are turned into text.
type Kind string

const (
	KindText        Kind = "text" // free text typed into a form or tool argument
	KindTXT         Kind = "txt"
	KindPDF         Kind = "pdf"
	KindUnsupported Kind = "unsupported"
)

// Source is one input to a single extraction request.
type Source struct {
	Name string
	Kind Kind
	Data []byte
	Err  error // set when the bytes could not be read; the source is skipped
}

// FileSource builds a Source from an uploaded or on-disk file, deriving its
// kind from the file name.
func FileSource(name string, data []byte) Source {
	return Source{Name: name, Kind: KindOf(name), Data: data}
}

// FailedSource records a file whose contents could not be read.
func FailedSource(name string, err error) Source {
	return Source{Name: name, Kind: KindOf(name), Err: err}
}

// TextSource builds a Source for free text.
func TextSource(name, text string) Source {
	return Source{Name: name, Kind: KindText, Data: []byte(text)}
}

// SourceSummary reports what a source contributed to the combined text.
type SourceSummary struct {
	Name       string `json:"name"`
	Kind       Kind   `json:"kind"`
	Bytes      int    `json:"bytes"`
	Characters int    `json:"characters"`
	Pages      int    `json:"pages,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
}

// Collection is the combined text of every accepted source, in order.
type Collection struct {
	Text        string                 `json:"-"`
	Sources     []SourceSummary        `json:"sources"`
	Diagnostics diagnostics.Collection `json:"diagnostics"`
}

// FileInfo represents information about a transcript file on disk
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Kind         Kind   `json:"kind"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// SearchDirectoryRequest represents a request to list transcript files
type SearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query,omitempty"`
}

// SearchDirectoryResult represents the result of a transcript search operation
type SearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}
