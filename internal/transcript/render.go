package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the textual rendering of an ExtractionResult.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const renderIndent = "    "

// ErrUnsupportedFormat is returned by Render and ParseFormat for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ParseFormat maps a user supplied name to a Format. The empty string selects JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Render serializes result in declared key order with four-space indentation.
// Absent fields are written as explicit nulls.
func Render(result *ExtractionResult, format Format) ([]byte, error) {
	if result == nil {
		result = &ExtractionResult{}
	}

	switch format {
	case FormatJSON, "":
		out, err := json.MarshalIndent(result, "", renderIndent)
		if err != nil {
			return nil, fmt.Errorf("failed to render json: %w", err)
		}
		return out, nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(len(renderIndent))
		if err := enc.Encode(result); err != nil {
			return nil, fmt.Errorf("failed to render yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to render yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ContentType returns the MIME type for format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}
