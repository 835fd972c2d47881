package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DocumentInfo describes the structure of a PDF without its text.
type DocumentInfo struct {
	Pages     int    `json:"pages"`
	Version   string `json:"version,omitempty"`
	Encrypted bool   `json:"encrypted"`
	Size      int64  `json:"size"`
}

// Stats reads structural information about PDF documents with pdfcpu.
type Stats struct{}

// NewStats creates a new PDF stats analyzer
func NewStats() *Stats {
	return &Stats{}
}

// Probe reads the cross-reference table and page tree of data in relaxed
// validation mode.
func (s *Stats) Probe(data []byte) (info *DocumentInfo, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty PDF content")
	}

	defer func() {
		if rec := recover(); rec != nil {
			info = nil
			err = fmt.Errorf("failed to read PDF context: %v", rec)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	info = &DocumentInfo{
		Pages:     ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
		Size:      int64(len(data)),
	}
	if ctx.HeaderVersion != nil {
		info.Version = ctx.HeaderVersion.String()
	}

	return info, nil
}
