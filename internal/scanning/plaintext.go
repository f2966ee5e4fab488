package scanning

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PlainText implements the Scanner interface in pure Go, for builds
// without MuPDF. Its line breaks follow the text positions in the content
// stream and may differ from the Fitz layout.
type PlainText struct{}

// NewPlainText creates a new PlainText scanner
func NewPlainText() *PlainText {
	return &PlainText{}
}

// ScanLines extracts the plain text of the document
func (p *PlainText) ScanLines(data []byte, contentType string) ([]string, error) {
	if err := checkContentType(contentType); err != nil {
		return nil, err
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	reader, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extracting PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("reading PDF text: %w", err)
	}

	return splitLines(buf.String()), nil
}

// Close is a no-op
func (p *PlainText) Close() error {
	return nil
}
