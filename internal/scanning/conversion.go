package scanning

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// ErrUnsupportedContentType is returned for documents that are not PDFs
var ErrUnsupportedContentType = errors.New("unsupported content type")

// Fitz implements the Scanner interface using MuPDF
type Fitz struct{}

// NewFitz creates a new Fitz scanner
func NewFitz() *Fitz {
	return &Fitz{}
}

// ScanLines extracts the text of every page
func (f *Fitz) ScanLines(data []byte, contentType string) ([]string, error) {
	if err := checkContentType(contentType); err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		if errors.Is(err, fitz.ErrNeedsPassword) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return nil, fmt.Errorf("extracting text of page %d: %w", n, err)
		}
		b.WriteString(text)
	}

	return splitLines(b.String()), nil
}

// Close is a no-op; documents are closed after each scan
func (f *Fitz) Close() error {
	return nil
}

// splitLines splits text on line breaks and drops trailing empty lines
func splitLines(text string) []string {
	lines := lineBreak.Split(text, -1)
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// checkContentType rejects anything but PDF documents
func checkContentType(contentType string) error {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType != "application/pdf" {
		return fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return nil
}
