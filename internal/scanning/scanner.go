package scanning

import "fmt"

// Scanner defines the interface for reading the text of invoice documents
type Scanner interface {
	// ScanLines returns the text lines of a document in reading order.
	// Encrypted documents yield no lines and no error.
	ScanLines(data []byte, contentType string) ([]string, error)
	// Close releases resources held by the scanner
	Close() error
}

// Scanner kinds accepted by New
const (
	KindFitz = "fitz"
	KindPDF  = "pdf"
)

// New creates a Scanner of the given kind
func New(kind string) (Scanner, error) {
	switch kind {
	case KindFitz:
		return NewFitz(), nil
	case KindPDF:
		return NewPlainText(), nil
	default:
		return nil, fmt.Errorf("unknown scanner %q, valid: %s or %s", kind, KindFitz, KindPDF)
	}
}
