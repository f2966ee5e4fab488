package invoice

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrIDMismatch is returned when an edit targets a different ID than the invoice carries
	ErrIDMismatch = errors.New("id of request and given invoice differ")
	// ErrUnprocessable is returned when a document was read but could not be parsed as an invoice
	ErrUnprocessable = errors.New("document is not a parsable invoice")
)

// LineScanner reads the text lines of a source document
type LineScanner interface {
	ScanLines(data []byte, contentType string) ([]string, error)
}

// Parser builds an invoice from the text lines of a document
type Parser interface {
	Extract(lines []string) (*Invoice, error)
}

// IDGenerator generates unique IDs for invoices
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles invoice operations
type Service struct {
	db          DB
	scanner     LineScanner
	parser      Parser
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with random UUIDs and the wall clock
func NewService(db DB, scanner LineScanner, parser Parser, storage Storage) *Service {
	return NewServiceWithDeps(db, scanner, parser, storage, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner LineScanner, parser Parser, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		parser:      parser,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ScanInvoice stores an uploaded document and parses it. The returned
// invoice carries an ID but is not saved yet.
func (s *Service) ScanInvoice(filename string, data []byte, contentType string) (*Invoice, error) {
	id := s.idGenerator.Generate()

	savedName, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	lines, err := s.scanner.ScanLines(data, contentType)
	if err != nil {
		slog.Error("Failed to read invoice text",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.storage.Delete(savedName)
		return nil, fmt.Errorf("reading invoice text: %w", err)
	}

	inv, err := s.parser.Extract(lines)
	if err != nil {
		slog.Error("Failed to parse invoice",
			"filename", filename,
			"lines", len(lines),
			"error", err,
		)
		s.storage.Delete(savedName)
		return nil, fmt.Errorf("%w: %w", ErrUnprocessable, err)
	}
	if len(lines) == 0 {
		slog.Warn("Invoice document has no text", "filename", filename)
	}

	inv.ID = id
	inv.Filename = savedName
	inv.ContentType = contentType
	return inv, nil
}

// ImportInvoice scans a document and saves the resulting invoice
func (s *Service) ImportInvoice(filename string, data []byte, contentType string) (*Invoice, error) {
	inv, err := s.ScanInvoice(filename, data, contentType)
	if err != nil {
		return nil, err
	}
	if err := s.CreateInvoice(inv); err != nil {
		s.storage.Delete(inv.Filename)
		return nil, err
	}
	return inv, nil
}

// CreateInvoice saves a new invoice, assigning an ID when it has none
func (s *Service) CreateInvoice(inv *Invoice) error {
	now := s.timeSource.Now()
	if inv.ID == "" {
		inv.ID = s.idGenerator.Generate()
	}
	if inv.Positions == nil {
		inv.Positions = []Position{}
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if err := s.db.SaveInvoice(inv); err != nil {
		return fmt.Errorf("saving invoice to database: %w", err)
	}
	return nil
}

// GetInvoice retrieves an invoice by ID
func (s *Service) GetInvoice(id string) (*Invoice, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	return inv, nil
}

// ListInvoices returns all invoices
func (s *Service) ListInvoices() ([]*Invoice, error) {
	invoices, err := s.db.ListInvoices()
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return invoices, nil
}

// GetInvoicesBySettlementDateBetween returns invoices settled between from and to, inclusive
func (s *Service) GetInvoicesBySettlementDateBetween(from, to time.Time) ([]*Invoice, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("date range ends before it starts: %s > %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	invoices, err := s.db.FindInvoicesBySettlementDateBetween(from, to)
	if err != nil {
		return nil, fmt.Errorf("finding invoices: %w", err)
	}
	return invoices, nil
}

// GetInvoicesForMonth returns invoices settled in the given month
func (s *Service) GetInvoicesForMonth(year, month int) ([]*Invoice, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return s.GetInvoicesBySettlementDateBetween(first, last)
}

// EditInvoice replaces a stored invoice. The ID in the path must match the
// invoice; the creation time and source document are kept.
func (s *Service) EditInvoice(id string, inv *Invoice) (*Invoice, error) {
	if !strings.EqualFold(id, inv.ID) {
		return nil, fmt.Errorf("%w: %q != %q", ErrIDMismatch, id, inv.ID)
	}

	// IDs match ignoring case but stored keys are exact; try both spellings.
	existing, err := s.db.GetInvoice(inv.ID)
	if errors.Is(err, ErrNotFound) && id != inv.ID {
		existing, err = s.db.GetInvoice(id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting invoice for update: %w", err)
	}

	updated := *inv
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.Filename = existing.Filename
	updated.ContentType = existing.ContentType
	updated.UpdatedAt = s.timeSource.Now()
	if updated.Positions == nil {
		updated.Positions = []Position{}
	}

	if err := s.db.SaveInvoice(&updated); err != nil {
		return nil, fmt.Errorf("updating invoice: %w", err)
	}
	return &updated, nil
}

// RemoveInvoice deletes an invoice and its source document and returns the removed invoice
func (s *Service) RemoveInvoice(id string) (*Invoice, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, fmt.Errorf("getting invoice for deletion: %w", err)
	}

	if inv.Filename != "" {
		if err := s.storage.Delete(inv.Filename); err != nil {
			// Log error but continue with database deletion
			slog.Warn("Failed to delete file", "filename", inv.Filename, "error", err)
		}
	}

	if err := s.db.DeleteInvoice(id); err != nil {
		return nil, fmt.Errorf("deleting invoice from database: %w", err)
	}
	return inv, nil
}

// GetInvoiceFile retrieves the source document of an invoice
func (s *Service) GetInvoiceFile(id string) ([]byte, string, error) {
	inv, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice: %w", err)
	}
	if inv.Filename == "" {
		return nil, "", fmt.Errorf("invoice %s has no source document", id)
	}

	data, err := s.storage.Get(inv.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice file: %w", err)
	}

	return data, inv.ContentType, nil
}
