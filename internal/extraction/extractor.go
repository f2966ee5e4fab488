// Package extraction recovers invoice data from the text lines of a
// fixed-template invoice PDF.
//
// Parsing runs in three steps: Locate finds the anchor sections, one
// extractor per field family reads its section, and Extractor.Extract
// merges the results into an invoice.Invoice. Missing sections leave the
// matching fields unset; only corrupt values (bad numbers, dates, NIP or
// table rows) fail the document.
package extraction

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/pluszkiewicz/przecompany/internal/invoice"
)

// Extractor parses invoice documents. It holds no per-document state and is
// safe for concurrent use.
type Extractor struct {
	grammar Grammar
}

// New creates an Extractor for the default invoice template
func New() *Extractor {
	return NewWithGrammar(DefaultGrammar())
}

// NewWithGrammar creates an Extractor with a custom grammar
func NewWithGrammar(g Grammar) *Extractor {
	return &Extractor{grammar: g}
}

// Extract parses the lines of one document. Every hard failure found is
// joined into the returned error; in that case no invoice is returned.
// An empty line sequence yields an invoice with every field unset.
func (e *Extractor) Extract(lines []string) (*invoice.Invoice, error) {
	g := e.grammar
	sections := Locate(lines, g)

	// Extractors only see the located sections, never each other's output.
	title := ExtractTitle(lines, sections.Title, g)
	date := ExtractSettlementDate(lines, sections.SettlementDate, g)
	amounts := ExtractAmounts(lines, sections.Summary, g)
	seller := ExtractCompany(lines, "seller", sections.SellerStart, sections.SellerEnd(len(lines)), g)
	buyer := ExtractCompany(lines, "buyer", sections.BuyerStart, sections.BuyerEnd(len(lines)), g)
	positions := ExtractPositions(lines, sections.PositionsHeader, g)

	if err := errors.Join(date.Err, amounts.Err, seller.Err, buyer.Err, positions.Err); err != nil {
		return nil, err
	}

	inv := &invoice.Invoice{Positions: []invoice.Position{}}
	if v, ok := title.Get(); ok {
		inv.Title = v
	}
	if v, ok := date.Get(); ok {
		inv.SettlementDate = &v
	}
	if v, ok := amounts.Get(); ok {
		inv.AmountNetto = decimalPtr(v.Netto)
		inv.VAT = decimalPtr(v.VAT)
		inv.AmountBrutto = decimalPtr(v.Brutto)
	}
	if v, ok := seller.Get(); ok {
		inv.Seller = v
	}
	if v, ok := buyer.Get(); ok {
		inv.Buyer = v
	}
	if v, ok := positions.Get(); ok {
		inv.Positions = v
	}

	return inv, nil
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

