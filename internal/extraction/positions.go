package extraction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pluszkiewicz/przecompany/internal/invoice"
)

// ExtractPositions reads the positions table. Rows start PositionsOffset
// lines below the header and end at the first blank line or the end of the
// document. A row that does not match the grammar fails the whole table
// instead of being skipped.
func ExtractPositions(lines []string, header int, g Grammar) Result[[]invoice.Position] {
	if header == NotLocated {
		return notFound[[]invoice.Position]()
	}

	start := header + g.PositionsOffset
	if start >= len(lines) {
		return malformed[[]invoice.Position](&FieldError{
			Field: "positions",
			Err:   fmt.Errorf("%w: table header at line %d has no rows", ErrSectionNotFound, header),
		})
	}

	positions := make([]invoice.Position, 0)
	for i := start; i < len(lines) && !isBlank(lines[i]); i++ {
		p, err := parsePosition(lines[i], g)
		if err != nil {
			return malformed[[]invoice.Position](&FieldError{
				Field: fmt.Sprintf("positions[%d]", len(positions)),
				Raw:   lines[i],
				Err:   err,
			})
		}
		positions = append(positions, p)
	}

	return found(positions)
}

func parsePosition(line string, g Grammar) (invoice.Position, error) {
	re := g.Position
	m := re.FindStringSubmatch(strings.TrimSpace(stripPDFWhiteSpace(line)))
	if m == nil {
		return invoice.Position{}, fmt.Errorf("%w: %w", ErrMalformedRow, ErrGrammarMismatch)
	}
	group := func(name string) string {
		return m[re.SubexpIndex(name)]
	}

	amount, err := ParseQuantity(group("quantity"))
	if err != nil {
		return invoice.Position{}, fmt.Errorf("%w: quantity: %w", ErrMalformedRow, err)
	}
	vatPercent, err := strconv.Atoi(group("vat"))
	if err != nil {
		return invoice.Position{}, fmt.Errorf("%w: vat percent: %w", ErrMalformedRow, err)
	}

	p := invoice.Position{
		Name:       strings.TrimSpace(group("name")),
		Amount:     amount,
		UnitType:   group("unit"),
		VATPercent: vatPercent,
	}
	columns := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"price", &p.UnitPriceNetto},
		{"netto", &p.TotalAmountNetto},
		{"tax", &p.TotalVAT},
		{"brutto", &p.TotalAmountBrutto},
	}
	for _, col := range columns {
		d, err := ParseDecimal(group(col.name))
		if err != nil {
			return invoice.Position{}, fmt.Errorf("%w: %s: %w", ErrMalformedRow, col.name, err)
		}
		*col.dst = d
	}

	if gtu := group("gtu"); gtu != "" {
		p.GTUCode = &gtu
	}
	return p, nil
}
