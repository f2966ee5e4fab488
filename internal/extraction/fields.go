package extraction

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amounts are the invoice totals read from the summary line.
type Amounts struct {
	Netto  decimal.Decimal
	VAT    decimal.Decimal
	Brutto decimal.Decimal
}

// ExtractTitle returns the text following the title marker, untouched.
func ExtractTitle(lines []string, idx int, g Grammar) Result[string] {
	if idx == NotLocated || idx >= len(lines) {
		return notFound[string]()
	}
	line := lines[idx]
	pos := strings.Index(line, g.TitleMarker)
	if pos < 0 {
		return notFound[string]()
	}
	return found(line[pos+len(g.TitleMarker):])
}

// ExtractSettlementDate reads a day-month-year date from the settlement date line.
// A line that does not match leaves the date unset; components that do not
// form a calendar date are an ErrInvalidDate failure.
func ExtractSettlementDate(lines []string, idx int, g Grammar) Result[time.Time] {
	if idx == NotLocated || idx >= len(lines) {
		return notFound[time.Time]()
	}
	line := lines[idx]
	m := g.SettlementDate.FindStringSubmatch(line)
	if m == nil {
		return notFound[time.Time]()
	}

	year, _ := strconv.Atoi(m[6])
	month, _ := strconv.Atoi(m[4])
	day, _ := strconv.Atoi(m[2])

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return malformed[time.Time](&FieldError{
			Field: "settlement_date",
			Raw:   line,
			Err:   fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day),
		})
	}
	return found(date)
}

// ExtractAmounts reads netto, vat and brutto totals from the summary line.
// Either all three are found or none is.
func ExtractAmounts(lines []string, idx int, g Grammar) Result[Amounts] {
	if idx == NotLocated || idx >= len(lines) {
		return notFound[Amounts]()
	}
	line := lines[idx]
	m := g.Amounts.FindStringSubmatch(line)
	if m == nil {
		return notFound[Amounts]()
	}

	var values [3]decimal.Decimal
	for i, raw := range m[2:5] {
		d, err := ParseDecimal(raw)
		if err != nil {
			return malformed[Amounts](&FieldError{Field: "amounts", Raw: line, Err: err})
		}
		values[i] = d
	}

	return found(Amounts{Netto: values[0], VAT: values[1], Brutto: values[2]})
}
