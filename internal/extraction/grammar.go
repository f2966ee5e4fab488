package extraction

import (
	"regexp"
	"strings"
)

// Marker strings of the supported invoice template
const (
	titleMarker          = "Faktura: "
	settlementDateMarker = "Data wystawienia"
	summaryMarker        = "Razem"
	positionsMarker      = "Lp Nazwa"
	sellerMarker         = "Sprzedawca"
	nipPrefix            = "NIP: "

	// pdfWhiteSpace is the no-break space the PDF layout engine pads cells with
	pdfWhiteSpace = "\u00a0"
)

// amountPattern matches a money value with comma decimals and optional
// space or no-break-space thousands grouping, e.g. "1 234,56" or "1234,56".
const amountPattern = `(?:\d{1,3}(?:[ \x{00A0}]\d{3})+|\d+),\d{2}`

// Grammar holds the marker strings, fixed offsets and line patterns of one
// invoice template. Extractors receive a Grammar instead of reading globals,
// so a test can swap any part of it.
type Grammar struct {
	TitleMarker          string
	SettlementDateMarker string
	SummaryMarker        string
	PositionsMarker      string
	SellerMarker         string
	NIPPrefix            string

	// PositionsOffset is the distance from the table header line to the first row.
	PositionsOffset int
	// CompanyBlockLines is the number of lines read for one company.
	CompanyBlockLines int

	// SettlementDate captures day, month and year in groups 2, 4 and 6.
	SettlementDate *regexp.Regexp
	// Amounts captures netto, vat and brutto totals in groups 2, 3 and 4.
	Amounts *regexp.Regexp
	// Street splits a street line into name, house number and apartment.
	Street *regexp.Regexp
	// Position matches one row of the positions table.
	Position *regexp.Regexp
}

var defaultGrammar = newGrammar()

// DefaultGrammar returns the grammar of the supported invoice template.
// Compiled patterns are shared; regexp.Regexp is safe for concurrent use.
func DefaultGrammar() Grammar {
	return defaultGrammar
}

func newGrammar() Grammar {
	return Grammar{
		TitleMarker:          titleMarker,
		SettlementDateMarker: settlementDateMarker,
		SummaryMarker:        summaryMarker,
		PositionsMarker:      positionsMarker,
		SellerMarker:         sellerMarker,
		NIPPrefix:            nipPrefix,
		PositionsOffset:      5,
		CompanyBlockLines:    5,
		SettlementDate: regexp.MustCompile(
			`^(.*` + regexp.QuoteMeta(settlementDateMarker) + `:?[\s\x{00A0}]+)(\d{1,2})(\D)(\d{1,2})(\D)(\d{4})(?:[\s\x{00A0}].*)?$`),
		Amounts: regexp.MustCompile(
			`^(.*` + regexp.QuoteMeta(summaryMarker) + `:?[\s\x{00A0}]+)(` + amountPattern + `)[\s\x{00A0}](` +
				amountPattern + `)[\s\x{00A0}](` + amountPattern + `)[\s\x{00A0}]*$`),
		Street: regexp.MustCompile(`^(.+?)\s+(\d+\w*)(?:/(\w+))?$`),
		Position: regexp.MustCompile(strings.Join([]string{
			`^(?P<ordinal>\d+)`,
			`(?P<name>\D+)`,
			`(?P<quantity>\d+,\d+)`,
			`(?P<unit>[\p{L}\w]+\S?)`,
			`(?P<price>\d+,\d+)`,
			`(?P<vat>\d{1,2})`,
			`%\s*(?P<gtu>\p{L}[\p{L}\w]*)?`,
			`(?P<netto>[0-9 ]+,\d{2})`,
			`(?P<tax>[0-9 ]+,\d{2})`,
			`(?P<brutto>[0-9 ]+,\d{2})$`,
		}, `\s`)),
	}
}

// stripPDFWhiteSpace removes the no-break spaces the layout engine inserts.
func stripPDFWhiteSpace(line string) string {
	return strings.ReplaceAll(line, pdfWhiteSpace, "")
}

// isBlank reports whether a line separates two blocks.
func isBlank(line string) bool {
	return strings.TrimSpace(stripPDFWhiteSpace(line)) == ""
}
