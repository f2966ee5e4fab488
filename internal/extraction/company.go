package extraction

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/pluszkiewicz/przecompany/internal/invoice"
)

// Line offsets inside a company block
const (
	companyNameLine = iota
	companyStreetLine
	companyCityLine
	companyCountryLine
	companyNIPLine
)

// ExtractCompany builds a company from the block starting at start and
// ending (exclusive) at end. An unlocated block yields NotFound; a block
// too short to hold every line is Malformed, never filled from lines of
// a neighbouring block.
func ExtractCompany(lines []string, field string, start, end int, g Grammar) Result[*invoice.Company] {
	if start == NotLocated {
		return notFound[*invoice.Company]()
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start+g.CompanyBlockLines > end {
		return malformed[*invoice.Company](&FieldError{
			Field: field,
			Err:   fmt.Errorf("%w: block at line %d has %d of %d lines", ErrSectionNotFound, start, max(end-start, 0), g.CompanyBlockLines),
		})
	}
	block := lines[start : start+g.CompanyBlockLines]

	cityLine := strings.TrimSpace(block[companyCityLine])
	zipCode, city, ok := cutSpace(cityLine)
	if !ok {
		return malformed[*invoice.Company](&FieldError{
			Field: field + ".address",
			Raw:   block[companyCityLine],
			Err:   fmt.Errorf("%w: expected \"zip city\"", ErrGrammarMismatch),
		})
	}

	nipLine := block[companyNIPLine]
	nipDigits := strings.Replace(stripPDFWhiteSpace(nipLine), strings.TrimSpace(g.NIPPrefix), "", 1)
	nip, err := strconv.ParseInt(strings.TrimSpace(nipDigits), 10, 64)
	if err != nil {
		return malformed[*invoice.Company](&FieldError{
			Field: field + ".nip",
			Raw:   nipLine,
			Err:   fmt.Errorf("%w: %v", ErrNumericFormat, err),
		})
	}

	address := parseStreet(block[companyStreetLine], g)
	address.ZipCode = zipCode
	address.City = city

	return found(&invoice.Company{
		Name:    block[companyNameLine],
		Address: address,
		Country: block[companyCountryLine],
		NIP:     &nip,
	})
}

// parseStreet splits "Main Street 12/3" into street, house and apartment.
// When the line does not match, the whole line is the street name.
func parseStreet(line string, g Grammar) invoice.Address {
	line = strings.TrimSpace(line)
	if line == "" {
		return invoice.Address{}
	}

	m := g.Street.FindStringSubmatch(line)
	if m == nil {
		return invoice.Address{Street: &line}
	}

	addr := invoice.Address{
		Street:      &m[1],
		HouseNumber: &m[2],
	}
	if m[3] != "" {
		addr.ApartmentNumber = &m[3]
	}
	return addr
}

// cutSpace splits s around its first whitespace run.
func cutSpace(s string) (before, after string, ok bool) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, "", false
	}
	after = strings.TrimSpace(s[i:])
	return s[:i], after, after != ""
}
