package extraction

import "strings"

// NotLocated marks a section whose marker was not seen.
const NotLocated = -1

// Sections holds line indices of the anchor sections of one document.
// Every field is NotLocated when its marker is absent.
//
// Company blocks follow a fixed template: the seller block starts on the line
// after the seller marker and runs up to the first blank line; the buyer
// block follows that blank line and ends at the next one. Documents laid out
// differently are not supported.
type Sections struct {
	Title           int
	SettlementDate  int
	Summary         int
	PositionsHeader int

	SellerStart int
	// BuyerStart is the first line after the blank line closing the seller block.
	BuyerStart int
	// SectionEnd is the blank line closing the buyer block.
	SectionEnd int
}

// SellerEnd returns the exclusive end of the seller block.
func (s Sections) SellerEnd(total int) int {
	if s.BuyerStart == NotLocated {
		return total
	}
	return s.BuyerStart - 1
}

// BuyerEnd returns the exclusive end of the buyer block.
func (s Sections) BuyerEnd(total int) int {
	if s.SectionEnd == NotLocated {
		return total
	}
	return s.SectionEnd
}

// Locate scans the lines once and records where each section starts.
func Locate(lines []string, g Grammar) Sections {
	s := Sections{
		Title:           NotLocated,
		SettlementDate:  NotLocated,
		Summary:         NotLocated,
		PositionsHeader: NotLocated,
		SellerStart:     NotLocated,
		BuyerStart:      NotLocated,
		SectionEnd:      NotLocated,
	}

	for i, line := range lines {
		firstMatch(&s.Title, i, line, g.TitleMarker)
		firstMatch(&s.SettlementDate, i, line, g.SettlementDateMarker)
		firstMatch(&s.Summary, i, line, g.SummaryMarker)
		firstMatch(&s.PositionsHeader, i, line, g.PositionsMarker)

		if s.SellerStart == NotLocated {
			if strings.Contains(line, g.SellerMarker) {
				s.SellerStart = i + 1
			}
			continue
		}

		if s.SectionEnd != NotLocated || !isBlank(line) {
			continue
		}
		if s.BuyerStart == NotLocated {
			s.BuyerStart = i + 1
		} else {
			s.SectionEnd = i
		}
	}

	return s
}

func firstMatch(idx *int, i int, line, marker string) {
	if *idx == NotLocated && strings.Contains(line, marker) {
		*idx = i
	}
}
