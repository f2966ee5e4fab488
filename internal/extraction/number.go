package extraction

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	localeNumber = regexp.MustCompile(`^-?\d+(,\d+)?$`)
	maxQuantity  = decimal.NewFromInt(math.MaxInt32)
)

// ParseDecimal converts a number written with a comma decimal separator and
// any whitespace (no-break space included) as thousands grouping into an
// exact decimal, e.g. "1 234,56" -> 1234.56.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	if strings.Count(s, ",") > 1 {
		return decimal.Zero, fmt.Errorf("%w: more than one decimal separator in %q", ErrNumericFormat, raw)
	}
	if !localeNumber.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNumericFormat, raw)
	}

	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrNumericFormat, raw, err)
	}
	return d, nil
}

// ParseQuantity reads a quantity column as an integer. The fractional part
// is dropped, so "2,50" yields 2.
func ParseQuantity(raw string) (int, error) {
	d, err := ParseDecimal(raw)
	if err != nil {
		return 0, err
	}
	if d.Abs().GreaterThan(maxQuantity) {
		return 0, fmt.Errorf("%w: quantity %q out of range", ErrNumericFormat, raw)
	}
	return int(d.IntPart()), nil
}
