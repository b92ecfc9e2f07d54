package statement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var errFormatMismatch = errors.New("cell does not match amount format")

// parseAmount extracts the number a {}-format wraps. Thousands separators are
// dropped before parsing.
func parseAmount(format, cell string) (decimal.Decimal, error) {
	prefix, suffix, _ := strings.Cut(format, "{}")
	cell = strings.TrimSpace(cell)
	if cell == "" || !strings.HasPrefix(cell, prefix) || !strings.HasSuffix(cell, suffix) ||
		len(cell) < len(prefix)+len(suffix) {
		return decimal.Decimal{}, fmt.Errorf("%q with format %q: %w", cell, format, errFormatMismatch)
	}
	inner := cell[len(prefix) : len(cell)-len(suffix)]
	inner = strings.ReplaceAll(inner, ",", "")
	d, err := decimal.NewFromString(strings.TrimSpace(inner))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%q with format %q: %w", cell, format, err)
	}
	return d, nil
}

func formatAmount(format string, v decimal.Decimal) string {
	return strings.Replace(format, "{}", v.StringFixed(2), 1)
}
