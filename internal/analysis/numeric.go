package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumeric converts a raw table cell into a float. The source
// tables use Brazilian locale formatting with currency and percent
// symbols, e.g. "R$ 1.234,56" or "-12,5%".
//
// Separator handling: when both "." and "," appear, the last occurring
// one is the decimal separator and the other is a thousands separator.
// A lone "," is always the decimal separator. A lone "." is kept as-is.
func ParseNumeric(raw string) (float64, error) {
	cleaned := strings.NewReplacer(
		"R$", "",
		"$", "",
		"%", "",
		" ", "",
		" ", "",
		"\t", "",
	).Replace(strings.TrimSpace(raw))

	if !strings.ContainsAny(cleaned, "0123456789") {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}
	return value, nil
}
