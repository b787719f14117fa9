package documents

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxSuffixDigits bounds the numeric suffix of a series number so it stays
// within a bigint.
const MaxSuffixDigits = 18

// FormatNumber renders a series number, zero-padded to three digits.
func FormatNumber(series string, n int64) string {
	return fmt.Sprintf("%s-%03d", series, n)
}

// SeriesPattern matches the numbers that take part in the sequence of series.
// Repositories use it to pick the most recent document.
func SeriesPattern(series string) string {
	return "^" + regexp.QuoteMeta(series+"-") + "[0-9]{1," + strconv.Itoa(MaxSuffixDigits) + "}$"
}

// NextSequenceNumber returns the number following mostRecent in series, or
// the first number of the series when mostRecent is nil. A prior number that
// does not carry a numeric suffix for the series is reported as
// ErrSequenceCorrupt; a suffix that would outgrow MaxSuffixDigits as
// ErrSequenceExhausted.
func NextSequenceNumber(series string, mostRecent *Document) (string, error) {
	if mostRecent == nil {
		return FormatNumber(series, 1), nil
	}
	suffix, ok := strings.CutPrefix(mostRecent.Number, series+"-")
	if !ok {
		return "", fmt.Errorf("%w: %q is not in series %s", ErrSequenceCorrupt, mostRecent.Number, series)
	}
	if !isDigits(suffix) || len(suffix) > MaxSuffixDigits {
		return "", fmt.Errorf("%w: %q", ErrSequenceCorrupt, mostRecent.Number)
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrSequenceCorrupt, mostRecent.Number)
	}
	next := FormatNumber(series, n+1)
	if len(next)-len(series)-1 > MaxSuffixDigits {
		return "", fmt.Errorf("%w: after %q", ErrSequenceExhausted, mostRecent.Number)
	}
	return next, nil
}

// seriesSuffix returns the digits of a number written in the series form,
// whatever their length.
func seriesSuffix(series, number string) (string, bool) {
	suffix, ok := strings.CutPrefix(number, series+"-")
	if !ok || !isDigits(suffix) {
		return "", false
	}
	return suffix, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
