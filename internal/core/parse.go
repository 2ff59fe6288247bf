// Package core provides the budget catalog, the aggregation model and the
// raw-input normalization boundary.
//
// This file converts raw textual form input into the non-negative integers
// the Aggregator requires. The domain layer never sees raw text.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount normalizes a raw textual amount to a non-negative integer
// number of currency units. Grouping separators (comma, dot, apostrophe,
// space) are stripped; empty or malformed input normalizes to 0. It never
// fails and never returns a negative value.
//
// Examples:
//
//	ParseAmount("1500")   -> 1500
//	ParseAmount("1,500")  -> 1500
//	ParseAmount(" 2.000 ") -> 2000
//	ParseAmount("")       -> 0
//	ParseAmount("-40")    -> 0
//	ParseAmount("12abc")  -> 0
func ParseAmount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ',' || r == '.' || r == '\'' || r == ' ':
			// grouping separator
		default:
			return 0
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatAmount renders an integer amount with dot grouping separators for
// display ("2000" -> "2.000"). Formatting is presentation-only; parsing and
// arithmetic always work on the integer form.
func FormatAmount(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}
	return b.String()
}
