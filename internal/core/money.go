// Package core implements the entry ingestion and aggregation rules:
// normalization of raw submissions, time-window filtering, and totals and
// bucket aggregation.
//
// This file contains lenient money parsing. Amounts live as integer cents;
// parsing never fails, it coerces.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseLenientCents converts a decimal amount string to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// performs half-up rounding on the third decimal place. Unlike a strict
// parser, anything that is not a usable non-negative number (empty,
// negative, garbage) coerces to 0. That lenient-numeric policy keeps
// submissions with a bad amount valid instead of rejecting them.
//
// Examples:
//
//	ParseLenientCents("100")    -> 10000
//	ParseLenientCents("12,34")  -> 1234
//	ParseLenientCents("12.346") -> 1235 (rounds up)
//	ParseLenientCents("abc")    -> 0
//	ParseLenientCents("-5")     -> 0
func ParseLenientCents(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if strings.HasPrefix(s, "-") {
		// Negative amounts coerce to zero
		return 0
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0
	}
	// Take the first two fractional digits; half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents
}

// Units returns the value in whole currency units as a float64 for display
// and JSON payloads. Use cents for arithmetic.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}
