// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between cents and dollar representations.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, an
// optional leading sign, and performs half-up rounding on the third decimal
// place. Negative and zero amounts are accepted: the caller decides what a
// sign means (an overpayment legitimately drives a balance negative).
// Returns an error only for strings that are not numbers at all.
//
// Examples:
//
//	ParseDecimalToCents("12.34")  -> 1234, nil
//	ParseDecimalToCents("12,34")  -> 1234, nil
//	ParseDecimalToCents("-5")     -> -500, nil
//	ParseDecimalToCents("12.346") -> 1235, nil (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	// Split into integer and fractional part
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	// Convert integer part - check for overflow
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64 = 0
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracCents++
				}
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// Dollars returns the dollar value as a float64 for display purposes.
// Note: use cents for calculations to avoid floating-point precision issues.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// Sub returns m minus other.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Add returns m plus other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}
