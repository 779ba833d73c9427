// Package isbn finds and validates book identifiers in article text.
package isbn

import (
	"fmt"
	"strings"
	"unicode"
)

// Normalize strips hyphens and whitespace from an ISBN and upcases
// the rest. The normalized form is the canonical key for comparing
// and de-duplicating identifiers.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '-' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// Validate10 reports whether the token is a checksum-valid ISBN-10.
// Hyphens and spaces in the token are ignored.
func Validate10(token string) bool {
	c := Normalize(token)
	if len(c) != 10 {
		return false
	}
	if !allDigits(c[:9]) {
		return false
	}
	if !isDigit(c[9]) && c[9] != 'X' {
		return false
	}

	total := 0
	for i := 0; i < 9; i++ {
		total += int(c[i]-'0') * (10 - i)
	}
	if c[9] == 'X' {
		total += 10
	} else {
		total += int(c[9] - '0')
	}

	return total%11 == 0
}

// Validate13 reports whether the token is a checksum-valid ISBN-13.
// Hyphens and spaces in the token are ignored.
func Validate13(token string) bool {
	c := Normalize(token)
	if len(c) != 13 || !allDigits(c) {
		return false
	}

	total := 0
	for i := 0; i < 12; i++ {
		if i%2 == 0 {
			total += int(c[i] - '0')
		} else {
			total += int(c[i]-'0') * 3
		}
	}
	check := (10 - (total % 10)) % 10

	return int(c[12]-'0') == check
}

// FormatLabel names the format of a normalized identifier for
// reports and the invalid-ISBN dataset.
func FormatLabel(normalized string) string {
	switch len(normalized) {
	case 10:
		return "ISBN-10"
	case 13:
		return "ISBN-13"
	}
	return fmt.Sprintf("Invalid (%d digits)", len(normalized))
}
