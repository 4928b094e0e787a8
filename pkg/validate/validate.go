// Package validate contains the pure credential checks run before any
// network call is issued. Every function is deterministic and total.
package validate

import (
	"regexp"
	"strings"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email reports whether s looks like a well-formed address: a local part,
// an "@", and a domain containing at least one dot.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Password reports whether s meets the complexity floor: at least 8
// characters with one uppercase letter, one lowercase letter, one digit
// and one punctuation symbol.
func Password(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// Name reports whether the trimmed name is at least 5 characters long.
func Name(s string) bool {
	return len(strings.TrimSpace(s)) >= 5
}

// PasswordsMatch reports whether both inputs are identical and non-empty.
func PasswordsMatch(password, confirmation string) bool {
	return password != "" && password == confirmation
}
