// Package validator checks single SEPA field values against the pain schema
// rules: IBAN, BIC, creditor identifier, amounts, codes, restricted text and
// dates.
//
// Every check returns the normalized value and a nil error when the input is
// valid. Rejected input yields a *domainerrors.Error with CodeInvalidInput, so
// a valid "false" boolean can never be mistaken for a failure.
package validator

import (
	"strings"
	"unicode"

	dErrors "sepacheck/pkg/domain-errors"
)

func invalid(what, reason string) error {
	return dErrors.New(dErrors.CodeInvalidInput, what+": "+reason)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// prefix returns the first n bytes of s, or s when it is shorter.
func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

// substr returns s[from:from+n] clamped to the bounds of s.
func substr(s string, from, n int) string {
	if from >= len(s) {
		return ""
	}
	return prefix(s[from:], n)
}
