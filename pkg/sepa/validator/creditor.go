package validator

import (
	"regexp"
	"strings"

	"sepacheck/pkg/sepa/checksum"
)

// creditorIDPattern is the restricted person identifier: country code, check
// digits, a three character business code and a national identifier.
var creditorIDPattern = regexp.MustCompile(`^[A-Za-z]{2}[0-9]{2}[A-Za-z0-9+?/\-:().,']{3}[A-Za-z0-9+?/\-:().,']{1,28}$`)

// CheckCreditorIdentifier validates a SEPA creditor identifier and returns
// it without whitespace in upper case. The business code (characters 5 to 7)
// is excluded from the checksum.
func CheckCreditorIdentifier(raw string) (string, error) {
	ci := strings.ToUpper(stripSpace(raw))
	if !creditorIDPattern.MatchString(ci) {
		return "", invalid("ci", "malformed creditor identifier")
	}

	concat := keepAlphanumeric(ci[7:] + ci[:4])
	digits, err := checksum.Expand(concat)
	if err != nil || !checksum.Valid(digits) {
		return "", invalid("ci", "creditor identifier checksum mismatch")
	}
	return ci, nil
}

func keepAlphanumeric(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, s)
}
