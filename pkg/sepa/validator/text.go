package validator

import (
	"regexp"
	"strconv"
	"strings"
)

// Text lengths of the pain schemas.
const (
	TextLengthVeryShort = 35
	TextLengthShort     = 70
	TextLengthLong      = 140
	// TextLengthSignature bounds the electronic signature of a mandate.
	TextLengthSignature = 1025
)

var (
	charsetPattern = regexp.MustCompile(`^[A-Za-z0-9/\-?:().,'+ ]*$`)

	restrictedIDPattern        = regexp.MustCompile(`^[A-Za-z0-9+?/\-:().,'\s]{1,35}$`)
	restrictedIDNoSpacePattern = regexp.MustCompile(`^[A-Za-z0-9+?/\-:().,']{1,35}$`)
)

// CheckText accepts text of at most max bytes drawn from the SEPA character
// set. Empty text is valid here; callers that need a value check for it.
func CheckText(raw string, max int) (string, error) {
	if len(raw) > max {
		return "", invalid("text", "longer than "+strconv.Itoa(max)+" characters")
	}
	if !charsetPattern.MatchString(raw) {
		return "", invalid("text", "character outside the SEPA character set")
	}
	return raw, nil
}

// CheckRestrictedID accepts 1 to 35 characters of the restricted
// identification set, whitespace included (message, payment and instruction
// ids).
func CheckRestrictedID(raw string) (string, error) {
	if !restrictedIDPattern.MatchString(raw) {
		return "", invalid("id", "not a restricted identifier")
	}
	return raw, nil
}

// CheckRestrictedIDNoSpace is CheckRestrictedID without whitespace, as used
// for mandate ids.
func CheckRestrictedIDNoSpace(raw string) (string, error) {
	if !restrictedIDNoSpacePattern.MatchString(raw) {
		return "", invalid("id", "not a restricted identifier without whitespace")
	}
	return raw, nil
}

// CheckBoolean normalizes 1/true/on/yes to "true" and 0/false/off/no or an
// empty string to "false", ignoring case and surrounding whitespace.
func CheckBoolean(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return "true", nil
	case "0", "false", "off", "no", "":
		return "false", nil
	}
	return "", invalid("boolean", "not a boolean")
}
