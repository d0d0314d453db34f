package validator

import (
	"regexp"
	"strings"
)

// DefaultLongSuffix completes an 8 character BIC to the 11 character form.
const DefaultLongSuffix = "XXX"

var bicPattern = regexp.MustCompile(`^[A-Z]{6}[A-Z2-9][A-NP-Z0-9]([A-Z0-9]{3})?$`)

// exceptionalBICs are placeholders accepted in place of a real BIC.
// NOTAVAIL is used in Austria when no BIC is provided.
var exceptionalBICs = map[string]bool{
	"NOTAVAIL": true,
}

// bicCountryExceptions lists, per IBAN country, further BIC countries that
// belong to it (overseas departments and crown dependencies).
var bicCountryExceptions = map[string][]string{
	"FR": {"GF", "GP", "MQ", "RE", "PF", "TF", "YT", "NC", "BL", "MF", "PM", "WF"},
	"GB": {"IM", "GG", "JE"},
}

// BICOptions tune CheckBIC.
type BICOptions struct {
	// AllowEmpty accepts an empty BIC and returns "".
	AllowEmpty bool `json:"allow_empty,omitempty"`
	// ForceLong appends LongSuffix to 8 character BICs.
	ForceLong bool `json:"force_long,omitempty"`
	// LongSuffix defaults to DefaultLongSuffix.
	LongSuffix string `json:"long_suffix,omitempty"`
}

// CheckBIC validates a BIC and returns it without whitespace in upper case.
func CheckBIC(raw string, opts BICOptions) (string, error) {
	bic := stripSpace(raw)

	if opts.ForceLong && len(bic) == 8 {
		suffix := opts.LongSuffix
		if suffix == "" {
			suffix = DefaultLongSuffix
		}
		bic += suffix
	}

	if bic == "" && opts.AllowEmpty {
		return "", nil
	}

	bic = strings.ToUpper(bic)
	if !bicPattern.MatchString(bic) {
		return "", invalid("bic", "malformed BIC")
	}
	return bic, nil
}

// CrossCheckIBANBIC reports whether iban and bic can belong to each other,
// i.e. the BIC country (characters 5 and 6) matches the IBAN country or one
// of its exceptions. Placeholder BICs always match. Neither value is
// validated.
func CrossCheckIBANBIC(iban, bic string) bool {
	if exceptionalBICs[strings.ToUpper(bic)] {
		return true
	}

	ibanCountry := strings.ToUpper(prefix(stripSpace(iban), 2))
	bicCountry := strings.ToUpper(substr(stripSpace(bic), 4, 2))

	if ibanCountry == bicCountry {
		return true
	}
	for _, cc := range bicCountryExceptions[ibanCountry] {
		if cc == bicCountry {
			return true
		}
	}
	return false
}
